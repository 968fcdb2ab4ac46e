package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A very lOng name or Heading", "a-very-long-name-or-heading"},
		{"Hello World", "hello-world"},
		{"already-lower", "already-lower"},
		{"", ""},
		{"A  B", "a--b"},
		{" Trailing ", "-trailing-"},
		{"What's New?", "what's-new?"},
		{"ÄPFEL Und Öl", "äpfel-und-öl"},
		{"tab\there", "tab\there"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ToIdentifier(tt.in))
		})
	}
}

func TestToIdentifier_Idempotent(t *testing.T) {
	for _, in := range []string{"Shopping List", "Made Up", "x Y z"} {
		once := ToIdentifier(in)
		require.Equal(t, once, ToIdentifier(once))
	}
}
