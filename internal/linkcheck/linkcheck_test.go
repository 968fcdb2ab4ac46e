package linkcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestExtract(t *testing.T) {
	links, err := Extract(strings.NewReader(`<html><head>
<link rel="stylesheet" href="made-up.css"><script src="highlight.js"></script>
</head><body><a href="a.html">A</a><a>none</a><img src="images/x.png" alt="x"></body></html>`))
	require.NoError(t, err)
	require.Equal(t, []Link{
		{Target: "made-up.css", Tag: "link", Attribute: "href"},
		{Target: "highlight.js", Tag: "script", Attribute: "src"},
		{Target: "a.html", Tag: "a", Attribute: "href"},
		{Target: "images/x.png", Tag: "img", Attribute: "src"},
	}, links)
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		page, ref string
		want      string
		ok        bool
	}{
		{"index.html", "a.html", "a.html", true},
		{"sub/page.html", "../made-up.css", "made-up.css", true},
		{"sub/page.html", "other.html#frag", "sub/other.html", true},
		{"index.html", "#top", "", false},
		{"index.html", "?q=1", "", false},
		{"index.html", "https://example.com/x", "", false},
		{"index.html", "//cdn.example.com/x.js", "", false},
		{"index.html", "mailto:me@example.com", "", false},
		{"index.html", "/abs.html", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := localTarget(tt.page, tt.ref)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheck(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "made-up.css", "")
	writeFile(t, out, "index.html", `<link href="made-up.css"><a href="a.html">a</a><a href="missing.html">m</a><a href="https://example.com">x</a>`)
	writeFile(t, out, "a.html", `<a href="index.html#top">home</a>`)
	writeFile(t, out, "sub/b.html", `<link href="../made-up.css"><img src="../images/gone.png"><a href="#s">s</a>`)

	broken, err := Check(out)
	require.NoError(t, err)
	require.Equal(t, []BrokenLink{
		{Page: "index.html", Target: "missing.html", Tag: "a"},
		{Page: "sub/b.html", Target: "../images/gone.png", Tag: "img"},
	}, broken)
}

func TestCheck_MissingDir(t *testing.T) {
	_, err := Check(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
