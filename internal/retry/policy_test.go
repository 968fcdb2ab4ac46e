package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, Exponential, p.Mode)
	require.Equal(t, 200*time.Millisecond, p.Initial)
	require.Equal(t, 5*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicyClampsInitial(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, Fixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)
}

func TestNewPolicyUnknownMode(t *testing.T) {
	p := NewPolicy("weird", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), p)
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		mode Mode
		n    int
		want time.Duration
	}{
		{Fixed, 3, 100 * ms},
		{Linear, 1, 100 * ms},
		{Linear, 2, 200 * ms},
		{Linear, 3, 250 * ms},
		{Exponential, 1, 100 * ms},
		{Exponential, 2, 200 * ms},
		{Exponential, 3, 250 * ms},
		{Exponential, 80, 250 * ms},
		{Linear, 0, 0},
		{Linear, -1, 0},
	}
	for _, tt := range tests {
		p := NewPolicy(tt.mode, 100*ms, 250*ms, 3)
		require.Equal(t, tt.want, p.Delay(tt.n), "%s attempt %d", tt.mode, tt.n)
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	err := Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate()
	require.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestDoRetriesRetryable(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return derrors.NotifyFailed("nats://x", errors.New("down"))
	})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 5)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoSucceedsAfterRetry(t *testing.T) {
	p := NewPolicy(Linear, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return derrors.NotifyFailed("nats://x", errors.New("down"))
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestDoCanceled(t *testing.T) {
	p := NewPolicy(Fixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return derrors.NotifyFailed("nats://x", errors.New("down"))
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
