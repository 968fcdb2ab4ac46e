package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "error with context",
			err:      RenderFailed("guide/intro.md", fmt.Errorf("boom")),
			expected: "render (fatal): document render failed [document=guide/intro.md]: boom",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := New(CategoryGit, SeverityWarning, "open failed").
		WithContext("path", "/src").
		WithContext("branch", "main")

	require.Equal(t, "/src", err.Context["path"])
	require.Equal(t, "main", err.Context["branch"])
}

func TestIsCategory_FollowsWrapChain(t *testing.T) {
	configErr := ConfigNotFound("/site/mdup.yml")
	wrapped := fmt.Errorf("load: %w", configErr)

	require.True(t, IsCategory(configErr, CategoryConfig))
	require.True(t, IsCategory(wrapped, CategoryConfig))
	require.False(t, IsCategory(wrapped, CategoryGit))
	require.False(t, IsCategory(fmt.Errorf("standard error"), CategoryConfig))
	require.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
}

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(NotifyFailed("nats://x", fmt.Errorf("timeout"))))
	require.False(t, IsRetryable(New(CategoryConfig, SeverityFatal, "invalid")))
	require.False(t, IsRetryable(fmt.Errorf("standard error")))
}

func TestRenderFailed_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("unimplemented markup construct")
	err := RenderFailed("a.md", cause)
	require.Equal(t, CategoryRender, err.Category)
	require.True(t, stdErrors.Is(err, cause))
}

func TestValidationFailed(t *testing.T) {
	err := ValidationFailed("index_template", "file does not exist")
	require.Equal(t, CategoryValidation, err.Category)
	require.Equal(t, "index_template", err.Context["field"])
	require.Equal(t, "file does not exist", err.Context["reason"])
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("x", "y"), 2},
		{ConfigNotFound("p"), 7},
		{GitError("p", fmt.Errorf("x")), 8},
		{NotifyFailed("u", fmt.Errorf("x")), 8},
		{InternalError("x", nil), 10},
		{RenderFailed("a.md", fmt.Errorf("x")), 11},
		{fmt.Errorf("wrapped: %w", TemplateFailed("page", fmt.Errorf("x"))), 11},
		{New(CategoryRuntime, SeverityError, "x"), 12},
	}
	for _, tt := range tests {
		require.Equal(t, tt.code, a.ExitCodeFor(tt.err), "%v", tt.err)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	a.out = &out
	var code int
	a.exit = func(c int) { code = c }

	a.HandleError(ConfigNotFound("/site/mdup.yml"))
	require.Equal(t, 7, code)
	require.Equal(t, "configuration file not found\n", out.String())
	require.Empty(t, logs.String())

	out.Reset()
	a.HandleError(InternalError("unexpected", fmt.Errorf("nil map")))
	require.Equal(t, 10, code)
	require.Equal(t, "internal: unexpected: nil map\n", out.String())
	require.Contains(t, logs.String(), "category=internal")
}
