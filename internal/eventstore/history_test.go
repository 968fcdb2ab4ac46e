package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecorderAndRecent(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	ok := NewRecorder(store, "ok")
	require.NoError(t, ok.BuildStarted(ctx, BuildStarted{Root: "docs", OutDir: "out", Revision: "abc123"}))
	require.NoError(t, ok.DocumentRendered(ctx, DocumentRendered{Path: "a.md", Output: "a.html"}))
	require.NoError(t, ok.DocumentRendered(ctx, DocumentRendered{Path: "b.md", Output: "b.html", Diagnostics: 1}))
	require.NoError(t, ok.BuildCompleted(ctx, BuildCompleted{Pages: 3, Diagnostics: 1, Duration: 2 * time.Second}))

	bad := NewRecorder(store, "bad")
	require.NoError(t, bad.BuildStarted(ctx, BuildStarted{Root: "docs"}))
	require.NoError(t, bad.BuildFailed(ctx, BuildFailed{Stage: "render", Error: "boom"}))

	running := NewRecorder(store, "running")
	require.NoError(t, running.BuildStarted(ctx, BuildStarted{Root: "docs"}))

	summaries, err := Recent(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	require.Equal(t, "running", summaries[0].BuildID)
	require.Equal(t, StatusRunning, summaries[0].Status)
	require.Nil(t, summaries[0].CompletedAt)

	require.Equal(t, StatusFailed, summaries[1].Status)
	require.Equal(t, "render", summaries[1].ErrorStage)
	require.Equal(t, "boom", summaries[1].ErrorMessage)

	s := summaries[2]
	require.Equal(t, StatusCompleted, s.Status)
	require.Equal(t, "abc123", s.Revision)
	require.Equal(t, 2, s.Documents)
	require.Equal(t, 3, s.Pages)
	require.Equal(t, 1, s.Diagnostics)
	require.Equal(t, 2*time.Second, s.Duration)
	require.NotNil(t, s.CompletedAt)
}

func TestRecorder_NilStore(t *testing.T) {
	r := NewRecorder(nil, "x")
	require.NoError(t, r.BuildStarted(t.Context(), BuildStarted{}))
	var nilRecorder *Recorder
	require.NoError(t, nilRecorder.BuildCompleted(t.Context(), BuildCompleted{}))
}

func TestSummarize_Empty(t *testing.T) {
	require.Nil(t, Summarize(nil))
}
