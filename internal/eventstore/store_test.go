package eventstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBuildID = "build-123"

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndGet(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, testBuildID, TypeBuildStarted, []byte(`{"root":"docs"}`), map[string]string{"k": "v"}))
	require.NoError(t, store.Append(ctx, testBuildID, TypeBuildCompleted, nil, nil))
	require.NoError(t, store.Append(ctx, "other", TypeBuildStarted, nil, nil))

	events, err := store.GetByBuildID(ctx, testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypeBuildStarted, events[0].Type())
	require.Equal(t, testBuildID, events[0].BuildID())
	require.JSONEq(t, `{"root":"docs"}`, string(events[0].Payload()))
	require.Equal(t, map[string]string{"k": "v"}, events[0].Metadata())
	require.JSONEq(t, `{}`, string(events[1].Payload()))
	require.Nil(t, events[1].Metadata())
	require.Less(t, events[0].ID(), events[1].ID())
}

func TestSQLiteStore_GetRange(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return base }
	require.NoError(t, store.Append(ctx, testBuildID, TypeBuildStarted, nil, nil))
	store.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, store.Append(ctx, testBuildID, TypeBuildCompleted, nil, nil))

	events, err := store.GetRange(ctx, base.Add(-time.Minute), base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].Timestamp().Equal(base))

	events, err = store.GetRange(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestSQLiteStore_RecentBuildIDs(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, id, TypeBuildStarted, nil, nil))
	}
	require.NoError(t, store.Append(ctx, "a", TypeBuildCompleted, nil, nil))

	ids, err := store.RecentBuildIDs(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, ids)

	ids, err = store.RecentBuildIDs(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestSQLiteStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), testBuildID, TypeBuildStarted, nil, nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}
