package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	repoPath := filepath.Join(t.TempDir(), "site")
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	docs := filepath.Join(repoPath, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("# Docs\n"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(".")
	require.NoError(t, err)
	commit, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return repoPath, commit.String()
}

func TestRevision_DetectsParentRepository(t *testing.T) {
	repoPath, commit := initRepo(t)

	rev, err := Revision(filepath.Join(repoPath, "docs"))
	require.NoError(t, err)
	require.Equal(t, commit, rev)

	head, ok, err := ReadHead(repoPath)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, head.Branch)
	require.Equal(t, commit[:7], head.Short())
}

func TestRevision_NotARepository(t *testing.T) {
	rev, err := Revision(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, rev)
}

func TestRevision_NoCommits(t *testing.T) {
	repoPath := t.TempDir()
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	_, ok, err := ReadHead(repoPath)
	require.NoError(t, err)
	require.False(t, ok)
}
