// Package git reads the revision of the repository a site lives in.
package git

import (
	"errors"

	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const shortHashLen = 7

// Head describes the checked out commit.
type Head struct {
	Hash string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Short returns the abbreviated commit hash.
func (h Head) Short() string {
	if len(h.Hash) <= shortHashLen {
		return h.Hash
	}
	return h.Hash[:shortHashLen]
}

// ReadHead opens the repository containing dir, searching parent
// directories, and returns its HEAD. ok is false when dir is not inside a
// repository or the repository has no commits yet.
func ReadHead(dir string) (head Head, ok bool, err error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Head{}, false, nil
		}
		return Head{}, false, derrors.GitError(dir, err)
	}

	ref, err := repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Head{}, false, nil
		}
		return Head{}, false, derrors.GitError(dir, err)
	}

	head = Head{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, true, nil
}

// Revision returns the HEAD commit hash of the repository containing dir,
// or "" when there is none.
func Revision(dir string) (string, error) {
	head, ok, err := ReadHead(dir)
	if err != nil || !ok {
		return "", err
	}
	return head.Hash, nil
}
