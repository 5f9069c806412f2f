package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"rapydo/internal/errors"
)

// Repository is a read-only handle on a local git repository
type Repository struct {
	Path   string
	URL    string
	Branch string

	repo *git.Repository
}

// Open opens the repository whose working tree is path
func Open(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.GitRepoNotFound(path, err)
	}

	repo, err := git.PlainOpen(absPath)
	if err != nil {
		return nil, errors.GitRepoNotFound(absPath, err)
	}

	r := &Repository{Path: absPath, repo: repo}

	remote, err := repo.Remote("origin")
	if err == nil && len(remote.Config().URLs) > 0 {
		r.URL = remote.Config().URLs[0]
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		r.Branch = head.Name().Short()
	}

	return r, nil
}

// Contains reports whether path lies inside the working tree
func (r *Repository) Contains(path string) bool {
	return isRelativeTo(path, r.Path)
}

// LastCommitTime returns the committer time of the most recent commit
// on HEAD that touched file
func (r *Repository) LastCommitTime(ctx context.Context, file string) (time.Time, error) {
	absFile, err := filepath.Abs(file)
	if err != nil {
		return time.Time{}, errors.GitQueryFailed("log", file, err)
	}
	rel, err := filepath.Rel(r.Path, absFile)
	if err != nil || !r.Contains(absFile) {
		return time.Time{}, errors.UntrackedPath(file)
	}
	rel = filepath.ToSlash(rel)

	head, err := r.repo.Head()
	if err != nil {
		return time.Time{}, errors.GitQueryFailed("log", file, err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:     head.Hash(),
		Order:    git.LogOrderCommitterTime,
		FileName: &rel,
	})
	if err != nil {
		return time.Time{}, errors.GitQueryFailed("log", file, err)
	}
	defer iter.Close()

	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, errors.GitQueryFailed("log", file,
			fmt.Errorf("no commit found on HEAD for %s", rel))
	}
	return commit.Committer.When, nil
}

func isRelativeTo(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
