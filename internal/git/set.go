package git

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// Set holds the known repositories of a project, in lookup order.
// Repositories are opened lazily, once per root.
type Set struct {
	mu    sync.Mutex
	names []string
	roots map[string]string
	cache *lru.Cache[string, *Repository]
}

// NewSet creates an empty repository set
func NewSet() *Set {
	// Only fails on a non-positive size
	cache, _ := lru.New[string, *Repository](constants.RepositoryCacheSize)
	return &Set{
		roots: make(map[string]string),
		cache: cache,
	}
}

// Add registers a repository root under name. Earlier names take
// precedence when roots are nested.
func (s *Set) Add(name, root string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if _, ok := s.roots[name]; !ok {
		s.names = append(s.names, name)
	}
	s.roots[name] = root
}

// Roots returns the registered roots in lookup order
func (s *Set) Roots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.roots[name])
	}
	return out
}

// Root returns the root registered under name
func (s *Set) Root(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, ok := s.roots[name]
	return root, ok
}

// IsUnderRepo reports whether path lies inside root
func (s *Set) IsUnderRepo(root, path string) bool {
	return isRelativeTo(path, root)
}

// Locate returns the first registered root containing path
func (s *Set) Locate(path string) (string, error) {
	for _, root := range s.Roots() {
		if s.IsUnderRepo(root, path) {
			return root, nil
		}
	}
	return "", errors.UntrackedPath(path)
}

// Open returns the repository at root, opening it on first use
func (s *Set) Open(root string) (*Repository, error) {
	if repo, ok := s.cache.Get(root); ok {
		return repo, nil
	}

	repo, err := Open(root)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logger.Fields{
		"path":   repo.Path,
		"origin": repo.URL,
		"branch": repo.Branch,
	}).Debug("Opened git repository")

	s.cache.Add(root, repo)
	return repo, nil
}

// LastCommitTime returns the time of the last commit touching path in
// the repository rooted at root
func (s *Set) LastCommitTime(ctx context.Context, root, path string) (time.Time, error) {
	repo, err := s.Open(root)
	if err != nil {
		return time.Time{}, err
	}
	return repo.LastCommitTime(ctx, path)
}
