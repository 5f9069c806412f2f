package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapydo/internal/errors"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	path string
	repo *git.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	path := t.TempDir()
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)
	return &testRepo{t: t, path: path, repo: repo}
}

// commit writes files and commits them at the given time
func (r *testRepo) commit(when time.Time, files map[string]string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)

	for name, content := range files {
		full := filepath.Join(r.path, name)
		require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(r.t, os.WriteFile(full, []byte(content), 0644))
		_, err := wt.Add(filepath.ToSlash(name))
		require.NoError(r.t, err)
	}

	sig := &object.Signature{Name: "dev", Email: "dev@example.com", When: when}
	_, err = wt.Commit("update", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
}

func TestOpen(t *testing.T) {
	r := newTestRepo(t)
	r.commit(epoch, map[string]string{"README.md": "hello"})
	_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/rapydo/core.git"},
	})
	require.NoError(t, err)

	repo, err := Open(r.path)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/rapydo/core.git", repo.URL)
	assert.Equal(t, "master", repo.Branch)
	assert.True(t, repo.Contains(filepath.Join(r.path, "README.md")))
	assert.False(t, repo.Contains(filepath.Dir(r.path)))
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrGitRepoNotFound))
}

func TestLastCommitTime(t *testing.T) {
	r := newTestRepo(t)
	r.commit(epoch, map[string]string{"a.txt": "1", "dir/b.txt": "1"})
	r.commit(epoch.Add(time.Hour), map[string]string{"dir/b.txt": "2"})
	r.commit(epoch.Add(2*time.Hour), map[string]string{"c.txt": "1"})

	repo, err := Open(r.path)
	require.NoError(t, err)
	ctx := context.Background()

	when, err := repo.LastCommitTime(ctx, filepath.Join(r.path, "a.txt"))
	require.NoError(t, err)
	assert.True(t, epoch.Equal(when), "got %s", when)

	when, err = repo.LastCommitTime(ctx, filepath.Join(r.path, "dir", "b.txt"))
	require.NoError(t, err)
	assert.True(t, epoch.Add(time.Hour).Equal(when), "got %s", when)
}

func TestLastCommitTimeErrors(t *testing.T) {
	r := newTestRepo(t)
	r.commit(epoch, map[string]string{"a.txt": "1"})
	require.NoError(t, os.WriteFile(filepath.Join(r.path, "untracked.txt"), []byte("x"), 0644))

	repo, err := Open(r.path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.LastCommitTime(ctx, filepath.Join(r.path, "untracked.txt"))
	assert.True(t, errors.HasCode(err, errors.ErrGitQuery))

	_, err = repo.LastCommitTime(ctx, filepath.Join(t.TempDir(), "outside.txt"))
	assert.True(t, errors.HasCode(err, errors.ErrUntrackedPath))
}

func TestSet(t *testing.T) {
	templates := newTestRepo(t)
	templates.commit(epoch, map[string]string{"backend/Dockerfile": "FROM python"})
	project := newTestRepo(t)
	project.commit(epoch.Add(time.Minute), map[string]string{"builds/custom/Dockerfile": "FROM rapydo/backend"})

	set := NewSet()
	set.Add("build-templates", templates.path)
	set.Add("main", project.path)

	assert.Equal(t, []string{templates.path, project.path}, set.Roots())
	root, ok := set.Root("main")
	assert.True(t, ok)
	assert.Equal(t, project.path, root)

	located, err := set.Locate(filepath.Join(project.path, "builds", "custom", "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, project.path, located)

	_, err = set.Locate(t.TempDir())
	assert.True(t, errors.HasCode(err, errors.ErrUntrackedPath))

	when, err := set.LastCommitTime(context.Background(), project.path,
		filepath.Join(project.path, "builds", "custom", "Dockerfile"))
	require.NoError(t, err)
	assert.True(t, epoch.Add(time.Minute).Equal(when))

	first, err := set.Open(templates.path)
	require.NoError(t, err)
	second, err := set.Open(templates.path)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestIsUnderRepo(t *testing.T) {
	set := NewSet()
	tests := []struct {
		root, path string
		expected   bool
	}{
		{"/repo", "/repo", true},
		{"/repo", "/repo/a/b", true},
		{"/repo", "/repository/a", false},
		{"/repo", "/", false},
		{"/repo/sub", "/repo/other", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, set.IsUnderRepo(tt.root, tt.path), "%s in %s", tt.path, tt.root)
	}
}
