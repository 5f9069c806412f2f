package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"rapydo/internal/compose"
)

// MockProvider is a testify mock of container.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) RenderComposeConfig(ctx context.Context, files []string) (compose.Services, error) {
	args := m.Called(ctx, files)
	if services := args.Get(0); services != nil {
		return services.(compose.Services), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) ImageExists(ctx context.Context, image string) (bool, error) {
	args := m.Called(ctx, image)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) ImageCreationTime(ctx context.Context, image string) (time.Time, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockProvider) ListImages(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if images := args.Get(0); images != nil {
		return images.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockVersionControl is a testify mock of the commit history queries
// used by the obsolescence checks
type MockVersionControl struct {
	mock.Mock
}

func (m *MockVersionControl) Roots() []string {
	args := m.Called()
	if roots := args.Get(0); roots != nil {
		return roots.([]string)
	}
	return nil
}

func (m *MockVersionControl) IsUnderRepo(root, path string) bool {
	args := m.Called(root, path)
	return args.Bool(0)
}

func (m *MockVersionControl) LastCommitTime(ctx context.Context, root, path string) (time.Time, error) {
	args := m.Called(ctx, root, path)
	return args.Get(0).(time.Time), args.Error(1)
}

// FakeHistory is a map-backed version control stub. Files are keyed by
// absolute path; every path under Root belongs to the repository.
type FakeHistory struct {
	Root    string
	Commits map[string]time.Time
	// Queried records the files asked for, in order
	Queried []string
}

func (f *FakeHistory) Roots() []string {
	return []string{f.Root}
}

func (f *FakeHistory) IsUnderRepo(root, path string) bool {
	return root == f.Root && (path == root || strings.HasPrefix(path, root+string(filepath.Separator)))
}

func (f *FakeHistory) LastCommitTime(ctx context.Context, root, path string) (time.Time, error) {
	f.Queried = append(f.Queried, path)
	return f.Commits[path], nil
}
