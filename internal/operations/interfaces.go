package operations

import (
	"context"
	"time"

	"rapydo/internal/compose"
)

// ComposeRenderer merges compose fragments into the effective services
type ComposeRenderer interface {
	RenderComposeConfig(ctx context.Context, files []string) (compose.Services, error)
}

// ImageInspector reads the local image store
type ImageInspector interface {
	ListImages(ctx context.Context) ([]string, error)
	ImageCreationTime(ctx context.Context, image string) (time.Time, error)
}

// ImageChecker answers whether an image can be used by a service
type ImageChecker interface {
	ImageExists(ctx context.Context, image string) (bool, error)
}

// VersionControl answers commit-history questions for the obsolescence checks
type VersionControl interface {
	Roots() []string
	IsUnderRepo(root, path string) bool
	LastCommitTime(ctx context.Context, root, path string) (time.Time, error)
}

// Pinger is implemented by image checkers that must be reachable first
type Pinger interface {
	Ping(ctx context.Context) error
}
