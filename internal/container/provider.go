package container

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"rapydo/internal/compose"
	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
	"rapydo/internal/validation"
)

// ImageChecker answers whether an image is available
type ImageChecker interface {
	ImageExists(ctx context.Context, image string) (bool, error)
}

// Provider is the container orchestration backend
type Provider interface {
	ImageChecker

	// RenderComposeConfig merges compose fragments into one service list
	RenderComposeConfig(ctx context.Context, files []string) (compose.Services, error)

	// ImageCreationTime returns the zero time when the image does not exist
	ImageCreationTime(ctx context.Context, image string) (time.Time, error)

	// ListImages returns every local image as repository:tag
	ListImages(ctx context.Context) ([]string, error)
}

// DockerProvider implements Provider on top of the docker CLI
type DockerProvider struct {
	executor CommandExecutor
	created  *lru.Cache[string, time.Time]
}

// NewDockerProvider creates a provider; a nil executor runs the real CLI
func NewDockerProvider(executor CommandExecutor) *DockerProvider {
	if executor == nil {
		executor = &DefaultCommandExecutor{}
	}
	// Only fails on a non-positive size
	cache, _ := lru.New[string, time.Time](constants.ImageCacheSize)
	return &DockerProvider{
		executor: executor,
		created:  cache,
	}
}

// IsAvailable checks if Docker is available on the system
func (p *DockerProvider) IsAvailable(ctx context.Context) bool {
	cmd := p.executor.CommandContext(ctx, "docker", "--version")
	return cmd.Run() == nil
}

// RenderComposeConfig runs "docker compose config" over files, in order
func (p *DockerProvider) RenderComposeConfig(ctx context.Context, files []string) (compose.Services, error) {
	if len(files) == 0 {
		return compose.Services{}, nil
	}

	args := []string{"compose"}
	for _, f := range files {
		args = append(args, "-f", f)
	}
	args = append(args, "config")

	output, stderr, err := runDocker(ctx, p.executor, args...)
	if err != nil {
		containerErr := commandError("compose config", "Failed to render compose configuration", stderr, err)
		logFailure(containerErr, "compose config")
		return nil, errors.ComposeRenderFailed(files, containerErr)
	}

	parsed, err := compose.ParseCompose(output)
	if err != nil {
		return nil, errors.ComposeRenderFailed(files, err)
	}
	logger.WithField("services", len(parsed.Services)).Debug("Rendered compose configuration")
	return parsed.Services, nil
}

// ImageExists checks the local daemon for image
func (p *DockerProvider) ImageExists(ctx context.Context, image string) (bool, error) {
	created, err := p.ImageCreationTime(ctx, image)
	if err != nil {
		return false, err
	}
	return !created.IsZero(), nil
}

// ImageCreationTime inspects image and parses its creation timestamp
func (p *DockerProvider) ImageCreationTime(ctx context.Context, image string) (time.Time, error) {
	if err := validation.ImageReference(image); err != nil {
		return time.Time{}, err
	}
	if created, ok := p.created.Get(image); ok {
		return created, nil
	}

	output, stderr, err := runDocker(ctx, p.executor, "image", "inspect", "--format", "{{.Created}}", image)
	if err != nil {
		containerErr := commandError("image inspect", "Failed to inspect image", stderr, err)
		containerErr.Image = image
		if isNotFound(containerErr) {
			p.created.Add(image, time.Time{})
			return time.Time{}, nil
		}
		return time.Time{}, containerErr
	}

	created, err := ParseImageTimestamp(strings.TrimSpace(string(output)))
	if err != nil {
		return time.Time{}, &ContainerError{
			Type:       ErrorTypeUnknown,
			Operation:  "image inspect",
			Image:      image,
			Message:    "Invalid image creation time",
			Underlying: err,
			Output:     string(output),
		}
	}
	p.created.Add(image, created)
	return created, nil
}

// ListImages returns every local image as repository:tag
func (p *DockerProvider) ListImages(ctx context.Context) ([]string, error) {
	output, stderr, err := runDocker(ctx, p.executor, "image", "ls", "--format", "{{.Repository}}:{{.Tag}}")
	if err != nil {
		containerErr := commandError("image ls", "Failed to list images", stderr, err)
		logFailure(containerErr, "image ls")
		return nil, containerErr
	}

	images := []string{}
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "<none>") {
			continue
		}
		images = append(images, line)
	}
	return images, nil
}

// ParseImageTimestamp parses creation times reported by docker and the
// registry, e.g. 2017-09-22T07:10:35.822772835Z
func ParseImageTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
