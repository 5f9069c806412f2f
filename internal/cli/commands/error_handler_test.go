package commands

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"rapydo/internal/container"
	rerrors "rapydo/internal/errors"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "image unavailable",
			err:      rerrors.ImageUnavailable("rapydo/backend:2.4", "backend", "pull"),
			contains: []string{"Missing rapydo/backend:2.4 image for backend service", "execute rapydo pull"},
		},
		{
			name:     "missing configuration",
			err:      rerrors.MissingConfigKey("project.title", "project_configuration.yaml"),
			contains: []string{"project_configuration.yaml", "--project"},
		},
		{
			name: "wrapped compose failure",
			err: rerrors.ComposeRenderFailed([]string{"a.yml"},
				container.NewContainerError(container.ErrorTypeComposeError, "compose config", "invalid compose", nil)),
			contains: []string{"invalid compose", "rapydo config show"},
		},
		{
			name:     "container error",
			err:      fmt.Errorf("rendering: %w", container.NewContainerError(container.ErrorTypeRuntimeNotFound, "version", "docker not found", nil)),
			contains: []string{"docker not found", "Ensure Docker is installed"},
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			contains: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := HandleError(tt.err).Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}

	assert.NoError(t, HandleError(nil))
}
