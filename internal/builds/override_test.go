package builds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapydo/internal/compose"
	"rapydo/internal/errors"
	"rapydo/internal/testutil"
)

func templatesFor(t *testing.T, images ...string) *Graph {
	t.Helper()
	var services compose.Services
	for i, image := range images {
		services = append(services, built(namePriorities[i], image, "/templates"))
	}
	graph, err := FindTemplates(services, false)
	require.NoError(t, err)
	return graph
}

func TestDockerfileBaseImage(t *testing.T) {
	templates := templatesFor(t, "rapydo/backend:1.0")

	tests := []struct {
		name       string
		dockerfile string
		expected   string
		code       errors.ErrorCode
	}{
		{
			name:       "alias is stripped",
			dockerfile: "FROM rapydo/backend:1.0 AS builder\nRUN make\n",
			expected:   "rapydo/backend:1.0",
		},
		{
			name:       "last stage wins",
			dockerfile: "FROM golang:1.22 AS build\nRUN go build\nFROM rapydo/backend:1.0\nCOPY --from=build /app /app\n",
			expected:   "rapydo/backend:1.0",
		},
		{
			name:       "keyword case and indentation are ignored",
			dockerfile: "  from rapydo/backend:1.0 as builder\n",
			expected:   "rapydo/backend:1.0",
		},
		{
			name:       "image case is kept",
			dockerfile: "FROM Registry.local:5000/Base:1.0\n",
			expected:   "Registry.local:5000/Base:1.0",
		},
		{
			name:       "platform flag is skipped",
			dockerfile: "FROM --platform=linux/amd64 rapydo/backend:1.0 AS final\n",
			expected:   "rapydo/backend:1.0",
		},
		{
			name:       "non template base",
			dockerfile: "FROM python:3.11-slim\n",
			expected:   "python:3.11-slim",
		},
		{
			name:       "unknown template",
			dockerfile: "FROM rapydo/frontend:1.0\n",
			code:       errors.ErrDockerfileParse,
		},
		{
			name:       "no FROM",
			dockerfile: "RUN echo hello\n# from the docs\n",
			code:       errors.ErrDockerfileParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildPath := testutil.WriteDockerfile(t, t.TempDir(), "custom", tt.dockerfile)

			image, err := DockerfileBaseImage(buildPath, templates)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, image)
		})
	}
}

func TestDockerfileBaseImageMissingFile(t *testing.T) {
	_, err := DockerfileBaseImage(t.TempDir(), templatesFor(t))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrDockerfileParse))
	assert.Contains(t, err.Error(), "Build path not found")
}

func TestFindOverrides(t *testing.T) {
	dir := t.TempDir()
	templates := templatesFor(t, "rapydo/backend:1.0", "rapydo/proxy:1.0")

	custom := testutil.WriteDockerfile(t, dir, "custom-backend", "FROM rapydo/backend:1.0 AS builder\n")
	nifi := testutil.WriteDockerfile(t, dir, "nifi", "FROM apache/nifi:1.20\n")

	services := compose.Services{
		// Template services are not parsed, their context has no Dockerfile
		built("backend", "rapydo/backend:1.0", "/does/not/exist"),
		built("backend-custom", "myproj/backend:1.0", custom),
		built("nifi", "myproj/nifi:1.0", nifi),
		prebuilt("redis", "redis:6"),
	}

	overrides, err := FindOverrides(services, templates)
	require.NoError(t, err)
	assert.Equal(t, Overrides{"myproj/backend:1.0": "rapydo/backend:1.0"}, overrides)
}

func TestFindOverridesMissingDockerfile(t *testing.T) {
	services := compose.Services{built("custom", "myproj/custom:1.0", t.TempDir())}

	_, err := FindOverrides(services, templatesFor(t))
	assert.True(t, errors.HasCode(err, errors.ErrDockerfileParse))
}
