package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content under dir, creating parent directories
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteDockerfile creates <dir>/<context>/Dockerfile and returns the
// build context directory
func WriteDockerfile(t *testing.T, dir, context, content string) string {
	t.Helper()
	WriteFile(t, filepath.Join(dir, context), "Dockerfile", content)
	return filepath.Join(dir, context)
}
