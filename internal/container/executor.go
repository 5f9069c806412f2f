package container

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandExecutor interface for executing commands (allows mocking in tests)
type CommandExecutor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// DefaultCommandExecutor implements CommandExecutor using standard exec
type DefaultCommandExecutor struct{}

func (e *DefaultCommandExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// runDocker executes the docker CLI and returns stdout. On failure the
// returned output holds stderr.
func runDocker(ctx context.Context, executor CommandExecutor, args ...string) ([]byte, string, error) {
	cmd := executor.CommandContext(ctx, "docker", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, stderr.String(), err
	}
	return stdout.Bytes(), stderr.String(), nil
}
