package commands

import (
	"context"

	"rapydo/internal/operations"
)

// ProjectLoader loads the project selected by the global flags, together
// with the operations wired for this invocation
type ProjectLoader func(ctx context.Context) (*operations.ProjectOperations, *operations.Project, error)
