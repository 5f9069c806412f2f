package container

import (
	"errors"

	"rapydo/internal/logger"
)

// LogContainerError logs a container error with structured fields
func LogContainerError(err error, operation string) {
	if err == nil {
		return
	}

	logger.WithFields(errorFields(err, operation)).WithError(err).Error("Container operation failed")
}

// LogContainerWarning logs a container warning with structured fields
func LogContainerWarning(err error, operation string) {
	if err == nil {
		return
	}

	logger.WithFields(errorFields(err, operation)).WithError(err).Warn("Container operation warning")
}

// logFailure logs errors the user can fix as warnings, anything else as
// errors
func logFailure(err error, operation string) {
	if NewErrorHandler().IsRecoverable(err) {
		LogContainerWarning(err, operation)
		return
	}
	LogContainerError(err, operation)
}

func errorFields(err error, operation string) logger.Fields {
	fields := logger.Fields{
		"operation": operation,
	}

	// If it's a ContainerError, extract additional fields
	var containerErr *ContainerError
	if errors.As(err, &containerErr) {
		fields["error_type"] = string(containerErr.Type)
		if containerErr.Image != "" {
			fields["image"] = containerErr.Image
		}
		if containerErr.Output != "" && len(containerErr.Output) < 1000 {
			fields["docker_output"] = containerErr.Output
		}
	}
	return fields
}
