package container

import (
	"errors"
	"strings"
)

// ErrorHandler provides user-friendly error messages and recovery suggestions
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// GetUserMessage returns a user-friendly error message with recovery suggestions
func (h *ErrorHandler) GetUserMessage(err error) string {
	var containerErr *ContainerError
	if !errors.As(err, &containerErr) {
		return err.Error()
	}

	var message strings.Builder
	message.WriteString(containerErr.Message)

	// Add specific guidance based on error type
	switch containerErr.Type {
	case ErrorTypeRuntimeNotFound:
		message.WriteString("\n\nPossible solutions:")
		message.WriteString("\n• Ensure Docker is installed: https://docs.docker.com/get-docker/")
		message.WriteString("\n• Check if Docker daemon is running: 'docker ps'")
		message.WriteString("\n• Ensure the compose plugin is installed: 'docker compose version'")

	case ErrorTypeImageNotFound:
		message.WriteString("\n\nPossible solutions:")
		message.WriteString("\n• Pull the core images: 'rapydo pull'")
		message.WriteString("\n• Build the custom images: 'rapydo build'")

	case ErrorTypePermissionDenied:
		message.WriteString("\n\nPossible solutions:")
		message.WriteString("\n• Add your user to the docker group: 'sudo usermod -aG docker $USER'")
		message.WriteString("\n• Log out and back in for group changes to take effect")
		message.WriteString("\n• Verify the registry credentials (REGISTRY_USERNAME, REGISTRY_PASSWORD)")

	case ErrorTypeNetworkError:
		message.WriteString("\n\nNetwork issue detected. Possible solutions:")
		message.WriteString("\n• Check your network connectivity")
		message.WriteString("\n• Start the registry: 'rapydo run registry'")

	case ErrorTypeComposeError:
		message.WriteString("\n\nThe compose configuration is invalid. Possible solutions:")
		message.WriteString("\n• Inspect the composers section of project_configuration.yaml")
		message.WriteString("\n• Print the effective configuration: 'rapydo config show'")
	}

	// Add the actual error output if available and not too long
	if containerErr.Output != "" && containerErr.Type != ErrorTypeUnknown {
		cleaned := strings.TrimSpace(containerErr.Output)
		if len(cleaned) > 0 && len(cleaned) < 500 {
			message.WriteString("\n\nDocker output:\n")
			message.WriteString(cleaned)
		}
	}

	return message.String()
}

// IsRecoverable returns true if the error might be resolved by user action
func (h *ErrorHandler) IsRecoverable(err error) bool {
	var containerErr *ContainerError
	if !errors.As(err, &containerErr) {
		return false
	}

	switch containerErr.Type {
	case ErrorTypeRuntimeNotFound, ErrorTypeImageNotFound,
		ErrorTypePermissionDenied, ErrorTypeNetworkError,
		ErrorTypeComposeError:
		return true
	default:
		return false
	}
}
