package container

import (
	"fmt"
	"strings"

	"rapydo/internal/constants"
)

// ErrorType represents the type of container error
type ErrorType string

const (
	// ErrorTypeRuntimeNotFound indicates the docker CLI or daemon is not available
	ErrorTypeRuntimeNotFound ErrorType = "runtime_not_found"
	// ErrorTypeImageNotFound indicates the image was not found
	ErrorTypeImageNotFound ErrorType = "image_not_found"
	// ErrorTypePermissionDenied indicates a permission error
	ErrorTypePermissionDenied ErrorType = "permission_denied"
	// ErrorTypeNetworkError indicates a network-related error
	ErrorTypeNetworkError ErrorType = "network_error"
	// ErrorTypeComposeError indicates docker compose rejected the configuration
	ErrorTypeComposeError ErrorType = "compose_error"
	// ErrorTypeRegistryError indicates an unexpected registry response
	ErrorTypeRegistryError ErrorType = "registry_error"
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = "unknown"
)

// ContainerError represents a detailed docker operation error
type ContainerError struct {
	Type       ErrorType
	Operation  string
	Image      string
	Message    string
	Underlying error
	Output     string // stdout/stderr from the command
}

// Error implements the error interface
func (e *ContainerError) Error() string {
	parts := []string{e.Message}

	if e.Image != "" {
		parts = append(parts, fmt.Sprintf("image=%s", e.Image))
	}

	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("operation=%s", e.Operation))
	}

	if e.Output != "" {
		// Clean up the output for display
		output := strings.TrimSpace(e.Output)
		if len(output) > constants.MaxOutputLength {
			output = output[:constants.MaxOutputLength] + "..."
		}
		parts = append(parts, fmt.Sprintf("output=%s", output))
	}

	if e.Underlying != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Underlying))
	}

	return strings.Join(parts, ", ")
}

// Unwrap returns the underlying error
func (e *ContainerError) Unwrap() error {
	return e.Underlying
}

// NewContainerError creates a new ContainerError
func NewContainerError(errType ErrorType, operation string, message string, underlying error) *ContainerError {
	return &ContainerError{
		Type:       errType,
		Operation:  operation,
		Message:    message,
		Underlying: underlying,
	}
}

// commandError builds a ContainerError from a failed docker invocation
func commandError(operation, message, output string, err error) *ContainerError {
	return &ContainerError{
		Type:       parseDockerError(output, err),
		Operation:  operation,
		Message:    message,
		Underlying: err,
		Output:     output,
	}
}

// parseDockerError attempts to determine the error type from Docker output
func parseDockerError(output string, err error) ErrorType {
	outputLower := strings.ToLower(output)
	errStr := ""
	if err != nil {
		errStr = strings.ToLower(err.Error())
	}

	combined := outputLower + " " + errStr

	// Check for specific error patterns
	switch {
	case strings.Contains(combined, "no such image") || strings.Contains(combined, "pull access denied"):
		return ErrorTypeImageNotFound
	case strings.Contains(combined, "permission denied") || strings.Contains(combined, "access denied"):
		return ErrorTypePermissionDenied
	case strings.Contains(combined, "cannot connect to the docker daemon") ||
		strings.Contains(combined, "executable file not found"):
		return ErrorTypeRuntimeNotFound
	case strings.Contains(combined, "services.") || strings.Contains(combined, "yaml:") ||
		strings.Contains(combined, "no configuration file"):
		return ErrorTypeComposeError
	case strings.Contains(combined, "network") || strings.Contains(combined, "connection refused"):
		return ErrorTypeNetworkError
	default:
		return ErrorTypeUnknown
	}
}

// isNotFound reports whether a docker error means the image does not exist
func isNotFound(err *ContainerError) bool {
	return err != nil && err.Type == ErrorTypeImageNotFound
}
