package errors

import "fmt"

// Configuration Errors
func MissingConfig(path string) *RapydoError {
	return NewWithDetails(ErrMissingConfig, "Failed to read YAML file",
		fmt.Sprintf("%s: File does not exist", path))
}

func MissingConfigKey(key, path string) *RapydoError {
	return NewWithDetails(ErrMissingConfig, "Project not configured",
		fmt.Sprintf("missing key '%s' in file %s", key, path))
}

func EmptyConfig(path string) *RapydoError {
	return NewWithDetails(ErrMissingConfig, "YAML file is empty", path)
}

func ConfigInvalid(reason string) *RapydoError {
	return NewWithDetails(ErrInvalidConfig, "Invalid configuration", reason)
}

func ValidationFailed(field string, value interface{}, reason string) *RapydoError {
	return NewWithDetails(ErrValidation, fmt.Sprintf("Invalid %s", field),
		fmt.Sprintf("%v: %s", value, reason))
}

func ConfigParseError(path string, cause error) *RapydoError {
	return WrapWithDetails(ErrConfigParse, "Failed to parse YAML file", path, cause)
}

// Compose Errors
func ComposeRenderFailed(files []string, cause error) *RapydoError {
	return WrapWithDetails(ErrComposeRender, "Failed to render compose configuration",
		fmt.Sprintf("Files: %v", files), cause)
}

// Build Errors
func MissingImageName(service string) *RapydoError {
	return NewWithDetails(ErrMissingImage, "Template builds must have a name",
		fmt.Sprintf("missing for %s", service))
}

func DockerfileNotFound(path string) *RapydoError {
	return NewWithDetails(ErrDockerfileParse, "Build path not found", path)
}

func DockerfileNoBase(path string) *RapydoError {
	return NewWithDetails(ErrDockerfileParse, "Invalid Dockerfile, no base image found", path)
}

func DockerfileUnknownTemplate(image, dockerfile string) *RapydoError {
	return NewWithDetails(ErrDockerfileParse,
		fmt.Sprintf("Unable to find %s in this project", image),
		fmt.Sprintf("Please inspect the FROM image in %s", dockerfile))
}

// Git Errors
func UntrackedPath(path string) *RapydoError {
	return NewWithDetails(ErrUntrackedPath, "Unable to find git repo", path)
}

func GitRepoNotFound(path string, cause error) *RapydoError {
	return WrapWithDetails(ErrGitRepoNotFound, "Git repository not found",
		fmt.Sprintf("Path: %s", path), cause)
}

func GitQueryFailed(operation, path string, cause error) *RapydoError {
	return WrapWithDetails(ErrGitQuery, fmt.Sprintf("Failed '%s' operation", operation),
		path, cause)
}

// Image Errors

// ImageUnavailable reports a missing image; action is either "pull" or "build".
func ImageUnavailable(image, service, action string) *RapydoError {
	return NewWithDetails(ErrImageUnavailable,
		fmt.Sprintf("Missing %s image for %s service", image, service),
		fmt.Sprintf("execute rapydo %s", action)).
		WithContext("image", image).
		WithContext("service", service).
		WithContext("action", action)
}

func RegistryUnreachable(host string, cause error) *RapydoError {
	return WrapWithDetails(ErrRegistryUnreachable,
		fmt.Sprintf("Registry %s not reachable", host),
		"You can start it with rapydo run registry", cause)
}

func RegistryAccessDenied(host string) *RapydoError {
	return NewWithDetails(ErrRegistryDenied, "Access denied to registry", host)
}

// Internal Errors
func InternalError(details string, cause error) *RapydoError {
	if cause != nil {
		return WrapWithDetails(ErrInternal, "Internal error", details, cause)
	}
	return NewWithDetails(ErrInternal, "Internal error", details)
}
