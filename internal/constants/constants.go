// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Version is the controller version compared against project.rapydo
const Version = "2.4"

// Project layout
const (
	// ProjectsDir holds every project of a rapydo repository
	ProjectsDir = "projects"

	// SubmodulesDir holds the framework repositories checked out as submodules
	SubmodulesDir = "submodules"

	// BuildTemplatesRepo is the submodule holding the core Dockerfiles
	BuildTemplatesRepo = "build-templates"

	// ComposeDir is the submodule holding the core compose fragments
	ComposeDir = "compose"

	// ConfsDirName holds the compose fragments of a project or of ComposeDir
	ConfsDirName = "confs"

	// ProjectRCFile is the host-level override file
	ProjectRCFile = ".projectrc"

	// ProjectRCFallback is the legacy name of ProjectRCFile
	ProjectRCFallback = ".project.yml"

	// EnvFile is the project environment file
	EnvFile = ".env"

	// MainRepo identifies the repository holding the current project
	MainRepo = "main"
)

// Images
const (
	// TemplateImagePrefix is the namespace reserved for core template images
	TemplateImagePrefix = "rapydo/"

	// DateFormat renders build and commit timestamps in reports
	DateFormat = "2006-01-02 15:04:05"
)

// Registry
const (
	DefaultRegistryHost     = "localhost"
	DefaultRegistryPort     = 5000
	DefaultRegistryUsername = "admin"

	// RegistryPingTimeout bounds the reachability probe
	RegistryPingTimeout = 1 * time.Second

	// RegistryRequestTimeout bounds a manifest lookup
	RegistryRequestTimeout = 10 * time.Second

	// ManifestV2MediaType is requested when checking a manifest
	ManifestV2MediaType = "application/vnd.docker.distribution.manifest.v2+json"
)

// Logging and output
const (
	// DefaultLogLevel is used when neither flags nor config set one
	DefaultLogLevel = "info"

	// MaxOutputLength is the maximum length for command output before truncation
	MaxOutputLength = 200
)

// File System Permissions
const (
	// DirPermissions is the standard directory permissions for rapydo directories
	DirPermissions = 0755

	// SecureFilePermissions is used for files containing credentials
	SecureFilePermissions = 0600
)

// Caches
const (
	// RepositoryCacheSize bounds the number of opened git repositories
	RepositoryCacheSize = 16

	// ImageCacheSize bounds cached image lookups per invocation
	ImageCacheSize = 1024
)
