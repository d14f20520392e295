package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrExecution is returned when a command could not be executed at all: the program is
	// missing, the working directory does not exist, or its output streams could not be read.
	ErrExecution = zerr.New("command execution error")

	// ErrCommandFailed is returned by strict runs when a command finished but did not pass.
	ErrCommandFailed = zerr.New("command failed")

	// ErrBuildWarning marks a condition that ends a build scope early without failing it.
	ErrBuildWarning = zerr.New("build warning")

	// ErrBuildFailed is returned when at least one build finished with a failed status.
	ErrBuildFailed = zerr.New("build failed")

	// ErrEnvironmentReused is returned when a build environment is entered more than once.
	ErrEnvironmentReused = zerr.New("build environment cannot be reused")

	// ErrEnvironmentNotOpen is returned when a command is run outside an open environment scope.
	ErrEnvironmentNotOpen = zerr.New("build environment is not open")

	// ErrUnknownVariant is returned when no builder variant exists for a documentation type.
	ErrUnknownVariant = zerr.New("unknown builder variant")

	// ErrUnknownDocumentationType is returned when a project declares an unsupported documentation type.
	ErrUnknownDocumentationType = zerr.New("unknown documentation type")

	// ErrMissingPath is returned when a required project directory is not configured.
	ErrMissingPath = zerr.New("missing required path")

	// ErrInvalidProject is returned when a project definition fails validation.
	ErrInvalidProject = zerr.New("invalid project definition")

	// ErrDuplicateProject is returned when two projects share the same slug.
	ErrDuplicateProject = zerr.New("duplicate project slug")

	// ErrSharedOutputDir is returned when two projects resolve to the same output directory.
	ErrSharedOutputDir = zerr.New("output directory shared by projects")

	// ErrInvalidOutputMarker is returned when the configured output marker is not a valid expression.
	ErrInvalidOutputMarker = zerr.New("invalid output marker")

	// ErrConfigRead is returned when the configuration file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when the configuration file cannot be parsed.
	ErrConfigParse = zerr.New("failed to parse config file")

	// ErrProjectNotFound is returned when a requested project is not part of the catalog.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrVersionNotFound is returned when a requested version is not configured for a project.
	ErrVersionNotFound = zerr.New("version not found")

	// ErrRecordNotFound is returned when no build record exists for a project version.
	ErrRecordNotFound = zerr.New("build record not found")

	// ErrStoreReadFailed is returned when the build record store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build record store")

	// ErrStoreWriteFailed is returned when the build record store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build record store")
)

// IsConfigError reports whether err belongs to the configuration error class.
// Configuration errors are raised before any subprocess is spawned and are never retried.
func IsConfigError(err error) bool {
	for _, target := range []error{
		ErrUnknownVariant,
		ErrUnknownDocumentationType,
		ErrMissingPath,
		ErrInvalidProject,
		ErrDuplicateProject,
		ErrSharedOutputDir,
		ErrInvalidOutputMarker,
		ErrConfigRead,
		ErrConfigParse,
		ErrProjectNotFound,
		ErrVersionNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
