package domain

import "strings"

// BuildStatus is the terminal state of a build environment.
type BuildStatus string

const (
	// StatusUndetermined is the state of an environment whose scope has not closed yet.
	StatusUndetermined BuildStatus = "undetermined"
	// StatusSuccessful indicates every command passed and no error escaped the scope.
	StatusSuccessful BuildStatus = "successful"
	// StatusFailed indicates a command failed or an error escaped the scope.
	StatusFailed BuildStatus = "failed"
)

// IsTerminal reports whether the status is final.
func (s BuildStatus) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

// NormalizeBuildStatus converts a string to a BuildStatus, defaulting to undetermined if unknown.
func NormalizeBuildStatus(s string) BuildStatus {
	switch strings.ToLower(s) {
	case string(StatusSuccessful):
		return StatusSuccessful
	case string(StatusFailed):
		return StatusFailed
	default:
		return StatusUndetermined
	}
}
