// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/scribe/internal/core/domain"
)

// ProcessLauncher starts external programs on behalf of a build environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks
type ProcessLauncher interface {
	// Launch runs the command to completion and returns its captured output and exit code.
	// When stream is non-nil, output is also copied to it while the command runs.
	//
	// A non-zero exit code is a normal result and is reported with a nil error.
	// The error is non-nil only when the command could not be executed at all,
	// in which case it wraps domain.ErrExecution.
	Launch(ctx context.Context, cmd domain.Command, stream io.Writer) (domain.CommandResult, error)
}
