// Package main is the entry point for the scribe documentation builder.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/cmd/scribe/commands"
	"go.trai.ch/scribe/internal/app"
	"go.trai.ch/scribe/internal/core/domain"
	_ "go.trai.ch/scribe/internal/wiring"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return exitFailure
	}

	// 2. Interface - CLI
	cli := commands.New(components.App, components.Logger)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			return exitFailure
		}
		components.Logger.Error(err)
		if domain.IsConfigError(err) {
			return exitConfig
		}
		return exitFailure
	}
	return 0
}
