// Package domain holds the core types of the build execution environment.
package domain

import (
	"strings"
	"time"
)

// Command describes a single external program invocation.
// No shell interpretation is applied to Program or Args.
type Command struct {
	Program    string
	Args       []string
	WorkingDir string
	// Env is applied on top of the inherited process environment.
	// A PATH entry is prepended to the inherited PATH instead of replacing it.
	Env map[string]string
	// Unset names inherited variables removed before Env is applied.
	Unset []string
}

// NewCommand creates a Command for program and args running in dir.
func NewCommand(dir, program string, args ...string) Command {
	return Command{
		Program:    program,
		Args:       args,
		WorkingDir: dir,
	}
}

// String flattens the command into a single line.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// CommandResult is the raw outcome of a finished process.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRecord is the immutable record of one command run inside a build environment.
// Passed is derived from the result by the SuccessPolicy the command was run with,
// so a non-zero ExitCode does not by itself mean the command failed.
type CommandRecord struct {
	Command   Command
	Stdout    string
	Stderr    string
	ExitCode  int
	Passed    bool
	Recovered bool
	StartedAt time.Time
	Duration  time.Duration
}

// Failed reports whether the command counts as a failure for the build.
func (r CommandRecord) Failed() bool {
	return !r.Passed
}

// Output returns the captured output, stdout first.
func (r CommandRecord) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// String renders the record the way it appears in the build output.
func (r CommandRecord) String() string {
	return r.Command.String() + "\n" + r.Output()
}
