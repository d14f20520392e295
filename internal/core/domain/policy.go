package domain

import "regexp"

// DefaultOutputMarker matches the line a typesetting engine prints after writing a PDF.
// The optional capture group is the name of the written file. It is left empty when the
// engine wraps the line inside the file name.
const DefaultOutputMarker = `Output written on(?: (\S+\.pdf))?`

// Verdict is the interpretation of a CommandResult.
type Verdict struct {
	Passed bool
	// Recovered is set when the command exited non-zero but still counts as passed.
	Recovered bool
}

// SuccessPolicy decides whether a finished command passed.
type SuccessPolicy interface {
	Evaluate(res CommandResult) Verdict
}

// ExitCodePolicy passes a command iff it exited with status 0.
type ExitCodePolicy struct{}

// Evaluate implements SuccessPolicy.
func (ExitCodePolicy) Evaluate(res CommandResult) Verdict {
	return Verdict{Passed: res.ExitCode == 0}
}

// InformationalPolicy always passes. Used for commands whose exit status is advisory.
type InformationalPolicy struct{}

// Evaluate implements SuccessPolicy.
func (InformationalPolicy) Evaluate(res CommandResult) Verdict {
	return Verdict{Passed: true, Recovered: res.ExitCode != 0}
}

// OutputMarkerPolicy passes a command that exited 0, or that exited non-zero while
// printing Marker on stdout. It applies only to stdout; stderr is never inspected.
type OutputMarkerPolicy struct {
	Marker *regexp.Regexp
}

// NewOutputMarkerPolicy compiles expr into an OutputMarkerPolicy.
func NewOutputMarkerPolicy(expr string) (OutputMarkerPolicy, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return OutputMarkerPolicy{}, err
	}
	return OutputMarkerPolicy{Marker: re}, nil
}

// Evaluate implements SuccessPolicy.
func (p OutputMarkerPolicy) Evaluate(res CommandResult) Verdict {
	if res.ExitCode == 0 {
		return Verdict{Passed: true}
	}
	if p.Marker != nil && p.Marker.MatchString(res.Stdout) {
		return Verdict{Passed: true, Recovered: true}
	}
	return Verdict{}
}

// Artifact returns the file name captured by the marker, if any.
func (p OutputMarkerPolicy) Artifact(stdout string) (string, bool) {
	if p.Marker == nil {
		return "", false
	}
	m := p.Marker.FindStringSubmatch(stdout)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}
