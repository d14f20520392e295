package domain

import (
	"strings"
	"time"
)

// BuildRecord is the persisted summary of a build.
type BuildRecord struct {
	ID        string            `json:"id,omitzero"`
	Project   string            `json:"project,omitzero"`
	Version   string            `json:"version,omitzero"`
	Success   bool              `json:"success"`
	Formats   []Format          `json:"formats,omitzero"`
	Artifacts map[string]string `json:"artifacts,omitzero"`
	ExitCode  int               `json:"exit_code"`
	Length    float64           `json:"length,omitzero"`
	Output    string            `json:"output,omitzero"`
	Timestamp time.Time         `json:"timestamp,omitzero"`
}

// NewBuildRecord summarizes an outcome. Artifacts maps artifact paths to content hashes.
func NewBuildRecord(o BuildOutcome, artifacts map[string]string) BuildRecord {
	outputs := make([]string, 0, len(o.Commands))
	exitCode := 0
	for _, c := range o.Commands {
		outputs = append(outputs, c.String())
		if c.Failed() && exitCode == 0 {
			exitCode = c.ExitCode
		}
	}
	if o.Status == StatusFailed && exitCode == 0 {
		exitCode = 1
	}

	return BuildRecord{
		ID:        o.ID,
		Project:   o.Project,
		Version:   o.Version,
		Success:   o.Successful(),
		Formats:   o.ProducedFormats(),
		Artifacts: artifacts,
		ExitCode:  exitCode,
		Length:    o.Duration.Seconds(),
		Output:    strings.Join(outputs, "\n"),
		Timestamp: o.StartedAt,
	}
}
