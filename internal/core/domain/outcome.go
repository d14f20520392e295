package domain

import "time"

// BuildOutcome is the result of one build of a (project, version) pair.
type BuildOutcome struct {
	ID        string
	Project   string
	Version   string
	Status    BuildStatus
	Formats   []FormatResult
	Commands  []CommandRecord
	StartedAt time.Time
	Duration  time.Duration
}

// Successful reports whether the build finished successfully.
func (o BuildOutcome) Successful() bool {
	return o.Status == StatusSuccessful
}

// Result returns the result for a format. Formats that were never enabled
// yield a zero result carrying only the format.
func (o BuildOutcome) Result(f Format) FormatResult {
	for _, r := range o.Formats {
		if r.Format == f {
			return r
		}
	}
	return FormatResult{Format: f}
}

// ProducedFormats returns the formats that were produced, in build order.
func (o BuildOutcome) ProducedFormats() []Format {
	var produced []Format
	for _, r := range o.Formats {
		if r.Produced {
			produced = append(produced, r.Format)
		}
	}
	return produced
}
