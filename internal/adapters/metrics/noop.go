package metrics

import "time"

// NoopRecorder discards every observation.
type NoopRecorder struct{}

// ObserveCommand does nothing.
func (NoopRecorder) ObserveCommand(string, bool, time.Duration) {}

// IncFormatResult does nothing.
func (NoopRecorder) IncFormatResult(string, bool) {}

// IncBuildOutcome does nothing.
func (NoopRecorder) IncBuildOutcome(string, string) {}

// ObserveBuildDuration does nothing.
func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}

// Export does nothing.
func (NoopRecorder) Export(string) error { return nil }
