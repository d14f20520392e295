package ports

import "time"

// MetricsRecorder collects build metrics.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type MetricsRecorder interface {
	// ObserveCommand records the duration of one command and whether it passed.
	ObserveCommand(program string, passed bool, d time.Duration)
	// IncFormatResult counts a format builder result.
	IncFormatResult(format string, produced bool)
	// IncBuildOutcome counts a finished build by status.
	IncBuildOutcome(project, status string)
	// ObserveBuildDuration records the duration of a whole build.
	ObserveBuildDuration(project string, d time.Duration)
	// Export writes the collected metrics to path in the Prometheus text format.
	Export(path string) error
}
