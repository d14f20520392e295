// Package metrics provides the Prometheus metrics adapter.
package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "scribe"

var _ ports.MetricsRecorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.MetricsRecorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	commandDuration *prom.HistogramVec
	commandResults  *prom.CounterVec
	formatResults   *prom.CounterVec
	buildOutcome    *prom.CounterVec
	buildDuration   *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the build metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.commandDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of individual build commands",
			Buckets:   prom.DefBuckets,
		}, []string{"program"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "command_results_total",
			Help:      "Command results by program and verdict",
		}, []string{"program", "result"})
		pr.formatResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "format_results_total",
			Help:      "Format builder results by format and outcome",
		}, []string{"format", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by project and final status",
		}, []string{"project", "status"})
		pr.buildDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration per project",
			Buckets:   prom.ExponentialBuckets(1, 2, 12),
		}, []string{"project"})
		reg.MustRegister(pr.commandDuration, pr.commandResults, pr.formatResults, pr.buildOutcome, pr.buildDuration)
	})
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// ObserveCommand records the duration and verdict of one command.
func (p *PrometheusRecorder) ObserveCommand(program string, passed bool, d time.Duration) {
	if p == nil || p.commandDuration == nil {
		return
	}
	p.commandDuration.WithLabelValues(program).Observe(d.Seconds())
	p.commandResults.WithLabelValues(program, resultLabel(passed)).Inc()
}

// IncFormatResult counts a format builder result.
func (p *PrometheusRecorder) IncFormatResult(format string, produced bool) {
	if p == nil || p.formatResults == nil {
		return
	}
	p.formatResults.WithLabelValues(format, resultLabel(produced)).Inc()
}

// IncBuildOutcome counts a finished build.
func (p *PrometheusRecorder) IncBuildOutcome(project, status string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(project, status).Inc()
}

// ObserveBuildDuration records the duration of a whole build.
func (p *PrometheusRecorder) ObserveBuildDuration(project string, d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.WithLabelValues(project).Observe(d.Seconds())
}

// Export writes the registry to path in the node-exporter textfile format.
func (p *PrometheusRecorder) Export(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics textfile"), "path", path)
	}
	return nil
}

func resultLabel(ok bool) string {
	if ok {
		return string(domain.StatusSuccessful)
	}
	return string(domain.StatusFailed)
}
