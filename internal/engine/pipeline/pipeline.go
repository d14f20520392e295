// Package pipeline runs one documentation build of a project version.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/builders"
	"go.trai.ch/scribe/internal/engine/environment"
	"go.trai.ch/zerr"
)

// Request selects what to build.
type Request struct {
	Project domain.Project
	Version domain.Version
	// Force rebuilds from a fresh generator environment.
	Force bool
}

// Task builds project versions. Each Build call gets its own environment, so
// one Task can serve concurrent builds of different versions.
type Task struct {
	launcher  ports.ProcessLauncher
	builders  []builders.Builder
	toolchain domain.Toolchain
	store     ports.BuildRecordStore
	hasher    ports.ArtifactHasher
	logger    ports.Logger
	tracer    ports.Tracer
	metrics   ports.MetricsRecorder
	vars      map[string]string
	unset     []string
	verbose   bool
	now       func() time.Time
	newID     func() string
}

// Option configures a Task.
type Option func(*Task)

// WithToolchain sets the external programs builds invoke.
func WithToolchain(tc domain.Toolchain) Option {
	return func(t *Task) { t.toolchain = tc }
}

// WithStore persists a record of every finished build.
func WithStore(s ports.BuildRecordStore) Option {
	return func(t *Task) { t.store = s }
}

// WithHasher hashes produced artifacts into the build record.
func WithHasher(h ports.ArtifactHasher) Option {
	return func(t *Task) { t.hasher = h }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(t *Task) { t.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(tr ports.Tracer) Option {
	return func(t *Task) { t.tracer = tr }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m ports.MetricsRecorder) Option {
	return func(t *Task) { t.metrics = m }
}

// WithVariables sets variables exported to every command and inherited variables to strip.
func WithVariables(vars map[string]string, unset []string) Option {
	return func(t *Task) {
		t.vars = vars
		t.unset = unset
	}
}

// WithVerbose streams command output to the logger.
func WithVerbose(verbose bool) Option {
	return func(t *Task) { t.verbose = verbose }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Task) { t.now = now }
}

// WithIDGenerator replaces the build ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(t *Task) { t.newID = newID }
}

// NewTask creates a Task that launches commands through launcher and runs
// the given format builders.
func NewTask(launcher ports.ProcessLauncher, formatBuilders []builders.Builder, opts ...Option) *Task {
	t := &Task{
		launcher:  launcher,
		builders:  formatBuilders,
		toolchain: domain.DefaultToolchain(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Build runs the enabled format builders for a project version in HTML, PDF, EPUB order.
//
// Configuration errors are returned before any command runs. A format that fails does not
// stop the formats after it, but an execution error aborts the build and is returned along
// with the failed outcome.
func (t *Task) Build(ctx context.Context, req Request) (domain.BuildOutcome, error) {
	enabled := domain.EnabledFormats(req.Project)
	outcome := domain.BuildOutcome{
		Project: req.Project.Slug,
		Version: req.Version.Slug,
		Status:  domain.StatusUndetermined,
		Formats: make([]domain.FormatResult, 0, len(enabled)),
	}
	for _, f := range enabled {
		outcome.Formats = append(outcome.Formats, domain.FormatResult{Format: f, Enabled: true})
	}

	if err := t.validate(req, enabled); err != nil {
		outcome.Status = domain.StatusFailed
		return outcome, err
	}
	outcome.ID = t.newID()

	ctx, span := t.startSpan(ctx, req, outcome.ID)
	defer span.End()

	env := environment.New(req.Project, req.Version, t.launcher,
		environment.WithLogger(t.logger),
		environment.WithTracer(t.tracer),
		environment.WithMetrics(t.metrics),
		environment.WithClock(t.now),
		environment.WithVariables(t.vars, t.unset),
		environment.WithVerbose(t.verbose),
	)
	settings := builders.Settings{
		Project:   req.Project,
		Version:   req.Version,
		Toolchain: t.toolchain,
		Force:     req.Force,
	}

	buildErr := env.Scope(ctx, func(ctx context.Context) error {
		for _, b := range t.builders {
			i := slices.Index(enabled, b.Format())
			if i < 0 {
				continue
			}
			res, err := b.Build(ctx, env, settings)
			res.Enabled = true
			outcome.Formats[i] = res
			if t.metrics != nil {
				t.metrics.IncFormatResult(string(res.Format), res.Produced)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	outcome.Status = env.Status()
	outcome.Commands = env.Commands()
	outcome.StartedAt = env.StartedAt()
	outcome.Duration = env.Length()

	if buildErr != nil {
		span.RecordError(buildErr)
	}
	span.SetAttribute("status", string(outcome.Status))
	span.SetAttribute("formats", joinFormats(outcome.ProducedFormats()))

	t.persist(outcome)
	if t.metrics != nil {
		t.metrics.IncBuildOutcome(outcome.Project, string(outcome.Status))
		t.metrics.ObserveBuildDuration(outcome.Project, outcome.Duration)
	}
	t.logInfo(fmt.Sprintf("[project(%s):version(%s)] Build %s %s, formats: [%s]",
		outcome.Project, outcome.Version, outcome.ID, outcome.Status, joinFormats(outcome.ProducedFormats())))

	return outcome, buildErr
}

// validate rejects configuration errors before any subprocess runs.
func (t *Task) validate(req Request, enabled []domain.Format) error {
	p := req.Project
	if _, err := domain.SelectVariant(p.DocumentationType, p.CommentsEnabled); err != nil {
		return err
	}
	if p.DocsDir == "" {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingPath, "docs_dir is required"),
			"project", p.Slug), "field", "docs_dir")
	}
	if p.OutputDir == "" {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingPath, "output_dir is required"),
			"project", p.Slug), "field", "output_dir")
	}
	if req.Version.Slug == "" {
		return zerr.With(zerr.Wrap(domain.ErrVersionNotFound, "version is required"), "project", p.Slug)
	}
	if slices.Contains(enabled, domain.FormatPDF) && t.toolchain.OutputMarker != "" {
		if _, err := domain.NewOutputMarkerPolicy(t.toolchain.OutputMarker); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidOutputMarker, "output marker does not compile"),
				"marker", t.toolchain.OutputMarker)
		}
	}
	return nil
}

func (t *Task) startSpan(ctx context.Context, req Request, id string) (context.Context, ports.Span) {
	if t.tracer == nil {
		return ctx, nopSpan{}
	}
	return t.tracer.Start(ctx, "build",
		ports.WithAttribute("build.id", id),
		ports.WithAttribute("project", req.Project.Slug),
		ports.WithAttribute("version", req.Version.Slug),
	)
}

// persist stores the build record. Failures are logged and never change the outcome.
func (t *Task) persist(outcome domain.BuildOutcome) {
	if t.store == nil {
		return
	}

	record := domain.NewBuildRecord(outcome, t.hashArtifacts(outcome))
	if err := t.store.Put(record); err != nil {
		t.logError(zerr.With(zerr.With(zerr.Wrap(err, "failed to persist build record"),
			"project", outcome.Project), "version", outcome.Version))
	}
}

func (t *Task) hashArtifacts(outcome domain.BuildOutcome) map[string]string {
	if t.hasher == nil {
		return nil
	}

	hashes := make(map[string]string)
	for _, r := range outcome.Formats {
		if !r.Produced {
			continue
		}
		for _, artifact := range r.Artifacts {
			sum, err := t.hasher.HashArtifact(artifact)
			if err != nil {
				t.logError(zerr.With(zerr.Wrap(err, "failed to hash artifact"), "artifact", artifact))
				continue
			}
			hashes[artifact] = sum
		}
	}
	if len(hashes) == 0 {
		return nil
	}
	return hashes
}

func (t *Task) logInfo(msg string) {
	if t.logger != nil {
		t.logger.Info(msg)
	}
}

func (t *Task) logError(err error) {
	if t.logger != nil {
		t.logger.Error(err)
	}
}

func joinFormats(formats []domain.Format) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ",")
}

type nopSpan struct{}

func (nopSpan) Write(p []byte) (int, error) { return len(p), nil }
func (nopSpan) End()                        {}
func (nopSpan) RecordError(error)           {}
func (nopSpan) SetAttribute(string, any)    {}
