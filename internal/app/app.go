// Package app implements the application layer for scribe.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/scribe/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/builders"
	"go.trai.ch/scribe/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// AllTargets selects every configured project.
const AllTargets = "all"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	launcher     ports.ProcessLauncher
	stores       ports.BuildRecordStoreOpener
	resolver     ports.SourceResolver
	hasher       ports.ArtifactHasher
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      ports.MetricsRecorder
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	launcher ports.ProcessLauncher,
	stores ports.BuildRecordStoreOpener,
	resolver ports.SourceResolver,
	hasher ports.ArtifactHasher,
	logger ports.Logger,
	tracer ports.Tracer,
	metrics ports.MetricsRecorder,
) *App {
	return &App{
		configLoader: loader,
		launcher:     launcher,
		stores:       stores,
		resolver:     resolver,
		hasher:       hasher,
		logger:       logger,
		tracer:       tracer,
		metrics:      metrics,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	ConfigPath string
	// Projects lists project slugs to build. Empty or "all" builds every project.
	Projects []string
	// Versions restricts the versions built. Empty builds every configured version.
	Versions []string
	Force    bool
	// Parallelism bounds concurrent builds. Zero means runtime.NumCPU().
	Parallelism int
	// MetricsFile receives the Prometheus textfile export when set.
	MetricsFile string
	// Verbose reports finished spans through the logger.
	Verbose bool
}

// Target is one (project, version) pair to build.
type Target struct {
	Project domain.Project
	Version domain.Version
}

func (t Target) String() string {
	return t.Project.Slug + "@" + t.Version.Slug
}

// Run builds every selected project version and returns the outcomes in target order.
// Builds of different versions run concurrently, each in its own environment.
func (a *App) Run(ctx context.Context, opts RunOptions) ([]domain.BuildOutcome, error) {
	// 1. Load the catalog
	catalog, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Expand targets
	targets, err := Targets(catalog, opts.Projects, opts.Versions)
	if err != nil {
		return nil, err
	}

	// 3. Open the record store
	store, err := a.stores.Open(catalog.RecordsPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open build record store")
	}

	if opts.Verbose {
		shutdown := telemetry.Install(a.logger)
		defer func() {
			_ = shutdown(context.WithoutCancel(ctx))
		}()
	}

	labels := make([]string, 0, len(targets))
	for _, t := range targets {
		labels = append(labels, t.String())
	}
	a.tracer.EmitPlan(ctx, labels)

	task := pipeline.NewTask(a.launcher, builders.New(a.resolver, a.logger),
		pipeline.WithToolchain(catalog.Toolchain),
		pipeline.WithVariables(catalog.Environment, catalog.Unset),
		pipeline.WithStore(store),
		pipeline.WithHasher(a.hasher),
		pipeline.WithLogger(a.logger),
		pipeline.WithTracer(a.tracer),
		pipeline.WithMetrics(a.metrics),
		pipeline.WithVerbose(opts.Verbose),
	)

	// 4. Build concurrently
	outcomes, errs := a.build(ctx, task, targets, opts)

	// 5. Report
	a.summarize(outcomes)
	if opts.MetricsFile != "" {
		if err := a.metrics.Export(opts.MetricsFile); err != nil {
			a.logger.Error(err)
		}
	}

	for _, err := range errs {
		if domain.IsConfigError(err) {
			return outcomes, err
		}
	}

	failed := 0
	for _, o := range outcomes {
		if !o.Successful() {
			failed++
		}
	}
	if failed > 0 {
		return outcomes, zerr.With(zerr.With(zerr.Wrap(domain.ErrBuildFailed, "one or more builds failed"),
			"failed", failed), "total", len(outcomes))
	}
	return outcomes, nil
}

func (a *App) build(
	ctx context.Context,
	task *pipeline.Task,
	targets []Target,
	opts RunOptions,
) ([]domain.BuildOutcome, []error) {
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	outcomes := make([]domain.BuildOutcome, len(targets))
	errs := make([]error, len(targets))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, target := range targets {
		g.Go(func() error {
			defer zerr.Defer(func(err error) {
				errs[i] = zerr.With(zerr.Wrap(domain.ErrExecution, "build panicked"), "reason", err.Error())
				outcomes[i] = domain.BuildOutcome{
					Project: target.Project.Slug,
					Version: target.Version.Slug,
					Status:  domain.StatusFailed,
				}
			})

			outcomes[i], errs[i] = task.Build(ctx, pipeline.Request{
				Project: target.Project,
				Version: target.Version,
				Force:   opts.Force,
			})
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, slices.DeleteFunc(errs, func(err error) bool { return err == nil })
}

func (a *App) summarize(outcomes []domain.BuildOutcome) {
	for _, o := range outcomes {
		formats := make([]string, 0, len(o.Formats))
		for _, f := range o.ProducedFormats() {
			formats = append(formats, string(f))
		}
		msg := fmt.Sprintf("%s@%s: %s [%s] in %s",
			o.Project, o.Version, o.Status, strings.Join(formats, ","), o.Duration)
		if o.Successful() {
			a.logger.Info(msg)
		} else {
			a.logger.Warn(msg)
		}
	}
}

// Targets expands project and version selections into build targets, in catalog order.
func Targets(catalog *domain.Catalog, projects, versions []string) ([]Target, error) {
	selected := catalog.Projects
	if len(projects) > 0 && !slices.Contains(projects, AllTargets) {
		selected = make([]domain.Project, 0, len(projects))
		for _, slug := range projects {
			p, err := catalog.Project(slug)
			if err != nil {
				return nil, err
			}
			selected = append(selected, p)
		}
	}

	var targets []Target
	for _, p := range selected {
		slugs := p.Versions
		if len(versions) > 0 {
			slugs = versions
		}
		for _, slug := range slugs {
			v, err := p.Version(slug)
			if err != nil {
				return nil, err
			}
			targets = append(targets, Target{Project: p, Version: v})
		}
	}
	return targets, nil
}

// Variant returns the generator builder variant a project builds its HTML with.
func (a *App) Variant(configPath, slug string) (string, error) {
	catalog, err := a.configLoader.Load(configPath)
	if err != nil {
		return "", zerr.Wrap(err, "failed to load configuration")
	}
	p, err := catalog.Project(slug)
	if err != nil {
		return "", err
	}
	return domain.SelectVariant(p.DocumentationType, p.CommentsEnabled)
}

// Status returns the latest persisted build record of a project version.
// An empty version selects the project's first configured version.
func (a *App) Status(configPath, slug, version string) (*domain.BuildRecord, error) {
	catalog, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	p, err := catalog.Project(slug)
	if err != nil {
		return nil, err
	}
	if version == "" && len(p.Versions) > 0 {
		version = p.Versions[0]
	}
	v, err := p.Version(version)
	if err != nil {
		return nil, err
	}

	store, err := a.stores.Open(catalog.RecordsPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open build record store")
	}
	record, err := store.Latest(p.Slug, v.Slug)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrRecordNotFound, "no build recorded"),
			"project", p.Slug), "version", v.Slug)
	}
	return record, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	Records    bool
	Outputs    bool
}

// Clean removes the build record store and project outputs based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	catalog, err := a.configLoader.Load(options.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Records {
		remove(catalog.RecordsPath, "build records")
	}

	if options.Outputs {
		for _, p := range catalog.Projects {
			remove(p.OutputDir, p.Slug+" output")
		}
	}

	return errs
}
