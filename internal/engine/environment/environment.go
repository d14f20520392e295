// Package environment implements the scoped build environment that owns a build's command history.
package environment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

type state int

const (
	stateFresh state = iota
	stateOpen
	stateClosed
)

// Environment is bound to one (project, version) and records every command run inside its scope.
// The build status is decided exactly once, when the scope closes.
type Environment struct {
	project  domain.Project
	version  domain.Version
	launcher ports.ProcessLauncher
	logger   ports.Logger
	tracer   ports.Tracer
	metrics  ports.MetricsRecorder
	now      func() time.Time
	vars     map[string]string
	unset    []string
	verbose  bool

	mu        sync.Mutex
	state     state
	commands  []domain.CommandRecord
	status    domain.BuildStatus
	cause     error
	startedAt time.Time
	length    time.Duration
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for build log lines.
func WithLogger(l ports.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer used for command spans.
func WithTracer(t ports.Tracer) Option {
	return func(e *Environment) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMetrics sets the recorder that observes command durations.
func WithMetrics(m ports.MetricsRecorder) Option {
	return func(e *Environment) { e.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Environment) {
		if now != nil {
			e.now = now
		}
	}
}

// WithVariables sets variables exported to every command and inherited variables to strip.
func WithVariables(vars map[string]string, unset []string) Option {
	return func(e *Environment) {
		e.vars = maps.Clone(vars)
		e.unset = slices.Clone(unset)
	}
}

// WithVerbose streams command output to the logger line by line.
func WithVerbose(verbose bool) Option {
	return func(e *Environment) { e.verbose = verbose }
}

// New creates an Environment for a project version. Commands are launched through launcher.
func New(project domain.Project, version domain.Version, launcher ports.ProcessLauncher, opts ...Option) *Environment {
	e := &Environment{
		project:  project,
		version:  version,
		launcher: launcher,
		logger:   discardLogger{},
		tracer:   noopTracer{},
		now:      time.Now,
		status:   domain.StatusUndetermined,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Project returns the project the environment is bound to.
func (e *Environment) Project() domain.Project { return e.project }

// Version returns the version the environment is bound to.
func (e *Environment) Version() domain.Version { return e.version }

// Enter opens the scope. An environment can be entered only once.
func (e *Environment) Enter() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateFresh {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrEnvironmentReused, "environment already used"),
			"project", e.project.Slug), "version", e.version.Slug)
	}
	e.state = stateOpen
	e.commands = nil
	e.status = domain.StatusUndetermined
	e.cause = nil
	e.startedAt = e.now()
	return nil
}

// Exit closes the scope and decides the build status from cause and the full command history.
//
// A warning cause ends the scope without failing the build, and a command-failed cause fails it;
// both are absorbed. Any other cause fails the build and is returned to the caller.
func (e *Environment) Exit(cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateOpen {
		return zerr.Wrap(domain.ErrEnvironmentNotOpen, "exit without enter")
	}
	e.state = stateClosed
	e.length = e.now().Sub(e.startedAt)

	failed := slices.ContainsFunc(e.commands, domain.CommandRecord.Failed)
	var propagate error
	switch {
	case cause == nil:
	case errors.Is(cause, domain.ErrBuildWarning):
		e.logger.Warn(e.prefix(cause.Error()))
	case errors.Is(cause, domain.ErrCommandFailed):
		failed = true
	default:
		failed = true
		e.cause = cause
		propagate = cause
	}

	if failed {
		e.status = domain.StatusFailed
	} else {
		e.status = domain.StatusSuccessful
	}
	e.logger.Info(e.prefix(fmt.Sprintf("Build finished: %s (%d commands in %s)",
		e.status, len(e.commands), e.length.Round(time.Millisecond))))

	return propagate
}

// Scope enters the environment, runs fn and always exits, even when fn panics.
// A panic is converted to an execution error and fails the build.
func (e *Environment) Scope(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := e.Enter(); err != nil {
		return err
	}

	var cause error
	func() {
		defer zerr.Defer(func(perr error) {
			cause = zerr.With(zerr.Wrap(domain.ErrExecution, "build scope panicked"), "panic", perr.Error())
		})
		cause = fn(ctx)
	}()

	return e.Exit(cause)
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

type runConfig struct {
	policy domain.SuccessPolicy
	strict bool
}

// WithPolicy sets the policy that decides whether the command passed.
func WithPolicy(p domain.SuccessPolicy) RunOption {
	return func(c *runConfig) { c.policy = p }
}

// Strict makes Run return domain.ErrCommandFailed when the command does not pass.
func Strict() RunOption {
	return func(c *runConfig) { c.strict = true }
}

// Run launches cmd inside the open scope and appends its record to the history.
// Commands that cannot be executed are recorded as failed with exit code -1
// and reported as domain.ErrExecution.
func (e *Environment) Run(ctx context.Context, cmd domain.Command, opts ...RunOption) (domain.CommandRecord, error) {
	cfg := runConfig{policy: domain.ExitCodePolicy{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !e.open() {
		return domain.CommandRecord{}, zerr.With(zerr.Wrap(domain.ErrEnvironmentNotOpen, "command run outside scope"),
			"command", cmd.String())
	}

	cmd = e.prepare(cmd)
	e.logger.Info(e.prefix("Running: " + cmd.String()))

	ctx, span := e.tracer.Start(ctx, "command",
		ports.WithAttribute("command", cmd.String()),
		ports.WithAttribute("working_dir", cmd.WorkingDir),
	)
	defer span.End()

	var stream io.Writer = span
	var lines *logWriter
	if e.verbose {
		lines = &logWriter{logger: e.logger, prefix: e.prefix("")}
		stream = io.MultiWriter(span, lines)
	}

	start := e.now()
	res, err := e.launcher.Launch(ctx, cmd, stream)
	duration := e.now().Sub(start)
	if lines != nil {
		lines.Flush()
	}

	rec := domain.CommandRecord{
		Command:   cmd,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		ExitCode:  res.ExitCode,
		StartedAt: start,
		Duration:  duration,
	}

	if err != nil {
		if !errors.Is(err, domain.ErrExecution) {
			err = zerr.With(zerr.Wrap(domain.ErrExecution, "command could not run"), "reason", err.Error())
		}
		err = zerr.With(err, "command", cmd.String())
		rec.ExitCode = -1
		if rec.Stderr == "" {
			rec.Stderr = err.Error()
		}
		e.record(rec)
		e.observe(cmd, false, duration)
		span.RecordError(err)
		e.logger.Error(err)
		return rec, err
	}

	verdict := cfg.policy.Evaluate(res)
	rec.Passed = verdict.Passed
	rec.Recovered = verdict.Recovered
	e.record(rec)
	e.observe(cmd, rec.Passed, duration)

	span.SetAttribute("exit_code", rec.ExitCode)
	span.SetAttribute("passed", rec.Passed)

	switch {
	case !rec.Passed:
		failure := zerr.With(zerr.With(zerr.Wrap(domain.ErrCommandFailed, e.prefix("command failed")),
			"command", cmd.String()), "exit_code", rec.ExitCode)
		span.RecordError(failure)
		e.logger.Error(failure)
		if cfg.strict {
			return rec, failure
		}
	case rec.Recovered:
		e.logger.Warn(e.prefix(fmt.Sprintf("%s exited %d, continuing", cmd.Program, rec.ExitCode)))
	}

	return rec, nil
}

func (e *Environment) open() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateOpen
}

func (e *Environment) record(rec domain.CommandRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, rec)
}

func (e *Environment) observe(cmd domain.Command, passed bool, d time.Duration) {
	if e.metrics != nil {
		e.metrics.ObserveCommand(cmd.Program, passed, d)
	}
}

// prepare applies the environment's variables beneath the command's own.
func (e *Environment) prepare(cmd domain.Command) domain.Command {
	if len(e.vars) > 0 || len(cmd.Env) > 0 {
		env := maps.Clone(e.vars)
		if env == nil {
			env = make(map[string]string, len(cmd.Env))
		}
		maps.Copy(env, cmd.Env)
		cmd.Env = env
	}
	if len(e.unset) > 0 {
		cmd.Unset = append(slices.Clone(e.unset), cmd.Unset...)
	}
	return cmd
}

func (e *Environment) prefix(msg string) string {
	return fmt.Sprintf("[project(%s):version(%s)] %s", e.project.Slug, e.version.Slug, msg)
}

// Status returns the build status. It is undetermined until the scope closes.
func (e *Environment) Status() domain.BuildStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Successful reports whether the closed scope finished successfully.
func (e *Environment) Successful() bool {
	return e.Status() == domain.StatusSuccessful
}

// Failed reports whether the closed scope failed.
func (e *Environment) Failed() bool {
	return e.Status() == domain.StatusFailed
}

// Done reports whether the scope has closed.
func (e *Environment) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateClosed
}

// Commands returns a copy of the command history.
func (e *Environment) Commands() []domain.CommandRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.commands)
}

// Err returns the error that propagated out of the scope, if any.
func (e *Environment) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cause
}

// StartedAt returns when the scope was entered.
func (e *Environment) StartedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startedAt
}

// Length returns how long the scope was open.
func (e *Environment) Length() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.length
}
