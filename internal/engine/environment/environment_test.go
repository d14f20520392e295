package environment_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.trai.ch/scribe/internal/engine/environment"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var (
	project = domain.Project{Slug: "pip", DocumentationType: "sphinx", Versions: []string{"latest"}}
	version = domain.Version{Slug: "latest"}
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []error
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func exits(codes ...int) func(context.Context, domain.Command, io.Writer) (domain.CommandResult, error) {
	i := 0
	return func(_ context.Context, _ domain.Command, _ io.Writer) (domain.CommandResult, error) {
		code := codes[i]
		i++
		return domain.CommandResult{Stdout: "out", ExitCode: code}, nil
	}
}

func TestScope_AllCommandsPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(exits(0, 0)).Times(2)

	env := environment.New(project, version, launcher)
	assert.Equal(t, domain.StatusUndetermined, env.Status())

	err := env.Scope(context.Background(), func(ctx context.Context) error {
		if _, err := env.Run(ctx, domain.NewCommand("/docs", "echo", "one")); err != nil {
			return err
		}
		_, err := env.Run(ctx, domain.NewCommand("/docs", "echo", "two"))
		return err
	})

	require.NoError(t, err)
	assert.True(t, env.Done())
	assert.True(t, env.Successful())
	assert.False(t, env.Failed())
	assert.NoError(t, env.Err())
	assert.Len(t, env.Commands(), 2)
}

func TestScope_NonZeroExitFailsBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(exits(2, 0)).Times(2)

	env := environment.New(project, version, launcher)
	err := env.Scope(context.Background(), func(ctx context.Context) error {
		rec, err := env.Run(ctx, domain.NewCommand("/docs", "false"))
		require.NoError(t, err)
		assert.True(t, rec.Failed())
		_, err = env.Run(ctx, domain.NewCommand("/docs", "true"))
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, env.Status())
	assert.Len(t, env.Commands(), 2)
}

func TestScope_RecoveredCommandDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{Stdout: "Output written on pip.pdf (10 pages).", ExitCode: 1}, nil)

	policy, err := domain.NewOutputMarkerPolicy(domain.DefaultOutputMarker)
	require.NoError(t, err)

	logger := &recordingLogger{}
	env := environment.New(project, version, launcher, environment.WithLogger(logger))
	err = env.Scope(context.Background(), func(ctx context.Context) error {
		rec, err := env.Run(ctx, domain.NewCommand("/docs", "pdflatex", "pip.tex"), environment.WithPolicy(policy))
		assert.True(t, rec.Passed)
		assert.True(t, rec.Recovered)
		assert.Equal(t, 1, rec.ExitCode)
		return err
	})

	require.NoError(t, err)
	assert.True(t, env.Successful())
	assert.Len(t, logger.warns, 1)
	assert.Empty(t, logger.errs)
}

func TestScope_ExecutionErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{}, zerr.Wrap(domain.ErrExecution, "executable not found"))

	env := environment.New(project, version, launcher)
	err := env.Scope(context.Background(), func(ctx context.Context) error {
		_, err := env.Run(ctx, domain.NewCommand("/docs", "missing-program"))
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.ErrorIs(t, env.Err(), domain.ErrExecution)
	assert.Equal(t, domain.StatusFailed, env.Status())

	cmds := env.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, -1, cmds[0].ExitCode)
	assert.True(t, cmds[0].Failed())
	assert.NotEmpty(t, cmds[0].Stderr)
}

func TestScope_ForeignLaunchErrorIsExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{}, errors.New("pipe closed"))

	env := environment.New(project, version, launcher)
	err := env.Scope(context.Background(), func(ctx context.Context) error {
		_, err := env.Run(ctx, domain.NewCommand("/docs", "echo"))
		return err
	})

	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.True(t, env.Failed())
}

func TestScope_WarningIsSwallowed(t *testing.T) {
	tests := []struct {
		name     string
		codes    []int
		expected domain.BuildStatus
	}{
		{"NoFailedCommands", []int{0}, domain.StatusSuccessful},
		{"FailedCommand", []int{1}, domain.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			launcher := mocks.NewMockProcessLauncher(ctrl)
			launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(exits(tt.codes...))

			logger := &recordingLogger{}
			env := environment.New(project, version, launcher, environment.WithLogger(logger))
			err := env.Scope(context.Background(), func(ctx context.Context) error {
				if _, err := env.Run(ctx, domain.NewCommand("/docs", "echo")); err != nil {
					return err
				}
				return zerr.Wrap(domain.ErrBuildWarning, "nothing left to build")
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, env.Status())
			assert.NoError(t, env.Err())
			assert.NotEmpty(t, logger.warns)
		})
	}
}

func TestScope_StrictFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(exits(3))

	env := environment.New(project, version, launcher)
	var runErr error
	err := env.Scope(context.Background(), func(ctx context.Context) error {
		_, runErr = env.Run(ctx, domain.NewCommand("/docs", "pdflatex"), environment.Strict())
		return runErr
	})

	require.NoError(t, err)
	assert.ErrorIs(t, runErr, domain.ErrCommandFailed)
	assert.Equal(t, domain.StatusFailed, env.Status())
	assert.NoError(t, env.Err())
}

func TestScope_PanicFailsBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)

	env := environment.New(project, version, launcher)
	err := env.Scope(context.Background(), func(context.Context) error {
		panic("boom")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.True(t, env.Done())
	assert.Equal(t, domain.StatusFailed, env.Status())
}

func TestEnter_CannotReuse(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := environment.New(project, version, mocks.NewMockProcessLauncher(ctrl))

	require.NoError(t, env.Scope(context.Background(), func(context.Context) error { return nil }))
	assert.True(t, env.Successful())

	err := env.Enter()
	assert.ErrorIs(t, err, domain.ErrEnvironmentReused)
	assert.True(t, env.Successful())
}

func TestExit_WithoutEnter(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := environment.New(project, version, mocks.NewMockProcessLauncher(ctrl))

	assert.ErrorIs(t, env.Exit(nil), domain.ErrEnvironmentNotOpen)
	assert.Equal(t, domain.StatusUndetermined, env.Status())
}

func TestRun_OutsideScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := environment.New(project, version, mocks.NewMockProcessLauncher(ctrl))

	_, err := env.Run(context.Background(), domain.NewCommand("/docs", "echo"))
	assert.ErrorIs(t, err, domain.ErrEnvironmentNotOpen)
	assert.Empty(t, env.Commands())
}

func TestRun_AppliesVariables(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _ io.Writer) (domain.CommandResult, error) {
			assert.Equal(t, "/venv/bin", cmd.Env["PATH"])
			assert.Equal(t, "override", cmd.Env["READTHEDOCS"])
			assert.Equal(t, "1", cmd.Env["LANG_SET"])
			assert.Equal(t, []string{"PYTHONPATH", "HOME"}, cmd.Unset)
			return domain.CommandResult{}, nil
		})

	env := environment.New(project, version, launcher, environment.WithVariables(
		map[string]string{"PATH": "/venv/bin", "READTHEDOCS": "True"},
		[]string{"PYTHONPATH"},
	))

	err := env.Scope(context.Background(), func(ctx context.Context) error {
		cmd := domain.NewCommand("/docs", "sphinx-build")
		cmd.Env = map[string]string{"READTHEDOCS": "override", "LANG_SET": "1"}
		cmd.Unset = []string{"HOME"}
		_, err := env.Run(ctx, cmd)
		return err
	})
	require.NoError(t, err)
}

func TestRun_VerboseStreamsLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Command, stream io.Writer) (domain.CommandResult, error) {
			_, _ = io.WriteString(stream, "reading sources... ")
			_, _ = io.WriteString(stream, "done\nwriting output")
			return domain.CommandResult{Stdout: "reading sources... done\nwriting output"}, nil
		})

	logger := &recordingLogger{}
	env := environment.New(project, version, launcher,
		environment.WithLogger(logger), environment.WithVerbose(true))

	err := env.Scope(context.Background(), func(ctx context.Context) error {
		_, err := env.Run(ctx, domain.NewCommand("/docs", "sphinx-build"))
		return err
	})
	require.NoError(t, err)

	assert.Contains(t, logger.infos, "[project(pip):version(latest)] reading sources... done")
	assert.Contains(t, logger.infos, "[project(pip):version(latest)] writing output")
	assert.Contains(t, logger.infos, "[project(pip):version(latest)] Running: sphinx-build")
}

func TestRun_RecordsTelemetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mocks.NewMockProcessLauncher(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	tracer.EXPECT().Start(gomock.Any(), "command", gomock.Any(), gomock.Any()).
		Return(context.Background(), span)
	launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), span).Return(domain.CommandResult{ExitCode: 2}, nil)
	span.EXPECT().SetAttribute("exit_code", 2)
	span.EXPECT().SetAttribute("passed", false)
	span.EXPECT().RecordError(gomock.Any())
	span.EXPECT().End()
	metrics.EXPECT().ObserveCommand("make", false, gomock.Any())

	env := environment.New(project, version, launcher,
		environment.WithTracer(tracer), environment.WithMetrics(metrics))
	err := env.Scope(context.Background(), func(ctx context.Context) error {
		_, err := env.Run(ctx, domain.NewCommand("/docs", "make"))
		return err
	})

	require.NoError(t, err)
	assert.True(t, env.Failed())
}

func TestLength_UsesClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{start, start.Add(3 * time.Second)}
	i := 0
	clock := func() time.Time {
		now := ticks[i]
		if i < len(ticks)-1 {
			i++
		}
		return now
	}

	env := environment.New(project, version, mocks.NewMockProcessLauncher(ctrl), environment.WithClock(clock))
	require.NoError(t, env.Scope(context.Background(), func(context.Context) error { return nil }))

	assert.Equal(t, start, env.StartedAt())
	assert.Equal(t, 3*time.Second, env.Length())
}
