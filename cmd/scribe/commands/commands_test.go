package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/cmd/scribe/commands"
	"go.trai.ch/scribe/internal/adapters/metrics"
	"go.trai.ch/scribe/internal/adapters/telemetry"
	"go.trai.ch/scribe/internal/app"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type deps struct {
	loader   *mocks.MockConfigLoader
	launcher *mocks.MockProcessLauncher
	opener   *mocks.MockBuildRecordStoreOpener
	store    *mocks.MockBuildRecordStore
	logger   *mocks.MockLogger
	cli      *commands.CLI
}

func setup(t *testing.T) *deps {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := &deps{
		loader:   mocks.NewMockConfigLoader(ctrl),
		launcher: mocks.NewMockProcessLauncher(ctrl),
		opener:   mocks.NewMockBuildRecordStoreOpener(ctrl),
		store:    mocks.NewMockBuildRecordStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	d.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	d.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	d.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	hasher := mocks.NewMockArtifactHasher(ctrl)
	hasher.EXPECT().HashArtifact(gomock.Any()).Return("0123456789abcdef", nil).AnyTimes()

	a := app.New(d.loader, d.launcher, d.opener, mocks.NewMockSourceResolver(ctrl), hasher, d.logger,
		telemetry.NewNoOpTracer(), metrics.NoopRecorder{})
	d.cli = commands.New(a, d.logger)
	return d
}

func catalog() *domain.Catalog {
	return &domain.Catalog{
		Projects: []domain.Project{{
			Slug:              "pip",
			DocumentationType: "sphinx",
			CommentsEnabled:   true,
			DocsDir:           "/src/pip/docs",
			OutputDir:         "/out/pip",
			Versions:          []string{"latest", "stable"},
		}},
		Toolchain:   domain.DefaultToolchain(),
		RecordsPath: "/state/builds.json",
	}
}

func TestBuild_Success(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load("docs.yaml").Return(catalog(), nil)
	d.opener.EXPECT().Open("/state/builds.json").Return(d.store, nil)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _ io.Writer) (domain.CommandResult, error) {
			assert.Equal(t, "-E", cmd.Args[1])
			return domain.CommandResult{}, nil
		})
	d.store.EXPECT().Put(gomock.Any()).Return(nil)

	d.cli.SetArgs([]string{"build", "pip", "--config", "docs.yaml", "--version", "stable", "--force", "-j", "1"})
	require.NoError(t, d.cli.Execute(context.Background()))
}

func TestBuild_Failure(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load(gomock.Any()).Return(catalog(), nil)
	d.opener.EXPECT().Open(gomock.Any()).Return(d.store, nil)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{ExitCode: 1}, nil).Times(2)
	d.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)

	d.cli.SetArgs([]string{"build"})
	err := d.cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestVariant(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load("scribe.yaml").Return(catalog(), nil)

	var out bytes.Buffer
	d.cli.SetArgs([]string{"variant", "pip"})
	d.cli.SetOutput(&out)
	require.NoError(t, d.cli.Execute(context.Background()))
	assert.Equal(t, "readthedocs-comments\n", out.String())
}

func TestVariant_RequiresProject(t *testing.T) {
	d := setup(t)
	d.cli.SetArgs([]string{"variant"})
	assert.Error(t, d.cli.Execute(context.Background()))
}

func TestStatus(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load(gomock.Any()).Return(catalog(), nil)
	d.opener.EXPECT().Open(gomock.Any()).Return(d.store, nil)
	d.store.EXPECT().Latest("pip", "stable").Return(&domain.BuildRecord{
		ID:       "b1",
		Project:  "pip",
		Version:  "stable",
		Success:  true,
		Formats:  []domain.Format{domain.FormatHTML},
		ExitCode: 0,
	}, nil)

	var out bytes.Buffer
	d.cli.SetArgs([]string{"status", "pip", "--version", "stable", "--json"})
	d.cli.SetOutput(&out)
	require.NoError(t, d.cli.Execute(context.Background()))

	var record domain.BuildRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "b1", record.ID)
	assert.True(t, record.Success)
}

func TestStatus_Text(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load(gomock.Any()).Return(catalog(), nil)
	d.opener.EXPECT().Open(gomock.Any()).Return(d.store, nil)
	d.store.EXPECT().Latest("pip", "latest").Return(&domain.BuildRecord{
		ID: "b2", Project: "pip", Version: "latest", ExitCode: 1,
	}, nil)

	var out bytes.Buffer
	d.cli.SetArgs([]string{"status", "pip"})
	d.cli.SetOutput(&out)
	require.NoError(t, d.cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "status:    failed (exit 1)")
	assert.Contains(t, out.String(), "project:   pip@latest")
}

func TestStatus_NotFound(t *testing.T) {
	d := setup(t)
	d.loader.EXPECT().Load(gomock.Any()).Return(catalog(), nil)
	d.opener.EXPECT().Open(gomock.Any()).Return(d.store, nil)
	d.store.EXPECT().Latest("pip", "latest").Return(nil, nil)

	d.cli.SetArgs([]string{"status", "pip"})
	err := d.cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestClean(t *testing.T) {
	tmp := t.TempDir()
	records := tmp + "/builds.json"
	require.NoError(t, os.WriteFile(records, []byte("{}"), 0o600))

	c := catalog()
	c.RecordsPath = records

	d := setup(t)
	d.loader.EXPECT().Load(gomock.Any()).Return(c, nil)

	d.cli.SetArgs([]string{"clean"})
	require.NoError(t, d.cli.Execute(context.Background()))
	assert.NoFileExists(t, records)
}

func TestVersion(t *testing.T) {
	d := setup(t)

	var out bytes.Buffer
	d.cli.SetArgs([]string{"version"})
	d.cli.SetOutput(&out)
	require.NoError(t, d.cli.Execute(context.Background()))
	assert.Equal(t, "scribe version dev\n", out.String())
}
