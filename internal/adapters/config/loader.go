// Package config provides the project catalog loader for scribe.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/joho/godotenv"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFilename is the configuration file looked up when none is given.
	DefaultFilename = "scribe.yaml"
	// DefaultRecordsPath is where build records are kept, relative to the configuration file.
	DefaultRecordsPath = ".scribe/builds.json"
	// DefaultLanguage is the document language used when a project does not set one.
	DefaultLanguage = "en"
	// DefaultVersion is built when a project lists no versions.
	DefaultVersion = "latest"

	supportedVersion = "1"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration file at path and returns the validated catalog.
// Relative paths inside the file are resolved against the file's directory.
func (l *Loader) Load(path string) (*domain.Catalog, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "path", path)
	}

	var file Scribefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, err.Error()), "path", path)
	}

	if file.Version != "" && file.Version != supportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, "unsupported config version"),
			"version", file.Version)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "path", path)
	}

	env, err := l.environment(base, file)
	if err != nil {
		return nil, err
	}

	toolchain, err := toolchainFrom(file.Toolchain)
	if err != nil {
		return nil, err
	}

	projects, err := l.projects(base, file.Projects)
	if err != nil {
		return nil, err
	}

	records := file.Records
	if records == "" {
		records = DefaultRecordsPath
	}

	return &domain.Catalog{
		Projects:    projects,
		Toolchain:   toolchain,
		Environment: env,
		Unset:       file.Unset,
		RecordsPath: resolve(base, records),
	}, nil
}

// environment merges the env_file with the explicit environment, explicit values winning.
func (l *Loader) environment(base string, file Scribefile) (map[string]string, error) {
	env := make(map[string]string)

	if file.EnvFile != "" {
		envPath := resolve(base, file.EnvFile)
		values, err := godotenv.Read(envPath)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "env_file", envPath)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	for k, v := range file.Environment {
		env[k] = v
	}
	return env, nil
}

func toolchainFrom(dto ToolchainDTO) (domain.Toolchain, error) {
	tc := domain.DefaultToolchain()
	if dto.Generator != "" {
		tc.Generator = dto.Generator
	}
	if dto.Typesetter != "" {
		tc.Typesetter = dto.Typesetter
	}
	if dto.Indexer != "" {
		tc.Indexer = dto.Indexer
	}
	if dto.IndexStyle != "" {
		tc.IndexStyle = dto.IndexStyle
	}
	if dto.OutputMarker != "" {
		tc.OutputMarker = dto.OutputMarker
	}

	if _, err := regexp.Compile(tc.OutputMarker); err != nil {
		return domain.Toolchain{}, zerr.With(zerr.Wrap(domain.ErrInvalidOutputMarker, err.Error()),
			"output_marker", tc.OutputMarker)
	}
	return tc, nil
}

func (l *Loader) projects(base string, dtos []ProjectDTO) ([]domain.Project, error) {
	if len(dtos) == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidProject, "no projects defined")
	}

	seen := make(map[string]bool, len(dtos))
	outputs := make(map[string]string, len(dtos))
	projects := make([]domain.Project, 0, len(dtos))
	for i, dto := range dtos {
		p, err := l.project(base, dto)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		if seen[p.Slug] {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateProject, "project slug already defined"),
				"project", p.Slug)
		}
		seen[p.Slug] = true
		// Builds of different projects run concurrently and must not share a working directory.
		if owner, ok := outputs[p.OutputDir]; ok {
			return nil, zerr.With(zerr.With(zerr.With(
				zerr.Wrap(domain.ErrSharedOutputDir, "output_dir already used by another project"),
				"project", p.Slug), "owner", owner), "output_dir", p.OutputDir)
		}
		outputs[p.OutputDir] = p.Slug
		projects = append(projects, p)
	}
	return projects, nil
}

func (l *Loader) project(base string, dto ProjectDTO) (domain.Project, error) {
	if dto.Slug == "" {
		return domain.Project{}, zerr.Wrap(domain.ErrInvalidProject, "project slug is required")
	}
	if !slugPattern.MatchString(dto.Slug) {
		return domain.Project{}, zerr.With(zerr.Wrap(domain.ErrInvalidProject, "invalid project slug"),
			"project", dto.Slug)
	}

	docType := dto.DocumentationType
	if docType == "" {
		docType = domain.DefaultDocumentationType
	}
	if !domain.KnownDocumentationType(docType) {
		return domain.Project{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrUnknownDocumentationType, "unsupported documentation type"),
			"project", dto.Slug), "documentation_type", docType)
	}

	if dto.DocsDir == "" {
		return domain.Project{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingPath, "docs_dir is required"),
			"project", dto.Slug), "field", "docs_dir")
	}
	if dto.OutputDir == "" {
		return domain.Project{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingPath, "output_dir is required"),
			"project", dto.Slug), "field", "output_dir")
	}

	versions := dto.Versions
	if len(versions) == 0 {
		versions = []string{DefaultVersion}
	}
	for i, v := range versions {
		if v == "" || slices.Contains(versions[:i], v) {
			return domain.Project{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidProject, "invalid or duplicate version"),
				"project", dto.Slug), "version", v)
		}
	}

	language := dto.Language
	if language == "" {
		language = DefaultLanguage
	}

	if dto.HTMLOnly && (dto.Formats.PDF || dto.Formats.EPUB) {
		l.logger.Warn("project " + dto.Slug + " is html_only; pdf and epub formats will not be built")
	}

	return domain.Project{
		Slug:              dto.Slug,
		DocumentationType: docType,
		CommentsEnabled:   dto.Comments,
		PDFEnabled:        dto.Formats.PDF,
		EPUBEnabled:       dto.Formats.EPUB,
		HTMLOnly:          dto.HTMLOnly,
		Language:          language,
		DocsDir:           resolve(base, dto.DocsDir),
		OutputDir:         resolve(base, dto.OutputDir),
		Versions:          slices.Clone(versions),
	}, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
