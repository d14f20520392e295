package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// VersionPlaceholder is replaced by the version slug in a project's docs_dir.
const VersionPlaceholder = "{version}"

// Project is the read-only build configuration of a documentation project.
type Project struct {
	Slug              string
	DocumentationType string
	CommentsEnabled   bool
	PDFEnabled        bool
	EPUBEnabled       bool
	HTMLOnly          bool
	Language          string
	DocsDir           string
	OutputDir         string
	Versions          []string
}

// Version is the version of a project being built.
type Version struct {
	Slug string
}

// Version looks up a configured version by slug.
func (p Project) Version(slug string) (Version, error) {
	if !slices.Contains(p.Versions, slug) {
		return Version{}, zerr.With(zerr.With(zerr.Wrap(ErrVersionNotFound, "unknown version"),
			"project", p.Slug), "version", slug)
	}
	return Version{Slug: slug}, nil
}

// SourceDir returns the document-source directory for a version.
func (p Project) SourceDir(v Version) string {
	return strings.ReplaceAll(p.DocsDir, VersionPlaceholder, v.Slug)
}

// OutputPath returns the working directory that receives a version's artifacts.
// Each version gets its own directory so builds of different versions never share files.
func (p Project) OutputPath(v Version) string {
	return filepath.Join(p.OutputDir, v.Slug)
}

// Toolchain names the external programs a build invokes.
type Toolchain struct {
	Generator    string
	Typesetter   string
	Indexer      string
	IndexStyle   string
	OutputMarker string
}

// DefaultToolchain returns the toolchain used when the configuration leaves it unset.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Generator:    "sphinx-build",
		Typesetter:   "pdflatex",
		Indexer:      "makeindex",
		IndexStyle:   "python.ist",
		OutputMarker: DefaultOutputMarker,
	}
}

// Catalog is the loaded project configuration.
type Catalog struct {
	Projects  []Project
	Toolchain Toolchain
	// Environment is exported to every command.
	Environment map[string]string
	// Unset lists variables removed from the inherited process environment.
	Unset       []string
	RecordsPath string
}

// Project looks up a project by slug.
func (c *Catalog) Project(slug string) (Project, error) {
	for _, p := range c.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, zerr.With(zerr.Wrap(ErrProjectNotFound, "unknown project"), "project", slug)
}
