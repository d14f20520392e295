// Package builders implements the HTML, PDF and EPUB format builders.
package builders

import (
	"context"
	"path/filepath"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/environment"
)

// Runner runs commands inside an open build environment.
type Runner interface {
	Run(ctx context.Context, cmd domain.Command, opts ...environment.RunOption) (domain.CommandRecord, error)
}

var _ Runner = (*environment.Environment)(nil)

// Settings is the project/version context a builder works in.
type Settings struct {
	Project   domain.Project
	Version   domain.Version
	Toolchain domain.Toolchain
	// Force rebuilds from a fresh generator environment.
	Force bool
}

// SourceDir returns the directory the generator runs in.
func (s Settings) SourceDir() string {
	return s.Project.SourceDir(s.Version)
}

// OutputDir returns the directory that receives a format's output.
func (s Settings) OutputDir(dir string) string {
	return filepath.Join(s.Project.OutputPath(s.Version), dir)
}

// Builder produces one output format.
//
// Build reports the format as produced or not. A returned error is an execution
// error and aborts the remaining formats of the build.
type Builder interface {
	Format() domain.Format
	Build(ctx context.Context, run Runner, s Settings) (domain.FormatResult, error)
}

// New returns the builders for every format, in build order.
func New(resolver ports.SourceResolver, logger ports.Logger) []Builder {
	return []Builder{
		NewHTML(),
		NewPDF(resolver, logger),
		NewEPUB(resolver),
	}
}

// generate builds the document-generation command for a generator builder.
func generate(s Settings, builder string, format domain.Format, target string) domain.Command {
	language := s.Project.Language
	if language == "" {
		language = "en"
	}

	args := []string{"-T"}
	if s.Force {
		args = append(args, "-E")
	}
	args = append(args,
		"-b", builder,
		"-d", s.OutputDir("doctrees-"+string(format)),
		"-D", "language="+language,
		".", target,
	)

	return domain.NewCommand(s.SourceDir(), s.Toolchain.Generator, args...)
}

func attempted(format domain.Format) domain.FormatResult {
	return domain.FormatResult{Format: format, Enabled: true, Attempted: true}
}
