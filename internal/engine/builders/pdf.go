package builders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/scribe/internal/engine/environment"
	"go.trai.ch/zerr"
)

const (
	latexBuilder = "latex"
	latexDir     = "latex"
)

// PDF builds the typeset document: the generator writes LaTeX sources, then every
// source goes through the typesetting sequence
//
//	pass 1, pass 2, makeindex, pass 3
//
// Pass 1 and makeindex are informational. Pass 2 and pass 3 pass on exit 0 or when
// the output marker shows the PDF was written anyway. A genuine failure ends the
// sequence and the format is not produced.
type PDF struct {
	resolver ports.SourceResolver
	logger   ports.Logger
}

// NewPDF creates the PDF builder. LaTeX sources are located with resolver.
func NewPDF(resolver ports.SourceResolver, logger ports.Logger) *PDF {
	return &PDF{resolver: resolver, logger: logger}
}

// Format implements Builder.
func (*PDF) Format() domain.Format { return domain.FormatPDF }

// Build implements Builder.
func (b *PDF) Build(ctx context.Context, run Runner, s Settings) (domain.FormatResult, error) {
	result := attempted(domain.FormatPDF)

	marker := s.Toolchain.OutputMarker
	if marker == "" {
		marker = domain.DefaultOutputMarker
	}
	written, err := domain.NewOutputMarkerPolicy(marker)
	if err != nil {
		return result, zerr.With(zerr.Wrap(domain.ErrInvalidOutputMarker, "output marker does not compile"),
			"marker", marker)
	}

	target := s.OutputDir(latexDir)
	rec, err := run.Run(ctx, generate(s, latexBuilder, domain.FormatPDF, target))
	if err != nil {
		return result, err
	}
	if !rec.Passed {
		return result, nil
	}

	sources, err := b.resolver.ResolveSources(target, "*.tex")
	if err != nil {
		return result, err
	}
	if len(sources) == 0 {
		b.logger.Warn(fmt.Sprintf("[project(%s):version(%s)] No LaTeX sources in %s, skipping PDF",
			s.Project.Slug, s.Version.Slug, target))
		return result, nil
	}

	var pdfs []string
	for _, source := range sources {
		pdf, ok, err := b.typeset(ctx, run, s.Toolchain, written, target, filepath.Base(source))
		if err != nil || !ok {
			return result, err
		}
		pdfs = append(pdfs, pdf)
	}

	result.Produced = true
	result.Artifacts = pdfs
	return result, nil
}

// typeset runs the sequence for one source and returns the written PDF path.
func (b *PDF) typeset(
	ctx context.Context,
	run Runner,
	tc domain.Toolchain,
	written domain.OutputMarkerPolicy,
	dir, source string,
) (string, bool, error) {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	typeset := domain.NewCommand(dir, tc.Typesetter, "-interaction=nonstopmode", source)
	index := domain.NewCommand(dir, tc.Indexer, "-s", tc.IndexStyle, base+".idx")
	informational := environment.WithPolicy(domain.InformationalPolicy{})

	if _, err := run.Run(ctx, typeset, informational); err != nil {
		return "", false, err
	}

	rec, err := run.Run(ctx, typeset, environment.WithPolicy(written))
	if err != nil || !rec.Passed {
		return "", false, err
	}

	if _, err := run.Run(ctx, index, informational); err != nil {
		return "", false, err
	}

	rec, err = run.Run(ctx, typeset, environment.WithPolicy(written))
	if err != nil || !rec.Passed {
		return "", false, err
	}

	name, ok := written.Artifact(rec.Stdout)
	if !ok {
		name = base + ".pdf"
	}
	return filepath.Join(dir, filepath.Base(name)), true, nil
}
