package builders

import (
	"context"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

const epubBuilder = "epub"

// EPUB builds the e-book.
type EPUB struct {
	resolver ports.SourceResolver
}

// NewEPUB creates the EPUB builder. Written books are located with resolver.
func NewEPUB(resolver ports.SourceResolver) *EPUB {
	return &EPUB{resolver: resolver}
}

// Format implements Builder.
func (*EPUB) Format() domain.Format { return domain.FormatEPUB }

// Build runs the generator once. The result follows its exit code.
func (b *EPUB) Build(ctx context.Context, run Runner, s Settings) (domain.FormatResult, error) {
	result := attempted(domain.FormatEPUB)

	target := s.OutputDir(string(domain.FormatEPUB))
	rec, err := run.Run(ctx, generate(s, epubBuilder, domain.FormatEPUB, target))
	if err != nil {
		return result, err
	}
	if !rec.Passed {
		return result, nil
	}

	result.Produced = true
	books, err := b.resolver.ResolveSources(target, "*.epub")
	if err != nil {
		return result, err
	}
	result.Artifacts = books
	return result, nil
}
