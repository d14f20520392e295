package builders

import (
	"context"

	"go.trai.ch/scribe/internal/core/domain"
)

// HTML builds the HTML site with the project's builder variant.
type HTML struct{}

// NewHTML creates the HTML builder.
func NewHTML() *HTML {
	return &HTML{}
}

// Format implements Builder.
func (*HTML) Format() domain.Format { return domain.FormatHTML }

// Build runs the generator once. The result follows its exit code.
func (*HTML) Build(ctx context.Context, run Runner, s Settings) (domain.FormatResult, error) {
	result := attempted(domain.FormatHTML)

	variant, err := domain.SelectVariant(s.Project.DocumentationType, s.Project.CommentsEnabled)
	if err != nil {
		return result, err
	}

	target := s.OutputDir(string(domain.FormatHTML))
	rec, err := run.Run(ctx, generate(s, variant, domain.FormatHTML, target))
	if err != nil {
		return result, err
	}
	if rec.Passed {
		result.Produced = true
		result.Artifacts = []string{target}
	}
	return result, nil
}
