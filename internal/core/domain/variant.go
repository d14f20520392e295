package domain

import "go.trai.ch/zerr"

// CommentsSuffix is appended to a builder variant when inline comments are enabled.
const CommentsSuffix = "-comments"

// DefaultDocumentationType is assumed when a project does not declare one.
const DefaultDocumentationType = "sphinx"

var builderVariants = map[string]string{
	"sphinx":            "readthedocs",
	"sphinx_htmldir":    "readthedocsdirhtml",
	"sphinx_singlehtml": "readthedocssinglehtml",
}

// SelectVariant returns the generator builder name for a documentation type.
// Enabling comments selects the "-comments" flavor of the same variant.
func SelectVariant(documentationType string, comments bool) (string, error) {
	variant, ok := builderVariants[documentationType]
	if !ok {
		return "", zerr.With(zerr.Wrap(ErrUnknownVariant, "no builder variant for documentation type"),
			"documentation_type", documentationType)
	}
	if comments {
		return variant + CommentsSuffix, nil
	}
	return variant, nil
}

// KnownDocumentationType reports whether a builder variant exists for documentationType.
func KnownDocumentationType(documentationType string) bool {
	_, ok := builderVariants[documentationType]
	return ok
}
