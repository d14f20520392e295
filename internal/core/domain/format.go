package domain

// Format identifies an output format of a documentation build.
type Format string

const (
	// FormatHTML is the HTML site. It is always built.
	FormatHTML Format = "html"
	// FormatPDF is the typeset PDF document.
	FormatPDF Format = "pdf"
	// FormatEPUB is the e-book.
	FormatEPUB Format = "epub"
)

// Formats returns every format in build order.
func Formats() []Format {
	return []Format{FormatHTML, FormatPDF, FormatEPUB}
}

// FormatResult is the per-format outcome of one build.
type FormatResult struct {
	Format    Format
	Enabled   bool
	Attempted bool
	Produced  bool
	// Artifacts lists the files the format builder reported as written.
	Artifacts []string
}

// Valid reports whether the result respects produced => attempted => enabled.
func (r FormatResult) Valid() bool {
	if r.Produced && !r.Attempted {
		return false
	}
	if r.Attempted && !r.Enabled {
		return false
	}
	return true
}

// EnabledFormats returns the formats a project builds, in build order.
// HTML is always enabled; PDF and EPUB are opt-in and suppressed for HTML-only projects.
func EnabledFormats(p Project) []Format {
	formats := []Format{FormatHTML}
	if p.HTMLOnly {
		return formats
	}
	if p.PDFEnabled {
		formats = append(formats, FormatPDF)
	}
	if p.EPUBEnabled {
		formats = append(formats, FormatEPUB)
	}
	return formats
}
