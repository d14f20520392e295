package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/scribe/internal/core/domain"
)

func TestEnabledFormats(t *testing.T) {
	tests := []struct {
		name     string
		project  domain.Project
		expected []domain.Format
	}{
		{"HTMLAlwaysEnabled", domain.Project{}, []domain.Format{domain.FormatHTML}},
		{"PDF", domain.Project{PDFEnabled: true}, []domain.Format{domain.FormatHTML, domain.FormatPDF}},
		{"EPUB", domain.Project{EPUBEnabled: true}, []domain.Format{domain.FormatHTML, domain.FormatEPUB}},
		{
			"All",
			domain.Project{PDFEnabled: true, EPUBEnabled: true},
			[]domain.Format{domain.FormatHTML, domain.FormatPDF, domain.FormatEPUB},
		},
		{"HTMLOnly", domain.Project{PDFEnabled: true, EPUBEnabled: true, HTMLOnly: true}, []domain.Format{domain.FormatHTML}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := domain.EnabledFormats(tt.project)
			second := domain.EnabledFormats(tt.project)
			assert.Equal(t, tt.expected, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestFormatResult_Valid(t *testing.T) {
	tests := []struct {
		name   string
		result domain.FormatResult
		valid  bool
	}{
		{"Disabled", domain.FormatResult{}, true},
		{"EnabledOnly", domain.FormatResult{Enabled: true}, true},
		{"Attempted", domain.FormatResult{Enabled: true, Attempted: true}, true},
		{"Produced", domain.FormatResult{Enabled: true, Attempted: true, Produced: true}, true},
		{"ProducedNotAttempted", domain.FormatResult{Enabled: true, Produced: true}, false},
		{"AttemptedNotEnabled", domain.FormatResult{Attempted: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.result.Valid())
		})
	}
}
