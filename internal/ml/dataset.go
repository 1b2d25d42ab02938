package ml

import (
	"strings"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

// DatasetCSV renders labeled examples as a two-column CSV export. Lines are
// CRLF-joined and every field is quoted, with embedded quotes doubled, so
// spreadsheet imports survive commas and newlines inside messages.
func DatasetCSV(examples []domain.TrainingExample) string {
	lines := make([]string, 0, len(examples)+1)
	lines = append(lines, "text,label")
	for _, ex := range examples {
		lines = append(lines, escapeCSV(ex.Text)+","+escapeCSV(string(ex.Label)))
	}
	return strings.Join(lines, "\r\n")
}

func escapeCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
