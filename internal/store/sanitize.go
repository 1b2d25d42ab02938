package store

import (
	"regexp"
	"strings"
)

// PII scrubbing patterns. Feedback text is persisted and later exported, so
// anything that looks like contact data or a Brazilian tax ID is replaced
// with a placeholder token before it touches disk. Order matters: CPF/CNPJ
// run before the phone rule, which would otherwise consume their formatted
// digit runs, and phone runs before the bare-number rule.
var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	numRe   = regexp.MustCompile(`\b\d{8,}\b`)
	cpfRe   = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	cnpjRe  = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	urlRe   = regexp.MustCompile(`(?i)\bhttps?://\S+`)
)

// Sanitize scrubs personally identifying data from text destined for the
// training corpus.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	t := emailRe.ReplaceAllString(text, "<EMAIL>")
	t = cnpjRe.ReplaceAllString(t, "<CNPJ>")
	t = cpfRe.ReplaceAllString(t, "<CPF>")
	t = phoneRe.ReplaceAllString(t, "<PHONE>")
	t = numRe.ReplaceAllString(t, "<NUM>")
	t = urlRe.ReplaceAllString(t, "<URL>")
	return strings.TrimSpace(t)
}
