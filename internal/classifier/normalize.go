// Package classifier implements the heuristic triage pipeline: text
// normalization, signal detection, entity extraction, weighted subtype
// scoring and the hybrid fusion with the statistical classifier.
package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes, so
// "atualização" becomes "atualizacao".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases the text, strips diacritics and collapses all runs of
// whitespace to single spaces. Empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// Transform failures leave the text lowered but accented; keyword
		// lists are unaccented so matching degrades, it does not break.
		stripped = lowered
	}

	return strings.Join(strings.Fields(stripped), " ")
}
