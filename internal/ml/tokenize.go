package ml

import (
	"strings"
	"unicode"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
)

// Tokenize turns a message into the bag-of-words fed to the naive Bayes
// classifier. Text goes through the same normalization as the rule pipeline
// so "Atualização" and "atualizacao" land on the same token.
func Tokenize(text string) []string {
	normalized := classifier.Normalize(text)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
