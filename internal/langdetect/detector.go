package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

// minLength is the shortest text worth detecting. Below it the detector is
// mostly guessing, so the Portuguese default applies.
const minLength = 10

// Detector resolves the reply language of a message. Only the three
// supported catalogs compete; everything else defaults to Portuguese.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Portuguese, lingua.English, lingua.Spanish).
			Build(),
	}
}

// Detect returns the reply language for the text.
func (d *Detector) Detect(text string) reply.Language {
	if len(strings.TrimSpace(text)) < minLength {
		return reply.LangPT
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return reply.LangPT
	}
	switch lang {
	case lingua.English:
		return reply.LangEN
	case lingua.Spanish:
		return reply.LangES
	default:
		return reply.LangPT
	}
}
