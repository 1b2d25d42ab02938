package reply

import "golang.org/x/text/language"

// Language selects the template catalog used for a reply.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
	LangES Language = "es"
)

// matcher resolves arbitrary BCP 47 tags against the supported catalogs.
// Portuguese first: it is the fallback for unknown and unsupported tags.
var matcher = language.NewMatcher([]language.Tag{
	language.Portuguese,
	language.English,
	language.Spanish,
})

// ResolveLanguage maps a language tag ("pt", "en-US", "es-419", ...) to a
// supported catalog. Empty or unparseable input resolves to Portuguese.
func ResolveLanguage(tag string) Language {
	if tag == "" {
		return LangPT
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return LangPT
	}
	_, idx, _ := matcher.Match(parsed)
	switch idx {
	case 1:
		return LangEN
	case 2:
		return LangES
	default:
		return LangPT
	}
}

// Valid reports whether l is one of the supported catalogs.
func (l Language) Valid() bool {
	switch l {
	case LangPT, LangEN, LangES:
		return true
	}
	return false
}
