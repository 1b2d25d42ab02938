// Package domain holds the triage taxonomy and the result types shared by the
// rule scorer, the statistical classifier and the API layer.
package domain

// Category is one of the two top-level triage categories.
type Category string

const (
	// CategoryProductive marks a message that requires action.
	CategoryProductive Category = "Produtivo"
	// CategoryUnproductive marks a message that requires no action.
	CategoryUnproductive Category = "Improdutivo"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryProductive || c == CategoryUnproductive
}

// Subtype is one of the five fine-grained triage intents.
type Subtype string

const (
	SubtypeStatusRequest     Subtype = "status_request"
	SubtypeSupportRequest    Subtype = "support_request"
	SubtypeAttachmentShare   Subtype = "attachment_share"
	SubtypeGeneralQuestion   Subtype = "general_question"
	SubtypeGreetingsOrThanks Subtype = "greetings_or_thanks"
)

// SubtypePreference is the fixed tie-break order. Productive subtypes come
// before the unproductive one.
var SubtypePreference = []Subtype{
	SubtypeStatusRequest,
	SubtypeSupportRequest,
	SubtypeAttachmentShare,
	SubtypeGeneralQuestion,
	SubtypeGreetingsOrThanks,
}

// Valid reports whether s is a known subtype.
func (s Subtype) Valid() bool {
	for _, known := range SubtypePreference {
		if s == known {
			return true
		}
	}
	return false
}

// CategoryFor maps a subtype to its category. The category is never set
// independently of the subtype: greetings_or_thanks is unproductive, every
// other subtype is productive.
func CategoryFor(s Subtype) Category {
	if s == SubtypeGreetingsOrThanks {
		return CategoryUnproductive
	}
	return CategoryProductive
}
