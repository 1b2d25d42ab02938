package classifier

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Signal identifies one semantic keyword family.
type Signal string

const (
	SignalStatus     Signal = "status"
	SignalSupport    Signal = "support"
	SignalAttachment Signal = "attachment"
	SignalGreeting   Signal = "greeting"

	// signalTicketRef is internal: it feeds the "mentions a ticket" term of
	// the status_request score, it is not a subtype signal of its own.
	signalTicketRef Signal = "ticket_ref"
)

// Curated keyword lists, matched against normalized (lower-cased,
// diacritic-stripped) text. Keep entries unaccented.
var (
	statusKeywords     = []string{"status", "andamento", "atualizacao", "progresso", "prazo", "previsao", "posicao"}
	supportKeywords    = []string{"erro", "bug", "falha", "suporte", "acesso", "login", "indisponivel", "lento", "timeout"}
	attachmentKeywords = []string{"anexo", "segue anexo", "em anexo", "attachment"}
	greetingKeywords   = []string{"feliz natal", "boas festas", "parabens", "obrigado", "agradeco", "agradecimento", "feliz ano novo", "bom dia", "boa tarde", "boa noite"}
	ticketRefKeywords  = []string{"chamado", "solicitacao", "pedido", "protocolo", "case", "ticket"}

	// Polite-request phrases that flag a message as interrogative even
	// without a question mark. Checked against the raw text (lower-cased,
	// punctuation preserved).
	politePhrases = []string{"poderia", "pode informar", "pode verificar", "consegue informar", "qual o status", "gentileza"}
)

// SignalHits is the outcome of one detection pass.
type SignalHits struct {
	Status     []string
	Support    []string
	Attachment []string
	Greeting   []string

	// IsQuestion is true when the raw text carries a question mark
	// (straight or inverted) or a polite-request phrase.
	IsQuestion bool

	// MentionsTicket is true when the text refers to a ticket/protocol.
	MentionsTicket bool
}

// None reports whether no keyword of any of the four signal families was
// found. IsQuestion and MentionsTicket do not count as signals.
func (h SignalHits) None() bool {
	return len(h.Status) == 0 && len(h.Support) == 0 && len(h.Attachment) == 0 && len(h.Greeting) == 0
}

// SignalDetector finds curated keywords in normalized text. Candidate
// matching runs through a single Aho-Corasick automaton over all lists; each
// candidate is then confirmed with an explicit word-boundary check, since the
// automaton alone matches substrings ("erro" inside "guerroso").
type SignalDetector struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	families map[string][]Signal
}

// NewSignalDetector builds the automaton from the curated keyword lists.
func NewSignalDetector() *SignalDetector {
	d := &SignalDetector{families: make(map[string][]Signal)}

	add := func(sig Signal, words []string) {
		for _, w := range words {
			if _, seen := d.families[w]; !seen {
				d.keywords = append(d.keywords, w)
			}
			d.families[w] = append(d.families[w], sig)
		}
	}
	add(SignalStatus, statusKeywords)
	add(SignalSupport, supportKeywords)
	add(SignalAttachment, attachmentKeywords)
	add(SignalGreeting, greetingKeywords)
	add(signalTicketRef, ticketRefKeywords)

	d.matcher = ahocorasick.NewStringMatcher(d.keywords)
	return d
}

// Detect scans for the curated keywords and the question heuristic.
// The keyword pass uses the normalized text; the question heuristic uses the
// raw text to preserve punctuation.
func (d *SignalDetector) Detect(raw, normalized string) SignalHits {
	var hits SignalHits

	for _, idx := range d.matcher.Match([]byte(normalized)) {
		if idx >= len(d.keywords) {
			continue
		}
		kw := d.keywords[idx]
		if !containsWord(normalized, kw) {
			continue
		}
		for _, sig := range d.families[kw] {
			switch sig {
			case SignalStatus:
				hits.Status = append(hits.Status, kw)
			case SignalSupport:
				hits.Support = append(hits.Support, kw)
			case SignalAttachment:
				hits.Attachment = append(hits.Attachment, kw)
			case SignalGreeting:
				hits.Greeting = append(hits.Greeting, kw)
			case signalTicketRef:
				hits.MentionsTicket = true
			}
		}
	}

	hits.IsQuestion = isQuestion(raw)
	return hits
}

// isQuestion flags interrogative messages: any straight or inverted question
// mark, or one of the fixed polite-request phrases.
func isQuestion(raw string) bool {
	if strings.ContainsAny(raw, "?¿") {
		return true
	}
	lowered := strings.ToLower(raw)
	for _, phrase := range politePhrases {
		if containsWord(lowered, phrase) {
			return true
		}
	}
	return false
}

// containsWord reports a whole-word occurrence of phrase in text: the runes
// immediately before and after the occurrence must not be letters or digits.
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := firstRune(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
