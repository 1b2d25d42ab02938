package classifier

import (
	"regexp"
	"strings"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

// Entity extraction patterns. Each rule is tried in a fixed priority order
// and only the first match of the winning rule is used; there is no merging
// across rules.
var (
	attachmentRe = regexp.MustCompile(`(?i)\b(em\s+anexo|segue\s+anexo|segue\s+o\s+arquivo|anexo[: ]|attachment|attached)\b`)

	// Ticket rules, in priority order: a labeled token, a #-prefixed token,
	// a letters-dash-digits code.
	ticketLabeledRe = regexp.MustCompile(`(?i)\b(?:protocolo|chamado|case|pedido|ticket|id|num(?:ero)?|n[º°])[:#]?\s*([a-z0-9][a-z0-9._/-]{3,})\b`)
	ticketHashRe    = regexp.MustCompile(`(?i)#\s*([a-z0-9][a-z0-9._/-]{3,})\b`)
	ticketCodeRe    = regexp.MustCompile(`\b([A-Z]{2,5}-\d{3,})\b`)
	ticketDigitsRe  = regexp.MustCompile(`\b\d{6,}\b`)
	ticketKeywordRe = regexp.MustCompile(`\b(protocolo|chamado|ticket|pedido|case)\b`)

	// nameRe matches one capitalized word, accented uppercase included.
	nameWord    = `[\p{Lu}][\p{L}'’.-]+`
	nameAfterRe = regexp.MustCompile(`^[!,.\s]*(` + nameWord + `(?:\s+` + nameWord + `){0,2})`)

	signatureLineRe    = regexp.MustCompile(`^` + nameWord + `(?:\s+` + nameWord + `){0,3}$`)
	signatureClosingRe = regexp.MustCompile(`(?i)^(att|atenciosamente|obrigado|obrigada|grato|abs|abraços|obg|regards|thanks|thank you|best regards|saludos|gracias|atentamente)[,!\s]*$`)
)

// Leading greeting phrases recognized for the salutation+name pair. Matched
// case-insensitively against the raw text.
var greetingPhrases = []string{"olá", "ola", "bom dia", "boa tarde", "boa noite"}

// signatureScanDepth is how many trailing non-empty lines are inspected for
// a signature name.
const signatureScanDepth = 6

// ExtractEntities pulls the structured entities out of a message, given both
// the raw text and its normalized form.
func ExtractEntities(raw, normalized string) domain.Entities {
	var ents domain.Entities

	ents.HasAttachment = attachmentRe.MatchString(raw)
	ents.TicketID = extractTicketID(raw, normalized)

	if phrase, rest, ok := findGreeting(raw); ok {
		ents.Greeting = strings.ToLower(phrase)
		if m := nameAfterRe.FindStringSubmatch(rest); m != nil {
			ents.Name = strings.TrimSpace(m[1])
		}
	}

	if ents.Name == "" {
		ents.Name = signatureName(raw)
	}

	return ents
}

// extractTicketID applies the ticket rule cascade. Labeled and #-prefixed
// tokens run against the raw text so the identifier keeps its original
// casing; the digits fallback only fires when the message talks about a
// ticket at all, so plain numbers are never promoted to IDs.
func extractTicketID(raw, normalized string) string {
	if m := ticketLabeledRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	// Accented labels ("número") only match after diacritic stripping.
	if m := ticketLabeledRe.FindStringSubmatch(normalized); m != nil {
		return m[1]
	}
	if m := ticketHashRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := ticketCodeRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if ticketKeywordRe.MatchString(normalized) {
		if m := ticketDigitsRe.FindString(normalized); m != "" {
			return m
		}
	}
	return ""
}

// findGreeting locates the first greeting phrase in the raw text and returns
// the phrase as written plus the remainder of the text after it.
func findGreeting(raw string) (phrase, rest string, ok bool) {
	lowered := strings.ToLower(raw)

	best := -1
	bestLen := 0
	for _, g := range greetingPhrases {
		idx := indexWord(lowered, g)
		if idx < 0 {
			continue
		}
		// Earliest occurrence wins; on a tie the longer phrase wins so
		// "boa tarde" is not reported as just "boa".
		if best == -1 || idx < best || (idx == best && len(g) > bestLen) {
			best = idx
			bestLen = len(g)
		}
	}
	if best < 0 {
		return "", "", false
	}
	return raw[best : best+bestLen], raw[best+bestLen:], true
}

// indexWord returns the byte offset of the first whole-word occurrence of
// phrase in text, or -1.
func indexWord(text, phrase string) int {
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return -1
		}
		start := from + i
		if boundaryBefore(text, start) && boundaryAfter(text, start+len(phrase)) {
			return start
		}
		from = start + 1
	}
}

// signatureName scans the last lines of the message, bottom up, for a short
// capitalized name line. Closing phrases ("Atenciosamente,", "Regards,") are
// skipped rather than mistaken for names.
func signatureName(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	lowest := len(lines) - signatureScanDepth
	if lowest < 0 {
		lowest = 0
	}
	for i := len(lines) - 1; i >= lowest; i-- {
		line := lines[i]
		if signatureClosingRe.MatchString(line) {
			continue
		}
		if signatureLineRe.MatchString(line) {
			return line
		}
	}
	return ""
}
