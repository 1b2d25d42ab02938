package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

// Scoring weights. These were tuned empirically against the feedback corpus;
// keep them as-is rather than rounding them to "nicer" values.
const (
	weightSignal         = 2.0
	weightStatusQuestion = 1.0
	weightTicketMention  = 1.0
	weightSupportQuery   = 0.5
	weightGreetQuestion  = -1.0
	weightBareQuestion   = 1.5

	// fallbackConfidence is reported when no signal and no question was
	// found and scoring is skipped entirely. An all-zero score vector would
	// softmax into a uniform distribution that looks like a real decision.
	fallbackConfidence = 0.55

	// probEpsilon is the tolerance under which two probabilities count as
	// tied and the fixed subtype preference order decides.
	probEpsilon = 1e-6
)

// ScoreSubtypes computes the weighted raw score of every subtype candidate
// from the detected signals and normalizes them with a softmax. The returned
// slice is in taxonomy preference order and its probabilities sum to 1.
func ScoreSubtypes(hits SignalHits) []domain.SubtypeScore {
	raw := map[domain.Subtype]float64{
		domain.SubtypeStatusRequest:     b2f(len(hits.Status) > 0)*weightSignal + b2f(hits.IsQuestion)*weightStatusQuestion + b2f(hits.MentionsTicket)*weightTicketMention,
		domain.SubtypeSupportRequest:    b2f(len(hits.Support) > 0)*weightSignal + b2f(hits.IsQuestion)*weightSupportQuery,
		domain.SubtypeAttachmentShare:   b2f(len(hits.Attachment) > 0) * weightSignal,
		domain.SubtypeGreetingsOrThanks: b2f(len(hits.Greeting) > 0)*weightSignal + b2f(hits.IsQuestion)*weightGreetQuestion,
		domain.SubtypeGeneralQuestion:   b2f(hits.IsQuestion) * weightBareQuestion,
	}

	scores := make([]domain.SubtypeScore, 0, len(domain.SubtypePreference))
	values := make([]float64, 0, len(domain.SubtypePreference))
	for _, label := range domain.SubtypePreference {
		scores = append(scores, domain.SubtypeScore{Label: label, RawScore: raw[label]})
		values = append(values, raw[label])
	}

	probs := softmax(values)
	for i := range scores {
		scores[i].Probability = probs[i]
	}
	return scores
}

// Decide picks the winning subtype from a score distribution. Probability
// ties within probEpsilon are broken by the fixed preference order, which
// favors productive subtypes.
func Decide(scores []domain.SubtypeScore) domain.SubtypeScore {
	ordered := make([]domain.SubtypeScore, len(scores))
	copy(ordered, scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Probability > ordered[j].Probability
	})

	best := ordered[0]
	for _, cand := range ordered[1:] {
		if math.Abs(cand.Probability-best.Probability) >= probEpsilon {
			break
		}
		if preferenceRank(cand.Label) < preferenceRank(best.Label) {
			best = cand
		}
	}
	return best
}

func preferenceRank(s domain.Subtype) int {
	for i, label := range domain.SubtypePreference {
		if label == s {
			return i
		}
	}
	return len(domain.SubtypePreference)
}

// softmax exponentiates and normalizes. The max is subtracted first so large
// magnitudes cannot overflow; the result is unchanged mathematically.
func softmax(values []float64) []float64 {
	maxV := math.Inf(-1)
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}

	exps := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		exps[i] = math.Exp(v - maxV)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}

// round3 rounds a probability to three decimals for presentation.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// classifyByRules runs scoring over detected signals and produces the
// heuristic decision with its reasoning trace. Entities are attached by the
// caller.
func classifyByRules(hits SignalHits) domain.ClassificationResult {
	if hits.None() && !hits.IsQuestion {
		return domain.ClassificationResult{
			Category:   domain.CategoryUnproductive,
			Subtype:    domain.SubtypeGreetingsOrThanks,
			Confidence: fallbackConfidence,
			Reasoning:  "no signals (status/support/attachment/greeting) and no question; falling back to Improdutivo (greetings_or_thanks)",
		}
	}

	scores := ScoreSubtypes(hits)
	best := Decide(scores)

	return domain.ClassificationResult{
		Category:   domain.CategoryFor(best.Label),
		Subtype:    best.Label,
		Confidence: round3(best.Probability),
		Reasoning:  reasoningTrace(hits, scores),
	}
}

// reasoningTrace renders a human-readable explanation of the decision for
// operator debugging. The format is not machine-parsed.
func reasoningTrace(hits SignalHits, scores []domain.SubtypeScore) string {
	var fired []string
	if len(hits.Status) > 0 {
		fired = append(fired, "status")
	}
	if len(hits.Support) > 0 {
		fired = append(fired, "support")
	}
	if len(hits.Attachment) > 0 {
		fired = append(fired, "attachment")
	}
	if len(hits.Greeting) > 0 {
		fired = append(fired, "greeting")
	}
	if hits.IsQuestion {
		fired = append(fired, "question")
	}
	if hits.MentionsTicket {
		fired = append(fired, "ticket_ref")
	}
	signals := "none"
	if len(fired) > 0 {
		signals = strings.Join(fired, ", ")
	}

	rawParts := make([]string, 0, len(scores))
	probParts := make([]string, 0, len(scores))
	for _, s := range scores {
		rawParts = append(rawParts, fmt.Sprintf("%s=%.1f", s.Label, s.RawScore))
		probParts = append(probParts, fmt.Sprintf("%s:%.2f", s.Label, s.Probability))
	}

	return fmt.Sprintf("signals: %s | scores=%s | probs=%s | has_question=%t",
		signals, strings.Join(rawParts, " "), strings.Join(probParts, " | "), hits.IsQuestion)
}
