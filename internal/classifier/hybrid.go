package classifier

import (
	"fmt"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

const (
	// mlOverrideThreshold is the statistical-classifier confidence above
	// which its category supersedes the rule category.
	mlOverrideThreshold = 0.7

	// reviewThreshold flags any final decision below it for human review,
	// regardless of which classifier made it.
	reviewThreshold = 0.6
)

// Fuse reconciles the heuristic decision with the statistical one. A nil ml
// result means the statistical classifier is unavailable and is treated the
// same as a low-confidence one: the rule result stands.
//
// When the override lands on Improdutivo the subtype is forced to
// greetings_or_thanks; the taxonomy pairs Improdutivo with that subtype only.
func Fuse(rule domain.ClassificationResult, ml *domain.MLResult) domain.TriageDecision {
	decision := domain.TriageDecision{
		Category:       rule.Category,
		Subtype:        rule.Subtype,
		Confidence:     rule.Confidence,
		Reasoning:      rule.Reasoning,
		Entities:       rule.Entities,
		DecisionSource: domain.DecisionSourceRules,
	}

	switch {
	case ml == nil:
		decision.Reasoning += " | ML=unavailable"

	case ml.Confidence >= mlOverrideThreshold:
		decision.Category = ml.Category
		if decision.Category == domain.CategoryUnproductive {
			decision.Subtype = domain.SubtypeGreetingsOrThanks
		} else if decision.Subtype == domain.SubtypeGreetingsOrThanks {
			// Override in the productive direction needs a productive
			// subtype; general_question is the generic one.
			decision.Subtype = domain.SubtypeGeneralQuestion
		}
		decision.Confidence = ml.Confidence
		decision.DecisionSource = domain.DecisionSourceML
		decision.Reasoning += mlTrace(ml)

	default:
		decision.Reasoning += mlTrace(ml)
	}

	decision.NeedsReview = decision.Confidence < reviewThreshold
	return decision
}

func mlTrace(ml *domain.MLResult) string {
	return fmt.Sprintf(" | ML=%s (%.3f) dist=%v", ml.Category, ml.Confidence, ml.Distribution)
}
