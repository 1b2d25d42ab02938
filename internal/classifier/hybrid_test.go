package classifier_test

import (
	"strings"
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

func ruleResult(cat domain.Category, sub domain.Subtype, conf float64) domain.ClassificationResult {
	return domain.ClassificationResult{
		Category:   cat,
		Subtype:    sub,
		Confidence: conf,
		Reasoning:  "signals: status",
	}
}

func TestFuse_ConfidentMLOverridesCategory(t *testing.T) {
	rule := ruleResult(domain.CategoryProductive, domain.SubtypeStatusRequest, 0.62)
	ml := &domain.MLResult{Category: domain.CategoryUnproductive, Confidence: 0.8}

	decision := classifier.Fuse(rule, ml)

	if decision.Category != domain.CategoryUnproductive {
		t.Errorf("category = %s, want %s", decision.Category, domain.CategoryUnproductive)
	}
	if decision.Subtype != domain.SubtypeGreetingsOrThanks {
		t.Errorf("subtype = %s, want %s after Improdutivo override", decision.Subtype, domain.SubtypeGreetingsOrThanks)
	}
	if decision.Confidence != 0.8 {
		t.Errorf("confidence = %v, want the ML confidence 0.8", decision.Confidence)
	}
	if decision.DecisionSource != domain.DecisionSourceML {
		t.Errorf("source = %s, want %s", decision.DecisionSource, domain.DecisionSourceML)
	}
	if !strings.Contains(decision.Reasoning, "ML=") {
		t.Errorf("reasoning %q does not mention the ML result", decision.Reasoning)
	}
}

func TestFuse_ProductiveOverrideRepairsSubtype(t *testing.T) {
	rule := ruleResult(domain.CategoryUnproductive, domain.SubtypeGreetingsOrThanks, 0.55)
	ml := &domain.MLResult{Category: domain.CategoryProductive, Confidence: 0.91}

	decision := classifier.Fuse(rule, ml)

	if decision.Category != domain.CategoryProductive {
		t.Errorf("category = %s, want %s", decision.Category, domain.CategoryProductive)
	}
	if decision.Subtype != domain.SubtypeGeneralQuestion {
		t.Errorf("subtype = %s, want %s", decision.Subtype, domain.SubtypeGeneralQuestion)
	}
	if domain.CategoryFor(decision.Subtype) != decision.Category {
		t.Error("fused decision violates the category/subtype pairing")
	}
}

func TestFuse_LowConfidenceMLDoesNotOverride(t *testing.T) {
	rule := ruleResult(domain.CategoryProductive, domain.SubtypeSupportRequest, 0.71)
	ml := &domain.MLResult{Category: domain.CategoryUnproductive, Confidence: 0.69}

	decision := classifier.Fuse(rule, ml)

	if decision.Category != domain.CategoryProductive || decision.Subtype != domain.SubtypeSupportRequest {
		t.Errorf("rule decision was displaced: %s/%s", decision.Category, decision.Subtype)
	}
	if decision.Confidence != 0.71 {
		t.Errorf("confidence = %v, want the rule confidence", decision.Confidence)
	}
	if decision.DecisionSource != domain.DecisionSourceRules {
		t.Errorf("source = %s, want %s", decision.DecisionSource, domain.DecisionSourceRules)
	}
}

func TestFuse_NilMLKeepsRuleDecision(t *testing.T) {
	rule := ruleResult(domain.CategoryProductive, domain.SubtypeStatusRequest, 0.82)

	decision := classifier.Fuse(rule, nil)

	if decision.Category != rule.Category || decision.Subtype != rule.Subtype || decision.Confidence != rule.Confidence {
		t.Errorf("rule decision changed without ML input: %+v", decision)
	}
	if !strings.Contains(decision.Reasoning, "ML=unavailable") {
		t.Errorf("reasoning %q does not record ML unavailability", decision.Reasoning)
	}
}

func TestFuse_NeedsReviewBoundary(t *testing.T) {
	testCases := []struct {
		confidence float64
		want       bool
	}{
		{0.59, true},
		{0.60, false},
		{0.61, false},
	}

	for _, tc := range testCases {
		rule := ruleResult(domain.CategoryProductive, domain.SubtypeStatusRequest, tc.confidence)
		decision := classifier.Fuse(rule, nil)
		if decision.NeedsReview != tc.want {
			t.Errorf("NeedsReview at confidence %v = %v, want %v", tc.confidence, decision.NeedsReview, tc.want)
		}
	}
}
