package classifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

type stubML struct {
	result *domain.MLResult
	err    error
}

func (s *stubML) Classify(_ context.Context, _ string) (*domain.MLResult, error) {
	return s.result, s.err
}

func TestEngine_Classify_EndToEnd(t *testing.T) {
	engine := classifier.NewEngine(nil, nil, nil)

	decision := engine.Classify(context.Background(), "Bom dia Maria, qual o status do protocolo AB-12345? Segue em anexo o comprovante.")

	if decision.Category != domain.CategoryProductive {
		t.Errorf("category = %s, want %s", decision.Category, domain.CategoryProductive)
	}
	if decision.Subtype != domain.SubtypeStatusRequest {
		t.Errorf("subtype = %s, want %s (reasoning: %s)", decision.Subtype, domain.SubtypeStatusRequest, decision.Reasoning)
	}
	if decision.Entities.TicketID != "AB-12345" {
		t.Errorf("ticket_id = %q, want %q", decision.Entities.TicketID, "AB-12345")
	}
	if !decision.Entities.HasAttachment {
		t.Error("attachment mention was not detected")
	}
	if decision.Entities.Greeting != "bom dia" || decision.Entities.Name != "Maria" {
		t.Errorf("greeting/name = %q/%q", decision.Entities.Greeting, decision.Entities.Name)
	}
	if decision.DecisionSource != domain.DecisionSourceRules {
		t.Errorf("source = %s, want rules when no ML is wired", decision.DecisionSource)
	}
}

func TestEngine_Classify_MLOverride(t *testing.T) {
	ml := &stubML{result: &domain.MLResult{
		Category:   domain.CategoryUnproductive,
		Confidence: 0.84,
		Distribution: map[string]float64{
			string(domain.CategoryUnproductive): 0.84,
			string(domain.CategoryProductive):   0.16,
		},
	}}
	engine := classifier.NewEngine(ml, nil, nil)

	decision := engine.Classify(context.Background(), "Qual o status do chamado 123456?")

	if decision.Category != domain.CategoryUnproductive {
		t.Errorf("category = %s, want the ML override", decision.Category)
	}
	if decision.Subtype != domain.SubtypeGreetingsOrThanks {
		t.Errorf("subtype = %s, want %s", decision.Subtype, domain.SubtypeGreetingsOrThanks)
	}
	if decision.DecisionSource != domain.DecisionSourceML {
		t.Errorf("source = %s, want %s", decision.DecisionSource, domain.DecisionSourceML)
	}
}

func TestEngine_Classify_MLFailureFallsBackToRules(t *testing.T) {
	ml := &stubML{err: errors.New("model not loaded")}
	engine := classifier.NewEngine(ml, nil, nil)

	decision := engine.Classify(context.Background(), "Estou com erro de acesso ao sistema, podem verificar?")

	if decision.Category != domain.CategoryProductive || decision.Subtype != domain.SubtypeSupportRequest {
		t.Errorf("got %s/%s, want the rule decision", decision.Category, decision.Subtype)
	}
	if decision.DecisionSource != domain.DecisionSourceRules {
		t.Errorf("source = %s, want %s", decision.DecisionSource, domain.DecisionSourceRules)
	}
}

func TestEngine_Classify_EmptyInput(t *testing.T) {
	engine := classifier.NewEngine(nil, nil, nil)

	decision := engine.Classify(context.Background(), "")

	if decision.Category != domain.CategoryUnproductive {
		t.Errorf("category = %s, want the fallback", decision.Category)
	}
	if decision.Subtype != domain.SubtypeGreetingsOrThanks {
		t.Errorf("subtype = %s, want the fallback", decision.Subtype)
	}
	if decision.Confidence != 0.55 {
		t.Errorf("confidence = %v, want 0.55", decision.Confidence)
	}
	if !decision.NeedsReview {
		t.Error("fallback decision must be flagged for review")
	}
}
