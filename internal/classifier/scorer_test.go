package classifier_test

import (
	"math"
	"testing"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

func TestScoreSubtypes_DistributionIsNormalized(t *testing.T) {
	testCases := []struct {
		name string
		hits classifier.SignalHits
	}{
		{"no hits", classifier.SignalHits{}},
		{"question only", classifier.SignalHits{IsQuestion: true}},
		{"status and ticket", classifier.SignalHits{Status: []string{"status"}, MentionsTicket: true, IsQuestion: true}},
		{"greeting with question", classifier.SignalHits{Greeting: []string{"obrigado"}, IsQuestion: true}},
		{"everything", classifier.SignalHits{
			Status:         []string{"status"},
			Support:        []string{"erro"},
			Attachment:     []string{"anexo"},
			Greeting:       []string{"bom dia"},
			IsQuestion:     true,
			MentionsTicket: true,
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scores := classifier.ScoreSubtypes(tc.hits)
			if len(scores) != len(domain.SubtypePreference) {
				t.Fatalf("got %d scores, want %d", len(scores), len(domain.SubtypePreference))
			}

			var sum float64
			for _, s := range scores {
				if s.Probability < 0 || s.Probability > 1 {
					t.Errorf("probability of %s out of range: %f", s.Label, s.Probability)
				}
				sum += s.Probability
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("probabilities sum to %f, want 1", sum)
			}
		})
	}
}

func TestScoreSubtypes_Weights(t *testing.T) {
	hits := classifier.SignalHits{
		Status:         []string{"status"},
		IsQuestion:     true,
		MentionsTicket: true,
	}

	want := map[domain.Subtype]float64{
		domain.SubtypeStatusRequest:     4.0,  // 2 signal + 1 question + 1 ticket
		domain.SubtypeSupportRequest:    0.5,  // 0.5 question
		domain.SubtypeAttachmentShare:   0.0,  //
		domain.SubtypeGeneralQuestion:   1.5,  // 1.5 question
		domain.SubtypeGreetingsOrThanks: -1.0, // -1 question
	}

	for _, s := range classifier.ScoreSubtypes(hits) {
		if s.RawScore != want[s.Label] {
			t.Errorf("raw score of %s = %v, want %v", s.Label, s.RawScore, want[s.Label])
		}
	}
}

func TestDecide_TieBreakPrefersProductiveOrder(t *testing.T) {
	// Equal probabilities: the fixed preference order decides.
	tied := []domain.SubtypeScore{
		{Label: domain.SubtypeGreetingsOrThanks, Probability: 0.5},
		{Label: domain.SubtypeSupportRequest, Probability: 0.5},
	}
	if got := classifier.Decide(tied); got.Label != domain.SubtypeSupportRequest {
		t.Errorf("tie-break chose %s, want %s", got.Label, domain.SubtypeSupportRequest)
	}

	tied = []domain.SubtypeScore{
		{Label: domain.SubtypeGeneralQuestion, Probability: 0.3},
		{Label: domain.SubtypeStatusRequest, Probability: 0.3},
		{Label: domain.SubtypeAttachmentShare, Probability: 0.3},
	}
	if got := classifier.Decide(tied); got.Label != domain.SubtypeStatusRequest {
		t.Errorf("tie-break chose %s, want %s", got.Label, domain.SubtypeStatusRequest)
	}

	// A clear winner is never displaced by preference order.
	clear := []domain.SubtypeScore{
		{Label: domain.SubtypeStatusRequest, Probability: 0.2},
		{Label: domain.SubtypeGreetingsOrThanks, Probability: 0.8},
	}
	if got := classifier.Decide(clear); got.Label != domain.SubtypeGreetingsOrThanks {
		t.Errorf("Decide chose %s, want %s", got.Label, domain.SubtypeGreetingsOrThanks)
	}
}

func TestClassifyRules_FallbackOnSilentMessage(t *testing.T) {
	engine := classifier.NewEngine(nil, nil, nil)

	result := engine.ClassifyRules("A reunião foi remarcada para quinta-feira.")

	if result.Category != domain.CategoryUnproductive {
		t.Errorf("category = %s, want %s", result.Category, domain.CategoryUnproductive)
	}
	if result.Subtype != domain.SubtypeGreetingsOrThanks {
		t.Errorf("subtype = %s, want %s", result.Subtype, domain.SubtypeGreetingsOrThanks)
	}
	if result.Confidence != 0.55 {
		t.Errorf("confidence = %v, want 0.55", result.Confidence)
	}
}

func TestClassifyRules_TaxonomyInvariant(t *testing.T) {
	engine := classifier.NewEngine(nil, nil, nil)

	inputs := []string{
		"Qual o status do chamado 123456?",
		"Estou com erro de acesso, podem ajudar?",
		"Segue em anexo o contrato assinado.",
		"Poderia confirmar o horário da reunião?",
		"Feliz Natal a toda a equipe!",
		"Nada de novo por aqui.",
		"",
	}

	for _, input := range inputs {
		result := engine.ClassifyRules(input)
		gotUnproductive := result.Category == domain.CategoryUnproductive
		isGreetings := result.Subtype == domain.SubtypeGreetingsOrThanks
		if gotUnproductive != isGreetings {
			t.Errorf("input %q: category %s paired with subtype %s", input, result.Category, result.Subtype)
		}
	}
}

func TestClassifyRules_StatusRequest(t *testing.T) {
	engine := classifier.NewEngine(nil, nil, nil)

	result := engine.ClassifyRules("Bom dia, qual o status do protocolo 20240815?")

	if result.Subtype != domain.SubtypeStatusRequest {
		t.Errorf("subtype = %s, want %s (reasoning: %s)", result.Subtype, domain.SubtypeStatusRequest, result.Reasoning)
	}
	if result.Category != domain.CategoryProductive {
		t.Errorf("category = %s, want %s", result.Category, domain.CategoryProductive)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("confidence out of range: %v", result.Confidence)
	}
	if result.Reasoning == "" {
		t.Error("expected a reasoning trace")
	}
}
