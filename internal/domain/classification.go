package domain

import "time"

// Entities holds the structured values extracted from a message. Absence is
// meaningful: a missing ticket ID means no recognized pattern matched, never
// a fabricated value.
type Entities struct {
	Name          string `json:"name,omitempty"`
	Greeting      string `json:"greeting,omitempty"`
	TicketID      string `json:"ticket_id,omitempty"`
	HasAttachment bool   `json:"has_attachment"`
}

// SubtypeScore is the raw and normalized score of one subtype candidate.
// Probabilities sum to 1 across the fixed subtype set.
type SubtypeScore struct {
	Label       Subtype `json:"label"`
	RawScore    float64 `json:"raw_score"`
	Probability float64 `json:"probability"`
}

// ClassificationResult is the heuristic rule scorer's decision.
type ClassificationResult struct {
	Category   Category `json:"category"`
	Subtype    Subtype  `json:"subtype"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Entities   Entities `json:"entities"`
}

// MLResult is the statistical classifier's decision. A nil *MLResult means
// "ML unavailable", never an error and never a classification of the text.
type MLResult struct {
	Category     Category           `json:"category"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
}

// Decision sources reported by the hybrid fuser.
const (
	DecisionSourceRules = "rules"
	DecisionSourceML    = "ml"
)

// TriageDecision is the fused final decision delivered to callers. Entities
// always come from the rule pipeline; the statistical classifier extracts
// none.
type TriageDecision struct {
	Category       Category `json:"category"`
	Subtype        Subtype  `json:"subtype"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	Entities       Entities `json:"entities"`
	NeedsReview    bool     `json:"needs_review"`
	DecisionSource string   `json:"decision_source"`
}

// TrainingExample is one sanitized labeled message. Text is non-empty and
// Label is one of the two categories; records violating that are dropped at
// ingestion.
type TrainingExample struct {
	Text  string   `json:"text"`
	Label Category `json:"label"`
}

// ModelStats describes the lifecycle state of the statistical model.
// TrainedOn is -1 when the model was restored from a snapshot rather than
// freshly trained.
type ModelStats struct {
	TrainedOn int        `json:"trained_on"`
	UpdatedAt *time.Time `json:"updated_at"`
	Available bool       `json:"available"`
}

// EvalReport is the holdout evaluation outcome. The confusion matrix maps
// actual label to predicted label to count.
type EvalReport struct {
	Accuracy        float64                       `json:"accuracy"`
	NTrain          int                           `json:"n_train"`
	NTest           int                           `json:"n_test"`
	ConfusionMatrix map[Category]map[Category]int `json:"confusion_matrix"`
}
