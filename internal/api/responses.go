package api

import (
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

// ClassifyRequest is the JSON body of POST /api/v1/classify. Multipart
// uploads carry the same fields as form values plus a "file" part.
type ClassifyRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// ClassifyResponse is the full triage decision plus the rendered reply.
type ClassifyResponse struct {
	Category       domain.Category `json:"category"`
	Subtype        domain.Subtype  `json:"subtype"`
	Confidence     float64         `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
	Entities       domain.Entities `json:"entities"`
	NeedsReview    bool            `json:"needs_review"`
	DecisionSource string          `json:"decision_source"`
	Lang           reply.Language  `json:"lang"`
	SuggestedReply string          `json:"suggested_reply"`
}

// BatchClassifyRequest is the JSON body of POST /api/v1/classify/batch.
type BatchClassifyRequest struct {
	Items []ClassifyRequest `json:"items" binding:"required"`
}

// BatchItemResult is one classified message in a batch response, in input
// order. Batch results carry no suggested reply.
type BatchItemResult struct {
	Index          int             `json:"index"`
	Category       domain.Category `json:"category"`
	Subtype        domain.Subtype  `json:"subtype"`
	Confidence     float64         `json:"confidence"`
	Entities       domain.Entities `json:"entities"`
	NeedsReview    bool            `json:"needs_review"`
	DecisionSource string          `json:"decision_source"`
	Lang           reply.Language  `json:"lang"`
}

// BatchClassifyResponse is the response of POST /api/v1/classify/batch.
type BatchClassifyResponse struct {
	Results     []BatchItemResult `json:"results"`
	NeedsReview int               `json:"needs_review"`
}

// ComposeRequest is the JSON body of POST /api/v1/compose.
type ComposeRequest struct {
	Category   domain.Category `json:"category" binding:"required"`
	Subtype    domain.Subtype  `json:"subtype" binding:"required"`
	Confidence float64         `json:"confidence"`
	Entities   domain.Entities `json:"entities"`
	Lang       string          `json:"lang"`
	SLAHours   int             `json:"sla_hours"`
}

// ComposeResponse carries the rendered reply and the entities used in it.
type ComposeResponse struct {
	SuggestedReply string          `json:"suggested_reply"`
	Entities       domain.Entities `json:"entities"`
}

// FeedbackRequest is the JSON body of POST /api/v1/feedback.
type FeedbackRequest struct {
	Text             string   `json:"text" binding:"required"`
	ChosenCategory   string   `json:"chosen_category" binding:"required"`
	ChosenSubtype    string   `json:"chosen_subtype" binding:"required"`
	OriginalCategory string   `json:"original_category"`
	OriginalSubtype  string   `json:"original_subtype"`
	Confidence       *float64 `json:"confidence"`
}

// FeedbackResponse acknowledges a stored feedback entry.
type FeedbackResponse struct {
	OK       bool   `json:"ok"`
	TextHash string `json:"text_hash"`
	Examples int    `json:"examples,omitempty"`
}

// TrainResponse reports the outcome of a training run.
type TrainResponse struct {
	OK        bool `json:"ok"`
	TrainedOn int  `json:"trained_on"`
	Available bool `json:"available"`
}

func toClassifyResponse(decision domain.TriageDecision, lang reply.Language, suggested string) ClassifyResponse {
	return ClassifyResponse{
		Category:       decision.Category,
		Subtype:        decision.Subtype,
		Confidence:     decision.Confidence,
		Reasoning:      decision.Reasoning,
		Entities:       decision.Entities,
		NeedsReview:    decision.NeedsReview,
		DecisionSource: decision.DecisionSource,
		Lang:           lang,
		SuggestedReply: suggested,
	}
}
