package classifier

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/telemetry"
)

// MLClassifier is the statistical classifier consulted by the hybrid fusion.
// A nil result with a nil error means the model is unavailable.
type MLClassifier interface {
	Classify(ctx context.Context, text string) (*domain.MLResult, error)
}

// Engine runs the full triage pipeline for one message: normalization,
// signal detection, entity extraction, rule scoring and fusion with the
// statistical classifier.
type Engine struct {
	detector  *SignalDetector
	ml        MLClassifier
	logger    logger.Logger
	telemetry *telemetry.Provider
}

// NewEngine creates an engine. ml and tp may be nil; the engine then runs
// rules-only and unmetered.
func NewEngine(ml MLClassifier, log logger.Logger, tp *telemetry.Provider) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		detector:  NewSignalDetector(),
		ml:        ml,
		logger:    log,
		telemetry: tp,
	}
}

// ClassifyRules runs only the heuristic side of the pipeline: signals,
// entities and the rule scorer. It is pure computation over the input.
func (e *Engine) ClassifyRules(raw string) domain.ClassificationResult {
	normalized := Normalize(raw)
	hits := e.detector.Detect(raw, normalized)

	result := classifyByRules(hits)
	result.Entities = ExtractEntities(raw, normalized)

	return result
}

// Classify runs the full hybrid pipeline and returns the fused decision.
func (e *Engine) Classify(ctx context.Context, raw string) domain.TriageDecision {
	start := time.Now()
	if e.telemetry != nil {
		var span trace.Span
		ctx, span = e.telemetry.StartSpan(ctx, "triage.classify")
		defer span.End()
	}

	rule := e.ClassifyRules(raw)

	var ml *domain.MLResult
	if e.ml != nil {
		res, err := e.ml.Classify(ctx, raw)
		if err != nil {
			e.logger.Warn("statistical classification failed, using rules only",
				logger.Error(err))
		} else {
			ml = res
		}
	}

	decision := Fuse(rule, ml)

	duration := time.Since(start)
	if e.telemetry != nil {
		e.telemetry.RecordDecision(string(decision.Category), decision.DecisionSource, decision.NeedsReview, duration)
		if ml == nil {
			e.telemetry.Metrics.MLUnavailable.Inc()
		} else if decision.DecisionSource == domain.DecisionSourceML {
			e.telemetry.Metrics.MLOverrides.Inc()
		}
	}

	e.logger.Debug("message classified",
		logger.String("category", string(decision.Category)),
		logger.String("subtype", string(decision.Subtype)),
		logger.Float64("confidence", decision.Confidence),
		logger.String("decision_source", decision.DecisionSource),
		logger.Bool("needs_review", decision.NeedsReview),
		logger.Duration("duration", duration),
	)

	return decision
}
