package ml

import (
	"context"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jbrukh/bayesian"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/telemetry"
)

// Bayes classes mirror the two triage categories.
const (
	classProductive   = bayesian.Class(domain.CategoryProductive)
	classUnproductive = bayesian.Class(domain.CategoryUnproductive)
)

// TrainingSource supplies the sanitized labeled examples the model trains on.
type TrainingSource interface {
	TrainingExamples() ([]domain.TrainingExample, error)
}

// snapshot is one immutable trained model plus its lifecycle stats. Requests
// read whichever snapshot is current; training builds a fresh one and swaps
// the pointer, so classification never observes a half-trained model.
type snapshot struct {
	clf   *bayesian.Classifier
	stats domain.ModelStats
}

// Service wraps the naive Bayes classifier with snapshot lifecycle
// management. Training runs are serialized; classification is lock-free.
type Service struct {
	source    TrainingSource
	modelPath string
	log       logger.Logger
	telemetry *telemetry.Provider

	trainMu sync.Mutex
	current atomic.Pointer[snapshot]
}

func NewService(source TrainingSource, modelPath string, log logger.Logger, tp *telemetry.Provider) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		source:    source,
		modelPath: modelPath,
		log:       log,
		telemetry: tp,
	}
}

// LoadOrTrain restores the model from its snapshot file when one exists,
// otherwise trains from whatever the training source currently holds. A
// restored model reports TrainedOn = -1 because the original example count is
// not stored in the snapshot.
func (s *Service) LoadOrTrain(ctx context.Context) (domain.ModelStats, error) {
	if info, err := os.Stat(s.modelPath); err == nil {
		clf, err := bayesian.NewClassifierFromFile(s.modelPath)
		if err == nil {
			mtime := info.ModTime()
			snap := &snapshot{
				clf:   clf,
				stats: domain.ModelStats{TrainedOn: -1, UpdatedAt: &mtime, Available: true},
			}
			s.current.Store(snap)
			s.log.Info("model restored from snapshot",
				logger.String("path", s.modelPath),
				logger.Time("updated_at", mtime))
			return snap.stats, nil
		}
		s.log.Warn("model snapshot unreadable, retraining",
			logger.String("path", s.modelPath),
			logger.Error(err))
	}
	return s.Train(ctx)
}

// Train rebuilds the model from the training source and atomically swaps it
// in. With no examples available the model is marked unavailable rather than
// failing: the rule pipeline alone still serves classification.
func (s *Service) Train(ctx context.Context) (domain.ModelStats, error) {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	examples, err := s.source.TrainingExamples()
	if err != nil {
		return domain.ModelStats{}, err
	}
	if len(examples) == 0 {
		s.current.Store(&snapshot{stats: domain.ModelStats{Available: false}})
		s.log.Info("no training examples, model unavailable")
		return domain.ModelStats{Available: false}, nil
	}

	clf := bayesian.NewClassifier(classProductive, classUnproductive)
	for _, ex := range examples {
		clf.Learn(Tokenize(ex.Text), bayesian.Class(ex.Label))
	}

	if s.modelPath != "" {
		if err := clf.WriteToFile(s.modelPath); err != nil {
			s.log.Warn("model snapshot not written",
				logger.String("path", s.modelPath),
				logger.Error(err))
		}
	}

	now := time.Now()
	snap := &snapshot{
		clf:   clf,
		stats: domain.ModelStats{TrainedOn: len(examples), UpdatedAt: &now, Available: true},
	}
	s.current.Store(snap)

	if s.telemetry != nil {
		s.telemetry.RecordTraining(len(examples))
	}
	s.log.Info("model trained", logger.Int("examples", len(examples)))

	return snap.stats, nil
}

// Classify scores the text against the current model. A nil result means no
// model is available; it is not an error.
func (s *Service) Classify(_ context.Context, text string) (*domain.MLResult, error) {
	snap := s.current.Load()
	if snap == nil || !snap.stats.Available {
		return nil, nil
	}

	scores, _, _ := snap.clf.LogScores(Tokenize(text))
	probs := softmax(scores)

	classes := snap.clf.Classes
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}

	dist := make(map[string]float64, len(classes))
	for i, class := range classes {
		dist[string(class)] = round3(probs[i])
	}

	return &domain.MLResult{
		Category:     domain.Category(classes[best]),
		Confidence:   round3(probs[best]),
		Distribution: dist,
	}, nil
}

// Status reports the current model lifecycle state.
func (s *Service) Status() domain.ModelStats {
	if snap := s.current.Load(); snap != nil {
		return snap.stats
	}
	return domain.ModelStats{Available: false}
}

// softmax turns log-likelihood scores into a probability distribution. The
// max is subtracted before exponentiation so the large negative magnitudes
// naive Bayes produces cannot underflow to an all-zero vector.
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

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
