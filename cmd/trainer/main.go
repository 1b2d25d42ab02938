// Command trainer retrains the model from the feedback corpus on disk and
// prints a holdout evaluation of the result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gabrielbagon/email-classifier-api/internal/bootstrap"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/ml"
	"github.com/gabrielbagon/email-classifier-api/internal/store"
)

func main() {
	ratio := flag.Float64("ratio", 0, "holdout ratio for evaluation (0 uses the configured default)")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	feedback := store.NewFeedbackStore(cfg.Store.FeedbackPath, logr)
	service := ml.NewService(feedback, cfg.Store.ModelPath, logr, nil)

	stats, err := service.Train(context.Background())
	if err != nil {
		logr.Error("Training failed", logger.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Trained on %d examples (available: %t, snapshot: %s)\n",
		stats.TrainedOn, stats.Available, cfg.Store.ModelPath)

	evalRatio := *ratio
	if evalRatio <= 0 {
		evalRatio = cfg.ML.EvalRatio
	}

	examples, err := feedback.TrainingExamples()
	if err != nil {
		logr.Error("Failed to read training corpus", logger.Error(err))
		os.Exit(1)
	}

	report, err := ml.EvalHoldout(examples, evalRatio, cfg.ML.EvalSeed)
	if err != nil {
		if errors.Is(err, ml.ErrInsufficientData) {
			fmt.Println("Corpus too small for evaluation, skipping")
			return
		}
		logr.Error("Evaluation failed", logger.Error(err))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logr.Error("Failed to render evaluation report", logger.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
