// Package processor runs the triage pipeline over batches of messages with a
// bounded worker pool, for bulk mailbox imports.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/langdetect"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

const defaultConcurrency = 10

// Item is one message in a batch. Lang is optional; empty means detect.
type Item struct {
	Text string
	Lang string
}

// Result pairs a triage decision with the index of the item it belongs to.
// Results are returned in input order.
type Result struct {
	Index    int
	Decision domain.TriageDecision
	Lang     reply.Language
}

// BatchProcessor fans a batch of messages out over a fixed worker pool.
type BatchProcessor struct {
	engine      *classifier.Engine
	detector    *langdetect.Detector
	concurrency int
	log         logger.Logger
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(engine *classifier.Engine, detector *langdetect.Detector, concurrency int, log logger.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BatchProcessor{
		engine:      engine,
		detector:    detector,
		concurrency: concurrency,
		log:         log,
	}
}

// Process classifies every item in the batch. Classification itself never
// fails per item: empty or unrecognizable text yields the low-confidence
// fallback decision, so every input index has a result.
func (b *BatchProcessor) Process(ctx context.Context, items []Item) []Result {
	if len(items) == 0 {
		return []Result{}
	}

	start := time.Now()
	b.log.Info("Starting batch classification",
		logger.Int("batch_size", len(items)),
		logger.Int("concurrency", b.concurrency),
	)

	jobs := make(chan int, len(items))
	results := make([]Result, len(items))

	var wg sync.WaitGroup
	for w := 0; w < b.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = b.classifyOne(ctx, idx, items[idx])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	needsReview := 0
	for _, r := range results {
		if r.Decision.NeedsReview {
			needsReview++
		}
	}
	b.log.Info("Batch classification complete",
		logger.Int("total", len(items)),
		logger.Int("needs_review", needsReview),
		logger.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return results
}

func (b *BatchProcessor) classifyOne(ctx context.Context, idx int, item Item) Result {
	lang := reply.LangPT
	if item.Lang != "" {
		lang = reply.ResolveLanguage(item.Lang)
	} else if b.detector != nil {
		lang = b.detector.Detect(item.Text)
	}

	return Result{
		Index:    idx,
		Decision: b.engine.Classify(ctx, item.Text),
		Lang:     lang,
	}
}
