package store

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
)

var ErrInvalidFeedback = errors.New("store: feedback requires text, a valid category and a valid subtype")

// Feedback is one human correction (or confirmation) of a classification.
type Feedback struct {
	Text               string
	ChosenCategory     domain.Category
	ChosenSubtype      domain.Subtype
	OriginalCategory   string
	OriginalSubtype    string
	OriginalConfidence *float64
	Source             string
}

// FeedbackRecord is the persisted form. The raw text never reaches disk:
// only its hash (for deduplication and audit) and the sanitized version used
// for training.
type FeedbackRecord struct {
	TS                 time.Time       `json:"ts"`
	TextHash           string          `json:"text_hash"`
	SanitizedText      string          `json:"sanitized_text"`
	ChosenCategory     domain.Category `json:"chosen_category"`
	ChosenSubtype      domain.Subtype  `json:"chosen_subtype"`
	OriginalCategory   string          `json:"original_category,omitempty"`
	OriginalSubtype    string          `json:"original_subtype,omitempty"`
	OriginalConfidence *float64        `json:"original_confidence,omitempty"`
	Source             string          `json:"source"`
}

// FeedbackStore is an append-only JSONL corpus of labeled examples. Appends
// are serialized; reads tolerate corrupt lines so one bad write never poisons
// the whole corpus.
type FeedbackStore struct {
	path string
	log  logger.Logger

	mu      sync.Mutex
	count   int
	counted bool
}

func NewFeedbackStore(path string, log logger.Logger) *FeedbackStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &FeedbackStore{path: path, log: log}
}

// Append validates, sanitizes and persists one feedback entry, returning the
// record as written.
func (s *FeedbackStore) Append(fb Feedback) (FeedbackRecord, error) {
	if strings.TrimSpace(fb.Text) == "" || !fb.ChosenCategory.Valid() || !fb.ChosenSubtype.Valid() {
		return FeedbackRecord{}, ErrInvalidFeedback
	}

	source := fb.Source
	if source == "" {
		source = "ui"
	}

	record := FeedbackRecord{
		TS:                 time.Now().UTC(),
		TextHash:           HashText(fb.Text),
		SanitizedText:      Sanitize(fb.Text),
		ChosenCategory:     fb.ChosenCategory,
		ChosenSubtype:      fb.ChosenSubtype,
		OriginalCategory:   fb.OriginalCategory,
		OriginalSubtype:    fb.OriginalSubtype,
		OriginalConfidence: fb.OriginalConfidence,
		Source:             source,
	}

	line, err := json.Marshal(record)
	if err != nil {
		return FeedbackRecord{}, fmt.Errorf("store: marshal feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return FeedbackRecord{}, fmt.Errorf("store: create feedback dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return FeedbackRecord{}, fmt.Errorf("store: open feedback log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return FeedbackRecord{}, fmt.Errorf("store: append feedback: %w", err)
	}
	if s.counted {
		s.count++
	}
	return record, nil
}

// TrainingExamples reads the whole corpus back as sanitized labeled
// examples. Lines that fail to parse or carry an unknown label are skipped.
// A missing file is an empty corpus, not an error.
func (s *FeedbackStore) TrainingExamples() ([]domain.TrainingExample, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: open feedback log: %w", err)
	}
	defer f.Close()

	var examples []domain.TrainingExample
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record FeedbackRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			skipped++
			continue
		}
		text := strings.TrimSpace(record.SanitizedText)
		if text == "" || !record.ChosenCategory.Valid() {
			skipped++
			continue
		}
		examples = append(examples, domain.TrainingExample{Text: text, Label: record.ChosenCategory})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: read feedback log: %w", err)
	}

	if skipped > 0 {
		s.log.Warn("skipped unreadable feedback lines",
			logger.Int("skipped", skipped),
			logger.String("path", s.path))
	}
	return examples, nil
}

// Count returns the number of usable training examples in the corpus. The
// corpus is scanned once; later appends keep the count current without
// re-reading the file.
func (s *FeedbackStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.counted {
		examples, err := s.TrainingExamples()
		if err != nil {
			return 0, err
		}
		s.count = len(examples)
		s.counted = true
	}
	return s.count, nil
}

// HashText returns the hex SHA-256 of a message, the only form in which
// message identity is ever persisted.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
