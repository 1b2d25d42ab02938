package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/config"
	"github.com/gabrielbagon/email-classifier-api/internal/database"
	"github.com/gabrielbagon/email-classifier-api/internal/domain"
	"github.com/gabrielbagon/email-classifier-api/internal/langdetect"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/ml"
	"github.com/gabrielbagon/email-classifier-api/internal/processor"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
	"github.com/gabrielbagon/email-classifier-api/internal/store"
	"github.com/gabrielbagon/email-classifier-api/internal/telemetry"
)

// Evaluation ratio bounds for GET /api/v1/model/eval.
const (
	minEvalRatio = 0.05
	maxEvalRatio = 0.9
)

const secondsPerMinute = 60

// maxBatchItems bounds a single batch classification request.
const maxBatchItems = 200

// maxSLAHours bounds a caller-supplied SLA window to one year. The
// business-hour walk is linear in hours, so the bound keeps compose requests
// short.
const maxSLAHours = 24 * 365

// Handler handles HTTP requests for the triage API.
type Handler struct {
	engine    *classifier.Engine
	composer  *reply.Composer
	detector  *langdetect.Detector
	mlService *ml.Service
	batch     *processor.BatchProcessor
	feedback  *store.FeedbackStore
	history   *database.HistoryRepository
	telemetry *telemetry.Provider
	cfg       *config.Config
	logger    logger.Logger

	trainLimiter *rate.Limiter
}

// NewHandler creates a new API handler. The history repository may be nil,
// in which case decisions are served but not recorded.
func NewHandler(
	engine *classifier.Engine,
	composer *reply.Composer,
	detector *langdetect.Detector,
	mlService *ml.Service,
	batch *processor.BatchProcessor,
	feedback *store.FeedbackStore,
	history *database.HistoryRepository,
	tp *telemetry.Provider,
	cfg *config.Config,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		engine:       engine,
		composer:     composer,
		detector:     detector,
		mlService:    mlService,
		batch:        batch,
		feedback:     feedback,
		history:      history,
		telemetry:    tp,
		cfg:          cfg,
		logger:       log,
		trainLimiter: rate.NewLimiter(rate.Limit(cfg.ML.TrainPerMinute/secondsPerMinute), cfg.ML.TrainBurst),
	}
}

// Classify handles POST /api/v1/classify. The message arrives either as a
// JSON body or as a multipart upload with a plain-text "file" part.
func (h *Handler) Classify(c *gin.Context) {
	text, lang, ok := h.readClassifyInput(c)
	if !ok {
		return
	}

	start := time.Now()
	decision := h.engine.Classify(c.Request.Context(), text)
	elapsed := time.Since(start)

	suggested, err := h.composer.Compose(reply.Request{
		Category: decision.Category,
		Subtype:  decision.Subtype,
		Entities: decision.Entities,
		Lang:     lang,
		SLAHours: h.cfg.Classification.SLAHours,
	})
	if err != nil {
		// The engine only emits valid category/subtype pairs.
		h.logger.Error("Reply composition failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compose reply"})
		return
	}

	h.recordHistory(c, text, decision, lang, elapsed)

	c.JSON(http.StatusOK, toClassifyResponse(decision, lang, suggested))
}

// readClassifyInput extracts the message text and target language from a
// JSON or multipart request. On failure it writes the error response and
// returns ok=false.
func (h *Handler) readClassifyInput(c *gin.Context) (text string, lang reply.Language, ok bool) {
	var langParam string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		text, ok = h.readUpload(c)
		if !ok {
			return "", "", false
		}
		langParam = c.PostForm("lang")
	} else {
		var req ClassifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("Invalid classification request", logger.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return "", "", false
		}
		text = req.Text
		langParam = req.Lang
	}

	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return "", "", false
	}

	switch {
	case langParam != "":
		lang = reply.ResolveLanguage(langParam)
	case h.detector != nil:
		lang = h.detector.Detect(text)
	default:
		lang = reply.ResolveLanguage(h.cfg.Classification.DefaultLang)
	}
	return text, lang, true
}

// readUpload pulls the message text out of a multipart "file" part. Only
// plain-text uploads are accepted; extraction from richer formats happens
// upstream of this service.
func (h *Handler) readUpload(c *gin.Context) (string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart requests require a file part"})
		return "", false
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".txt" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("unsupported file type %q, only .txt is accepted", ext)})
		return "", false
	}
	if fileHeader.Size > h.cfg.Server.MaxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.Server.MaxBodyBytes))
	if err != nil {
		h.logger.Error("Failed to read upload", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return "", false
	}
	return string(data), true
}

// recordHistory appends the decision to the audit trail. Failures are logged
// and never surface to the caller.
func (h *Handler) recordHistory(c *gin.Context, text string, decision domain.TriageDecision, lang reply.Language, elapsed time.Duration) {
	if h.history == nil {
		return
	}

	entry := &database.HistoryEntry{
		TextHash:         store.HashText(text),
		Category:         string(decision.Category),
		Subtype:          string(decision.Subtype),
		Confidence:       decision.Confidence,
		DecisionSource:   decision.DecisionSource,
		NeedsReview:      decision.NeedsReview,
		HasAttachment:    decision.Entities.HasAttachment,
		HasTicket:        decision.Entities.TicketID != "",
		Lang:             string(lang),
		ProcessingTimeMs: float64(elapsed.Microseconds()) / 1000.0,
	}
	if err := h.history.Create(c.Request.Context(), entry); err != nil {
		h.logger.Warn("Failed to record classification history", logger.Error(err))
	}
}

// ClassifyBatch handles POST /api/v1/classify/batch: bulk triage without
// reply composition or history recording.
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}
	if len(req.Items) > maxBatchItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("batch size exceeds limit of %d items", maxBatchItems)})
		return
	}

	items := make([]processor.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = processor.Item{Text: item.Text, Lang: item.Lang}
	}

	results := h.batch.Process(c.Request.Context(), items)

	resp := BatchClassifyResponse{Results: make([]BatchItemResult, len(results))}
	for i, r := range results {
		if r.Decision.NeedsReview {
			resp.NeedsReview++
		}
		resp.Results[i] = BatchItemResult{
			Index:          r.Index,
			Category:       r.Decision.Category,
			Subtype:        r.Decision.Subtype,
			Confidence:     r.Decision.Confidence,
			Entities:       r.Decision.Entities,
			NeedsReview:    r.Decision.NeedsReview,
			DecisionSource: r.Decision.DecisionSource,
			Lang:           r.Lang,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Compose handles POST /api/v1/compose.
func (h *Handler) Compose(c *gin.Context) {
	var req ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid compose request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SLAHours > maxSLAHours {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("sla_hours must be at most %d", maxSLAHours)})
		return
	}
	slaHours := req.SLAHours
	if slaHours <= 0 {
		slaHours = h.cfg.Classification.SLAHours
	}

	suggested, err := h.composer.Compose(reply.Request{
		Category: req.Category,
		Subtype:  req.Subtype,
		Entities: req.Entities,
		Lang:     reply.ResolveLanguage(req.Lang),
		SLAHours: slaHours,
	})
	if err != nil {
		if errors.Is(err, reply.ErrInvalidCategory) || errors.Is(err, reply.ErrInvalidSubtype) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Reply composition failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compose reply"})
		return
	}

	c.JSON(http.StatusOK, ComposeResponse{
		SuggestedReply: suggested,
		Entities:       req.Entities,
	})
}

// Feedback handles POST /api/v1/feedback: it appends a labeled example to
// the training corpus and, when configured, retrains the model in place.
func (h *Handler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid feedback request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.feedback.Append(store.Feedback{
		Text:               req.Text,
		ChosenCategory:     domain.Category(req.ChosenCategory),
		ChosenSubtype:      domain.Subtype(req.ChosenSubtype),
		OriginalCategory:   req.OriginalCategory,
		OriginalSubtype:    req.OriginalSubtype,
		OriginalConfidence: req.Confidence,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to store feedback", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}

	if h.telemetry != nil {
		h.telemetry.Metrics.FeedbackRecorded.Inc()
	}

	examples := 0
	if n, err := h.feedback.Count(); err == nil {
		examples = n
	}

	if h.cfg.ML.TrainOnFeedback {
		if _, err := h.mlService.Train(c.Request.Context()); err != nil {
			h.logger.Warn("Retrain after feedback failed", logger.Error(err))
		}
	}

	c.JSON(http.StatusOK, FeedbackResponse{OK: true, TextHash: record.TextHash, Examples: examples})
}

// ModelStatus handles GET /api/v1/model/status.
func (h *Handler) ModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.mlService.Status())
}

// Train handles POST /api/v1/model/train. Training reads the whole corpus,
// so the endpoint is rate limited.
func (h *Handler) Train(c *gin.Context) {
	if !h.trainLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "training rate limit exceeded, try again later"})
		return
	}

	stats, err := h.mlService.Train(c.Request.Context())
	if err != nil {
		h.logger.Error("Training failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to train model"})
		return
	}

	c.JSON(http.StatusOK, TrainResponse{OK: true, TrainedOn: stats.TrainedOn, Available: stats.Available})
}

// Eval handles GET /api/v1/model/eval.
func (h *Handler) Eval(c *gin.Context) {
	// An unparsable or zero ratio falls back to the configured default.
	ratio := h.cfg.ML.EvalRatio
	if raw := c.Query("ratio"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed != 0 && !math.IsNaN(parsed) {
			ratio = parsed
		}
	}
	ratio = clampRatio(ratio)

	examples, err := h.feedback.TrainingExamples()
	if err != nil {
		h.logger.Error("Failed to read training corpus", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read training corpus"})
		return
	}

	report, err := ml.EvalHoldout(examples, ratio, h.cfg.ML.EvalSeed)
	if err != nil {
		if errors.Is(err, ml.ErrInsufficientData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Evaluation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DatasetCSV handles GET /api/v1/dataset/csv.
func (h *Handler) DatasetCSV(c *gin.Context) {
	examples, err := h.feedback.TrainingExamples()
	if err != nil {
		h.logger.Error("Failed to read training corpus", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read training corpus"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="dataset.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(ml.DatasetCSV(examples)))
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(c *gin.Context) {
	response := gin.H{"model": h.mlService.Status()}

	if n, err := h.feedback.Count(); err == nil {
		response["training_examples"] = n
	}

	if h.history != nil {
		stats, err := h.history.GetStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to load history stats", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
			return
		}
		response["history"] = stats
	}

	c.JSON(http.StatusOK, response)
}

// ReadyCheck handles GET /ready. The service can classify with rules alone,
// so readiness does not require a trained model.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ready",
		"model_available": h.mlService.Status().Available,
	})
}

func clampRatio(ratio float64) float64 {
	if ratio < minEvalRatio {
		return minEvalRatio
	}
	if ratio > maxEvalRatio {
		return maxEvalRatio
	}
	return ratio
}
