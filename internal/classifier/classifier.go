package classifier

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"downfileorg/internal/classify"
	"downfileorg/internal/config"
	"downfileorg/internal/forest"
	"downfileorg/internal/logging"
	"downfileorg/internal/queue"
	"downfileorg/internal/routing"
	"downfileorg/internal/services"
	"downfileorg/internal/stage"
)

// Classifier assigns a category and confidence to each queue item. When the
// model artifact cannot be loaded it degrades instead of failing: every item
// routes to manual review and the pipeline keeps moving.
type Classifier struct {
	store     *queue.Store
	cfg       *config.Config
	logger    *slog.Logger
	model     *forest.Model
	threshold float64
	degraded  string
}

// NewClassifier constructs the classification stage handler, loading the
// model artifact from the configured path.
func NewClassifier(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Classifier {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "classifier"))
	}

	c := &Classifier{
		store:     store,
		cfg:       cfg,
		logger:    stageLogger,
		threshold: cfg.Threshold(),
	}

	model, err := forest.Load(cfg.Classifier.ModelPath)
	if err != nil {
		c.degraded = err.Error()
		if stageLogger != nil {
			stageLogger.Warn(
				"model unavailable; routing everything to manual review",
				logging.String("model_path", cfg.Classifier.ModelPath),
				logging.Error(err),
			)
		}
		return c
	}

	c.model = model
	if stageLogger != nil {
		stageLogger.Info(
			"model loaded",
			logging.String("model_path", model.Path()),
			logging.Int("trees", model.TreeCount()),
			logging.Float64("threshold", c.threshold),
		)
	}
	return c
}

// Degraded reports whether the classifier is running without a model and,
// if so, why.
func (c *Classifier) Degraded() (bool, string) {
	return c.model == nil, c.degraded
}

// Threshold returns the resolved confidence threshold.
func (c *Classifier) Threshold() float64 { return c.threshold }

func (c *Classifier) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, c.logger)
	item.ErrorMessage = ""
	logger.Info(
		"starting classification",
		logging.String("source_path", item.SourcePath),
		logging.Int64("size_bytes", item.SizeBytes),
	)
	return nil
}

func (c *Classifier) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, c.logger)

	record := classify.FileRecord{
		Path:       item.SourcePath,
		Name:       item.Name,
		Extension:  item.Extension,
		SizeBytes:  item.SizeBytes,
		ModifiedAt: item.ModifiedAt,
	}

	decision := c.Decide(record)
	applyDecision(item, decision)

	if decision.Review {
		logger.Info(
			"routed to manual review",
			logging.String("reason", decision.Reason),
			logging.Float64("confidence", decision.Result.Confidence),
		)
	} else {
		logger.Info(
			"classified",
			logging.String("category", string(decision.Category)),
			logging.Float64("confidence", decision.Result.Confidence),
			logging.Float64("threshold", c.threshold),
		)
	}

	raw, err := stage.EncodeProbabilities(probabilityMap(decision.Result))
	if err != nil {
		logger.Warn("probabilities not persisted", logging.Error(err))
	} else {
		item.ProbabilitiesJSON = raw
	}

	item.Status = queue.StatusClassified
	return nil
}

// Decide classifies a single record and applies confidence routing. It is
// the synchronous core used by both the workflow stage and the classify
// command's dry-run path.
func (c *Classifier) Decide(record classify.FileRecord) routing.Decision {
	if c.model == nil {
		return routing.Degraded(c.degraded)
	}

	vector := classify.Extract(record)
	result, err := c.model.Predict(vector)
	if err != nil {
		if services.IsDegraded(err) {
			return routing.Degraded(err.Error())
		}
		return routing.Degraded("classification failed: " + err.Error())
	}
	return routing.Route(result, c.threshold)
}

// HealthCheck verifies the classifier has a usable model and threshold.
func (c *Classifier) HealthCheck(ctx context.Context) stage.Health {
	const name = "classifier"
	if c.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if c.threshold <= 0 || c.threshold > 1 {
		return stage.Unhealthy(name, "confidence threshold out of range")
	}
	if c.model == nil {
		detail := strings.TrimSpace(c.degraded)
		if detail == "" {
			detail = "model unavailable"
		}
		return stage.Unhealthy(name, "degraded: "+detail)
	}
	return stage.Healthy(name)
}

func applyDecision(item *queue.Item, decision routing.Decision) {
	item.NeedsReview = decision.Review
	item.ReviewReason = decision.Reason
	item.Confidence = decision.Result.Confidence
	if decision.Review {
		item.Category = ""
	} else {
		item.Category = string(decision.Category)
	}
}

func probabilityMap(result forest.Result) map[string]float64 {
	if len(result.Probabilities) == 0 {
		return nil
	}
	probs := make(map[string]float64, len(result.Probabilities))
	for cat, p := range result.Probabilities {
		probs[string(cat)] = p
	}
	return probs
}

// RecordForPath stats path and snapshots metadata for ad-hoc
// classification outside the queue.
func RecordForPath(path string) (classify.FileRecord, error) {
	record, err := classify.NewFileRecord(path)
	if err != nil {
		return classify.FileRecord{}, services.Wrap(
			services.ErrValidation, "classifier", "stat file",
			"File is missing or unreadable; check the path", err)
	}
	if record.ModifiedAt.IsZero() {
		record.ModifiedAt = time.Now().UTC()
	}
	return record, nil
}
