package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ynishioka/shindan/internal/cache"
	"github.com/ynishioka/shindan/internal/classify"
	"github.com/ynishioka/shindan/internal/extract"
	"github.com/ynishioka/shindan/internal/llm"
	"github.com/ynishioka/shindan/internal/model"
	"github.com/ynishioka/shindan/internal/normalize"
	"github.com/ynishioka/shindan/internal/plan"
	"github.com/ynishioka/shindan/internal/project"
	"github.com/ynishioka/shindan/internal/report"
	"github.com/ynishioka/shindan/internal/worker"
)

// Pipeline orchestrates the complete diagnosis: normalize, classify,
// extract, select a plan, project costs, assemble the report.
type Pipeline struct {
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	extractor  *extract.Extractor
	selector   *plan.Selector
	simulator  *project.Simulator
	store      cache.Cache
	config     *model.Config
	logger     *zap.Logger
}

// New builds a pipeline from the validated configuration. A failure to
// initialize the inference collaborator is logged and the pipeline
// falls back to rule-based extraction only.
func New(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var collaborator llm.Classifier
	if cfg.LLM.Provider != "" {
		c, err := llm.NewClassifier(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("inference collaborator unavailable, continuing rule-based",
				zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		} else if c != nil {
			collaborator = c
			if cfg.Concurrency.CollaboratorRPS > 0 {
				limiter := worker.NewLimiter(cfg.Concurrency.CollaboratorRPS, cfg.Concurrency.CollaboratorBurst)
				collaborator = newLimitedClassifier(c, limiter)
			}
		}
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		s, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		store = s
	}

	return &Pipeline{
		normalizer: normalize.New(cfg.Engine.BoilerplateDenylist),
		classifier: classify.New(),
		extractor:  extract.New(cfg.Engine, collaborator, logger),
		selector:   plan.NewSelector(cfg.Engine),
		simulator:  project.NewSimulator(cfg.Engine.ProjectionHorizonYears),
		store:      store,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Diagnose runs the full pipeline over raw bill text and returns the
// assembled report. Identical input under identical engine options is
// served from the cache when one is configured.
func (p *Pipeline) Diagnose(ctx context.Context, rawText string) (*model.DiagnosisReport, error) {
	var key string
	if p.store != nil {
		key = cache.Key(rawText, p.config)
		if data, found := p.store.Get(key); found {
			var cached model.DiagnosisReport
			if err := json.Unmarshal(data, &cached); err == nil {
				p.logger.Debug("cache hit", zap.String("key", key))
				return &cached, nil
			}
			// Unreadable entry, rebuild and overwrite.
			_ = p.store.Delete(key)
		}
	}

	lines := p.normalizer.Normalize(rawText)
	bctx := p.classifier.Classify(lines)
	bill := p.extractor.Extract(ctx, rawText, lines, bctx)
	rec := p.selector.Select(bill)
	series := p.simulator.Simulate(rec.MonthlyDelta)
	examples := project.Examples(rec.MonthlyDelta)

	result := report.Assemble(bill, rec, series, examples)

	if p.store != nil {
		if data, err := json.Marshal(&result); err == nil {
			if err := p.store.Set(key, data, p.config.Cache.TTL); err != nil {
				p.logger.Warn("cache write failed", zap.Error(err))
			}
		}
	}

	return &result, nil
}

// limitedClassifier throttles collaborator calls with a shared token
// bucket so batch runs stay inside provider rate limits.
type limitedClassifier struct {
	inner   llm.Classifier
	limiter *worker.Limiter
}

func newLimitedClassifier(inner llm.Classifier, limiter *worker.Limiter) *limitedClassifier {
	return &limitedClassifier{inner: inner, limiter: limiter}
}

func (c *limitedClassifier) Name() string { return c.inner.Name() }

func (c *limitedClassifier) IsAvailable(ctx context.Context) bool { return c.inner.IsAvailable(ctx) }

func (c *limitedClassifier) ClassifyCharge(ctx context.Context, req llm.Request) (*llm.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.inner.ClassifyCharge(ctx, req)
}
