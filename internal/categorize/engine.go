// Package categorize assigns emails to user-defined buckets with a language
// model. Every call yields a result: failures degrade to the Uncategorized
// pseudo-bucket instead of returning an error.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/model"
)

// Config identifies the backend model and sampling settings.
type Config struct {
	Host        string
	Model       string
	Temperature float64

	// Timeout bounds a single backend call. Zero means no limit.
	Timeout time.Duration
}

// ConfigFromApp builds an engine Config from the application settings.
func ConfigFromApp(c model.OllamaConfig) Config {
	return Config{
		Host:        c.Host,
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     time.Duration(c.TimeoutSec) * time.Second,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records outcomes and backend latency into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine categorizes emails against a list of buckets.
type Engine struct {
	backend Backend
	cfg     Config
	logger  *zap.Logger
	metrics *Metrics
}

// New creates an Engine and validates the backend once. It fails with a
// *ConfigurationError if the backend is unreachable or the configured model
// is not installed. If the backend answers but cannot list its models, a
// warning is logged and construction succeeds.
func New(
	ctx context.Context,
	backend Backend,
	cfg Config,
	opts ...Option,
) (*Engine, error) {
	e := &Engine{
		backend: backend,
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.validate(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

// validate checks backend reachability and model availability.
func (e *Engine) validate(ctx context.Context) error {
	if e.backend == nil {
		return &ConfigurationError{
			Host:    e.cfg.Host,
			Model:   e.cfg.Model,
			Message: "no backend configured",
		}
	}
	if e.cfg.Model == "" {
		return &ConfigurationError{
			Host:    e.cfg.Host,
			Message: "model name is required",
		}
	}

	if err := e.backend.Ping(ctx); err != nil {
		e.logger.Error("backend validation failed",
			zap.String("host", e.cfg.Host),
			zap.Error(err),
		)
		return &ConfigurationError{
			Host:    e.cfg.Host,
			Model:   e.cfg.Model,
			Message: "cannot connect to backend, ensure it is running",
			Err:     err,
		}
	}

	e.logger.Info("connected to backend", zap.String("host", e.cfg.Host))

	names, err := e.backend.Models(ctx)
	if err != nil {
		e.logger.Warn("could not list installed models",
			zap.String("model", e.cfg.Model),
			zap.Error(err),
		)
		return nil
	}

	if !hasModel(names, e.cfg.Model) {
		e.logger.Error("model not installed",
			zap.String("model", e.cfg.Model),
			zap.Strings("available", names),
		)
		return &ConfigurationError{
			Host:  e.cfg.Host,
			Model: e.cfg.Model,
			Message: fmt.Sprintf(
				"model not installed (available: %s), run: ollama pull %s",
				strings.Join(names, ", "), e.cfg.Model,
			),
		}
	}

	return nil
}

// hasModel reports whether want is installed, either exactly or with a tag
// suffix ("phi3.5" matches "phi3.5:latest").
func hasModel(names []string, want string) bool {
	for _, name := range names {
		if name == want || strings.HasPrefix(name, want+":") {
			return true
		}
	}
	return false
}

// Categorize assigns email to one of buckets, or to Uncategorized.
//
// With no buckets the result is Uncategorized with confidence 1.0 and the
// backend is not called. Any backend, parse, or unexpected failure yields
// Uncategorized with confidence 0.0 and no summary; the failure is logged
// and never returned.
func (e *Engine) Categorize(
	ctx context.Context,
	email *model.Email,
	buckets []model.Bucket,
) (result model.Categorization) {
	if len(buckets) == 0 {
		e.metrics.outcome(OutcomeNoBuckets)
		return model.Categorization{
			Email:      email,
			Bucket:     model.Uncategorized(),
			Confidence: 1.0,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during categorization", zap.Any("panic", r))
			e.metrics.outcome(OutcomePanic)
			result = failed(email)
		}
	}()

	d, err := e.decide(ctx, email, buckets)
	if err != nil {
		outcome := OutcomeParseError
		var backendErr *BackendError
		if errors.As(err, &backendErr) {
			outcome = OutcomeBackendError
		}
		e.logger.Error("categorization failed",
			zap.String("uid", email.UID),
			zap.String("subject", email.Subject),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		e.metrics.outcome(outcome)
		return failed(email)
	}

	ref := model.Uncategorized()
	if d.slot >= 1 && d.slot <= len(buckets) {
		ref = model.RefTo(buckets[d.slot-1])
		e.metrics.outcome(OutcomeMatched)
	} else {
		e.metrics.outcome(OutcomeUncategorized)
	}

	e.logger.Debug("categorized email",
		zap.String("uid", email.UID),
		zap.String("subject", email.Subject),
		zap.String("bucket", ref.Title()),
		zap.Float64("confidence", d.confidence),
	)

	summary := d.summary
	return model.Categorization{
		Email:      email,
		Bucket:     ref,
		Summary:    &summary,
		Confidence: d.confidence,
	}
}

// decide runs one prompt/generate/parse round trip.
func (e *Engine) decide(
	ctx context.Context,
	email *model.Email,
	buckets []model.Bucket,
) (decision, error) {
	prompt := buildPrompt(email, buckets)

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.backend.Generate(ctx, Request{
		Model:       e.cfg.Model,
		Prompt:      prompt,
		Temperature: e.cfg.Temperature,
	})
	e.metrics.backendCall(time.Since(start))
	if err != nil {
		return decision{}, &BackendError{Err: err}
	}

	return parseDecision(text)
}

// failed is the result of a categorization that could not complete.
func failed(email *model.Email) model.Categorization {
	return model.Categorization{
		Email:      email,
		Bucket:     model.Uncategorized(),
		Confidence: 0.0,
	}
}

// CategorizeAll categorizes emails one at a time, in order, against a
// snapshot of buckets taken before the first call. progress, if non-nil,
// is called after each email with the number done so far.
func (e *Engine) CategorizeAll(
	ctx context.Context,
	emails []*model.Email,
	buckets []model.Bucket,
	progress func(done, total int),
) []model.Categorization {
	snapshot := slices.Clone(buckets)
	results := make([]model.Categorization, 0, len(emails))

	for i, email := range emails {
		e.logger.Info("categorizing email",
			zap.Int("index", i+1),
			zap.Int("total", len(emails)),
			zap.String("subject", email.Subject),
		)
		results = append(results, e.Categorize(ctx, email, snapshot))
		if progress != nil {
			progress(i+1, len(emails))
		}
	}

	e.logger.Info("categorized emails", zap.Int("count", len(results)))

	return results
}
