package pattern

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

var (
	// ErrModelUnavailable is returned by Initialize when no model could be loaded.
	ErrModelUnavailable = errors.New("pattern model unavailable")
	// ErrMalformedOutput marks model output that cannot be decoded into patterns.
	ErrMalformedOutput = errors.New("malformed model output")
)

// Model is a loaded learned pattern model.
type Model interface {
	Name() string
	// Predict takes the min-max normalized (price, volume) window and returns
	// one probability per entry of model.PatternTypes, in that order.
	Predict(ctx context.Context, input [][2]float64) ([]float64, error)
}

// ModelLoader loads a Model. It is called at most once per Recognizer.
type ModelLoader interface {
	Load(ctx context.Context) (Model, error)
}

// LoaderFunc adapts a function to ModelLoader.
type LoaderFunc func(ctx context.Context) (Model, error)

func (f LoaderFunc) Load(ctx context.Context) (Model, error) { return f(ctx) }

// Config tunes detection. Zero values are replaced by DefaultConfig values.
type Config struct {
	MinSamples          int           `yaml:"min_samples"`
	Window              int           `yaml:"window"`
	SMAPeriod           int           `yaml:"sma_period"`
	TrendLookback       int           `yaml:"trend_lookback"`
	TrendThreshold      float64       `yaml:"trend_threshold"`
	ExtremeTolerance    float64       `yaml:"extreme_tolerance"`
	MinExtremeSpan      int           `yaml:"min_extreme_span"`
	HeuristicConfidence float64       `yaml:"heuristic_confidence"`
	ModelThreshold      float64       `yaml:"model_threshold"`
	BreakerFailures     uint32        `yaml:"breaker_failures"`
	BreakerTimeout      time.Duration `yaml:"breaker_timeout"`
}

// DefaultConfig returns the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		MinSamples:          30,
		Window:              30,
		SMAPeriod:           20,
		TrendLookback:       5,
		TrendThreshold:      0.02,
		ExtremeTolerance:    0.02,
		MinExtremeSpan:      5,
		HeuristicConfidence: 0.75,
		ModelThreshold:      0.5,
		BreakerFailures:     3,
		BreakerTimeout:      60 * time.Second,
	}
}

// WithDefaults replaces zero fields with DefaultConfig values.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MinSamples <= 0 {
		c.MinSamples = d.MinSamples
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.SMAPeriod <= 0 {
		c.SMAPeriod = d.SMAPeriod
	}
	if c.TrendLookback <= 0 {
		c.TrendLookback = d.TrendLookback
	}
	if c.TrendThreshold <= 0 {
		c.TrendThreshold = d.TrendThreshold
	}
	if c.ExtremeTolerance <= 0 {
		c.ExtremeTolerance = d.ExtremeTolerance
	}
	if c.MinExtremeSpan <= 0 {
		c.MinExtremeSpan = d.MinExtremeSpan
	}
	if c.HeuristicConfidence <= 0 {
		c.HeuristicConfidence = d.HeuristicConfidence
	}
	if c.ModelThreshold <= 0 {
		c.ModelThreshold = d.ModelThreshold
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = d.BreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = d.BreakerTimeout
	}
	return c
}

// Recognizer detects chart formations in price/volume series. It uses a
// learned model when one was loaded by Initialize and falls back to
// rule-based detection otherwise. Analyze is safe for concurrent use.
type Recognizer struct {
	cfg     Config
	loader  ModelLoader
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time

	initOnce sync.Once
	initErr  error

	mu    sync.RWMutex
	model Model
}

// NewRecognizer creates a Recognizer. A nil loader means heuristic detection only.
func NewRecognizer(cfg Config, loader ModelLoader) *Recognizer {
	cfg = cfg.WithDefaults()
	r := &Recognizer{cfg: cfg, loader: loader, now: time.Now}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "pattern-model",
		Interval: 60 * time.Second,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("pattern model breaker state changed")
		},
	})
	return r
}

// Initialize loads the model. Only the first call does any work; later calls
// return the first result. A failed load disables the model path for the
// lifetime of the Recognizer, and Analyze uses heuristic detection.
func (r *Recognizer) Initialize(ctx context.Context) error {
	r.initOnce.Do(func() {
		if r.loader == nil {
			log.Info().Msg("no pattern model configured, using heuristic detection")
			return
		}
		m, err := r.loader.Load(ctx)
		if err == nil && m == nil {
			err = ErrModelUnavailable
		}
		if err != nil {
			r.initErr = fmt.Errorf("load pattern model: %w", err)
			log.Warn().Err(err).Msg("pattern model unavailable, using heuristic detection")
			return
		}
		r.mu.Lock()
		r.model = m
		r.mu.Unlock()
		log.Info().Str("model", m.Name()).Msg("pattern model loaded")
	})
	return r.initErr
}

// ModelLoaded reports whether the model path is active.
func (r *Recognizer) ModelLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model != nil
}

// Analyze scans the series for patterns. Series shorter than MinSamples yield
// an empty result. Model failures yield an empty result rather than an error;
// the only error returned is the context's.
func (r *Recognizer) Analyze(ctx context.Context, series []model.PatternSample) (*model.PatternAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := &model.PatternAnalysis{
		ID:       uuid.New().String(),
		Patterns: []model.Pattern{},
		Source:   model.SourceNone,
	}
	if len(series) < r.cfg.MinSamples {
		analysis.Timestamp = r.now()
		return analysis, nil
	}

	r.mu.RLock()
	m := r.model
	r.mu.RUnlock()

	useHeuristic := m == nil
	if m != nil {
		patterns, err := r.runModel(ctx, m, series)
		switch {
		case err == nil:
			analysis.Patterns = patterns
			analysis.Source = model.SourceModel
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			log.Debug().Str("analysis", analysis.ID).Msg("pattern model breaker open, using heuristic detection")
			useHeuristic = true
		default:
			log.Warn().Err(err).Str("analysis", analysis.ID).Str("model", m.Name()).
				Msg("pattern model inference failed")
			analysis.Source = model.SourceModel
		}
	}
	if useHeuristic {
		analysis.Patterns, analysis.Trend = r.detectHeuristic(series)
		analysis.Source = model.SourceHeuristic
	}

	analysis.Timestamp = r.now()
	log.Debug().Str("analysis", analysis.ID).Str("source", string(analysis.Source)).
		Int("samples", len(series)).Int("patterns", len(analysis.Patterns)).
		Msg("pattern analysis complete")
	return analysis, nil
}

func (r *Recognizer) runModel(ctx context.Context, m Model, series []model.PatternSample) ([]model.Pattern, error) {
	input := normalize(series)
	out, err := r.breaker.Execute(func() (interface{}, error) {
		probs, err := m.Predict(ctx, input)
		if err != nil {
			return nil, err
		}
		return r.decode(probs, series)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Pattern), nil
}

// normalize min-max scales price and volume channel-wise over the full series.
func normalize(series []model.PatternSample) [][2]float64 {
	prices := make([]float64, len(series))
	volumes := make([]float64, len(series))
	for i, s := range series {
		prices[i] = s.Price
		volumes[i] = s.Volume
	}
	np := calculator.MinMaxNormalize(prices)
	nv := calculator.MinMaxNormalize(volumes)

	out := make([][2]float64, len(series))
	for i := range out {
		out[i] = [2]float64{np[i], nv[i]}
	}
	return out
}
