package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/series"

	"github.com/rs/zerolog/log"
)

// MockSource generates a deterministic oscillating series for development and testing.
type MockSource struct {
	Price     float64       // base price
	Amplitude float64       // relative swing, 0.05 = ±5%
	Period    int           // samples per full oscillation
	Noise     float64       // relative noise per sample
	Step      time.Duration // time between samples
	Start     time.Time

	rng *rand.Rand
	i   int
}

// NewMockSource creates a MockSource seeded for reproducible output.
func NewMockSource(price float64, seed int64) *MockSource {
	return &MockSource{
		Price:     price,
		Amplitude: 0.05,
		Period:    12,
		Noise:     0.002,
		Step:      time.Minute,
		Start:     time.Now().Truncate(time.Minute),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Next(ctx context.Context) (model.PatternSample, error) {
	if err := ctx.Err(); err != nil {
		return model.PatternSample{}, err
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(1))
	}
	period := m.Period
	if period <= 0 {
		period = 12
	}
	phase := 2 * math.Pi * float64(m.i) / float64(period)
	p := m.Price * (1 + m.Amplitude*math.Sin(phase) + m.Noise*(m.rng.Float64()*2-1))
	s := model.PatternSample{
		Timestamp: m.Start.Add(time.Duration(m.i) * m.Step),
		Price:     p,
		Volume:    1000000 * (1 + 0.5*math.Abs(math.Cos(phase))),
	}
	m.i++
	return s, nil
}

// Collector pulls samples from a Source into a rolling buffer. Sources are
// not required to be safe for concurrent use; Collect serializes access.
type Collector struct {
	Source Source
	Buffer *series.Buffer

	mu sync.Mutex
}

// NewCollector creates a new Collector.
func NewCollector(source Source, buffer *series.Buffer) *Collector {
	return &Collector{Source: source, Buffer: buffer}
}

// Collect pulls one sample and appends it to the buffer. Samples with a
// non-positive or non-finite price, or a negative volume, are rejected.
func (c *Collector) Collect(ctx context.Context) (model.PatternSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.Source.Next(ctx)
	if err != nil {
		return model.PatternSample{}, err
	}
	if err := validate(s); err != nil {
		log.Warn().Err(err).Str("source", c.Source.Name()).Msg("dropping sample")
		return model.PatternSample{}, err
	}
	c.Buffer.Push(s)
	return s, nil
}

// Fill collects up to n samples, stopping early when the source is exhausted.
// Invalid samples are skipped. It returns the number of samples buffered.
func (c *Collector) Fill(ctx context.Context, n int) (int, error) {
	added := 0
	for i := 0; i < n; i++ {
		_, err := c.Collect(ctx)
		switch {
		case err == nil:
			added++
		case errors.Is(err, io.EOF):
			return added, nil
		case errors.Is(err, ErrInvalidSample):
			continue
		default:
			return added, fmt.Errorf("collect from %s: %w", c.Source.Name(), err)
		}
	}
	return added, nil
}

// ErrInvalidSample marks a sample that cannot be used for analysis.
var ErrInvalidSample = errors.New("invalid sample")

func validate(s model.PatternSample) error {
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) || s.Price <= 0 {
		return fmt.Errorf("%w: price %v", ErrInvalidSample, s.Price)
	}
	if math.IsNaN(s.Volume) || math.IsInf(s.Volume, 0) || s.Volume < 0 {
		return fmt.Errorf("%w: volume %v", ErrInvalidSample, s.Volume)
	}
	return nil
}
