// Package modelstore persists and evaluates the learned pattern model: one
// prototype curve per pattern type, matched against normalized series.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"math"

	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/model"
)

const (
	defaultLength = 50
	// RMSE at which price similarity reaches zero.
	priceScale   = 0.35
	volumeWeight = 0.1
)

// Template is a prototype curve in normalized [0,1] units.
type Template struct {
	Price  []float64
	Volume []float64
}

// TemplateModel scores a normalized window against each pattern template.
type TemplateModel struct {
	ModelName string
	Length    int
	Templates map[model.PatternType]Template
}

func (m *TemplateModel) Name() string {
	if m.ModelName == "" {
		return "templates"
	}
	return m.ModelName
}

// Validate checks that every template matches the model length.
func (m *TemplateModel) Validate() error {
	if m.Length < 2 {
		return fmt.Errorf("template model length %d: must be at least 2", m.Length)
	}
	if len(m.Templates) == 0 {
		return errors.New("template model has no templates")
	}
	for typ, t := range m.Templates {
		if len(t.Price) != m.Length || len(t.Volume) != m.Length {
			return fmt.Errorf("template %s has %d/%d points, want %d", typ, len(t.Price), len(t.Volume), m.Length)
		}
	}
	return nil
}

// Predict returns one probability per entry of model.PatternTypes. Types
// without a template score 0.
func (m *TemplateModel) Predict(ctx context.Context, input [][2]float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(input) < 2 {
		return nil, fmt.Errorf("input has %d points, need at least 2", len(input))
	}

	prices := make([]float64, len(input))
	volumes := make([]float64, len(input))
	for i, row := range input {
		prices[i] = row[0]
		volumes[i] = row[1]
	}
	prices = resample(prices, m.Length)
	volumes = resample(volumes, m.Length)

	out := make([]float64, len(model.PatternTypes))
	for i, typ := range model.PatternTypes {
		t, ok := m.Templates[typ]
		if !ok {
			continue
		}
		priceSim := 1 - rmse(prices, t.Price)/priceScale
		volSim := 1 - rmse(volumes, t.Volume)
		out[i] = clamp01((1-volumeWeight)*clamp01(priceSim) + volumeWeight*clamp01(volSim))
	}
	return out, nil
}

// resample linearly interpolates values onto n evenly spaced points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	last := float64(len(values) - 1)
	for i := range out {
		x := float64(i) * last / float64(n-1)
		lo := int(math.Floor(x))
		if lo >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := x - float64(lo)
		out[i] = values[lo]*(1-frac) + values[lo+1]*frac
	}
	return out
}

func rmse(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// DefaultTemplates builds the stock model used by `model seed`.
func DefaultTemplates() *TemplateModel {
	n := defaultLength
	m := &TemplateModel{ModelName: "stock-templates-v1", Length: n, Templates: map[model.PatternType]Template{}}

	curve := func(f func(x float64) float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = f(float64(i) / float64(n-1))
		}
		return calculator.MinMaxNormalize(out)
	}
	flatVolume := curve(func(float64) float64 { return 0.5 })

	// Two equal highs separated by a trough.
	m.Templates[model.PatternDoubleTop] = Template{
		Price:  curve(func(x float64) float64 { return bumps(x, []float64{0.3, 0.7}, []float64{1, 1}, 0.1) }),
		Volume: curve(func(x float64) float64 { return bumps(x, []float64{0.3, 0.7}, []float64{1, 0.6}, 0.1) }),
	}
	m.Templates[model.PatternDoubleBottom] = Template{
		Price:  curve(func(x float64) float64 { return -bumps(x, []float64{0.3, 0.7}, []float64{1, 1}, 0.1) }),
		Volume: curve(func(x float64) float64 { return bumps(x, []float64{0.3, 0.7}, []float64{1, 0.6}, 0.1) }),
	}
	// Left shoulder, higher head, right shoulder.
	m.Templates[model.PatternHeadShoulders] = Template{
		Price:  curve(func(x float64) float64 { return bumps(x, []float64{0.2, 0.5, 0.8}, []float64{0.6, 1, 0.6}, 0.08) }),
		Volume: flatVolume,
	}
	// Oscillation with shrinking amplitude.
	m.Templates[model.PatternTriangle] = Template{
		Price:  curve(func(x float64) float64 { return (1 - x) * math.Sin(2*math.Pi*4*x) }),
		Volume: curve(func(x float64) float64 { return 1 - x }),
	}
	// Constant-amplitude oscillation around a rising line.
	m.Templates[model.PatternChannel] = Template{
		Price:  curve(func(x float64) float64 { return x + 0.25*math.Sin(2*math.Pi*4*x) }),
		Volume: flatVolume,
	}
	return m
}

// bumps sums gaussian peaks at the given centers.
func bumps(x float64, centers, heights []float64, width float64) float64 {
	v := 0.0
	for i, c := range centers {
		d := (x - c) / width
		v += heights[i] * math.Exp(-d*d)
	}
	return v
}
