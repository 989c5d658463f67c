package calculator

import (
	"testing"

	"RiskSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got, 1e-12)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.ErrorIs(t, err, ErrShortSeries)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrBadPeriod)
}

func TestSMASeries(t *testing.T) {
	got := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{2, 3, 4}, got)

	assert.Empty(t, SMASeries([]float64{1, 2}, 3))
	assert.Empty(t, SMASeries([]float64{1, 2}, 0))

	prices := []float64{10, 11, 13, 12, 15, 14, 16}
	series := SMASeries(prices, 4)
	require.Len(t, series, 4)
	for i, v := range series {
		want, err := CalculateSMA(prices[:i+4], 4)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestTail(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{3, 4}, Tail(in, 2))
	assert.Equal(t, in, Tail(in, 10))
	assert.Nil(t, Tail(in, 0))
}

func TestWindowRange(t *testing.T) {
	high, low, err := WindowRange([]float64{3, 9, -1, 4})
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, -1.0, low)

	_, _, err = WindowRange(nil)
	assert.Error(t, err)
}

func TestPercentile_IndexBased(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}

	p10, err := Percentile(values, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, p10) // sorted[1]

	p90, err := Percentile(values, 0.9)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p90) // sorted[9]

	// input left untouched
	assert.Equal(t, 10.0, values[0])

	_, err = Percentile(values, 1)
	assert.Error(t, err)
	_, err = Percentile(nil, 0.5)
	assert.Error(t, err)
}

func TestSupportResistance(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	support, resistance, err := SupportResistance(values)
	require.NoError(t, err)
	assert.Equal(t, 4.0, support)     // sorted[3]
	assert.Equal(t, 28.0, resistance) // sorted[27]
}

func TestMinMaxNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, MinMaxNormalize([]float64{2, 4, 6}))
	assert.Equal(t, []float64{0, 0, 0}, MinMaxNormalize([]float64{5, 5, 5}))
	assert.Empty(t, MinMaxNormalize(nil))
}

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name string
		sma  []float64
		want model.Direction
	}{
		{"rising", []float64{90, 100, 101, 102, 103, 105}, model.DirectionUp},
		{"falling", []float64{100, 99, 98, 97, 96}, model.DirectionDown},
		{"flat", []float64{100, 100.5, 101, 100.8, 101}, model.DirectionNeutral},
		{"empty", nil, model.DirectionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTrend(tt.sma, 5, 0.02))
		})
	}
}
