package calculator

import (
	"errors"
	"math"
	"sort"
)

// WindowRange scans the values and returns the high and low.
func WindowRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// Percentile returns the value at index floor(len*p) of the sorted values.
// It does not interpolate. p must be in [0, 1).
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	if p < 0 || p >= 1 {
		return 0, errors.New("percentile must be in [0, 1)")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[int(math.Floor(float64(len(sorted))*p))], nil
}

// SupportResistance returns the 10th and 90th percentile of the values.
func SupportResistance(values []float64) (support, resistance float64, err error) {
	if support, err = Percentile(values, 0.1); err != nil {
		return 0, 0, err
	}
	if resistance, err = Percentile(values, 0.9); err != nil {
		return 0, 0, err
	}
	return support, resistance, nil
}

// RangePosition returns where v sits within [low, high], unclamped.
// A flat range maps every value to 0.
func RangePosition(v, high, low float64) float64 {
	if high == low {
		return 0
	}
	return (v - low) / (high - low)
}

// MinMaxNormalize scales values into [0, 1] over their own range.
func MinMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	high, low, err := WindowRange(values)
	if err != nil {
		return out
	}
	for i, v := range values {
		out[i] = RangePosition(v, high, low)
	}
	return out
}
