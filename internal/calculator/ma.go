package calculator

import (
	"errors"
)

var (
	// ErrBadPeriod is returned for a non-positive averaging period.
	ErrBadPeriod = errors.New("period must be positive")
	// ErrShortSeries is returned when fewer values than the period are available.
	ErrShortSeries = errors.New("not enough data for SMA calculation")
)

// CalculateSMA averages the last period values of prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrBadPeriod
	}
	if len(prices) < period {
		return 0, ErrShortSeries
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// SMASeries returns the rolling simple moving average, one value per full window.
// The result has len(prices)-period+1 entries, or none when data is insufficient.
func SMASeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}
	out := make([]float64, 0, len(prices)-period+1)
	for end := period; end <= len(prices); end++ {
		avg, err := CalculateSMA(prices[:end], period)
		if err != nil {
			return out
		}
		out = append(out, avg)
	}
	return out
}

// Tail returns the last n values of prices, or all of them when fewer exist.
func Tail(prices []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(prices) <= n {
		return prices
	}
	return prices[len(prices)-n:]
}
