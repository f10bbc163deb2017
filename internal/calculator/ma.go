package calculator

import "StockAnalyzer/internal/model"

// SMA computes the trailing simple moving average of values over window.
// Entries before index window-1 are absent; a partial window is never
// averaged. A non-positive window yields an all-absent series.
func SMA(values []float64, window int) []model.Value {
	out := make([]model.Value, len(values))
	if window <= 0 {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = model.Defined(sum / float64(window))
		}
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded with values[0] rather than an SMA, so every index is defined.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		// alpha*v + (1-alpha)*prev, arranged so a constant input stays exact.
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}
