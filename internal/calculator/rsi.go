package calculator

import "StockAnalyzer/internal/model"

// RSI computes the relative strength index over closes using a simple
// average of the last window gains and losses (not Wilder smoothing).
// Index i needs window deltas, so entries before index window are absent.
// When the average loss is zero the index saturates at 100, including a
// flat window where the average gain is zero too.
func RSI(closes []float64, window int) []model.Value {
	out := make([]model.Value, len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	// Each window is summed afresh so an all-gain window has a loss of
	// exactly zero.
	for i := window; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for j := i - window + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		out[i] = model.Defined(rsiFromAverages(sumGain/float64(window), sumLoss/float64(window)))
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	switch {
	case rsi < 0:
		return 0
	case rsi > 100:
		return 100
	}
	return rsi
}
