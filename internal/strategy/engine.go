// Package strategy turns the latest indicator snapshot into a recommendation.
package strategy

import "StockAnalyzer/internal/model"

// RSIOverbought is the momentum ceiling of the rules. RSIOversold is only
// exported as a chart guide line; no rule uses it.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// Classify applies the rules in order and returns the first match:
//
//	Buy  if close > sma50 and sma50 > sma200 and rsi < 70 and macd > signal
//	Sell if close < sma50 or  sma50 < sma200 or  rsi > 70 or  macd < signal
//	Hold otherwise
//
// Buy and Sell are not complements; equalities on every clause fall to Hold.
func Classify(s model.LatestSnapshot) model.Recommendation {
	return Evaluate(s).Recommendation
}

// Evaluate is Classify plus the clauses that decided the outcome: all four
// for Buy, the bearish ones that held for Sell, none for Hold.
func Evaluate(s model.LatestSnapshot) model.Signal {
	if s.Close > s.SMA50 && s.SMA50 > s.SMA200 && s.RSI < RSIOverbought && s.MACD > s.SignalLine {
		return model.Signal{
			Recommendation: model.Buy,
			Reasons: []model.Reason{
				model.ReasonCloseAboveSMA50,
				model.ReasonSMA50AboveSMA200,
				model.ReasonRSIBelowCeiling,
				model.ReasonMACDAboveSignal,
			},
		}
	}

	var bearish []model.Reason
	if s.Close < s.SMA50 {
		bearish = append(bearish, model.ReasonCloseBelowSMA50)
	}
	if s.SMA50 < s.SMA200 {
		bearish = append(bearish, model.ReasonSMA50BelowSMA200)
	}
	if s.RSI > RSIOverbought {
		bearish = append(bearish, model.ReasonRSIOverbought)
	}
	if s.MACD < s.SignalLine {
		bearish = append(bearish, model.ReasonMACDBelowSignal)
	}
	if len(bearish) > 0 {
		return model.Signal{Recommendation: model.Sell, Reasons: bearish}
	}
	return model.Signal{Recommendation: model.Hold}
}
