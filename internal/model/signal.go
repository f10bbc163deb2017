package model

// Recommendation is the discrete trading decision.
type Recommendation string

const (
	Buy  Recommendation = "Buy"
	Sell Recommendation = "Sell"
	Hold Recommendation = "Hold"
)

// Color is the display affordance for a recommendation.
func (r Recommendation) Color() string {
	switch r {
	case Buy:
		return "green"
	case Sell:
		return "red"
	default:
		return "yellow"
	}
}

func (r Recommendation) String() string { return string(r) }

// Reason names one rule clause that held when the recommendation was made.
type Reason string

const (
	ReasonCloseAboveSMA50  Reason = "close > sma50"
	ReasonSMA50AboveSMA200 Reason = "sma50 > sma200"
	ReasonRSIBelowCeiling  Reason = "rsi < 70"
	ReasonMACDAboveSignal  Reason = "macd > signal"
	ReasonCloseBelowSMA50  Reason = "close < sma50"
	ReasonSMA50BelowSMA200 Reason = "sma50 < sma200"
	ReasonRSIOverbought    Reason = "rsi > 70"
	ReasonMACDBelowSignal  Reason = "macd < signal"
)

// Signal is the classifier output together with the clauses that fired.
type Signal struct {
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []Reason       `json:"reasons,omitempty"`
}
