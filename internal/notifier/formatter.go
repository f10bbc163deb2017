package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

// round2 renders v rounded half away from zero to two decimals.
func round2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatReport renders the latest indicator values and the recommendation
// as a plain text block. The ticker line is omitted when ticker is empty.
func FormatReport(ticker string, latest model.LatestSnapshot, rec model.Recommendation) string {
	var b strings.Builder

	if ticker != "" {
		b.WriteString(fmt.Sprintf("Ticker: %s (%s)\n", ticker, latest.Date.Format(model.DateLayout)))
	}
	b.WriteString(fmt.Sprintf("Latest Close: %s\n", round2(latest.Close)))
	b.WriteString(fmt.Sprintf("50-day SMA: %s\n", round2(latest.SMA50)))
	b.WriteString(fmt.Sprintf("200-day SMA: %s\n", round2(latest.SMA200)))
	b.WriteString(fmt.Sprintf("RSI: %s\n", round2(latest.RSI)))
	b.WriteString(fmt.Sprintf("MACD: %s\n", round2(latest.MACD)))
	b.WriteString(fmt.Sprintf("Signal Line: %s\n", round2(latest.SignalLine)))
	b.WriteString(fmt.Sprintf("Recommendation: %s", rec))

	return b.String()
}

// FormatReasons lists the rule clauses behind a signal, one per line.
func FormatReasons(sig model.Signal) string {
	if len(sig.Reasons) == 0 {
		return "no rule clause held"
	}
	parts := make([]string, len(sig.Reasons))
	for i, r := range sig.Reasons {
		parts[i] = "  • " + string(r)
	}
	return strings.Join(parts, "\n")
}

// FormatFailure is the message delivered when a run fails.
func FormatFailure(source string, err error) string {
	return fmt.Sprintf("Analysis of %s failed: %v", source, err)
}
