// Package calculator computes the indicator series (SMA, RSI, EMA, MACD and
// its signal line) over a price series.
package calculator

import (
	"errors"
	"fmt"

	"StockAnalyzer/internal/model"
)

// Params are the indicator windows. DefaultParams gives the classic
// 50/200 SMA, RSI(14) and MACD(12, 26, 9) settings.
type Params struct {
	SMAFast    int `yaml:"sma_fast" default:"50" validate:"gt=0,ltfield=SMASlow"`
	SMASlow    int `yaml:"sma_slow" default:"200" validate:"gt=0"`
	RSIPeriod  int `yaml:"rsi_period" default:"14" validate:"gt=0"`
	EMAFast    int `yaml:"ema_fast" default:"12" validate:"gt=0,ltfield=EMASlow"`
	EMASlow    int `yaml:"ema_slow" default:"26" validate:"gt=0"`
	SignalSpan int `yaml:"signal_span" default:"9" validate:"gt=0"`
}

func DefaultParams() Params {
	return Params{
		SMAFast:    50,
		SMASlow:    200,
		RSIPeriod:  14,
		EMAFast:    12,
		EMASlow:    26,
		SignalSpan: 9,
	}
}

// Validate rejects non-positive windows and inverted fast/slow pairs.
func (p Params) Validate() error {
	for _, w := range []struct {
		name string
		v    int
	}{
		{"sma_fast", p.SMAFast},
		{"sma_slow", p.SMASlow},
		{"rsi_period", p.RSIPeriod},
		{"ema_fast", p.EMAFast},
		{"ema_slow", p.EMASlow},
		{"signal_span", p.SignalSpan},
	} {
		if w.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", w.name, w.v)
		}
	}
	if p.SMAFast >= p.SMASlow {
		return fmt.Errorf("sma_fast (%d) must be below sma_slow (%d)", p.SMAFast, p.SMASlow)
	}
	if p.EMAFast >= p.EMASlow {
		return fmt.Errorf("ema_fast (%d) must be below ema_slow (%d)", p.EMAFast, p.EMASlow)
	}
	return nil
}

// Warmup is the number of rows needed before every indicator is defined.
func (p Params) Warmup() int {
	need := p.SMASlow
	if p.SMAFast > need {
		need = p.SMAFast
	}
	if p.RSIPeriod+1 > need {
		need = p.RSIPeriod + 1
	}
	return need
}

// ComputeIndicators runs Compute with DefaultParams.
func ComputeIndicators(s *model.PriceSeries) []model.IndicatorSnapshot {
	return Compute(s, DefaultParams())
}

// Compute derives every indicator for each date of s. The result has one
// snapshot per input point, in the same order. The snapshot fields keep
// their SMA50/SMA200/... names whatever windows p carries.
func Compute(s *model.PriceSeries, p Params) []model.IndicatorSnapshot {
	if s == nil || s.Len() == 0 {
		return nil
	}
	closes := s.Closes()

	smaFast := SMA(closes, p.SMAFast)
	smaSlow := SMA(closes, p.SMASlow)
	rsi := RSI(closes, p.RSIPeriod)
	emaFast := EMA(closes, p.EMAFast)
	emaSlow := EMA(closes, p.EMASlow)
	macd, signal := MACD(emaFast, emaSlow, p.SignalSpan)

	snaps := make([]model.IndicatorSnapshot, s.Len())
	for i := range snaps {
		pt := s.At(i)
		snaps[i] = model.IndicatorSnapshot{
			Date:       pt.Date,
			Close:      pt.Close,
			SMA50:      smaFast[i],
			SMA200:     smaSlow[i],
			RSI14:      rsi[i],
			EMA12:      model.Defined(emaFast[i]),
			EMA26:      model.Defined(emaSlow[i]),
			MACD:       model.Defined(macd[i]),
			SignalLine: model.Defined(signal[i]),
		}
	}
	return snaps
}

// MACD returns fast-slow and the EMA(signalSpan) of that difference.
func MACD(fast, slow []float64, signalSpan int) (macd, signal []float64) {
	n := len(fast)
	if len(slow) < n {
		n = len(slow)
	}
	macd = make([]float64, n)
	for i := 0; i < n; i++ {
		macd[i] = fast[i] - slow[i]
	}
	return macd, EMA(macd, signalSpan)
}

// ErrInsufficientHistory is matched by InsufficientHistoryError via errors.Is.
var ErrInsufficientHistory = errors.New("insufficient history")

// InsufficientHistoryError means no date has every indicator defined.
type InsufficientHistoryError struct {
	Have int
	Need int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%v: have %d rows, need %d", ErrInsufficientHistory, e.Have, e.Need)
}

func (e *InsufficientHistoryError) Is(target error) bool { return target == ErrInsufficientHistory }

// Latest returns the most recent fully-defined snapshot. need is reported in
// the error when no such row exists.
func Latest(snaps []model.IndicatorSnapshot, need int) (model.LatestSnapshot, error) {
	for i := len(snaps) - 1; i >= 0; i-- {
		if l, ok := snaps[i].Latest(); ok {
			return l, nil
		}
	}
	return model.LatestSnapshot{}, &InsufficientHistoryError{Have: len(snaps), Need: need}
}

// Complete drops the leading rows that lack history for any indicator.
func Complete(snaps []model.IndicatorSnapshot) []model.IndicatorSnapshot {
	for i, s := range snaps {
		if s.Complete() {
			return snaps[i:]
		}
	}
	return nil
}
