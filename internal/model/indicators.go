package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Value is an optional indicator reading. The zero Value is absent, so a
// field that was never computed can not be mistaken for 0.
type Value struct {
	v  float64
	ok bool
}

// Defined wraps a computed reading.
func Defined(v float64) Value { return Value{v: v, ok: true} }

// Absent is the reading for dates without enough history.
var Absent = Value{}

// Get returns the reading and whether it is defined.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

func (v Value) IsDefined() bool { return v.ok }

func (v Value) String() string {
	if !v.ok {
		return "n/a"
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// MarshalJSON encodes absent readings as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts null or a number.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Absent
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

// IndicatorSnapshot holds every indicator for one date of the series.
type IndicatorSnapshot struct {
	Date       time.Time `json:"date"`
	Close      float64   `json:"close"`
	SMA50      Value     `json:"sma_50"`
	SMA200     Value     `json:"sma_200"`
	RSI14      Value     `json:"rsi_14"`
	EMA12      Value     `json:"ema_12"`
	EMA26      Value     `json:"ema_26"`
	MACD       Value     `json:"macd"`
	SignalLine Value     `json:"signal_line"`
}

// Complete reports whether every indicator field is defined.
func (s IndicatorSnapshot) Complete() bool {
	return s.SMA50.ok && s.SMA200.ok && s.RSI14.ok &&
		s.EMA12.ok && s.EMA26.ok && s.MACD.ok && s.SignalLine.ok
}

// Latest unwraps a complete snapshot. ok is false if any field is absent.
func (s IndicatorSnapshot) Latest() (LatestSnapshot, bool) {
	if !s.Complete() {
		return LatestSnapshot{}, false
	}
	return LatestSnapshot{
		Date:       s.Date,
		Close:      s.Close,
		SMA50:      s.SMA50.v,
		SMA200:     s.SMA200.v,
		RSI:        s.RSI14.v,
		EMA12:      s.EMA12.v,
		EMA26:      s.EMA26.v,
		MACD:       s.MACD.v,
		SignalLine: s.SignalLine.v,
	}, true
}

// LatestSnapshot is the most recent fully-defined row, the only input of the
// recommendation rules.
type LatestSnapshot struct {
	Date       time.Time `json:"date"`
	Close      float64   `json:"close"`
	SMA50      float64   `json:"sma_50"`
	SMA200     float64   `json:"sma_200"`
	RSI        float64   `json:"rsi_14"`
	EMA12      float64   `json:"ema_12"`
	EMA26      float64   `json:"ema_26"`
	MACD       float64   `json:"macd"`
	SignalLine float64   `json:"signal_line"`
}
