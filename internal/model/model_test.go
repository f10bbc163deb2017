package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestNewPriceSeries(t *testing.T) {
	pts := []PricePoint{{day(2), 10}, {day(3), 11}, {day(4), 0}}
	s, err := NewPriceSeries(pts)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{10, 11, 0}, s.Closes())
	assert.Equal(t, day(2), s.First().Date)
	assert.Equal(t, day(4), s.Last().Date)

	pts[0].Close = 99
	assert.Equal(t, 10.0, s.At(0).Close, "input slice is copied")
	out := s.Points()
	out[1].Close = 99
	assert.Equal(t, 11.0, s.At(1).Close, "Points returns a copy")
}

func TestNewPriceSeries_Rejects(t *testing.T) {
	tests := []struct {
		name string
		pts  []PricePoint
	}{
		{"empty", nil},
		{"negative", []PricePoint{{day(2), -1}}},
		{"nan", []PricePoint{{day(2), math.NaN()}}},
		{"inf", []PricePoint{{day(2), math.Inf(1)}}},
		{"duplicate date", []PricePoint{{day(2), 1}, {day(2), 2}}},
		{"descending", []PricePoint{{day(3), 1}, {day(2), 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceSeries(tt.pts)
			assert.Error(t, err)
		})
	}
}

func TestValue_JSON(t *testing.T) {
	type row struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}
	data, err := json.Marshal(row{A: Defined(1.5), B: Absent})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var back row
	require.NoError(t, json.Unmarshal(data, &back))
	v, ok := back.A.Get()
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.False(t, back.B.IsDefined())
	assert.Equal(t, "n/a", back.B.String())
}

func TestSnapshotLatest(t *testing.T) {
	full := IndicatorSnapshot{
		Date: day(5), Close: 10,
		SMA50: Defined(9), SMA200: Defined(8), RSI14: Defined(55),
		EMA12: Defined(9.5), EMA26: Defined(9.1), MACD: Defined(0.4), SignalLine: Defined(0.3),
	}
	l, ok := full.Latest()
	require.True(t, ok)
	assert.Equal(t, 8.0, l.SMA200)
	assert.Equal(t, 55.0, l.RSI)

	partial := full
	partial.SMA200 = Absent
	assert.False(t, partial.Complete())
	_, ok = partial.Latest()
	assert.False(t, ok)
}

func TestRecommendationColor(t *testing.T) {
	assert.Equal(t, "green", Buy.Color())
	assert.Equal(t, "red", Sell.Color())
	assert.Equal(t, "yellow", Hold.Color())
}
