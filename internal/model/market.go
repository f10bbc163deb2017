package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an immutable, strictly date-ordered sequence of closes.
// Build one with NewPriceSeries; the zero value is not usable.
type PriceSeries struct {
	points []PricePoint
}

// NewPriceSeries validates and copies points into a PriceSeries.
// Points must be non-empty, strictly increasing by date and carry finite,
// non-negative closes.
func NewPriceSeries(points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, errors.New("price series must have at least one point")
	}
	cp := make([]PricePoint, len(points))
	for i, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close < 0 {
			return nil, fmt.Errorf("point %d: invalid close %v", i, p.Close)
		}
		if i > 0 && !p.Date.After(points[i-1].Date) {
			return nil, fmt.Errorf("point %d: date %s not after %s",
				i, p.Date.Format(DateLayout), points[i-1].Date.Format(DateLayout))
		}
		cp[i] = p
	}
	return &PriceSeries{points: cp}, nil
}

// DateLayout is the canonical calendar-date format used in output.
const DateLayout = "2006-01-02"

func (s *PriceSeries) Len() int { return len(s.points) }

// At returns the i-th point.
func (s *PriceSeries) At(i int) PricePoint { return s.points[i] }

// Points returns a copy of the underlying points.
func (s *PriceSeries) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Closes returns the close column as a fresh slice.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

// First and Last bound the covered date range.
func (s *PriceSeries) First() PricePoint { return s.points[0] }
func (s *PriceSeries) Last() PricePoint  { return s.points[len(s.points)-1] }
