// Package collector supplies raw price tables to the loader.
package collector

import (
	"context"

	"StockAnalyzer/internal/loader"
)

// Source produces the raw table for one analysis run.
type Source interface {
	Fetch(ctx context.Context) (*loader.Table, error)
	Name() string
}
