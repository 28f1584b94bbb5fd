package fetcher

import (
	"context"
	"time"

	"VNSentinel/internal/model"
)

// Interval is a supported bar resolution.
type Interval string

const (
	Interval1H Interval = "1H"
	Interval4H Interval = "4H"
	Interval1D Interval = "1D"
	Interval1W Interval = "1W"
	Interval1M Interval = "1M"
)

// Valid reports whether the interval is one the data sources support.
func (iv Interval) Valid() bool {
	switch iv {
	case Interval1H, Interval4H, Interval1D, Interval1W, Interval1M:
		return true
	}
	return false
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchHistorical(ctx context.Context, symbol string, start, end time.Time, interval Interval) ([]model.OHLCV, error)
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
