package history

import (
	"context"
	"time"
)

// PricePoint is one recorded market observation for a token.
type PricePoint struct {
	Address    string    `json:"address"`
	Symbol     string    `json:"symbol"`
	PriceUSD   float64   `json:"price_usd"`
	Volume24h  float64   `json:"volume_24h"`
	Liquidity  float64   `json:"liquidity"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store defines methods for persisting and querying price history.
type Store interface {
	RecordPricePoint(ctx context.Context, point *PricePoint) error
	RecentPoints(ctx context.Context, address string, limit int) ([]PricePoint, error)
	Close() error
}
