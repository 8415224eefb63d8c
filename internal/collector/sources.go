package collector

import "CoinVault/internal/model"

// TickerSource supplies the current price for a market pair.
type TickerSource interface {
	FetchPrice(pair string) (float64, error)
	Name() string
}

// SentimentSource supplies the latest 0-100 sentiment index reading.
type SentimentSource interface {
	FetchIndex() (*model.SentimentReading, error)
	Name() string
}
