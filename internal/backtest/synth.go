package backtest

import (
	"math"
	"math/rand"
	"time"

	"CoinVault/internal/model"
)

// SynthConfig controls synthetic series generation. All randomness comes
// from the seed, so identical configs produce identical series.
type SynthConfig struct {
	Days       int
	Start      time.Time
	StartPrice float64
	Drift      float64 // mean of the daily log-return distribution
	Volatility float64 // stddev of the daily return distribution
	Seed       int64
}

// DefaultSynthConfig mirrors the mock-data shape used for strategy tuning:
// one year of daily bars starting near 30k with 2% daily volatility.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Days:       365,
		Start:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		StartPrice: 30000,
		Drift:      0,
		Volatility: 0.02,
		Seed:       42,
	}
}

// GenerateSeries produces a daily price random walk with a sentiment index
// loosely correlated to the day's price move: up days lean greedy, down
// days lean fearful, with noise on top.
func GenerateSeries(cfg SynthConfig) []model.SeriesPoint {
	rng := rand.New(rand.NewSource(cfg.Seed))
	series := make([]model.SeriesPoint, cfg.Days)

	price := cfg.StartPrice
	prev := price
	for i := 0; i < cfg.Days; i++ {
		if i > 0 {
			prev = price
			price *= 1 + cfg.Drift + rng.NormFloat64()*cfg.Volatility
		}

		var index int
		if i == 0 {
			index = 30 + rng.Intn(40)
		} else {
			change := price/prev - 1
			raw := 50 + change*300 + rng.NormFloat64()*10
			index = int(math.Max(0, math.Min(100, raw)))
		}

		series[i] = model.SeriesPoint{
			Time:           cfg.Start.AddDate(0, 0, i),
			Price:          price,
			Index:          index,
			Classification: model.ClassifyIndex(index),
		}
	}
	return series
}
