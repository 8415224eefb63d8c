package collector

import (
	"fmt"
	"log"
	"time"

	"CoinVault/internal/model"
)

// Observation is one joined market snapshot handed to the decision loop.
// Sentiment is nil when the index source failed; the consumer decides what
// a missing index means, the collector never invents one.
type Observation struct {
	Pair      string
	Price     float64
	Sentiment *model.SentimentReading
	FetchedAt time.Time
}

// Collector joins a price source and a sentiment source for one pair.
type Collector struct {
	Ticker    TickerSource
	Sentiment SentimentSource
	Pair      string
}

// NewCollector creates a collector for the given market pair.
func NewCollector(ticker TickerSource, sentiment SentimentSource, pair string) *Collector {
	return &Collector{Ticker: ticker, Sentiment: sentiment, Pair: pair}
}

// Collect fetches the current price and sentiment reading. A price failure
// fails the observation; a sentiment failure degrades it (nil Sentiment)
// since the consumer may still mark to market without an index.
func (c *Collector) Collect() (*Observation, error) {
	price, err := c.Ticker.FetchPrice(c.Pair)
	if err != nil {
		return nil, fmt.Errorf("fetch price from %s: %w", c.Ticker.Name(), err)
	}

	reading, err := c.Sentiment.FetchIndex()
	if err != nil {
		log.Printf("[WARN] sentiment fetch from %s failed: %v", c.Sentiment.Name(), err)
		reading = nil
	}

	return &Observation{
		Pair:      c.Pair,
		Price:     price,
		Sentiment: reading,
		FetchedAt: time.Now(),
	}, nil
}

// MockTicker returns a fixed price, for development and tests.
type MockTicker struct {
	Price float64
	Err   error
}

func (m *MockTicker) Name() string { return "mock-ticker" }

func (m *MockTicker) FetchPrice(_ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

// MockSentiment returns a fixed reading, for development and tests.
type MockSentiment struct {
	Reading *model.SentimentReading
	Err     error
}

func (m *MockSentiment) Name() string { return "mock-sentiment" }

func (m *MockSentiment) FetchIndex() (*model.SentimentReading, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Reading, nil
}
