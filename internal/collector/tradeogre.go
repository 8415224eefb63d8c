package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TradeOgreFetcher implements TickerSource against the TradeOgre REST API.
type TradeOgreFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewTradeOgreFetcher creates a fetcher with optional proxy support.
func NewTradeOgreFetcher(baseURL, proxyURL string) *TradeOgreFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://tradeogre.com/api/v1"
	}
	return &TradeOgreFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *TradeOgreFetcher) Name() string { return "tradeogre" }

// tickerResponse is the TradeOgre ticker shape. Numeric fields arrive as
// strings.
type tickerResponse struct {
	Success      bool   `json:"success"`
	Price        string `json:"price"`
	ErrorMessage string `json:"error"`
}

// FetchPrice returns the last traded price for a pair like "BTC-USDT".
func (f *TradeOgreFetcher) FetchPrice(pair string) (float64, error) {
	endpoint := fmt.Sprintf("%s/ticker/%s", f.BaseURL, url.PathEscape(pair))
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("tradeogre ticker: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("tradeogre read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("tradeogre: status %d, body: %s", resp.StatusCode, string(body))
	}

	var ticker tickerResponse
	if err := json.Unmarshal(body, &ticker); err != nil {
		return 0, fmt.Errorf("tradeogre decode: %w", err)
	}
	if !ticker.Success {
		return 0, fmt.Errorf("tradeogre api error: %s", ticker.ErrorMessage)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("tradeogre parse price %q: %w", ticker.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("tradeogre: non-positive price %.8f", price)
	}
	return price, nil
}

// OrderbookLevel is one aggregated price level of the TradeOgre book.
type OrderbookLevel struct {
	Price    float64
	Quantity float64
}

// FetchOrderbook returns the aggregated buy and sell sides for a pair,
// sorted best-first by TradeOgre.
func (f *TradeOgreFetcher) FetchOrderbook(pair string) (buys, sells []OrderbookLevel, err error) {
	endpoint := fmt.Sprintf("%s/orders/%s", f.BaseURL, url.PathEscape(pair))
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("tradeogre orderbook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("tradeogre orderbook: status %d, body: %s", resp.StatusCode, string(body))
	}

	var book struct {
		Buy  map[string]string `json:"buy"`
		Sell map[string]string `json:"sell"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, nil, fmt.Errorf("tradeogre decode orderbook: %w", err)
	}
	return parseLevels(book.Buy), parseLevels(book.Sell), nil
}

func parseLevels(side map[string]string) []OrderbookLevel {
	levels := make([]OrderbookLevel, 0, len(side))
	for priceStr, qtyStr := range side {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseFloat(qtyStr, 64)
		if err != nil {
			continue
		}
		levels = append(levels, OrderbookLevel{Price: price, Quantity: qty})
	}
	return levels
}
