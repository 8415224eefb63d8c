package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BinanceStream implements TickerSource from the Binance ticker websocket.
// Run maintains the connection and caches the latest trade price;
// FetchPrice serves from the cache, so the scheduler never blocks on the
// network for a price.
type BinanceStream struct {
	URL string

	mu        sync.Mutex
	lastPrice float64
	lastSeen  time.Time

	// MaxAge bounds how stale a cached price may be before FetchPrice
	// refuses to serve it.
	MaxAge time.Duration
}

// NewBinanceStream creates a stream for a pair like "BTC-USDT".
func NewBinanceStream(pair string) *BinanceStream {
	symbol := strings.ToLower(strings.ReplaceAll(pair, "-", ""))
	return &BinanceStream{
		URL:    fmt.Sprintf("wss://stream.binance.com:9443/ws/%s@ticker", symbol),
		MaxAge: 5 * time.Minute,
	}
}

func (b *BinanceStream) Name() string { return "binance-ws" }

// FetchPrice returns the most recent streamed price. It fails when no tick
// has arrived yet or the cache has gone stale.
func (b *BinanceStream) FetchPrice(_ string) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPrice <= 0 {
		return 0, fmt.Errorf("binance stream: no tick received yet")
	}
	if age := time.Since(b.lastSeen); age > b.MaxAge {
		return 0, fmt.Errorf("binance stream: last tick is %s old", age.Round(time.Second))
	}
	return b.lastPrice, nil
}

// Run connects to the websocket and keeps the price cache fresh,
// reconnecting with capped exponential backoff. Blocks until ctx is
// cancelled.
func (b *BinanceStream) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] binance stream stopped")
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.URL, nil)
		if err != nil {
			log.Printf("[WARN] binance stream connect failed: %v, retrying in %v", err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 16*time.Second {
				backoff = 16 * time.Second
			}
			continue
		}

		log.Printf("[INFO] binance stream connected: %s", b.URL)
		backoff = time.Second
		b.readLoop(ctx, conn)
		conn.Close()
	}
}

func (b *BinanceStream) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[WARN] binance stream read failed: %v, reconnecting", err)
			}
			return
		}

		var tick struct {
			LastPrice string `json:"c"`
		}
		if err := json.Unmarshal(message, &tick); err != nil {
			log.Printf("[WARN] binance stream decode: %v", err)
			continue
		}
		price, err := strconv.ParseFloat(tick.LastPrice, 64)
		if err != nil || price <= 0 {
			continue
		}

		b.mu.Lock()
		b.lastPrice = price
		b.lastSeen = time.Now()
		b.mu.Unlock()
	}
}
