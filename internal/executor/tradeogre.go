package executor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CoinVault/internal/model"
)

// TradeOgreExecutor places real limit orders on TradeOgre. BUY quantity is
// converted from the reserve amount at the given price; order prices and
// quantities are formatted to the 8 decimals the API expects.
type TradeOgreExecutor struct {
	BaseURL string
	Market  string
	Key     string
	Secret  string
	Client  *http.Client
}

// NewTradeOgreExecutor creates a live sink with optional proxy support.
func NewTradeOgreExecutor(baseURL, market, key, secret, proxyURL string) *TradeOgreExecutor {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://tradeogre.com/api/v1"
	}
	return &TradeOgreExecutor{
		BaseURL: baseURL,
		Market:  market,
		Key:     key,
		Secret:  secret,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TradeOgreExecutor) Name() string { return "tradeogre" }

// orderResponse is the TradeOgre order placement response.
type orderResponse struct {
	Success      bool   `json:"success"`
	UUID         string `json:"uuid"`
	ErrorMessage string `json:"error"`
}

// Execute places one order. HOLD and RESET are internal vault operations
// and never reach the exchange.
func (t *TradeOgreExecutor) Execute(action model.Action, amount, price float64) (*model.ExecutionResult, error) {
	switch action {
	case model.ActionHold, model.ActionReset:
		return &model.ExecutionResult{Success: true, Action: action, Price: price, Market: t.Market}, nil
	case model.ActionBuy, model.ActionSell:
		// handled below
	default:
		return nil, fmt.Errorf("tradeogre execute: unknown action %q", action)
	}

	if price <= 0 {
		return nil, fmt.Errorf("tradeogre execute: price must be positive, got %.8f", price)
	}
	quantity := amount
	endpoint := t.BaseURL + "/order/sell"
	if action == model.ActionBuy {
		quantity = amount / price
		endpoint = t.BaseURL + "/order/buy"
	}

	form := url.Values{}
	form.Set("market", t.Market)
	form.Set("quantity", fmt.Sprintf("%.8f", quantity))
	form.Set("price", fmt.Sprintf("%.8f", price))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.Key, t.Secret)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tradeogre order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tradeogre read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tradeogre order: status %d, body: %s", resp.StatusCode, string(body))
	}

	var placed orderResponse
	if err := json.Unmarshal(body, &placed); err != nil {
		return nil, fmt.Errorf("tradeogre decode response: %w", err)
	}
	if !placed.Success {
		return &model.ExecutionResult{
			Success: false,
			Action:  action,
			Price:   price,
			Market:  t.Market,
			Error:   placed.ErrorMessage,
		}, nil
	}

	return &model.ExecutionResult{
		Success:  true,
		OrderID:  placed.UUID,
		Action:   action,
		Quantity: quantity,
		Price:    price,
		Market:   t.Market,
	}, nil
}
