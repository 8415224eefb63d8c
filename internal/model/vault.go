package model

import "time"

// TradeRecord is one balance transition in the vault's trade history.
// Deltas are signed; balances are the values after the trade was applied.
type TradeRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        Action    `json:"action"`
	Price         float64   `json:"price"`
	ReserveDelta  float64   `json:"reserve_delta"`
	VolatileDelta float64   `json:"volatile_delta"`
	ReserveAfter  float64   `json:"reserve_after"`
	VolatileAfter float64   `json:"volatile_after"`
}

// ValuationRecord is one mark-to-market snapshot of the vault.
// TotalReturnPct is relative to the first valuation ever recorded for the
// vault; DailyReturnPct is relative to the previous valuation.
type ValuationRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Price           float64   `json:"price"`
	ReserveBalance  float64   `json:"reserve_balance"`
	VolatileBalance float64   `json:"volatile_balance"`
	PortfolioValue  float64   `json:"portfolio_value"`
	DailyReturnPct  float64   `json:"daily_return"`
	TotalReturnPct  float64   `json:"total_return"`
}

// VaultState is the single externally persisted shape of a vault:
// balances plus the full history and the immutable return baseline.
type VaultState struct {
	ReserveBalance        float64           `json:"reserve_balance"`
	VolatileBalance       float64           `json:"volatile_balance"`
	TradeHistory          []TradeRecord     `json:"trade_history"`
	PortfolioHistory      []ValuationRecord `json:"portfolio_history"`
	InitialPortfolioValue float64           `json:"initial_portfolio_value"`
}
