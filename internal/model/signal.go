package model

// Action is the trade decision produced by a strategy for one step.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionReset Action = "RESET"
	ActionHold  Action = "HOLD"
)

// Decision is the output of the fear/greed signal rule.
// Amount is denominated in the reserve asset for BUY and in the volatile
// asset for SELL and RESET. HOLD carries a zero amount.
type Decision struct {
	Action Action
	Amount float64
}

// OrderSide distinguishes the two legs of a dual-order pair.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Order is one conditional limit order generated by the dual-order strategy.
type Order struct {
	Side           OrderSide
	Price          float64
	VolatileAmount float64
	ReserveAmount  float64
}

// SentimentReading is one observation from a sentiment index source.
type SentimentReading struct {
	Value          int
	Classification string
}

// ClassifyIndex maps a 0-100 sentiment value to its standard band label.
func ClassifyIndex(value int) string {
	switch {
	case value < 25:
		return "Extreme Fear"
	case value < 40:
		return "Fear"
	case value < 60:
		return "Neutral"
	case value < 80:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}

// ExecutionResult is what an order-execution sink returns for one request.
type ExecutionResult struct {
	Success   bool    `json:"success"`
	Simulated bool    `json:"simulated,omitempty"`
	OrderID   string  `json:"order_id,omitempty"`
	Action    Action  `json:"action"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Market    string  `json:"market,omitempty"`
	Error     string  `json:"error,omitempty"`
}
