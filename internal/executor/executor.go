package executor

import "CoinVault/internal/model"

// Executor is the order-execution sink: it accepts one decision and reports
// what actually happened. Implementations never retry; the caller owns
// retry policy. Amount follows decision denomination: reserve currency for
// BUY, volatile units for SELL.
type Executor interface {
	Execute(action model.Action, amount, price float64) (*model.ExecutionResult, error)
	Name() string
}
