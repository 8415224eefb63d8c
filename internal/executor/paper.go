package executor

import (
	"fmt"

	"github.com/google/uuid"

	"CoinVault/internal/model"
)

// PaperExecutor simulates execution without touching an exchange. Every
// order fills immediately at the requested price; the vault remains the
// source of truth for balances.
type PaperExecutor struct {
	Market string
}

// NewPaperExecutor creates a paper sink for the given market pair.
func NewPaperExecutor(market string) *PaperExecutor {
	return &PaperExecutor{Market: market}
}

func (p *PaperExecutor) Name() string { return "paper" }

// Execute simulates one order. HOLD and RESET involve no exchange order and
// succeed trivially; BUY converts the reserve amount to volatile units at
// the given price.
func (p *PaperExecutor) Execute(action model.Action, amount, price float64) (*model.ExecutionResult, error) {
	switch action {
	case model.ActionHold, model.ActionReset:
		return &model.ExecutionResult{
			Success:   true,
			Simulated: true,
			Action:    action,
			Price:     price,
			Market:    p.Market,
		}, nil

	case model.ActionBuy, model.ActionSell:
		if price <= 0 {
			return nil, fmt.Errorf("paper execute: price must be positive, got %.8f", price)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("paper execute: amount must be positive, got %.8f", amount)
		}
		quantity := amount
		if action == model.ActionBuy {
			quantity = amount / price
		}
		return &model.ExecutionResult{
			Success:   true,
			Simulated: true,
			OrderID:   uuid.New().String(),
			Action:    action,
			Quantity:  quantity,
			Price:     price,
			Market:    p.Market,
		}, nil

	default:
		return nil, fmt.Errorf("paper execute: unknown action %q", action)
	}
}
