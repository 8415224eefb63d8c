package recorder

import (
	"CoinVault/internal/backtest"
	"CoinVault/internal/model"
)

// FearGreedRun bundles everything worth keeping from one fear/greed
// backtest: a label and the seed for reproduction plus the full step trace.
type FearGreedRun struct {
	Label   string
	Seed    int64
	Summary backtest.Summary
	Steps   []backtest.StepRecord
}

// DualRun is the dual-order equivalent of FearGreedRun.
type DualRun struct {
	Label   string
	Seed    int64
	Summary backtest.Summary
	Steps   []backtest.DualStepRecord
}

// Recorder persists live trading history and backtest traces for analysis.
type Recorder interface {
	RecordTrade(trade *model.TradeRecord, exec *model.ExecutionResult) error
	RecordValuation(val *model.ValuationRecord) error
	RecordFearGreedRun(run *FearGreedRun) error
	RecordDualRun(run *DualRun) error
	Close() error
}
