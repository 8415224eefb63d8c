package recorder

import (
	"CoinVault/internal/model"
)

// NoopRecorder discards everything. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(*model.TradeRecord, *model.ExecutionResult) error { return nil }
func (n *NoopRecorder) RecordValuation(*model.ValuationRecord) error                 { return nil }
func (n *NoopRecorder) RecordFearGreedRun(*FearGreedRun) error                       { return nil }
func (n *NoopRecorder) RecordDualRun(*DualRun) error                                 { return nil }
func (n *NoopRecorder) Close() error                                                 { return nil }
