package backtest

import (
	"fmt"
	"time"

	"CoinVault/internal/model"
	"CoinVault/internal/strategy"
	"CoinVault/internal/vault"
)

// StepRecord is one row of simulation output: the step's trade decision
// joined with the valuation snapshot taken after the trade was applied.
// Balance snapshots on every row reflect POST-trade state at the step's own
// price; the pre-trade balances are carried alongside for inspection.
type StepRecord struct {
	Time           time.Time
	Price          float64
	Index          int
	Classification string
	IndexMissing   bool

	Action model.Action
	Amount float64

	ReserveBefore  float64
	VolatileBefore float64
	ReserveAfter   float64
	VolatileAfter  float64

	PortfolioValue float64
	DailyReturnPct float64
	TotalReturnPct float64
}

// Simulation replays the fear/greed rule over a pre-materialized series,
// one step at a time. It is fully deterministic for identical inputs;
// restarting means constructing a new Simulation over the same series.
// Stepping may stop at any point without teardown.
type Simulation struct {
	series []model.SeriesPoint
	params strategy.Params
	vault  *vault.Vault
	pos    int
}

// NewSimulation validates the inputs and prepares a fresh vault. No series
// mutation has happened yet if an error is returned.
func NewSimulation(series []model.SeriesPoint, params strategy.Params, initialReserve, initialVolatile float64) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := ValidateSeries(series); err != nil {
		return nil, err
	}

	v := vault.New(initialReserve, initialVolatile)
	v.SetResetTargets(params.ResetReserve, params.ResetVolatile)
	return &Simulation{series: series, params: params, vault: v}, nil
}

// Done reports whether the series is exhausted.
func (s *Simulation) Done() bool { return s.pos >= len(s.series) }

// Vault exposes the simulation's vault, e.g. to serialize the final state.
func (s *Simulation) Vault() *vault.Vault { return s.vault }

// Step advances the simulation by one step and returns its record.
//
// A step with a missing index is an explicit flagged HOLD; the rule is never
// fed a fabricated value. Each step fully completes (decision, vault
// mutation, record) before the next may begin.
func (s *Simulation) Step() (StepRecord, error) {
	if s.Done() {
		return StepRecord{}, fmt.Errorf("simulation exhausted after %d steps", s.pos)
	}
	point := s.series[s.pos]
	s.pos++

	rec := StepRecord{
		Time:           point.Time,
		Price:          point.Price,
		Index:          point.Index,
		Classification: point.Classification,
		IndexMissing:   point.IndexMissing,
		Action:         model.ActionHold,
		ReserveBefore:  s.vault.ReserveBalance(),
		VolatileBefore: s.vault.VolatileBalance(),
	}

	if point.IndexMissing {
		s.vault.RecordValuation(point.Time, point.Price)
	} else {
		decision := strategy.Decide(point.Index, s.vault.ReserveBalance(), s.vault.VolatileBalance(), s.params)
		rec.Action = decision.Action
		rec.Amount = decision.Amount
		if err := s.vault.ApplyTrade(point.Time, decision.Action, decision.Amount, point.Price); err != nil {
			return rec, fmt.Errorf("step %d (%s): apply %s: %w",
				s.pos-1, point.Time.Format("2006-01-02"), decision.Action, err)
		}
	}

	val, _ := s.vault.LastValuation()
	rec.ReserveAfter = val.ReserveBalance
	rec.VolatileAfter = val.VolatileBalance
	rec.PortfolioValue = val.PortfolioValue
	rec.DailyReturnPct = val.DailyReturnPct
	rec.TotalReturnPct = val.TotalReturnPct
	return rec, nil
}

// Run steps through the remaining series and collects every record. On a
// failed step it returns the rows produced so far together with the error
// instead of silently truncating.
func (s *Simulation) Run() ([]StepRecord, error) {
	rows := make([]StepRecord, 0, len(s.series)-s.pos)
	for !s.Done() {
		rec, err := s.Step()
		if err != nil {
			return rows, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// Run is the one-shot entry point: validate, simulate, summarize.
func Run(series []model.SeriesPoint, params strategy.Params, initialReserve, initialVolatile float64) ([]StepRecord, Summary, error) {
	sim, err := NewSimulation(series, params, initialReserve, initialVolatile)
	if err != nil {
		return nil, Summary{}, err
	}
	rows, err := sim.Run()
	if err != nil {
		return rows, Summarize(rows), err
	}
	return rows, Summarize(rows), nil
}
