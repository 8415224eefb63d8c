package backtest

import "CoinVault/internal/model"

// Summary condenses a backtest run into its headline numbers.
type Summary struct {
	Steps  int
	Buys   int
	Sells  int
	Resets int
	Holds  int

	InitialValue   float64
	FinalValue     float64
	TotalReturnPct float64
	MaxDrawdownPct float64

	FinalReserve        float64
	FinalVolatile       float64
	VolatileAccumulated float64
}

// Summarize computes the run summary from fear/greed simulation rows.
// InitialValue is the pre-trade portfolio value of the first step.
func Summarize(rows []StepRecord) Summary {
	var s Summary
	s.Steps = len(rows)
	if len(rows) == 0 {
		return s
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.PortfolioValue
		switch r.Action {
		case model.ActionBuy:
			s.Buys++
		case model.ActionSell:
			s.Sells++
		case model.ActionReset:
			s.Resets++
		default:
			s.Holds++
		}
	}

	first, last := rows[0], rows[len(rows)-1]
	s.InitialValue = first.ReserveBefore + first.VolatileBefore*first.Price
	s.FinalValue = last.PortfolioValue
	if s.InitialValue > 0 {
		s.TotalReturnPct = (s.FinalValue/s.InitialValue - 1) * 100
	}
	s.MaxDrawdownPct = maxDrawdown(values)
	s.FinalReserve = last.ReserveAfter
	s.FinalVolatile = last.VolatileAfter
	s.VolatileAccumulated = last.VolatileAfter - first.VolatileBefore
	return s
}

// SummarizeDual computes the run summary from dual-order backtest rows.
// initialValue and initialVolatile are the balances the run started from,
// valued at the first step's price.
func SummarizeDual(rows []DualStepRecord, initialValue, initialVolatile float64) Summary {
	var s Summary
	s.Steps = len(rows)
	s.InitialValue = initialValue
	if len(rows) == 0 {
		return s
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.PortfolioValue
		switch r.Action {
		case model.ActionBuy:
			s.Buys++
		case model.ActionSell:
			s.Sells++
		default:
			s.Holds++
		}
	}

	last := rows[len(rows)-1]
	s.FinalValue = last.PortfolioValue
	if s.InitialValue > 0 {
		s.TotalReturnPct = (s.FinalValue/s.InitialValue - 1) * 100
	}
	s.MaxDrawdownPct = maxDrawdown(values)
	s.FinalReserve = last.ReserveBalance
	s.FinalVolatile = last.VolatileBalance
	s.VolatileAccumulated = last.VolatileBalance - initialVolatile
	return s
}

func maxDrawdown(values []float64) float64 {
	var peak, worst float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
