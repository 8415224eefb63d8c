package backtest

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"CoinVault/internal/model"
	"CoinVault/internal/strategy"
)

// DualStepRecord is one row of dual-order backtest output. TradePrice is
// the limit price of the filled leg, or the step price on a HOLD.
type DualStepRecord struct {
	Time  time.Time
	Price float64

	BuyPrice  float64
	SellPrice float64
	DayLow    float64
	DayHigh   float64

	Action     model.Action
	TradePrice float64
	Reinvested float64

	ReserveBalance  float64
	VolatileBalance float64
	PortfolioValue  float64
}

// bandStdDev is the spread of the synthetic intraday low/high band drawn
// around each step's price.
const bandStdDev = 0.017

// RunDual replays the dual-order strategy over the series. Each step draws
// a seeded synthetic low/high band around the price, generates both
// conditional orders from the current balances, and resolves fills with BUY
// taking precedence over SELL. A filled SELL returns a configured slice of
// its approximated profit to the reserve before the row is recorded.
//
// The dual runner keeps its own balance pair rather than a vault: the
// reinvestment credit is not a trade and has no place in a trade ledger.
func RunDual(series []model.SeriesPoint, params strategy.DualParams, initialReserve, initialVolatile float64, seed int64) ([]DualStepRecord, Summary, error) {
	if err := params.Validate(); err != nil {
		return nil, Summary{}, fmt.Errorf("invalid params: %w", err)
	}
	if err := ValidateSeries(series); err != nil {
		return nil, Summary{}, err
	}

	strat := strategy.NewDualOrder(params)
	rng := rand.New(rand.NewSource(seed))

	reserve := initialReserve
	volatile := initialVolatile
	rows := make([]DualStepRecord, 0, len(series))

	for _, point := range series {
		buy, sell := strat.GenerateOrders(point.Price, volatile, reserve)

		dayLow := point.Price * (1 - math.Abs(rng.NormFloat64()*bandStdDev))
		dayHigh := point.Price * (1 + math.Abs(rng.NormFloat64()*bandStdDev))
		buyFilled, sellFilled := strategy.ResolveFills(buy, sell, dayLow, dayHigh)

		rec := DualStepRecord{
			Time:       point.Time,
			Price:      point.Price,
			BuyPrice:   buy.Price,
			SellPrice:  sell.Price,
			DayLow:     dayLow,
			DayHigh:    dayHigh,
			Action:     model.ActionHold,
			TradePrice: point.Price,
		}

		switch {
		case buyFilled:
			reserve -= buy.ReserveAmount
			volatile += buy.VolatileAmount
			rec.Action = model.ActionBuy
			rec.TradePrice = buy.Price

		case sellFilled:
			volatile -= sell.VolatileAmount
			reserve += sell.ReserveAmount
			rec.Reinvested = strat.ReinvestAmount(sell, point.Price)
			reserve += rec.Reinvested
			rec.Action = model.ActionSell
			rec.TradePrice = sell.Price
		}

		rec.ReserveBalance = reserve
		rec.VolatileBalance = volatile
		rec.PortfolioValue = reserve + volatile*point.Price
		rows = append(rows, rec)
	}

	initialValue := initialReserve + initialVolatile*series[0].Price
	return rows, SummarizeDual(rows, initialValue, initialVolatile), nil
}
