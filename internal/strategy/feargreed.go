package strategy

import (
	"errors"

	"CoinVault/internal/model"
)

// ErrMissingIndex is returned when Decide is called without a real sentiment
// index value. The rule never fabricates an index; callers choose whether a
// missing value means HOLD or an aborted run.
var ErrMissingIndex = errors.New("sentiment index unavailable")

// Decide maps a sentiment index and the current balances to a trade decision.
//
// Precedence, first match wins:
//  1. RESET when the volatile balance has reached the trigger, regardless of
//     the index. Amount is the current volatile balance; the vault snaps both
//     balances to the configured reset targets when it applies the trade.
//  2. BUY when the index is below the fear threshold and reserve is available.
//     Amount is a configured fraction of the reserve balance.
//  3. SELL when the index is above the greed threshold and volatile is held.
//     Amount is a configured fraction of the volatile balance.
//  4. HOLD otherwise.
func Decide(index int, reserveBalance, volatileBalance float64, p Params) model.Decision {
	if volatileBalance >= p.ResetTrigger {
		return model.Decision{Action: model.ActionReset, Amount: volatileBalance}
	}
	if index < p.FearThreshold && reserveBalance > 0 {
		return model.Decision{Action: model.ActionBuy, Amount: reserveBalance * p.BuyFraction}
	}
	if index > p.GreedThreshold && volatileBalance > 0 {
		return model.Decision{Action: model.ActionSell, Amount: volatileBalance * p.SellFraction}
	}
	return model.Decision{Action: model.ActionHold}
}

// DecideReading is the live-loop entry point: it requires a real sentiment
// reading and rejects out-of-range or absent values instead of guessing.
func DecideReading(reading *model.SentimentReading, reserveBalance, volatileBalance float64, p Params) (model.Decision, error) {
	if reading == nil {
		return model.Decision{}, ErrMissingIndex
	}
	if reading.Value < 0 || reading.Value > 100 {
		return model.Decision{}, errors.New("sentiment index out of range 0-100")
	}
	return Decide(reading.Value, reserveBalance, volatileBalance, p), nil
}
