package vault

import (
	"errors"
	"fmt"
	"time"

	"CoinVault/internal/model"
)

// ErrInsufficientBalance is returned when a BUY or SELL asks for more than
// the vault holds. The vault is left untouched in that case.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Vault is the simulated account: a reserve/volatile balance pair plus the
// append-only trade and valuation history. Both balances stay non-negative
// after every successful operation. A Vault is not safe for concurrent use;
// the live loop wraps it in a Manager.
type Vault struct {
	reserve       float64
	volatile      float64
	trades        []model.TradeRecord
	valuations    []model.ValuationRecord
	initialValue  float64 // return baseline, captured at the first valuation
	resetReserve  float64
	resetVolatile float64
}

// New creates a vault with starting balances and default reset targets.
func New(initialReserve, initialVolatile float64) *Vault {
	return &Vault{
		reserve:       initialReserve,
		volatile:      initialVolatile,
		resetReserve:  200,
		resetVolatile: 0.0022,
	}
}

// SetResetTargets configures the balances a RESET snaps to. Called once
// during wiring, before the first trade.
func (v *Vault) SetResetTargets(reserve, volatile float64) {
	v.resetReserve = reserve
	v.resetVolatile = volatile
}

// ReserveBalance returns the current reserve asset balance.
func (v *Vault) ReserveBalance() float64 { return v.reserve }

// VolatileBalance returns the current volatile asset balance.
func (v *Vault) VolatileBalance() float64 { return v.volatile }

// TotalValue returns the portfolio value at the given price.
func (v *Vault) TotalValue(price float64) float64 {
	return v.reserve + v.volatile*price
}

// ApplyTrade mutates the balances for one decision and appends a trade
// record plus a post-trade valuation record at the trade price.
//
// BUY spends `amount` of reserve, SELL releases `amount` of the volatile
// asset; both refuse amounts exceeding the available balance without
// touching the vault. RESET ignores `amount` and snaps both balances to the
// configured targets; it never fails. HOLD appends only a valuation record.
func (v *Vault) ApplyTrade(ts time.Time, action model.Action, amount, price float64) error {
	if price <= 0 {
		return fmt.Errorf("trade price must be positive, got %.8f", price)
	}

	switch action {
	case model.ActionBuy:
		if amount > v.reserve {
			return fmt.Errorf("buy %.8f exceeds reserve %.8f: %w", amount, v.reserve, ErrInsufficientBalance)
		}
		gained := amount / price
		v.reserve -= amount
		v.volatile += gained
		v.appendTrade(ts, action, price, -amount, gained)

	case model.ActionSell:
		if amount > v.volatile {
			return fmt.Errorf("sell %.8f exceeds holding %.8f: %w", amount, v.volatile, ErrInsufficientBalance)
		}
		proceeds := amount * price
		v.volatile -= amount
		v.reserve += proceeds
		v.appendTrade(ts, action, price, proceeds, -amount)

	case model.ActionReset:
		reserveDelta := v.resetReserve - v.reserve
		volatileDelta := v.resetVolatile - v.volatile
		v.reserve = v.resetReserve
		v.volatile = v.resetVolatile
		v.appendTrade(ts, action, price, reserveDelta, volatileDelta)

	case model.ActionHold:
		// no balance change, mark to market only

	default:
		return fmt.Errorf("unknown action %q", action)
	}

	v.RecordValuation(ts, price)
	return nil
}

func (v *Vault) appendTrade(ts time.Time, action model.Action, price, reserveDelta, volatileDelta float64) {
	v.trades = append(v.trades, model.TradeRecord{
		Timestamp:     ts,
		Action:        action,
		Price:         price,
		ReserveDelta:  reserveDelta,
		VolatileDelta: volatileDelta,
		ReserveAfter:  v.reserve,
		VolatileAfter: v.volatile,
	})
}

// RecordValuation appends a mark-to-market snapshot at the given price. The
// first valuation ever recorded fixes the total-return baseline; it never
// moves afterwards.
func (v *Vault) RecordValuation(ts time.Time, price float64) model.ValuationRecord {
	value := v.TotalValue(price)
	if v.initialValue == 0 && value > 0 {
		v.initialValue = value
	}

	var totalReturn, dailyReturn float64
	if v.initialValue > 0 {
		totalReturn = (value/v.initialValue - 1) * 100
	}
	if n := len(v.valuations); n > 0 {
		if last := v.valuations[n-1].PortfolioValue; last > 0 {
			dailyReturn = (value/last - 1) * 100
		}
	}

	rec := model.ValuationRecord{
		Timestamp:       ts,
		Price:           price,
		ReserveBalance:  v.reserve,
		VolatileBalance: v.volatile,
		PortfolioValue:  value,
		DailyReturnPct:  dailyReturn,
		TotalReturnPct:  totalReturn,
	}
	v.valuations = append(v.valuations, rec)
	return rec
}

// TradeHistory returns a copy of the trade records in append order.
func (v *Vault) TradeHistory() []model.TradeRecord {
	out := make([]model.TradeRecord, len(v.trades))
	copy(out, v.trades)
	return out
}

// PortfolioHistory returns a copy of the valuation records in append order.
func (v *Vault) PortfolioHistory() []model.ValuationRecord {
	out := make([]model.ValuationRecord, len(v.valuations))
	copy(out, v.valuations)
	return out
}

// LastValuation returns the most recent valuation record, if any.
func (v *Vault) LastValuation() (model.ValuationRecord, bool) {
	if len(v.valuations) == 0 {
		return model.ValuationRecord{}, false
	}
	return v.valuations[len(v.valuations)-1], true
}

// ToState snapshots the vault into its persisted shape.
func (v *Vault) ToState() model.VaultState {
	return model.VaultState{
		ReserveBalance:        v.reserve,
		VolatileBalance:       v.volatile,
		TradeHistory:          v.TradeHistory(),
		PortfolioHistory:      v.PortfolioHistory(),
		InitialPortfolioValue: v.initialValue,
	}
}

// FromState rebuilds a vault from its persisted shape. FromState(ToState())
// reproduces every balance and record exactly, in order.
func FromState(s model.VaultState) *Vault {
	v := New(s.ReserveBalance, s.VolatileBalance)
	v.initialValue = s.InitialPortfolioValue
	v.trades = make([]model.TradeRecord, len(s.TradeHistory))
	copy(v.trades, s.TradeHistory)
	v.valuations = make([]model.ValuationRecord, len(s.PortfolioHistory))
	copy(v.valuations, s.PortfolioHistory)
	return v
}
