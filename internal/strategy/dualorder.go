package strategy

import "CoinVault/internal/model"

// DualOrder places a conditional buy below and a conditional sell above the
// current price every step. It favors accumulation: the buy leg commits a
// larger fraction of the reserve than the sell leg releases of the holding.
type DualOrder struct {
	params DualParams
}

// NewDualOrder creates the strategy with a frozen parameter set.
func NewDualOrder(p DualParams) *DualOrder {
	return &DualOrder{params: p}
}

// Params returns the frozen configuration.
func (d *DualOrder) Params() DualParams { return d.params }

// GenerateOrders computes the two conditional orders for one step.
// The buy order spends BuyFraction of the reserve at a discounted price; the
// sell order offers SellFraction of the volatile holding at a premium.
func (d *DualOrder) GenerateOrders(currentPrice, volatileHolding, reserveBalance float64) (buy, sell model.Order) {
	buyPrice := currentPrice * (1 - d.params.BuyDiscountPct/100)
	sellPrice := currentPrice * (1 + d.params.SellPremiumPct/100)

	buyReserve := reserveBalance * d.params.BuyFraction
	buy = model.Order{
		Side:           model.SideBuy,
		Price:          buyPrice,
		VolatileAmount: buyReserve / buyPrice,
		ReserveAmount:  buyReserve,
	}

	sellVolatile := volatileHolding * d.params.SellFraction
	sell = model.Order{
		Side:           model.SideSell,
		Price:          sellPrice,
		VolatileAmount: sellVolatile,
		ReserveAmount:  sellVolatile * sellPrice,
	}
	return buy, sell
}

// ResolveFills decides which of the two orders executed given the day's
// price band. BUY fills when the low touched the buy price, SELL when the
// high touched the sell price. When both would fill the BUY wins and the
// SELL is suppressed for the step; the accumulation bias is deliberate.
func ResolveFills(buy, sell model.Order, dayLow, dayHigh float64) (buyFilled, sellFilled bool) {
	buyFilled = dayLow <= buy.Price
	sellFilled = dayHigh >= sell.Price
	if buyFilled && sellFilled {
		sellFilled = false
	}
	return buyFilled, sellFilled
}

// ReinvestAmount computes the slice of realized sell profit returned to the
// reserve. Cost basis is approximated at the current price rather than
// tracked per lot; the approximation is a documented simplification.
func (d *DualOrder) ReinvestAmount(sell model.Order, currentPrice float64) float64 {
	profit := sell.ReserveAmount - sell.VolatileAmount*currentPrice
	if profit <= 0 {
		return 0
	}
	return profit * d.params.ReinvestRate
}
