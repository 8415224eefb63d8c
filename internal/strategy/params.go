package strategy

import "fmt"

// Params is the frozen fear/greed configuration for one run. Thresholds and
// fractions are configuration, never rule logic; a run constructs Params once
// and must not mutate it afterwards.
type Params struct {
	FearThreshold  int     // buy when index is below this
	GreedThreshold int     // sell when index is above this
	BuyFraction    float64 // fraction of the reserve balance spent per buy
	SellFraction   float64 // fraction of the volatile balance sold per sell
	ResetTrigger   float64 // volatile balance at which the vault resets
	ResetReserve   float64 // reserve balance after a reset
	ResetVolatile  float64 // volatile balance after a reset
}

// DefaultParams returns the baseline accumulation configuration.
func DefaultParams() Params {
	return Params{
		FearThreshold:  40,
		GreedThreshold: 60,
		BuyFraction:    0.5,
		SellFraction:   0.5,
		ResetTrigger:   0.011,
		ResetReserve:   200,
		ResetVolatile:  0.0022,
	}
}

// Validate checks that the parameters describe a usable configuration.
func (p Params) Validate() error {
	if p.FearThreshold < 0 || p.FearThreshold > 100 {
		return fmt.Errorf("fear threshold %d out of range 0-100", p.FearThreshold)
	}
	if p.GreedThreshold < 0 || p.GreedThreshold > 100 {
		return fmt.Errorf("greed threshold %d out of range 0-100", p.GreedThreshold)
	}
	if p.FearThreshold > p.GreedThreshold {
		return fmt.Errorf("fear threshold %d above greed threshold %d", p.FearThreshold, p.GreedThreshold)
	}
	if p.BuyFraction <= 0 || p.BuyFraction > 1 {
		return fmt.Errorf("buy fraction %.4f out of range (0,1]", p.BuyFraction)
	}
	if p.SellFraction <= 0 || p.SellFraction > 1 {
		return fmt.Errorf("sell fraction %.4f out of range (0,1]", p.SellFraction)
	}
	if p.ResetTrigger <= 0 {
		return fmt.Errorf("reset trigger must be positive, got %.8f", p.ResetTrigger)
	}
	if p.ResetReserve < 0 || p.ResetVolatile < 0 {
		return fmt.Errorf("reset targets must be non-negative")
	}
	return nil
}

// DualParams is the frozen configuration of the dual-order strategy.
// Percentages are plain numbers (4 means 4%).
type DualParams struct {
	BuyDiscountPct float64 // buy order below the current price
	SellPremiumPct float64 // sell order above the current price
	BuyFraction    float64 // fraction of the reserve committed to the buy leg
	SellFraction   float64 // fraction of the volatile holding offered on the sell leg
	ReinvestRate   float64 // fraction of realized profit returned to the reserve
}

// DefaultDualParams returns the accumulation-biased dual-order configuration.
func DefaultDualParams() DualParams {
	return DualParams{
		BuyDiscountPct: 4,
		SellPremiumPct: 4,
		BuyFraction:    0.7,
		SellFraction:   0.3,
		ReinvestRate:   0.5,
	}
}

// Validate checks that the dual-order parameters are usable.
func (p DualParams) Validate() error {
	if p.BuyDiscountPct < 0 || p.BuyDiscountPct >= 100 {
		return fmt.Errorf("buy discount %.2f%% out of range [0,100)", p.BuyDiscountPct)
	}
	if p.SellPremiumPct < 0 {
		return fmt.Errorf("sell premium must be non-negative, got %.2f%%", p.SellPremiumPct)
	}
	if p.BuyFraction <= 0 || p.BuyFraction > 1 {
		return fmt.Errorf("buy fraction %.4f out of range (0,1]", p.BuyFraction)
	}
	if p.SellFraction <= 0 || p.SellFraction > 1 {
		return fmt.Errorf("sell fraction %.4f out of range (0,1]", p.SellFraction)
	}
	if p.ReinvestRate < 0 || p.ReinvestRate > 1 {
		return fmt.Errorf("reinvest rate %.4f out of range [0,1]", p.ReinvestRate)
	}
	return nil
}
