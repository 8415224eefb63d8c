package strategy

import (
	"math"
	"testing"
)

func TestGenerateOrders_Prices(t *testing.T) {
	d := NewDualOrder(DefaultDualParams())
	buy, sell := d.GenerateOrders(100000, 0.001, 100)

	if math.Abs(buy.Price-96000) > 1e-6 {
		t.Errorf("expected buy price 96000, got %.2f", buy.Price)
	}
	if math.Abs(sell.Price-104000) > 1e-6 {
		t.Errorf("expected sell price 104000, got %.2f", sell.Price)
	}

	// Buy leg commits 70% of the reserve at the discounted price.
	wantBuyBTC := 70.0 / 96000
	if math.Abs(buy.VolatileAmount-wantBuyBTC) > 1e-12 {
		t.Errorf("expected buy amount %.10f, got %.10f", wantBuyBTC, buy.VolatileAmount)
	}
	if math.Abs(buy.ReserveAmount-70) > 1e-9 {
		t.Errorf("expected buy reserve 70, got %.4f", buy.ReserveAmount)
	}

	// Sell leg offers 30% of the holding at the premium price.
	if math.Abs(sell.VolatileAmount-0.0003) > 1e-12 {
		t.Errorf("expected sell amount 0.0003, got %.10f", sell.VolatileAmount)
	}
	if math.Abs(sell.ReserveAmount-0.0003*104000) > 1e-9 {
		t.Errorf("expected sell proceeds %.4f, got %.4f", 0.0003*104000, sell.ReserveAmount)
	}
}

func TestResolveFills_BuyPrecedence(t *testing.T) {
	d := NewDualOrder(DefaultDualParams())
	buy, sell := d.GenerateOrders(100000, 0.001, 100)

	tests := []struct {
		name       string
		low, high  float64
		buyFilled  bool
		sellFilled bool
	}{
		{"neither touches", 97000, 103000, false, false},
		{"only buy touches", 95000, 103000, true, false},
		{"only sell touches", 97000, 105000, false, true},
		{"both touch, buy wins", 95000, 105000, true, false},
	}
	for _, tt := range tests {
		gotBuy, gotSell := ResolveFills(buy, sell, tt.low, tt.high)
		if gotBuy != tt.buyFilled || gotSell != tt.sellFilled {
			t.Errorf("%s: got buy=%v sell=%v, want buy=%v sell=%v",
				tt.name, gotBuy, gotSell, tt.buyFilled, tt.sellFilled)
		}
	}
}

func TestReinvestAmount(t *testing.T) {
	d := NewDualOrder(DefaultDualParams())
	_, sell := d.GenerateOrders(100000, 0.001, 100)

	// Proceeds 0.0003*104000 = 31.2; cost basis at current 0.0003*100000 = 30.
	// Profit 1.2, reinvested at 50% = 0.6.
	got := d.ReinvestAmount(sell, 100000)
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("expected reinvest 0.6, got %.6f", got)
	}

	// No reinvestment when the approximated profit is negative.
	if got := d.ReinvestAmount(sell, 110000); got != 0 {
		t.Errorf("expected zero reinvest on loss, got %.6f", got)
	}
}

func TestDualParams_Validate(t *testing.T) {
	if err := DefaultDualParams().Validate(); err != nil {
		t.Fatalf("default dual params should validate: %v", err)
	}
	p := DefaultDualParams()
	p.BuyDiscountPct = 100
	if err := p.Validate(); err == nil {
		t.Error("expected validation error for 100% discount")
	}
	p = DefaultDualParams()
	p.ReinvestRate = 1.2
	if err := p.Validate(); err == nil {
		t.Error("expected validation error for reinvest rate above 1")
	}
}
