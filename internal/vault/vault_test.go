package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"CoinVault/internal/model"
)

func ts(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestApplyTrade_BuySellBalances(t *testing.T) {
	v := New(100, 0.001)

	if err := v.ApplyTrade(ts(1), model.ActionBuy, 50, 100000); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if math.Abs(v.ReserveBalance()-50) > 1e-9 {
		t.Errorf("expected reserve 50, got %.8f", v.ReserveBalance())
	}
	if math.Abs(v.VolatileBalance()-0.0015) > 1e-12 {
		t.Errorf("expected volatile 0.0015, got %.8f", v.VolatileBalance())
	}

	if err := v.ApplyTrade(ts(2), model.ActionSell, 0.0005, 110000); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if math.Abs(v.ReserveBalance()-105) > 1e-9 {
		t.Errorf("expected reserve 105, got %.8f", v.ReserveBalance())
	}
	if math.Abs(v.VolatileBalance()-0.001) > 1e-12 {
		t.Errorf("expected volatile 0.001, got %.8f", v.VolatileBalance())
	}

	if v.ReserveBalance() < 0 || v.VolatileBalance() < 0 {
		t.Error("balances must stay non-negative after successful trades")
	}

	trades := v.TradeHistory()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trade records, got %d", len(trades))
	}
	if trades[0].Action != model.ActionBuy || trades[1].Action != model.ActionSell {
		t.Error("trade records out of order")
	}
	if math.Abs(trades[0].ReserveDelta+50) > 1e-9 || math.Abs(trades[0].VolatileDelta-0.0005) > 1e-12 {
		t.Errorf("unexpected buy deltas: %+v", trades[0])
	}

	// a valuation record follows every trade, at post-trade balances
	vals := v.PortfolioHistory()
	if len(vals) != 2 {
		t.Fatalf("expected 2 valuation records, got %d", len(vals))
	}
	if math.Abs(vals[0].PortfolioValue-(50+0.0015*100000)) > 1e-9 {
		t.Errorf("valuation must reflect post-trade balances, got %.4f", vals[0].PortfolioValue)
	}
}

func TestApplyTrade_InsufficientBalanceLeavesStateUntouched(t *testing.T) {
	v := New(100, 0.001)
	v.ApplyTrade(ts(1), model.ActionBuy, 40, 100000)

	before, err := json.Marshal(v.ToState())
	if err != nil {
		t.Fatal(err)
	}

	if err := v.ApplyTrade(ts(2), model.ActionBuy, 1000, 100000); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if err := v.ApplyTrade(ts(2), model.ActionSell, 1, 100000); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	after, err := json.Marshal(v.ToState())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("refused trade must leave the serialized vault byte-identical")
	}
}

func TestApplyTrade_ResetSnapsToTargets(t *testing.T) {
	v := New(10, 0.011)
	v.SetResetTargets(200, 0.0022)

	if err := v.ApplyTrade(ts(1), model.ActionReset, 0.011, 100000); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if v.ReserveBalance() != 200 || v.VolatileBalance() != 0.0022 {
		t.Errorf("expected balances 200/0.0022, got %.4f/%.8f", v.ReserveBalance(), v.VolatileBalance())
	}

	trades := v.TradeHistory()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade record, got %d", len(trades))
	}
	if math.Abs(trades[0].ReserveDelta-190) > 1e-9 {
		t.Errorf("expected reserve delta +190, got %.4f", trades[0].ReserveDelta)
	}
	if math.Abs(trades[0].VolatileDelta+0.0088) > 1e-12 {
		t.Errorf("expected volatile delta -0.0088, got %.8f", trades[0].VolatileDelta)
	}

	// reset never fails, even from zero balances
	empty := New(0, 0)
	if err := empty.ApplyTrade(ts(1), model.ActionReset, 0, 100000); err != nil {
		t.Fatalf("reset from zero balances failed: %v", err)
	}
}

func TestApplyTrade_RejectsNonPositivePrice(t *testing.T) {
	v := New(100, 0)
	if err := v.ApplyTrade(ts(1), model.ActionBuy, 10, 0); err == nil {
		t.Error("expected error for zero price")
	}
	if err := v.ApplyTrade(ts(1), model.ActionBuy, 10, -5); err == nil {
		t.Error("expected error for negative price")
	}
	if len(v.TradeHistory()) != 0 || len(v.PortfolioHistory()) != 0 {
		t.Error("rejected trade must not append records")
	}
}

func TestTotalValueIdentity(t *testing.T) {
	v := New(123.45, 0.0067)
	for _, price := range []float64{1, 500, 90000, 250000} {
		want := v.ReserveBalance() + v.VolatileBalance()*price
		if got := v.TotalValue(price); math.Abs(got-want) > 1e-9 {
			t.Errorf("price %.0f: expected %.8f, got %.8f", price, want, got)
		}
	}
}

func TestRecordValuation_Returns(t *testing.T) {
	v := New(100, 0.001)

	first := v.RecordValuation(ts(1), 100000) // value 200, fixes baseline
	if first.TotalReturnPct != 0 || first.DailyReturnPct != 0 {
		t.Errorf("baseline valuation must report zero returns, got %+v", first)
	}

	second := v.RecordValuation(ts(2), 150000) // value 250
	if math.Abs(second.TotalReturnPct-25) > 1e-9 {
		t.Errorf("expected total return 25%%, got %.4f", second.TotalReturnPct)
	}
	if math.Abs(second.DailyReturnPct-25) > 1e-9 {
		t.Errorf("expected daily return 25%%, got %.4f", second.DailyReturnPct)
	}

	third := v.RecordValuation(ts(3), 150000)
	if math.Abs(third.DailyReturnPct) > 1e-9 {
		t.Errorf("flat price must report zero daily return, got %.4f", third.DailyReturnPct)
	}
	if math.Abs(third.TotalReturnPct-25) > 1e-9 {
		t.Errorf("total return stays relative to the first baseline, got %.4f", third.TotalReturnPct)
	}
}

func TestStateRoundTrip(t *testing.T) {
	v := New(100, 0.001)
	v.SetResetTargets(200, 0.0022)
	v.ApplyTrade(ts(1), model.ActionBuy, 50, 100000)
	v.ApplyTrade(ts(2), model.ActionSell, 0.0004, 120000)
	v.RecordValuation(ts(3), 115000)
	v.ApplyTrade(ts(4), model.ActionReset, 0, 110000)

	state := v.ToState()
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.VaultState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(state, decoded) {
		t.Error("JSON round-trip must preserve every field and record")
	}

	rebuilt := FromState(decoded)
	if !reflect.DeepEqual(rebuilt.ToState(), state) {
		t.Error("FromState(ToState()) must reproduce the vault exactly")
	}
}

func TestManager_PersistsAcrossRestart(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "vault.json")

	m, err := NewManager(stateFile, 100, 0.001)
	if err != nil {
		t.Fatalf("init manager: %v", err)
	}
	if err := m.ExecuteTrade(model.ActionBuy, 25, 100000); err != nil {
		t.Fatalf("execute trade: %v", err)
	}
	want := m.State()

	m2, err := NewManager(stateFile, 0, 0)
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	got := m2.State()
	if !reflect.DeepEqual(got, want) {
		t.Error("reloaded manager must carry the persisted state")
	}
	if r, _ := m2.Balances(); math.Abs(r-75) > 1e-9 {
		t.Errorf("expected reserve 75 after reload, got %.4f", r)
	}
}

func TestLoadState_MissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if state != nil {
		t.Error("missing file must yield a nil state")
	}
}

func TestManager_ExecuteTradeSurfacesSaveFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	m, err := NewManager(filepath.Join(dir, "vault.json"), 200, 0)
	if err != nil {
		t.Fatalf("init manager: %v", err)
	}

	// Pull the state directory out from under the manager so the next save fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove state dir: %v", err)
	}

	err = m.ExecuteTrade(model.ActionBuy, 50, 40000)
	if !errors.Is(err, ErrStatePersist) {
		t.Fatalf("expected ErrStatePersist, got %v", err)
	}

	// The trade itself applied; only persistence lagged.
	r, v := m.Balances()
	if math.Abs(r-150) > 1e-9 {
		t.Errorf("expected reserve 150 after buy, got %.4f", r)
	}
	if math.Abs(v-50.0/40000) > 1e-12 {
		t.Errorf("expected volatile %.8f after buy, got %.8f", 50.0/40000, v)
	}
}
