package notifier

import (
	"fmt"
	"strings"
	"time"

	"CoinVault/internal/collector"
	"CoinVault/internal/model"
)

// FormatTradeReport formats the outcome of a trade cycle into a Telegram message.
func FormatTradeReport(obs *collector.Observation, decision model.Decision, result *model.ExecutionResult, state model.VaultState) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>CoinVault Trade Report</b> | %s\n\n", time.Now().UTC().Format("2006-01-02 15:04")))

	b.WriteString(fmt.Sprintf("Pair: %s\n", obs.Pair))
	b.WriteString(fmt.Sprintf("Price: %.2f\n", obs.Price))
	if obs.Sentiment != nil {
		b.WriteString(fmt.Sprintf("Fear &amp; Greed: %d (%s)\n\n", obs.Sentiment.Value, obs.Sentiment.Classification))
	} else {
		b.WriteString("Fear &amp; Greed: unavailable\n\n")
	}

	b.WriteString(fmt.Sprintf("💰 <b>Decision:</b> %s", decision.Action))
	switch decision.Action {
	case model.ActionBuy:
		b.WriteString(fmt.Sprintf(" %.2f reserve", decision.Amount))
	case model.ActionSell, model.ActionReset:
		b.WriteString(fmt.Sprintf(" %.8f volatile", decision.Amount))
	}
	b.WriteString("\n")

	if result != nil {
		if result.Success {
			if result.OrderID != "" {
				b.WriteString(fmt.Sprintf("Order: %s", result.OrderID))
				if result.Simulated {
					b.WriteString(" (simulated)")
				}
				b.WriteString("\n")
			}
		} else {
			b.WriteString(fmt.Sprintf("⚠️ Execution failed: %s\n", result.Error))
		}
	}

	b.WriteString("\n📦 <b>Vault:</b>\n")
	b.WriteString(fmt.Sprintf("  Reserve: %.2f\n", state.ReserveBalance))
	b.WriteString(fmt.Sprintf("  Volatile: %.8f\n", state.VolatileBalance))
	b.WriteString(fmt.Sprintf("  Value: %.2f\n", state.ReserveBalance+state.VolatileBalance*obs.Price))

	return b.String()
}

// FormatVaultStatus formats the current vault state for display.
func FormatVaultStatus(state model.VaultState, price float64) string {
	var b strings.Builder
	b.WriteString("📦 <b>Vault Status</b>\n\n")
	b.WriteString(fmt.Sprintf("Reserve balance: %.2f\n", state.ReserveBalance))
	b.WriteString(fmt.Sprintf("Volatile balance: %.8f\n", state.VolatileBalance))
	if price > 0 {
		value := state.ReserveBalance + state.VolatileBalance*price
		b.WriteString(fmt.Sprintf("Last price: %.2f\n", price))
		b.WriteString(fmt.Sprintf("Portfolio value: %.2f\n", value))
		if state.InitialPortfolioValue > 0 {
			ret := (value - state.InitialPortfolioValue) / state.InitialPortfolioValue * 100
			b.WriteString(fmt.Sprintf("Total return: %+.2f%%\n", ret))
		}
	}
	b.WriteString(fmt.Sprintf("Trades recorded: %d\n", len(state.TradeHistory)))
	return b.String()
}

// FormatDailySummary formats a daily summary report from the valuation history.
func FormatDailySummary(state model.VaultState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Daily Summary</b> | %s\n\n", time.Now().UTC().Format("2006-01-02")))

	if n := len(state.PortfolioHistory); n > 0 {
		last := state.PortfolioHistory[n-1]
		b.WriteString(fmt.Sprintf("Portfolio value: %.2f\n", last.PortfolioValue))
		b.WriteString(fmt.Sprintf("Daily return: %+.2f%%\n", last.DailyReturnPct))
		b.WriteString(fmt.Sprintf("Total return: %+.2f%%\n", last.TotalReturnPct))
	} else {
		b.WriteString("No valuations recorded yet.\n")
	}

	trades := 0
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	for _, t := range state.TradeHistory {
		if t.Timestamp.After(cutoff) && t.Action != model.ActionHold {
			trades++
		}
	}
	b.WriteString(fmt.Sprintf("Trades in last 24h: %d\n", trades))
	return b.String()
}
