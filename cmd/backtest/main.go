package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"CoinVault/internal/backtest"
	"CoinVault/internal/recorder"
	"CoinVault/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags)

	strategyName := flag.String("strategy", "feargreed", "strategy to simulate: feargreed or dual")
	days := flag.Int("days", 365, "number of daily steps to generate")
	seed := flag.Int64("seed", 42, "random seed for the synthetic series")
	startPrice := flag.Float64("price", 30000, "starting price of the synthetic series")
	volatility := flag.Float64("volatility", 0.02, "daily volatility of the synthetic series")
	reserve := flag.Float64("reserve", 200, "initial reserve balance")
	volatile := flag.Float64("volatile", 0, "initial volatile balance")
	fear := flag.Int("fear", 40, "buy when the index is below this")
	greed := flag.Int("greed", 60, "sell when the index is above this")
	buyFraction := flag.Float64("buy-fraction", 0.5, "fraction of reserve spent per buy")
	sellFraction := flag.Float64("sell-fraction", 0.5, "fraction of volatile sold per sell")
	dbPath := flag.String("db", "", "optional sqlite path to record the run")
	label := flag.String("label", "", "optional label stored with the run")
	verbose := flag.Bool("v", false, "print every step")
	flag.Parse()

	synthCfg := backtest.DefaultSynthConfig()
	synthCfg.Days = *days
	synthCfg.Seed = *seed
	synthCfg.StartPrice = *startPrice
	synthCfg.Volatility = *volatility
	series := backtest.GenerateSeries(synthCfg)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if *dbPath != "" {
		sr, err := recorder.NewSQLiteRecorder(*dbPath)
		if err != nil {
			log.Fatalf("[FATAL] open recorder: %v", err)
		}
		defer sr.Close()
		rec = sr
	}

	var summary backtest.Summary
	switch *strategyName {
	case "feargreed":
		params := strategy.DefaultParams()
		params.FearThreshold = *fear
		params.GreedThreshold = *greed
		params.BuyFraction = *buyFraction
		params.SellFraction = *sellFraction

		rows, sum, err := backtest.Run(series, params, *reserve, *volatile)
		if err != nil {
			log.Fatalf("[FATAL] simulation: %v", err)
		}
		summary = sum

		if *verbose {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tPRICE\tINDEX\tACTION\tAMOUNT\tRESERVE\tVOLATILE\tVALUE")
			for _, r := range rows {
				idx := fmt.Sprintf("%d", r.Index)
				if r.IndexMissing {
					idx = "-"
				}
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%.6f\t%.2f\t%.8f\t%.2f\n",
					r.Time.Format("2006-01-02"), r.Price, idx, r.Action, r.Amount,
					r.ReserveAfter, r.VolatileAfter, r.PortfolioValue)
			}
			w.Flush()
		}

		if err := rec.RecordFearGreedRun(&recorder.FearGreedRun{
			Label:   *label,
			Seed:    *seed,
			Summary: sum,
			Steps:   rows,
		}); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}

	case "dual":
		rows, sum, err := backtest.RunDual(series, strategy.DefaultDualParams(), *reserve, *volatile, *seed)
		if err != nil {
			log.Fatalf("[FATAL] simulation: %v", err)
		}
		summary = sum

		if *verbose {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tPRICE\tBUY@\tSELL@\tACTION\tREINVEST\tRESERVE\tVOLATILE\tVALUE")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%s\t%.2f\t%.2f\t%.8f\t%.2f\n",
					r.Time.Format("2006-01-02"), r.Price, r.BuyPrice, r.SellPrice, r.Action,
					r.Reinvested, r.ReserveBalance, r.VolatileBalance, r.PortfolioValue)
			}
			w.Flush()
		}

		if err := rec.RecordDualRun(&recorder.DualRun{
			Label:   *label,
			Seed:    *seed,
			Summary: sum,
			Steps:   rows,
		}); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}

	default:
		log.Fatalf("[FATAL] unknown strategy %q (want feargreed or dual)", *strategyName)
	}

	printSummary(*strategyName, *seed, summary)
}

func printSummary(name string, seed int64, s backtest.Summary) {
	fmt.Printf("\n=== %s | seed %d ===\n", name, seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", s.Steps)
	fmt.Fprintf(w, "buys / sells / resets / holds\t%d / %d / %d / %d\n", s.Buys, s.Sells, s.Resets, s.Holds)
	fmt.Fprintf(w, "initial value\t%.2f\n", s.InitialValue)
	fmt.Fprintf(w, "final value\t%.2f\n", s.FinalValue)
	fmt.Fprintf(w, "total return\t%+.2f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "max drawdown\t%.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "final reserve\t%.2f\n", s.FinalReserve)
	fmt.Fprintf(w, "final volatile\t%.8f\n", s.FinalVolatile)
	fmt.Fprintf(w, "volatile accumulated\t%+.8f\n", s.VolatileAccumulated)
	w.Flush()
}
