package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"CoinVault/internal/collector"
	"CoinVault/internal/executor"
	"CoinVault/internal/model"
	"CoinVault/internal/notifier"
	"CoinVault/internal/recorder"
	"CoinVault/internal/strategy"
	"CoinVault/internal/vault"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Vault     *vault.Manager
	Executor  executor.Executor
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Params    strategy.Params
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, vm *vault.Manager, ex executor.Executor, tn *notifier.TelegramNotifier, rec recorder.Recorder, params strategy.Params) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Vault:     vm,
		Executor:  ex,
		Notifier:  tn,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
	}
}

// RegisterAll registers the trade, valuation, and daily summary tasks.
func (s *Scheduler) RegisterAll(tradeCron, valuationCron, summaryCron string) error {
	if _, err := s.Cron.AddFunc(tradeCron, s.tradeTask); err != nil {
		return fmt.Errorf("register trade task: %w", err)
	}
	if _, err := s.Cron.AddFunc(valuationCron, s.valuationTask); err != nil {
		return fmt.Errorf("register valuation task: %w", err)
	}
	if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunTradeNow executes the trade task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunTradeNow() {
	s.tradeTask()
}

func (s *Scheduler) tradeTask() {
	log.Println("[INFO] running trade task")
	obs, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] trade collect: %v", err)
		s.trySend(fmt.Sprintf("❌ Trade cycle data collection failed: %v", err))
		return
	}

	reserve, volatile := s.Vault.Balances()
	decision, err := strategy.DecideReading(obs.Sentiment, reserve, volatile, s.Params)
	if err != nil {
		// No sentiment means no trade. The vault is still marked to market.
		log.Printf("[WARN] no trade this cycle: %v", err)
		val := s.Vault.MarkToMarket(obs.Price)
		if recErr := s.Recorder.RecordValuation(&val); recErr != nil {
			log.Printf("[ERROR] record valuation: %v", recErr)
		}
		s.trySend(fmt.Sprintf("⚠️ Sentiment index unavailable, holding. Price: %.2f", obs.Price))
		return
	}

	var result *model.ExecutionResult
	if decision.Action != model.ActionHold {
		result, err = s.Executor.Execute(decision.Action, decision.Amount, obs.Price)
		if err != nil {
			log.Printf("[ERROR] execute %s: %v", decision.Action, err)
			s.trySend(fmt.Sprintf("❌ Execution error for %s: %v", decision.Action, err))
			return
		}
		if !result.Success {
			// Rejected orders leave the vault untouched; the cycle still
			// marks to market so the valuation history has no gap, but no
			// trade row is recorded.
			log.Printf("[WARN] %s rejected by executor: %s", decision.Action, result.Error)
			val := s.Vault.MarkToMarket(obs.Price)
			if recErr := s.Recorder.RecordValuation(&val); recErr != nil {
				log.Printf("[ERROR] record valuation: %v", recErr)
			}
			s.trySend(fmt.Sprintf("⚠️ %s rejected by %s: %s", decision.Action, s.Executor.Name(), result.Error))
			return
		}
	}

	// The executor accepted (or the action is bookkeeping-only), so the trade
	// applies to the vault. HOLD still records a valuation inside the vault.
	if err := s.Vault.ExecuteTrade(decision.Action, decision.Amount, obs.Price); err != nil {
		if !errors.Is(err, vault.ErrStatePersist) {
			log.Printf("[ERROR] apply trade: %v", err)
			s.trySend(fmt.Sprintf("❌ Vault update failed for %s: %v", decision.Action, err))
			return
		}
		// The trade applied in memory; only the state file lagged.
		log.Printf("[WARN] %v", err)
	}

	state := s.Vault.State()
	if n := len(state.TradeHistory); n > 0 && decision.Action != model.ActionHold {
		trade := state.TradeHistory[n-1]
		if err := s.Recorder.RecordTrade(&trade, result); err != nil {
			log.Printf("[ERROR] record trade: %v", err)
		}
	}
	if n := len(state.PortfolioHistory); n > 0 {
		val := state.PortfolioHistory[n-1]
		if err := s.Recorder.RecordValuation(&val); err != nil {
			log.Printf("[ERROR] record valuation: %v", err)
		}
	}

	s.trySend(notifier.FormatTradeReport(obs, decision, result, state))
}

func (s *Scheduler) valuationTask() {
	log.Println("[INFO] running valuation task")
	price, err := s.Collector.Ticker.FetchPrice(s.Collector.Pair)
	if err != nil {
		log.Printf("[ERROR] valuation fetch price: %v", err)
		return
	}
	val := s.Vault.MarkToMarket(price)
	if err := s.Recorder.RecordValuation(&val); err != nil {
		log.Printf("[ERROR] record valuation: %v", err)
	}
}

func (s *Scheduler) summaryTask() {
	log.Println("[INFO] running daily summary")
	s.trySend(notifier.FormatDailySummary(s.Vault.State()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/trade":
		s.tradeTask()
		return ""
	case "/status":
		state := s.Vault.State()
		var price float64
		if n := len(state.PortfolioHistory); n > 0 {
			price = state.PortfolioHistory[n-1].Price
		}
		return notifier.FormatVaultStatus(state, price)
	case "/summary":
		return notifier.FormatDailySummary(s.Vault.State())
	default:
		return "Available commands:\n• /trade\n• /status\n• /summary"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
