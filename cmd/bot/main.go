package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CoinVault/internal/collector"
	"CoinVault/internal/config"
	"CoinVault/internal/executor"
	"CoinVault/internal/notifier"
	"CoinVault/internal/recorder"
	"CoinVault/internal/scheduler"
	"CoinVault/internal/vault"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoinVault starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init price source
	var ticker collector.TickerSource
	if cfg.Stream.UseBinance {
		stream := collector.NewBinanceStream(cfg.Market.Pair)
		go stream.Run(ctx)
		ticker = stream
	} else {
		ticker = collector.NewTradeOgreFetcher(cfg.DataSource.TradeOgreURL, cfg.Proxy)
	}
	log.Printf("[INFO] price source: %s", ticker.Name())

	// Init sentiment source
	var sentiment collector.SentimentSource
	if cfg.DataSource.FearGreedFile != "" {
		sentiment = &collector.FearGreedFile{Path: cfg.DataSource.FearGreedFile}
	} else {
		sentiment = collector.NewFearGreedFetcher(cfg.DataSource.FearGreedURL, cfg.Proxy)
	}
	log.Printf("[INFO] sentiment source: %s", sentiment.Name())

	col := collector.NewCollector(ticker, sentiment, cfg.Market.Pair)

	// Init vault manager
	vm, err := vault.NewManager(cfg.Vault.StateFile, cfg.Vault.InitialReserve, cfg.Vault.InitialVolatile)
	if err != nil {
		log.Fatalf("[FATAL] init vault manager: %v", err)
	}
	vm.SetResetTargets(cfg.Strategy.ResetReserve, cfg.Strategy.ResetVolatile)

	// Init executor
	var ex executor.Executor
	if cfg.Mode == "live" {
		ex = executor.NewTradeOgreExecutor(cfg.DataSource.TradeOgreURL, cfg.Market.Pair, cfg.Exchange.Key, cfg.Exchange.Secret, cfg.Proxy)
	} else {
		ex = executor.NewPaperExecutor(cfg.Market.Pair)
	}
	log.Printf("[INFO] executor: %s", ex.Name())

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, vm, ex, tn, rec, cfg.StrategyParams())
	if err := sched.RegisterAll(cfg.Schedule.TradeCron, cfg.Schedule.ValuationCron, cfg.Schedule.SummaryCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing trade task now")
		go sched.RunTradeNow()
	}

	log.Println("[INFO] CoinVault is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CoinVault stopped")
}
