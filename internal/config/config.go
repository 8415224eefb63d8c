package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"CoinVault/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Market struct {
		Pair string `yaml:"pair"`
	} `yaml:"market"`
	Mode       string `yaml:"mode"` // paper or live
	DataSource struct {
		TradeOgreURL  string `yaml:"tradeogre_url"`
		FearGreedURL  string `yaml:"fear_greed_url"`
		FearGreedFile string `yaml:"fear_greed_file"`
	} `yaml:"data_source"`
	Stream struct {
		UseBinance bool `yaml:"use_binance"`
	} `yaml:"stream"`
	Exchange struct {
		Key    string `yaml:"key"`
		Secret string `yaml:"secret"`
	} `yaml:"exchange"`
	Strategy struct {
		FearThreshold  int     `yaml:"fear_threshold"`
		GreedThreshold int     `yaml:"greed_threshold"`
		BuyFraction    float64 `yaml:"buy_fraction"`
		SellFraction   float64 `yaml:"sell_fraction"`
		ResetTrigger   float64 `yaml:"reset_trigger"`
		ResetReserve   float64 `yaml:"reset_reserve"`
		ResetVolatile  float64 `yaml:"reset_volatile"`
	} `yaml:"strategy"`
	Vault struct {
		StateFile       string  `yaml:"state_file"`
		InitialReserve  float64 `yaml:"initial_reserve"`
		InitialVolatile float64 `yaml:"initial_volatile"`
	} `yaml:"vault"`
	Schedule struct {
		TradeCron     string `yaml:"trade_cron"`
		ValuationCron string `yaml:"valuation_cron"`
		SummaryCron   string `yaml:"summary_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TRADEOGRE_KEY"); v != "" {
		cfg.Exchange.Key = v
	}
	if v := os.Getenv("TRADEOGRE_SECRET"); v != "" {
		cfg.Exchange.Secret = v
	}
	if v := os.Getenv("COINVAULT_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("COINVAULT_PAIR"); v != "" {
		cfg.Market.Pair = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Market.Pair == "" {
		cfg.Market.Pair = "BTC-USDT"
	}
	if cfg.Mode == "" {
		cfg.Mode = "paper"
	}
	defaults := strategy.DefaultParams()
	if cfg.Strategy.FearThreshold == 0 {
		cfg.Strategy.FearThreshold = defaults.FearThreshold
	}
	if cfg.Strategy.GreedThreshold == 0 {
		cfg.Strategy.GreedThreshold = defaults.GreedThreshold
	}
	if cfg.Strategy.BuyFraction == 0 {
		cfg.Strategy.BuyFraction = defaults.BuyFraction
	}
	if cfg.Strategy.SellFraction == 0 {
		cfg.Strategy.SellFraction = defaults.SellFraction
	}
	if cfg.Strategy.ResetTrigger == 0 {
		cfg.Strategy.ResetTrigger = defaults.ResetTrigger
	}
	if cfg.Strategy.ResetReserve == 0 {
		cfg.Strategy.ResetReserve = defaults.ResetReserve
	}
	if cfg.Strategy.ResetVolatile == 0 {
		cfg.Strategy.ResetVolatile = defaults.ResetVolatile
	}
	if cfg.Vault.StateFile == "" {
		cfg.Vault.StateFile = "data/vault_state.json"
	}
	if cfg.Vault.InitialReserve == 0 && cfg.Vault.InitialVolatile == 0 {
		cfg.Vault.InitialReserve = 200
	}
	if cfg.Schedule.TradeCron == "" {
		cfg.Schedule.TradeCron = "0 0 8 * * *"
	}
	if cfg.Schedule.ValuationCron == "" {
		cfg.Schedule.ValuationCron = "0 0 * * * *"
	}
	if cfg.Schedule.SummaryCron == "" {
		cfg.Schedule.SummaryCron = "0 0 22 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/coinvault.db"
	}

	return cfg, nil
}

// StrategyParams converts the config section into strategy parameters.
func (c *Config) StrategyParams() strategy.Params {
	return strategy.Params{
		FearThreshold:  c.Strategy.FearThreshold,
		GreedThreshold: c.Strategy.GreedThreshold,
		BuyFraction:    c.Strategy.BuyFraction,
		SellFraction:   c.Strategy.SellFraction,
		ResetTrigger:   c.Strategy.ResetTrigger,
		ResetReserve:   c.Strategy.ResetReserve,
		ResetVolatile:  c.Strategy.ResetVolatile,
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Market.Pair == "" {
		return fmt.Errorf("market.pair is required")
	}
	if c.Mode != "paper" && c.Mode != "live" {
		return fmt.Errorf("mode must be paper or live, got %q", c.Mode)
	}
	if c.Mode == "live" && (c.Exchange.Key == "" || c.Exchange.Secret == "") {
		return fmt.Errorf("exchange.key and exchange.secret are required in live mode")
	}
	if err := c.StrategyParams().Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if c.Vault.InitialReserve < 0 || c.Vault.InitialVolatile < 0 {
		return fmt.Errorf("vault initial balances must not be negative")
	}
	return nil
}
