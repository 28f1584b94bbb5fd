package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Lark struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"lark"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist"`
	Surge     struct {
		VolumeMultiplier float64 `yaml:"volume_multiplier"`
		PriceChangePct   float64 `yaml:"price_change_pct"`
		LookbackBars     int     `yaml:"lookback_bars"`
		RequireBoth      bool    `yaml:"require_both"`
	} `yaml:"surge"`
	Zones struct {
		LeftBars              int     `yaml:"left_bars"`
		RightBars             int     `yaml:"right_bars"`
		TolerancePct          float64 `yaml:"tolerance_pct"`
		MinTouches            int     `yaml:"min_touches"`
		IncludeTouchingLevels bool    `yaml:"include_touching_levels"`
	} `yaml:"zones"`
	AI struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"ai"`
	Schedule struct {
		MonitorCron     string `yaml:"monitor_cron"`
		DailyReportCron string `yaml:"daily_report_cron"`
	} `yaml:"schedule"`
	Monitor struct {
		MaxConcurrent    int  `yaml:"max_concurrent"`
		DedupMinutes     int  `yaml:"dedup_minutes"`
		TradingHoursOnly bool `yaml:"trading_hours_only"`
		LookbackDays     int  `yaml:"lookback_days"`
	} `yaml:"monitor"`
	Portfolio struct {
		File string `yaml:"file"`
	} `yaml:"portfolio"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
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
	if v := os.Getenv("LARK_WEBHOOK_URL"); v != "" {
		cfg.Lark.WebhookURL = v
	}
	if v := os.Getenv("VNSTOCK_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VNSTOCK_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("CRON_MONITOR"); v != "" {
		cfg.Schedule.MonitorCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SURGE_VOLUME_MULTIPLIER"); v != "" {
		if mult, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Surge.VolumeMultiplier = mult
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Surge.VolumeMultiplier == 0 {
		cfg.Surge.VolumeMultiplier = 1.5
	}
	if cfg.Surge.PriceChangePct == 0 {
		cfg.Surge.PriceChangePct = 3.0
	}
	if cfg.Surge.LookbackBars == 0 {
		cfg.Surge.LookbackBars = 20
	}
	if cfg.Zones.LeftBars == 0 {
		cfg.Zones.LeftBars = 5
	}
	if cfg.Zones.RightBars == 0 {
		cfg.Zones.RightBars = 5
	}
	if cfg.Zones.TolerancePct == 0 {
		cfg.Zones.TolerancePct = 1.5
	}
	if cfg.Zones.MinTouches == 0 {
		cfg.Zones.MinTouches = 2
		cfg.Zones.IncludeTouchingLevels = true
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.Schedule.MonitorCron == "" {
		// Every 5 minutes on weekdays; the trading-hours gate filters further.
		cfg.Schedule.MonitorCron = "0 */5 * * * 1-5"
	}
	if cfg.Schedule.DailyReportCron == "" {
		// 15:15 local, after the ATC session closes.
		cfg.Schedule.DailyReportCron = "0 15 15 * * 1-5"
	}
	if cfg.Monitor.MaxConcurrent == 0 {
		cfg.Monitor.MaxConcurrent = 5
	}
	if cfg.Monitor.DedupMinutes == 0 {
		cfg.Monitor.DedupMinutes = 30
	}
	if cfg.Monitor.LookbackDays == 0 {
		cfg.Monitor.LookbackDays = 180
	}
	if cfg.Portfolio.File == "" {
		cfg.Portfolio.File = "data/portfolio.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/vnsentinel.db"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Lark.WebhookURL == "" {
		return fmt.Errorf("lark.webhook_url is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must contain at least one symbol")
	}
	if c.Surge.VolumeMultiplier <= 1 {
		return fmt.Errorf("surge.volume_multiplier must be greater than 1")
	}
	if c.Zones.TolerancePct <= 0 {
		return fmt.Errorf("zones.tolerance_pct must be positive")
	}
	return nil
}
