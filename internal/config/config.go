package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		QuotesCSV  string   `yaml:"quotes_csv"`
		TradesCSV  string   `yaml:"trades_csv"`
		SQLitePath string   `yaml:"sqlite_path"`
		Currencies []string `yaml:"currencies"`
	} `yaml:"data"`
	Analysis struct {
		PeriodStart    string  `yaml:"period_start"` // YYYY-MM-DD, empty = derived from data
		PeriodEnd      string  `yaml:"period_end"`
		Window         int     `yaml:"window"`
		BuyAdjustment  float64 `yaml:"buy_adjustment"`
		SellAdjustment float64 `yaml:"sell_adjustment"`
	} `yaml:"analysis"`
	Sweep struct {
		MaxWindow     int     `yaml:"max_window"`
		MaxAdjustment float64 `yaml:"max_adjustment"`
	} `yaml:"sweep"`
	Export struct {
		SQLitePath string `yaml:"sqlite_path"`
		CSVDir     string `yaml:"csv_dir"`
	} `yaml:"export"`
	Watch struct {
		Cron      string `yaml:"cron"`
		StateFile string `yaml:"state_file"`
	} `yaml:"watch"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("RATESCOPE_QUOTES_CSV"); v != "" {
		cfg.Data.QuotesCSV = v
	}
	if v := os.Getenv("RATESCOPE_TRADES_CSV"); v != "" {
		cfg.Data.TradesCSV = v
	}
	if v := os.Getenv("RATESCOPE_DATA_SQLITE"); v != "" {
		cfg.Data.SQLitePath = v
	}
	if v := os.Getenv("RATESCOPE_EXPORT_SQLITE"); v != "" {
		cfg.Export.SQLitePath = v
	}
	if v := os.Getenv("RATESCOPE_WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("RATESCOPE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Window = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Data.Currencies) == 0 {
		cfg.Data.Currencies = []string{"USD", "JPY"}
	}
	if cfg.Analysis.Window == 0 {
		cfg.Analysis.Window = 1
	}
	if cfg.Analysis.BuyAdjustment == 0 {
		cfg.Analysis.BuyAdjustment = 1.0
	}
	if cfg.Analysis.SellAdjustment == 0 {
		cfg.Analysis.SellAdjustment = 1.0
	}
	if cfg.Sweep.MaxWindow == 0 {
		cfg.Sweep.MaxWindow = 7
	}
	if cfg.Sweep.MaxAdjustment == 0 {
		cfg.Sweep.MaxAdjustment = 5.0
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 9 * * *"
	}
	if cfg.Watch.StateFile == "" {
		cfg.Watch.StateFile = "data/sweep_state.json"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	hasCSV := c.Data.QuotesCSV != "" && c.Data.TradesCSV != ""
	if !hasCSV && c.Data.SQLitePath == "" {
		return fmt.Errorf("data source required: set data.quotes_csv + data.trades_csv or data.sqlite_path")
	}
	if c.Analysis.Window < 0 {
		return fmt.Errorf("analysis.window must not be negative")
	}
	if c.Sweep.MaxWindow < 1 {
		return fmt.Errorf("sweep.max_window must be at least 1")
	}
	if c.Sweep.MaxAdjustment < 1 {
		return fmt.Errorf("sweep.max_adjustment must be at least 1")
	}
	if _, _, err := c.Period(); err != nil {
		return err
	}
	return nil
}

// Period parses the configured analysis period. Zero times mean the
// caller derives the bound from the loaded data.
func (c *Config) Period() (start, end time.Time, err error) {
	if c.Analysis.PeriodStart != "" {
		start, err = time.Parse(time.DateOnly, c.Analysis.PeriodStart)
		if err != nil {
			return start, end, fmt.Errorf("parse analysis.period_start: %w", err)
		}
	}
	if c.Analysis.PeriodEnd != "" {
		end, err = time.Parse(time.DateOnly, c.Analysis.PeriodEnd)
		if err != nil {
			return start, end, fmt.Errorf("parse analysis.period_end: %w", err)
		}
		// Inclusive day bound: run to the end of the named day.
		end = end.Add(24*time.Hour - time.Second)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("analysis.period_end before period_start")
	}
	return start, end, nil
}
