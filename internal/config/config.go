package config

import (
	"fmt"
	"os"
	"strconv"

	"RiskSentinel/internal/pattern"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Account struct {
		PortfolioFile string `yaml:"portfolio_file"`
	} `yaml:"account"`
	Series struct {
		Capacity  int     `yaml:"capacity"`
		Source    string  `yaml:"source"` // mock or csv
		CSVPath   string  `yaml:"csv_path"`
		Seed      int64   `yaml:"seed"`
		BasePrice float64 `yaml:"base_price"`
	} `yaml:"series"`
	Pattern struct {
		ModelPath      string `yaml:"model_path"`
		pattern.Config `yaml:",inline"`
	} `yaml:"pattern"`
	Schedule struct {
		RiskCron    string `yaml:"risk_cron"`
		PatternCron string `yaml:"pattern_cron"`
	} `yaml:"schedule"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log LogConfig `yaml:"log"`
}

// LogConfig selects log verbosity and output encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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

	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Account.PortfolioFile = v
	}
	if v := os.Getenv("SERIES_SOURCE"); v != "" {
		cfg.Series.Source = v
	}
	if v := os.Getenv("SERIES_CSV_PATH"); v != "" {
		cfg.Series.CSVPath = v
	}
	if v := os.Getenv("PATTERN_MODEL_PATH"); v != "" {
		cfg.Pattern.ModelPath = v
	}
	if v := os.Getenv("CRON_RISK"); v != "" {
		cfg.Schedule.RiskCron = v
	}
	if v := os.Getenv("CRON_PATTERN"); v != "" {
		cfg.Schedule.PatternCron = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("SERIES_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Series.Capacity = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Account.PortfolioFile == "" {
		cfg.Account.PortfolioFile = "configs/portfolio.yaml"
	}
	if cfg.Series.Capacity == 0 {
		cfg.Series.Capacity = 200
	}
	if cfg.Series.Source == "" {
		cfg.Series.Source = "mock"
	}
	if cfg.Series.Seed == 0 {
		cfg.Series.Seed = 1
	}
	if cfg.Series.BasePrice == 0 {
		cfg.Series.BasePrice = 100
	}
	cfg.Pattern.Config = cfg.Pattern.Config.WithDefaults()
	if cfg.Schedule.RiskCron == "" {
		cfg.Schedule.RiskCron = "*/30 * * * * *"
	}
	if cfg.Schedule.PatternCron == "" {
		cfg.Schedule.PatternCron = "0 * * * * *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks that the configuration can drive the monitor.
func (c *Config) Validate() error {
	switch c.Series.Source {
	case "mock":
	case "csv":
		if c.Series.CSVPath == "" {
			return fmt.Errorf("series.csv_path is required for the csv source")
		}
	default:
		return fmt.Errorf("series.source %q: must be mock or csv", c.Series.Source)
	}
	if c.Series.Capacity < c.Pattern.MinSamples {
		return fmt.Errorf("series.capacity %d is below pattern.min_samples %d", c.Series.Capacity, c.Pattern.MinSamples)
	}
	if c.Series.BasePrice <= 0 {
		return fmt.Errorf("series.base_price must be positive")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Schedule.RiskCron); err != nil {
		return fmt.Errorf("schedule.risk_cron: %w", err)
	}
	if _, err := parser.Parse(c.Schedule.PatternCron); err != nil {
		return fmt.Errorf("schedule.pattern_cron: %w", err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q: must be console or json", c.Log.Format)
	}
	return nil
}
