package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"TrendPull/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Data struct {
		Source      string `yaml:"source"` // csv or clickhouse
		Symbol      string `yaml:"symbol"`
		WarmupStart string `yaml:"warmup_start"`
		ReportStart string `yaml:"report_start"`
		ReportEnd   string `yaml:"report_end"`
		CSV         struct {
			Path string `yaml:"path"`
		} `yaml:"csv"`
		ClickHouse struct {
			Host        string        `yaml:"host"`
			Port        int           `yaml:"port"`
			Database    string        `yaml:"database"`
			User        string        `yaml:"user"`
			Password    string        `yaml:"password"`
			Table       string        `yaml:"table"`
			DialTimeout time.Duration `yaml:"dial_timeout"`
			ReadTimeout time.Duration `yaml:"read_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"data"`
	Strategy struct {
		FastWindow  int     `yaml:"fast_window"`
		SlowWindow  int     `yaml:"slow_window"`
		VolWindow   int     `yaml:"vol_window"`
		TargetVol   float64 `yaml:"target_vol"`
		MaxLeverage float64 `yaml:"max_leverage"`
	} `yaml:"strategy"`
	Rebalance struct {
		Cadence   string  `yaml:"cadence"` // weekly (executed on the last trading day of the week)
		Weekday   string  `yaml:"weekday"`
		Threshold float64 `yaml:"threshold"`
	} `yaml:"rebalance"`
	Costs struct {
		FeeBps      float64 `yaml:"fee_bps"`
		SlippageBps float64 `yaml:"slippage_bps"`
	} `yaml:"costs"`
	Perf struct {
		TradingDays int     `yaml:"trading_days_per_year"`
		RFAnnual    float64 `yaml:"rf_annual"`
	} `yaml:"perf"`
	Report struct {
		OutDir         string `yaml:"outdir"`
		WriteCSV       bool   `yaml:"write_csv"`
		WriteJSON      bool   `yaml:"write_json"`
		PrintPositions bool   `yaml:"print_positions"`
	} `yaml:"report"`
	Server struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CacheTTL        time.Duration `yaml:"cache_ttl"`
	} `yaml:"server"`
	Cache struct {
		Backend string `yaml:"backend"` // memory or redis
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Sinks struct {
		ClickHouse struct {
			Enabled bool   `yaml:"enabled"`
			Table   string `yaml:"table"`
		} `yaml:"clickhouse"`
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
	} `yaml:"sinks"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TRENDPULL_SYMBOL"); v != "" {
		c.Data.Symbol = v
	}
	if v := os.Getenv("TRENDPULL_CSV_PATH"); v != "" {
		c.Data.CSV.Path = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Data.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PORT"); v != "" {
		c.Data.ClickHouse.Port = util.ParseIntDefault(v, c.Data.ClickHouse.Port)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sinks.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}

	return c, nil
}

// applyDefaults fills zero values with the standard parameter set.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Data.Source == "" {
		c.Data.Source = "csv"
	}
	if c.Strategy.FastWindow == 0 {
		c.Strategy.FastWindow = 40
	}
	if c.Strategy.SlowWindow == 0 {
		c.Strategy.SlowWindow = 160
	}
	if c.Strategy.VolWindow == 0 {
		c.Strategy.VolWindow = 20
	}
	if c.Strategy.TargetVol == 0 {
		c.Strategy.TargetVol = 0.12
	}
	if c.Strategy.MaxLeverage == 0 {
		c.Strategy.MaxLeverage = 1.5
	}
	if c.Rebalance.Cadence == "" {
		c.Rebalance.Cadence = "weekly"
	}
	if c.Rebalance.Weekday == "" {
		c.Rebalance.Weekday = "friday"
	}
	if c.Rebalance.Threshold == 0 {
		c.Rebalance.Threshold = 0.15
	}
	if c.Perf.TradingDays == 0 {
		c.Perf.TradingDays = 252
	}
	if c.Report.OutDir == "" {
		c.Report.OutDir = "outputs"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = 5 * time.Minute
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Data.Source != "csv" && c.Data.Source != "clickhouse" {
		return fmt.Errorf("data.source must be 'csv' or 'clickhouse', got '%s'", c.Data.Source)
	}
	if c.Data.Source == "csv" && c.Data.CSV.Path == "" {
		return fmt.Errorf("data.csv.path is required for csv source")
	}
	if c.Data.Source == "clickhouse" && c.Data.ClickHouse.Host == "" {
		return fmt.Errorf("data.clickhouse.host is required for clickhouse source")
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}

	warmup, ok := util.ParseDate(c.Data.WarmupStart)
	if !ok {
		return fmt.Errorf("data.warmup_start must be a YYYY-MM-DD date, got '%s'", c.Data.WarmupStart)
	}
	start, ok := util.ParseDate(c.Data.ReportStart)
	if !ok {
		return fmt.Errorf("data.report_start must be a YYYY-MM-DD date, got '%s'", c.Data.ReportStart)
	}
	end, ok := util.ParseDate(c.Data.ReportEnd)
	if !ok {
		return fmt.Errorf("data.report_end must be a YYYY-MM-DD date, got '%s'", c.Data.ReportEnd)
	}
	if !warmup.Before(start) {
		return fmt.Errorf("data.warmup_start must precede data.report_start")
	}
	if !start.Before(end) {
		return fmt.Errorf("data.report_start must precede data.report_end")
	}

	if c.Strategy.FastWindow <= 0 || c.Strategy.SlowWindow <= 0 || c.Strategy.VolWindow <= 1 {
		return fmt.Errorf("strategy windows must be positive (vol_window > 1)")
	}
	if c.Strategy.FastWindow >= c.Strategy.SlowWindow {
		return fmt.Errorf("strategy.fast_window must be smaller than strategy.slow_window")
	}
	if c.Strategy.TargetVol <= 0 {
		return fmt.Errorf("strategy.target_vol must be positive")
	}
	if c.Strategy.MaxLeverage <= 0 {
		return fmt.Errorf("strategy.max_leverage must be positive")
	}
	if c.Rebalance.Cadence != "weekly" && c.Rebalance.Cadence != "daily" {
		return fmt.Errorf("rebalance.cadence must be 'weekly' or 'daily', got '%s'", c.Rebalance.Cadence)
	}
	if _, err := c.RebalanceWeekday(); err != nil {
		return err
	}
	if c.Rebalance.Threshold < 0 {
		return fmt.Errorf("rebalance.threshold must not be negative")
	}
	if c.Costs.FeeBps < 0 || c.Costs.SlippageBps < 0 {
		return fmt.Errorf("costs must not be negative")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Sinks.Kafka.Enabled && len(c.Sinks.Kafka.Brokers) == 0 {
		return fmt.Errorf("sinks.kafka.brokers cannot be empty when kafka sink is enabled")
	}
	return nil
}

// WarmupStartDate returns the parsed warm-up start date.
func (c *Config) WarmupStartDate() time.Time {
	return util.ParseDateDefault(c.Data.WarmupStart, time.Time{})
}

// ReportStartDate returns the parsed reporting-window start date.
func (c *Config) ReportStartDate() time.Time {
	return util.ParseDateDefault(c.Data.ReportStart, time.Time{})
}

// ReportEndDate returns the parsed reporting-window end date (inclusive).
func (c *Config) ReportEndDate() time.Time {
	return util.ParseDateDefault(c.Data.ReportEnd, time.Time{})
}

// RebalanceWeekday maps the configured weekday name to time.Weekday.
func (c *Config) RebalanceWeekday() (time.Weekday, error) {
	switch strings.ToLower(c.Rebalance.Weekday) {
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	default:
		return 0, fmt.Errorf("rebalance.weekday must be a trading weekday, got '%s'", c.Rebalance.Weekday)
	}
}
