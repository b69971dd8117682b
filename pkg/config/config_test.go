package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
environment: test
data:
  symbol: SPY
  warmup_start: "2014-01-02"
  report_start: "2015-01-02"
  report_end: "2024-12-31"
  csv:
    path: testdata/prices.csv
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Strategy.FastWindow != 40 || c.Strategy.SlowWindow != 160 || c.Strategy.VolWindow != 20 {
		t.Fatalf("unexpected window defaults: %+v", c.Strategy)
	}
	if c.Strategy.TargetVol != 0.12 || c.Strategy.MaxLeverage != 1.5 {
		t.Fatalf("unexpected sizing defaults: %+v", c.Strategy)
	}
	if c.Rebalance.Cadence != "weekly" || c.Rebalance.Threshold != 0.15 {
		t.Fatalf("unexpected rebalance defaults: %+v", c.Rebalance)
	}
	if c.Perf.TradingDays != 252 {
		t.Fatalf("trading days = %d, want 252", c.Perf.TradingDays)
	}
	if c.Cache.Backend != "memory" || c.Server.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache defaults")
	}

	wd, err := c.RebalanceWeekday()
	if err != nil || wd != time.Friday {
		t.Fatalf("weekday = %v (%v), want Friday", wd, err)
	}
}

func TestLoadParsesDates(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.WarmupStartDate(); !got.Equal(time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("warmup start = %v", got)
	}
	if got := c.ReportEndDate(); !got.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("report end = %v", got)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing environment",
			yaml: strings.Replace(minimalYAML, "environment: test\n", "", 1),
			want: "environment",
		},
		{
			name: "missing symbol",
			yaml: strings.Replace(minimalYAML, "  symbol: SPY\n", "", 1),
			want: "data.symbol",
		},
		{
			name: "warmup after report start",
			yaml: strings.Replace(minimalYAML, `warmup_start: "2014-01-02"`, `warmup_start: "2016-01-02"`, 1),
			want: "warmup_start",
		},
		{
			name: "fast window not below slow",
			yaml: minimalYAML + "strategy:\n  fast_window: 160\n  slow_window: 160\n",
			want: "fast_window",
		},
		{
			name: "unknown cadence",
			yaml: minimalYAML + "rebalance:\n  cadence: monthly\n",
			want: "cadence",
		},
		{
			name: "negative costs",
			yaml: minimalYAML + "costs:\n  fee_bps: -1\n",
			want: "costs",
		},
		{
			name: "kafka sink without brokers",
			yaml: minimalYAML + "sinks:\n  kafka:\n    enabled: true\n",
			want: "brokers",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TRENDPULL_SYMBOL", "QQQ")
	t.Setenv("TRENDPULL_CSV_PATH", "/data/qqq.csv")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Data.Symbol != "QQQ" || c.Data.CSV.Path != "/data/qqq.csv" {
		t.Fatalf("env overrides not applied: %+v", c.Data)
	}
	if len(c.Sinks.Kafka.Brokers) != 2 || c.Sinks.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("kafka brokers = %v", c.Sinks.Kafka.Brokers)
	}
}
