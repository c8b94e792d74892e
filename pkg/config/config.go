package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
)

// Config holds the full service configuration. Values resolve in
// precedence order: explicit config file, then SECTEST_* environment
// variables, then defaults.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Analyzer   AnalyzerConfig   `mapstructure:"analyzer"`
	Server     ServerConfig     `mapstructure:"server"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Report     ReportConfig     `mapstructure:"report"`
	Verbose    bool             `mapstructure:"verbose"`
}

// DatabaseConfig configures the telemetry store.
type DatabaseConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	ConnLifetime  time.Duration `mapstructure:"conn_lifetime"`
	RetentionDays int           `mapstructure:"retention_days"`
}

// PrometheusConfig configures the performance datasource. The query
// templates take the suite name as their single %q argument.
type PrometheusConfig struct {
	URL               string        `mapstructure:"url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ResponseTimeQuery string        `mapstructure:"response_time_query"`
	ThroughputQuery   string        `mapstructure:"throughput_query"`
	ErrorRateQuery    string        `mapstructure:"error_rate_query"`
}

// AnalyzerConfig carries the engine thresholds.
type AnalyzerConfig struct {
	SlopeThreshold        float64 `mapstructure:"slope_threshold"`
	AnomalyThreshold      float64 `mapstructure:"anomaly_threshold"`
	VolatilityThreshold   float64 `mapstructure:"volatility_threshold"`
	ResponseTimeThreshold float64 `mapstructure:"response_time_threshold_ms"`
	ErrorRateThreshold    float64 `mapstructure:"error_rate_threshold"`
	SeasonalDeviation     float64 `mapstructure:"seasonal_deviation"`
}

// Engine converts the section to the analyzer's own config type.
func (a AnalyzerConfig) Engine() analyzer.Config {
	return analyzer.Config{
		SlopeThreshold:        a.SlopeThreshold,
		AnomalyThreshold:      a.AnomalyThreshold,
		VolatilityThreshold:   a.VolatilityThreshold,
		ResponseTimeThreshold: a.ResponseTimeThreshold,
		ErrorRateThreshold:    a.ErrorRateThreshold,
		SeasonalDeviation:     a.SeasonalDeviation,
	}
}

// ServerConfig configures the dashboard API listener.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// NotifyConfig configures alert delivery.
type NotifyConfig struct {
	Channels     []string `mapstructure:"channels"`
	SlackWebhook string   `mapstructure:"slack_webhook"`
	TeamsWebhook string   `mapstructure:"teams_webhook"`
	MinRiskLevel string   `mapstructure:"min_risk_level"`
}

// ReportConfig configures report generation.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.url", "host=localhost port=5432 user=sectest password=devpassword dbname=sectest_insights sslmode=disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_lifetime", "5m")
	v.SetDefault("database.retention_days", 90)

	v.SetDefault("prometheus.url", "http://localhost:9090")
	v.SetDefault("prometheus.timeout", "10s")
	v.SetDefault("prometheus.response_time_query", "avg_over_time(test_response_time_ms{suite=%q}[1d])")
	v.SetDefault("prometheus.throughput_query", "avg_over_time(test_throughput{suite=%q}[1d])")
	v.SetDefault("prometheus.error_rate_query", "avg_over_time(test_error_rate{suite=%q}[1d])")

	v.SetDefault("analyzer.slope_threshold", 0.01)
	v.SetDefault("analyzer.anomaly_threshold", 2.0)
	v.SetDefault("analyzer.volatility_threshold", 0.2)
	v.SetDefault("analyzer.response_time_threshold_ms", 5000)
	v.SetDefault("analyzer.error_rate_threshold", 0.05)
	v.SetDefault("analyzer.seasonal_deviation", 0.2)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("notify.channels", []string{})
	v.SetDefault("notify.min_risk_level", "HIGH")

	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.format", "html")
}

// Load builds the configuration, reading the given YAML file when path
// is non-empty and environment variables either way. SECTEST_DATABASE_URL
// overrides database.url and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SECTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validChannels = map[string]bool{
	"slack":   true,
	"teams":   true,
	"console": true,
}

var validRiskLevels = map[string]bool{
	"LOW":      true,
	"MEDIUM":   true,
	"HIGH":     true,
	"CRITICAL": true,
}

var validFormats = map[string]bool{
	"html":     true,
	"csv":      true,
	"markdown": true,
	"json":     true,
}

// Validate checks the configuration for values no deployment can run
// with.
func (c *Config) Validate() error {
	if c.Database.Enabled && c.Database.URL == "" {
		return errors.New("database.url must be set when the database is enabled")
	}
	if c.Database.RetentionDays < 1 {
		return fmt.Errorf("database.retention_days must be positive, got %d", c.Database.RetentionDays)
	}

	thresholds := map[string]float64{
		"analyzer.slope_threshold":            c.Analyzer.SlopeThreshold,
		"analyzer.anomaly_threshold":          c.Analyzer.AnomalyThreshold,
		"analyzer.volatility_threshold":       c.Analyzer.VolatilityThreshold,
		"analyzer.response_time_threshold_ms": c.Analyzer.ResponseTimeThreshold,
		"analyzer.error_rate_threshold":       c.Analyzer.ErrorRateThreshold,
		"analyzer.seasonal_deviation":         c.Analyzer.SeasonalDeviation,
	}
	for name, value := range thresholds {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, value)
		}
	}

	for _, ch := range c.Notify.Channels {
		if !validChannels[ch] {
			return fmt.Errorf("unknown notify channel %q (valid: slack, teams, console)", ch)
		}
	}
	if ch := c.Notify.MinRiskLevel; ch != "" && !validRiskLevels[strings.ToUpper(ch)] {
		return fmt.Errorf("unknown notify.min_risk_level %q", ch)
	}

	if f := c.Report.Format; f != "" && !validFormats[f] {
		return fmt.Errorf("unknown report.format %q (valid: html, csv, markdown, json)", f)
	}

	if c.Server.Address == "" {
		return errors.New("server.address must not be empty")
	}

	return nil
}
