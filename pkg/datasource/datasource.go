package datasource

import (
	"context"
	"time"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// DataSource supplies per-day performance series for a test suite.
type DataSource interface {
	PerformanceRecords(ctx context.Context, suite string, days int) ([]models.Record, error)
	IsAvailable(ctx context.Context) bool
	Name() string
}

// Config holds datasource settings. The query templates take the suite
// name as their single %q argument; empty fields fall back to defaults.
type Config struct {
	URL               string
	Timeout           time.Duration
	ResponseTimeQuery string
	ThroughputQuery   string
	ErrorRateQuery    string
}

const (
	defaultTimeout = 10 * time.Second

	DefaultResponseTimeQuery = `avg_over_time(test_response_time_ms{suite=%q}[1d])`
	DefaultThroughputQuery   = `avg_over_time(test_throughput{suite=%q}[1d])`
	DefaultErrorRateQuery    = `avg_over_time(test_error_rate{suite=%q}[1d])`
)

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ResponseTimeQuery == "" {
		c.ResponseTimeQuery = DefaultResponseTimeQuery
	}
	if c.ThroughputQuery == "" {
		c.ThroughputQuery = DefaultThroughputQuery
	}
	if c.ErrorRateQuery == "" {
		c.ErrorRateQuery = DefaultErrorRateQuery
	}
	return c
}
