package storage

import (
	"context"
	"errors"
	"time"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for persistent telemetry storage. The batch
// getters return rows in the loosely typed shape the analysis engine
// consumes, windowed to the last N days.
type Store interface {
	SaveExecution(ctx context.Context, exec *models.ExecutionRecord) error
	SaveVulnerabilities(ctx context.Context, vulns []models.VulnerabilityRecord) error
	SavePerformance(ctx context.Context, perf *models.PerformanceRecord) error

	TrendRecords(ctx context.Context, suite string, days int) ([]models.Record, error)
	VulnerabilityRecords(ctx context.Context, days int) ([]models.Record, error)
	PerformanceRecords(ctx context.Context, suite string, days int) ([]models.Record, error)
	ExecutionSummary(ctx context.Context, days int) ([]models.SuiteSummary, error)

	Cleanup(ctx context.Context, olderThan time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config holds connection pool settings. Zero values fall back to the
// defaults below.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
	defaultConnLifetime = 5 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.ConnLifetime <= 0 {
		c.ConnLifetime = defaultConnLifetime
	}
	return c
}
