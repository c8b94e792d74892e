package collector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/datasource"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/storage"
)

// Collector assembles the record batches the analysis engine consumes.
// Trend and security batches always come from storage; performance
// batches prefer the live datasource and fall back to stored rows.
type Collector struct {
	store  storage.Store
	source datasource.DataSource
	logger *zap.Logger
}

// New builds a collector. The datasource may be nil, in which case
// performance batches come from storage only.
func New(store storage.Store, source datasource.DataSource, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		store:  store,
		source: source,
		logger: logger,
	}
}

// TrendBatch returns daily execution rollups for a suite over the window.
func (c *Collector) TrendBatch(ctx context.Context, suite string, days int) ([]models.Record, error) {
	if c.store == nil {
		return nil, errors.New("no storage configured")
	}

	records, err := c.store.TrendRecords(ctx, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load trend records: %w", err)
	}

	c.logger.Debug("loaded trend batch",
		zap.String("suite", suite),
		zap.Int("days", days),
		zap.Int("records", len(records)))

	return records, nil
}

// SecurityBatch returns the security findings from the window.
func (c *Collector) SecurityBatch(ctx context.Context, days int) ([]models.Record, error) {
	if c.store == nil {
		return nil, errors.New("no storage configured")
	}

	records, err := c.store.VulnerabilityRecords(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load vulnerability records: %w", err)
	}

	c.logger.Debug("loaded security batch",
		zap.Int("days", days),
		zap.Int("records", len(records)))

	return records, nil
}

// PerformanceBatch returns daily performance metrics for a suite. The
// live datasource wins when it is reachable and has data.
func (c *Collector) PerformanceBatch(ctx context.Context, suite string, days int) ([]models.Record, error) {
	if c.source != nil && c.source.IsAvailable(ctx) {
		records, err := c.source.PerformanceRecords(ctx, suite, days)
		if err != nil {
			c.logger.Warn("datasource query failed, falling back to storage",
				zap.String("source", c.source.Name()),
				zap.Error(err))
		} else if len(records) > 0 {
			c.logger.Debug("loaded performance batch from datasource",
				zap.String("source", c.source.Name()),
				zap.String("suite", suite),
				zap.Int("records", len(records)))
			return records, nil
		} else {
			c.logger.Debug("datasource returned no samples, falling back to storage",
				zap.String("source", c.source.Name()),
				zap.String("suite", suite))
		}
	}

	if c.store == nil {
		return nil, errors.New("no storage configured")
	}

	records, err := c.store.PerformanceRecords(ctx, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load performance records: %w", err)
	}

	c.logger.Debug("loaded performance batch from storage",
		zap.String("suite", suite),
		zap.Int("records", len(records)))

	return records, nil
}

// Summary returns the per-suite execution rollup for the window.
func (c *Collector) Summary(ctx context.Context, days int) ([]models.SuiteSummary, error) {
	if c.store == nil {
		return nil, errors.New("no storage configured")
	}

	summaries, err := c.store.ExecutionSummary(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution summary: %w", err)
	}

	return summaries, nil
}
