package datasource

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/models"
)

const dayFormat = "2006-01-02"

// PrometheusSource reads performance series from the Prometheus HTTP API.
type PrometheusSource struct {
	client v1.API
	cfg    Config
	logger *zap.Logger
}

// NewPrometheusSource builds a source against the configured Prometheus
// endpoint.
func NewPrometheusSource(cfg Config, logger *zap.Logger) (*PrometheusSource, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := api.NewClient(api.Config{
		Address: cfg.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &PrometheusSource{
		client: v1.NewAPI(client),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// PerformanceRecords runs the three performance range queries at one-day
// resolution and zips the matrices into per-day records, oldest first.
// A day missing from one series simply lacks that field.
func (p *PrometheusSource) PerformanceRecords(ctx context.Context, suite string, days int) ([]models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	end := time.Now()
	rng := v1.Range{
		Start: end.AddDate(0, 0, -days),
		End:   end,
		Step:  24 * time.Hour,
	}

	queries := []struct {
		field string
		expr  string
	}{
		{models.FieldAvgResponseTime, fmt.Sprintf(p.cfg.ResponseTimeQuery, suite)},
		{models.FieldThroughput, fmt.Sprintf(p.cfg.ThroughputQuery, suite)},
		{models.FieldErrorRate, fmt.Sprintf(p.cfg.ErrorRateQuery, suite)},
	}

	byDay := map[string]models.Record{}
	for _, q := range queries {
		matrix, err := p.queryRange(ctx, q.expr, rng)
		if err != nil {
			return nil, fmt.Errorf("%s query failed: %w", q.field, err)
		}

		for _, stream := range matrix {
			for _, pair := range stream.Values {
				value := float64(pair.Value)
				if math.IsNaN(value) {
					continue
				}

				day := pair.Timestamp.Time().UTC().Format(dayFormat)
				rec, ok := byDay[day]
				if !ok {
					rec = models.Record{
						models.FieldExecutionDate: day,
						models.FieldSuite:         suite,
					}
					byDay[day] = rec
				}
				rec[q.field] = value
			}
		}
	}

	dayKeys := make([]string, 0, len(byDay))
	for day := range byDay {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	records := make([]models.Record, 0, len(dayKeys))
	for _, day := range dayKeys {
		records = append(records, byDay[day])
	}

	return records, nil
}

func (p *PrometheusSource) queryRange(ctx context.Context, query string, rng v1.Range) (model.Matrix, error) {
	result, warnings, err := p.client.QueryRange(ctx, query, rng)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if len(warnings) > 0 {
		p.logger.Warn("prometheus query warnings",
			zap.String("query", query),
			zap.Strings("warnings", warnings))
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %s for query: %s", result.Type(), query)
	}

	return matrix, nil
}

// IsAvailable probes the endpoint with an instant query.
func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now())
	return err == nil
}

func (p *PrometheusSource) Name() string {
	return "Prometheus"
}
