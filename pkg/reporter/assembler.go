package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/collector"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/recommender"
)

// Assembler composes collector, analysis engine and recommender into
// full reports.
type Assembler struct {
	collector   *collector.Collector
	engine      *analyzer.Analyzer
	recommender *recommender.Recommender
	logger      *zap.Logger
}

// NewAssembler wires the pipeline stages together.
func NewAssembler(c *collector.Collector, engine *analyzer.Analyzer, rec *recommender.Recommender, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		collector:   c,
		engine:      engine,
		recommender: rec,
		logger:      logger,
	}
}

// TrendAnalysis runs the success-rate trend analysis for a suite.
func (a *Assembler) TrendAnalysis(ctx context.Context, suite string, days int) (*analyzer.TrendAnalysisResult, error) {
	records, err := a.collector.TrendBatch(ctx, suite, days)
	if err != nil {
		return nil, err
	}
	return a.engine.AnalyzeTrends(records, models.FieldSuccessRate), nil
}

// SecurityAnalysis runs the vulnerability trend analysis over the window.
func (a *Assembler) SecurityAnalysis(ctx context.Context, days int) (*analyzer.SecurityTrendAnalysis, error) {
	records, err := a.collector.SecurityBatch(ctx, days)
	if err != nil {
		return nil, err
	}
	return a.engine.AnalyzeSecurityTrends(records), nil
}

// PerformanceAnalysis runs the performance trend analysis for a suite.
func (a *Assembler) PerformanceAnalysis(ctx context.Context, suite string, days int) (*analyzer.PerformanceTrendAnalysis, error) {
	records, err := a.collector.PerformanceBatch(ctx, suite, days)
	if err != nil {
		return nil, err
	}
	return a.engine.AnalyzePerformanceTrends(records), nil
}

// Build assembles a full report for the suite and window. An empty suite
// selects the most recently executed one from the summary; with no data
// at all the analyses come back neutral rather than failing.
func (a *Assembler) Build(ctx context.Context, suite string, days int) (*Report, error) {
	summaries, err := a.collector.Summary(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	if suite == "" {
		suite = latestSuite(summaries)
		if suite != "" {
			a.logger.Debug("no suite requested, using most recent", zap.String("suite", suite))
		}
	}

	trendRecords, err := a.collector.TrendBatch(ctx, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	vulnRecords, err := a.collector.SecurityBatch(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	perfRecords, err := a.collector.PerformanceBatch(ctx, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	report := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now(),
		Suite:       suite,
		WindowDays:  days,
		Metrics:     CalculateExecutionMetrics(trendRecords),
		Summaries:   summaries,
		Trend:       a.engine.AnalyzeTrends(trendRecords, models.FieldSuccessRate),
		Security:    a.engine.AnalyzeSecurityTrends(vulnRecords),
		Performance: a.engine.AnalyzePerformanceTrends(perfRecords),
		Risk:        a.recommender.AssessRisk(vulnRecords),
	}
	report.Recommendations = a.recommender.Recommend(report.Trend, report.Security, report.Performance)

	a.logger.Info("report assembled",
		zap.String("report_id", report.ID),
		zap.String("suite", suite),
		zap.Int("days", days),
		zap.String("risk_level", string(report.Risk.Level)),
		zap.Int("recommendations", len(report.Recommendations)))

	return report, nil
}

// latestSuite picks the suite with the most recent execution.
func latestSuite(summaries []models.SuiteSummary) string {
	suite := ""
	var latest time.Time
	for _, s := range summaries {
		if s.LastExecution.After(latest) {
			latest = s.LastExecution
			suite = s.Suite
		}
	}
	return suite
}
