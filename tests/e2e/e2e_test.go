//go:build e2e
// +build e2e

// End-to-end tests against a real PostgreSQL instance. Point DATABASE_URL
// at a scratch database before running:
//
//	DATABASE_URL=postgres://localhost/trends_test?sslmode=disable go test -tags e2e ./tests/e2e/
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/collector"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/recommender"
	"github.com/secwatch/sectest-insights/pkg/reporter"
	"github.com/secwatch/sectest-insights/pkg/storage"
)

func openTestStore(t *testing.T) storage.Store {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping database tests")
	}

	store, err := storage.NewPostgresStore(context.Background(), storage.Config{URL: url})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func uniqueSuite(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// seedExecutions inserts three days of executions with a rising pass rate:
// 50%, 75%, then 100%.
func seedExecutions(t *testing.T, store storage.Store, suite string) {
	t.Helper()
	ctx := context.Background()

	days := []struct {
		offset int
		passed int
		failed int
	}{
		{-4, 2, 2},
		{-3, 3, 1},
		{-2, 4, 0},
	}

	for _, day := range days {
		started := time.Now().AddDate(0, 0, day.offset)
		for i := 0; i < day.passed; i++ {
			exec := models.ExecutionRecord{
				Suite:      suite,
				TestName:   fmt.Sprintf("test_login_%d", i),
				Status:     models.StatusPassed,
				StartedAt:  started,
				DurationMS: 1200,
			}
			if err := store.SaveExecution(ctx, &exec); err != nil {
				t.Fatalf("Failed to save execution: %v", err)
			}
		}
		for i := 0; i < day.failed; i++ {
			exec := models.ExecutionRecord{
				Suite:      suite,
				TestName:   fmt.Sprintf("test_checkout_%d", i),
				Status:     models.StatusFailed,
				StartedAt:  started,
				DurationMS: 2400,
			}
			if err := store.SaveExecution(ctx, &exec); err != nil {
				t.Fatalf("Failed to save execution: %v", err)
			}
		}
	}
}

func TestDatabaseConnection(t *testing.T) {
	store := openTestStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	t.Log("✓ Connected to database and ran migrations")
}

func TestTrendPipeline(t *testing.T) {
	store := openTestStore(t)
	suite := uniqueSuite("e2e-auth")
	seedExecutions(t, store, suite)

	col := collector.New(store, nil, nil)
	records, err := col.TrendBatch(context.Background(), suite, 30)
	if err != nil {
		t.Fatalf("Failed to collect trend data: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 daily records, got %d", len(records))
	}

	engine := analyzer.New(analyzer.DefaultConfig(), nil)
	result := engine.AnalyzeTrends(records, models.FieldSuccessRate)

	if result.Direction != analyzer.TrendImproving {
		t.Errorf("Expected IMPROVING trend, got %s", result.Direction)
	}
	if result.DataPoints != 3 {
		t.Errorf("Expected 3 data points, got %d", result.DataPoints)
	}

	t.Logf("✓ Trend pipeline: %s (strength %.2f) over %d day(s)",
		result.Direction, result.Strength, result.DataPoints)
}

func TestSecurityPipeline(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	vulns := []models.VulnerabilityRecord{}
	for i, count := range []int{6, 4, 2} {
		vulns = append(vulns, models.VulnerabilityRecord{
			ScanDate: time.Now().AddDate(0, 0, i-4),
			Type:     "SQL_INJECTION",
			Severity: models.SeverityHigh,
			Count:    count,
			Endpoint: "/api/orders",
		})
	}
	if err := store.SaveVulnerabilities(ctx, vulns); err != nil {
		t.Fatalf("Failed to save vulnerabilities: %v", err)
	}

	col := collector.New(store, nil, nil)
	records, err := col.SecurityBatch(ctx, 30)
	if err != nil {
		t.Fatalf("Failed to collect security data: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("Expected security records, got none")
	}

	engine := analyzer.New(analyzer.DefaultConfig(), nil)
	analysis := engine.AnalyzeSecurityTrends(records)

	if analysis.OverallTrend != analyzer.RiskDecreasing {
		t.Errorf("Expected DECREASING risk, got %s", analysis.OverallTrend)
	}
	if analysis.RiskVelocity >= 0 {
		t.Errorf("Expected negative risk velocity, got %.2f", analysis.RiskVelocity)
	}

	risk := recommender.New().AssessRisk(records)
	if !risk.Level.AtLeast(models.RiskHigh) {
		t.Errorf("Expected at least HIGH risk with open HIGH findings, got %s", risk.Level)
	}

	t.Logf("✓ Security pipeline: %s trend, velocity %.2f, risk %s",
		analysis.OverallTrend, analysis.RiskVelocity, risk.Level)
}

func TestPerformancePipeline(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	suite := uniqueSuite("e2e-checkout")

	metrics := []struct {
		offset       int
		responseTime float64
		throughput   float64
	}{
		{-4, 450, 100},
		{-3, 430, 105},
		{-2, 410, 110},
	}
	for _, m := range metrics {
		perf := models.PerformanceRecord{
			Suite:           suite,
			MetricDate:      time.Now().AddDate(0, 0, m.offset),
			AvgResponseTime: m.responseTime,
			Throughput:      m.throughput,
			ErrorRate:       0.01,
			SampleCount:     500,
		}
		if err := store.SavePerformance(ctx, &perf); err != nil {
			t.Fatalf("Failed to save performance metrics: %v", err)
		}
	}

	col := collector.New(store, nil, nil)
	records, err := col.PerformanceBatch(ctx, suite, 30)
	if err != nil {
		t.Fatalf("Failed to collect performance data: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 performance records, got %d", len(records))
	}

	engine := analyzer.New(analyzer.DefaultConfig(), nil)
	result := engine.AnalyzePerformanceTrends(records)

	if result.ResponseTimeTrend != analyzer.TrendDeclining {
		t.Errorf("Expected DECLINING response times, got %s", result.ResponseTimeTrend)
	}
	if len(result.DegradationPatterns) != 0 {
		t.Errorf("Expected no degradations, got %d", len(result.DegradationPatterns))
	}
	if result.StabilityScore < 90 {
		t.Errorf("Expected stability score above 90, got %.1f", result.StabilityScore)
	}

	t.Logf("✓ Performance pipeline: response times %s, stability %.1f",
		result.ResponseTimeTrend, result.StabilityScore)
}

func TestFullReportPipeline(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	suite := uniqueSuite("e2e-report")
	seedExecutions(t, store, suite)

	col := collector.New(store, nil, nil)
	engine := analyzer.New(analyzer.DefaultConfig(), nil)
	asm := reporter.NewAssembler(col, engine, recommender.New(), nil)

	report, err := asm.Build(ctx, suite, 30)
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}
	if report.Suite != suite {
		t.Errorf("Expected suite %s, got %s", suite, report.Suite)
	}
	if report.Trend == nil || report.Trend.Direction != analyzer.TrendImproving {
		t.Error("Expected an IMPROVING trend in the report")
	}
	if report.Metrics.TotalTests != 12 {
		t.Errorf("Expected 12 total tests, got %d", report.Metrics.TotalTests)
	}

	var html bytes.Buffer
	if err := reporter.RenderHTML(&html, report); err != nil {
		t.Fatalf("Failed to render HTML: %v", err)
	}
	if !strings.Contains(html.String(), suite) {
		t.Error("HTML report should mention the suite")
	}

	var csv bytes.Buffer
	if err := reporter.RenderCSV(&csv, report); err != nil {
		t.Fatalf("Failed to render CSV: %v", err)
	}

	t.Logf("✓ Report %s: %d bytes of HTML, %d bytes of CSV",
		report.ID, html.Len(), csv.Len())
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)

	cutoff := time.Now().AddDate(-1, 0, 0)
	deleted, err := store.Cleanup(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	t.Logf("✓ Cleanup removed %d record(s) older than %s", deleted, cutoff.Format("2006-01-02"))
}
