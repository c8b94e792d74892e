package output

import (
	"fmt"
	"io"

	"github.com/secwatch/sectest-insights/pkg/reporter"
)

// TextHandler writes an aligned console summary of the report.
type TextHandler struct{}

func (h *TextHandler) Format() string { return "text" }

func (h *TextHandler) Render(w io.Writer, r *reporter.Report) error {
	suite := r.Suite
	if suite == "" {
		suite = "all suites"
	}

	if _, err := fmt.Fprintf(w, "Test Trend Report\n=================\n\n"); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(w, "Suite: %s\n", suite)
	fmt.Fprintf(w, "Window: last %d days\n", r.WindowDays)
	fmt.Fprintf(w, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "Execution Summary\n")
	fmt.Fprintf(w, "-----------------\n")
	fmt.Fprintf(w, "Data points: %d\n", r.Metrics.Days)
	fmt.Fprintf(w, "Total tests: %d\n", r.Metrics.TotalTests)
	fmt.Fprintf(w, "Passed: %d (%.1f%%)\n", r.Metrics.PassedTests, r.Metrics.PassRate)
	fmt.Fprintf(w, "Average duration: %.0f ms\n\n", r.Metrics.AvgDurationMS)

	if r.Trend != nil {
		fmt.Fprintf(w, "Trend Analysis\n")
		fmt.Fprintf(w, "--------------\n")
		fmt.Fprintf(w, "Direction: %s\n", r.Trend.Direction)
		fmt.Fprintf(w, "Strength: %.2f\n", r.Trend.Strength)
		fmt.Fprintf(w, "Volatility: %.3f\n", r.Trend.Volatility)
		fmt.Fprintf(w, "Anomalies: %d\n", len(r.Trend.Anomalies))
		for _, insight := range r.Trend.Insights {
			fmt.Fprintf(w, "  [%s] %s\n", insight.Severity, insight.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Security != nil {
		fmt.Fprintf(w, "Security Analysis\n")
		fmt.Fprintf(w, "-----------------\n")
		fmt.Fprintf(w, "Overall trend: %s\n", r.Security.OverallTrend)
		fmt.Fprintf(w, "Risk velocity: %.2f points/day\n", r.Security.RiskVelocity)
		for _, row := range r.SeverityRows() {
			fmt.Fprintf(w, "  %s: %s\n", row.Severity, row.Direction)
		}
		for _, p := range r.Security.Patterns {
			fmt.Fprintf(w, "  Pattern: %s (%d findings)\n", p.Type, p.Count)
		}
		fmt.Fprintln(w)
	}

	if r.Performance != nil {
		fmt.Fprintf(w, "Performance Analysis\n")
		fmt.Fprintf(w, "--------------------\n")
		fmt.Fprintf(w, "Response time: %s\n", r.Performance.ResponseTimeTrend)
		fmt.Fprintf(w, "Throughput: %s\n", r.Performance.ThroughputTrend)
		fmt.Fprintf(w, "Error rate: %s\n", r.Performance.ErrorRateTrend)
		fmt.Fprintf(w, "Stability score: %.1f\n", r.Performance.StabilityScore)
		for _, p := range r.Performance.DegradationPatterns {
			fmt.Fprintf(w, "  Degradation: %s\n", p.Detail)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Risk Assessment\n")
	fmt.Fprintf(w, "---------------\n")
	fmt.Fprintf(w, "Level: %s (score %.0f)\n", r.Risk.Level, r.Risk.Score)
	for _, driver := range r.Risk.Drivers {
		fmt.Fprintf(w, "  %s\n", driver)
	}
	fmt.Fprintln(w)

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(w, "Recommendations\n")
		fmt.Fprintf(w, "---------------\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(w, "%d. [%s/%s] %s\n", i+1, rec.Priority, rec.Category, rec.Action)
			fmt.Fprintf(w, "   %s\n", rec.Rationale)
		}
	}

	return nil
}
