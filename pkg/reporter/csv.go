package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// RenderCSV writes the report as CSV. The recommendations form the main
// table, followed by labelled summary sections.
func RenderCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"Priority",
		"Category",
		"Action",
		"Rationale",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range r.Recommendations {
		row := []string{
			string(rec.Priority),
			string(rec.Category),
			rec.Action,
			rec.Rationale,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	cw.Write([]string{})
	cw.Write([]string{"SUMMARY"})
	cw.Write([]string{"Suite", r.Suite})
	cw.Write([]string{"Window (days)", fmt.Sprintf("%d", r.WindowDays)})
	cw.Write([]string{"Risk Level", string(r.Risk.Level)})
	cw.Write([]string{"Risk Score", fmt.Sprintf("%.0f", r.Risk.Score)})
	cw.Write([]string{"Total Tests", fmt.Sprintf("%d", r.Metrics.TotalTests)})
	cw.Write([]string{"Pass Rate", fmt.Sprintf("%.1f%%", r.Metrics.PassRate)})
	if r.Trend != nil {
		cw.Write([]string{"Success Rate Trend", string(r.Trend.Direction)})
		cw.Write([]string{"Trend Strength", fmt.Sprintf("%.2f", r.Trend.Strength)})
	}

	if r.Trend != nil && len(r.Trend.Insights) > 0 {
		cw.Write([]string{})
		cw.Write([]string{"INSIGHTS"})
		cw.Write([]string{"Severity", "Message"})
		for _, insight := range r.Trend.Insights {
			cw.Write([]string{string(insight.Severity), insight.Message})
		}
	}

	if rows := r.SeverityRows(); len(rows) > 0 {
		cw.Write([]string{})
		cw.Write([]string{"SEVERITY TRENDS"})
		cw.Write([]string{"Severity", "Daily Count Trend"})
		for _, row := range rows {
			cw.Write([]string{row.Severity, string(row.Direction)})
		}
	}

	if r.Security != nil && len(r.Security.Patterns) > 0 {
		cw.Write([]string{})
		cw.Write([]string{"VULNERABILITY PATTERNS"})
		cw.Write([]string{"Type", "Findings", "Description"})
		for _, p := range r.Security.Patterns {
			cw.Write([]string{p.Type, fmt.Sprintf("%d", p.Count), p.Description})
		}
	}

	if r.Performance != nil {
		cw.Write([]string{})
		cw.Write([]string{"PERFORMANCE"})
		cw.Write([]string{"Response Time Trend", string(r.Performance.ResponseTimeTrend)})
		cw.Write([]string{"Throughput Trend", string(r.Performance.ThroughputTrend)})
		cw.Write([]string{"Error Rate Trend", string(r.Performance.ErrorRateTrend)})
		cw.Write([]string{"Stability Score", fmt.Sprintf("%.1f", r.Performance.StabilityScore)})
	}

	if len(r.Summaries) > 0 {
		cw.Write([]string{})
		cw.Write([]string{"SUITE ACTIVITY"})
		cw.Write([]string{"Suite", "Executions", "Passed", "Failed", "Avg Success Rate"})
		for _, s := range r.Summaries {
			cw.Write([]string{
				s.Suite,
				fmt.Sprintf("%d", s.Executions),
				fmt.Sprintf("%d", s.Passed),
				fmt.Sprintf("%d", s.Failed),
				fmt.Sprintf("%.1f%%", s.AvgSuccessRate),
			})
		}
	}

	return nil
}
