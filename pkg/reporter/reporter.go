package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/recommender"
)

// Format selects a report renderer.
type Format string

const (
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ExecutionMetrics is the headline rollup over a trend batch of daily
// execution records.
type ExecutionMetrics struct {
	Days          int     `json:"days"`
	TotalTests    int     `json:"total_tests"`
	PassedTests   int     `json:"passed_tests"`
	PassRate      float64 `json:"pass_rate"`
	AvgDurationMS float64 `json:"avg_duration_ms"`
	FirstDate     string  `json:"first_date,omitempty"`
	LastDate      string  `json:"last_date,omitempty"`
}

// CalculateExecutionMetrics sums test counts across the daily records and
// averages their durations.
func CalculateExecutionMetrics(records []models.Record) ExecutionMetrics {
	m := ExecutionMetrics{Days: len(records)}

	totalDuration := 0.0
	for _, r := range records {
		m.TotalTests += r.Int(models.FieldTotalTests)
		m.PassedTests += r.Int(models.FieldPassedTests)
		totalDuration += r.Float(models.FieldAvgDuration)

		date := r.String(models.FieldExecutionDate)
		if date == "" {
			continue
		}
		if m.FirstDate == "" || date < m.FirstDate {
			m.FirstDate = date
		}
		if date > m.LastDate {
			m.LastDate = date
		}
	}

	if len(records) > 0 {
		m.AvgDurationMS = totalDuration / float64(len(records))
	}
	if m.TotalTests > 0 {
		m.PassRate = float64(m.PassedTests) / float64(m.TotalTests) * 100
	}

	return m
}

// Report is the full analysis snapshot handed to renderers and
// notifiers.
type Report struct {
	ID              string                             `json:"id"`
	GeneratedAt     time.Time                          `json:"generated_at"`
	Suite           string                             `json:"suite"`
	WindowDays      int                                `json:"window_days"`
	Metrics         ExecutionMetrics                   `json:"metrics"`
	Summaries       []models.SuiteSummary              `json:"suite_summaries"`
	Trend           *analyzer.TrendAnalysisResult      `json:"trend"`
	Security        *analyzer.SecurityTrendAnalysis    `json:"security"`
	Performance     *analyzer.PerformanceTrendAnalysis `json:"performance"`
	Risk            models.RiskAssessment              `json:"risk"`
	Recommendations []recommender.Recommendation       `json:"recommendations"`
}

// SeverityRow pairs a severity level with the direction of its daily
// finding counts, for table rendering.
type SeverityRow struct {
	Severity  string
	Direction analyzer.TrendDirection
}

// SeverityRows returns the security severity trends in canonical order,
// most severe first, with any unrecognized levels appended
// alphabetically.
func (r *Report) SeverityRows() []SeverityRow {
	if r.Security == nil {
		return nil
	}

	rows := []SeverityRow{}
	seen := map[string]bool{}
	for _, severity := range models.SeverityOrder {
		if direction, ok := r.Security.SeverityTrends[severity]; ok {
			rows = append(rows, SeverityRow{Severity: severity, Direction: direction})
			seen[severity] = true
		}
	}

	extras := []string{}
	for severity := range r.Security.SeverityTrends {
		if !seen[severity] {
			extras = append(extras, severity)
		}
	}
	sort.Strings(extras)
	for _, severity := range extras {
		rows = append(rows, SeverityRow{Severity: severity, Direction: r.Security.SeverityTrends[severity]})
	}

	return rows
}

// Render writes the report in the requested format.
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatHTML:
		return RenderHTML(w, r)
	case FormatCSV:
		return RenderCSV(w, r)
	case FormatMarkdown:
		return RenderMarkdown(w, r)
	case FormatJSON:
		return RenderJSON(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
