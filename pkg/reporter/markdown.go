package reporter

import (
	"fmt"
	"io"
	"text/template"
)

const markdownTemplate = `# Test Trend Report

- **Suite:** {{if .Suite}}{{.Suite}}{{else}}all suites{{end}}
- **Window:** last {{.WindowDays}} days
- **Generated:** {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}
- **Report ID:** {{.ID}}

## Headline

| Signal | Value |
|--------|-------|
| Security risk | {{.Risk.Level}} (score {{.Risk.Score}}) |
{{- if .Trend}}
| Success rate trend | {{.Trend.Direction}} (strength {{printf "%.2f" .Trend.Strength}}) |
{{- end}}
| Pass rate | {{printf "%.1f" .Metrics.PassRate}}% of {{.Metrics.TotalTests}} tests |
{{- if .Performance}}
| Stability score | {{printf "%.0f" .Performance.StabilityScore}} |
{{- end}}
{{- if .Risk.Drivers}}

Risk drivers:
{{- range .Risk.Drivers}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Trend}}

## Trend Insights
{{range .Trend.Insights}}
- **{{.Severity}}**: {{.Message}}
{{- end}}
{{- if .Trend.Anomalies}}

| Date | Observed | Deviation | Classification |
|------|----------|-----------|----------------|
{{- range .Trend.Anomalies}}
| {{.Date}} | {{printf "%.2f" .ObservedValue}} | {{printf "%.2f" .DeviationScore}} | {{.Classification}} |
{{- end}}
{{- end}}
{{- end}}
{{- if .Security}}

## Security

Overall risk trend **{{.Security.OverallTrend}}**, velocity {{printf "%.2f" .Security.RiskVelocity}} points/day.
{{- if .SeverityRows}}

| Severity | Daily Count Trend |
|----------|-------------------|
{{- range .SeverityRows}}
| {{.Severity}} | {{.Direction}} |
{{- end}}
{{- end}}
{{- if .Security.Patterns}}

| Vulnerability Type | Findings |
|--------------------|----------|
{{- range .Security.Patterns}}
| {{.Type}} | {{.Count}} |
{{- end}}
{{- end}}
{{- end}}
{{- if .Performance}}

## Performance

Response time {{.Performance.ResponseTimeTrend}}, throughput {{.Performance.ThroughputTrend}}, error rate {{.Performance.ErrorRateTrend}}.
{{- range .Performance.DegradationPatterns}}
- {{.Detail}}
{{- end}}
{{- end}}
{{- if .Recommendations}}

## Recommendations

| Priority | Category | Action |
|----------|----------|--------|
{{- range .Recommendations}}
| {{.Priority}} | {{.Category}} | {{.Action}} |
{{- end}}
{{- end}}
{{- if .Summaries}}

## Suite Activity

| Suite | Executions | Passed | Failed | Avg Success Rate |
|-------|------------|--------|--------|------------------|
{{- range .Summaries}}
| {{.Suite}} | {{.Executions}} | {{.Passed}} | {{.Failed}} | {{printf "%.1f" .AvgSuccessRate}}% |
{{- end}}
{{- end}}
`

// RenderMarkdown writes the report as Markdown.
func RenderMarkdown(w io.Writer, r *Report) error {
	tmpl, err := template.New("report").Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}
