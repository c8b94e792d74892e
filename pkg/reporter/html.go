package reporter

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Test Trend Report - {{.Suite}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #333;
            padding: 20px;
            line-height: 1.6;
        }
        .container {
            max-width: 1280px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .header {
            background: linear-gradient(135deg, #283593 0%, #121858 100%);
            color: white;
            padding: 45px 40px;
        }
        .header h1 {
            font-size: 2.4em;
            margin-bottom: 12px;
        }
        .header .meta {
            opacity: 0.9;
            font-size: 1.05em;
        }
        .header .meta strong {
            color: #fff;
        }
        .summary {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(240px, 1fr));
            gap: 22px;
            padding: 35px 40px;
            background: #f8f9fa;
        }
        .summary-card {
            background: white;
            padding: 26px;
            border-radius: 10px;
            border: 1px solid #e8eaed;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.05);
        }
        .summary-card h3 {
            color: #5f6368;
            font-size: 0.8em;
            text-transform: uppercase;
            letter-spacing: 1.2px;
            margin-bottom: 12px;
            font-weight: 600;
        }
        .summary-card .value {
            font-size: 2.4em;
            font-weight: 700;
            color: #202124;
            line-height: 1;
        }
        .summary-card.risk-critical {
            border-left: 6px solid #a50e0e;
        }
        .summary-card.risk-critical .value {
            color: #a50e0e;
        }
        .summary-card.risk-high {
            border-left: 6px solid #d93025;
        }
        .summary-card.risk-high .value {
            color: #d93025;
        }
        .summary-card.risk-medium {
            border-left: 6px solid #f9ab00;
        }
        .summary-card.risk-medium .value {
            color: #f9ab00;
        }
        .summary-card.risk-low {
            border-left: 6px solid #1e8e3e;
        }
        .summary-card.risk-low .value {
            color: #1e8e3e;
        }
        .summary-card.neutral {
            border-left: 6px solid #283593;
        }
        .summary-card.neutral .value {
            color: #283593;
        }
        .section {
            padding: 40px;
            border-top: 1px solid #f0f2f4;
        }
        .section h2 {
            font-size: 1.6em;
            margin-bottom: 22px;
            color: #202124;
            display: flex;
            align-items: center;
            gap: 12px;
        }
        .section h2::before {
            content: '';
            width: 5px;
            height: 30px;
            background: #283593;
            border-radius: 3px;
        }
        .insight-list {
            list-style: none;
            margin-top: 20px;
        }
        .insight-list li {
            padding: 12px 0;
            border-bottom: 1px solid #f0f2f4;
            display: flex;
            align-items: center;
            gap: 14px;
        }
        .insight-list li:last-child {
            border-bottom: none;
        }
        .report-table {
            width: 100%;
            border-collapse: separate;
            border-spacing: 0;
            background: white;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.05);
        }
        .report-table th {
            background: #283593;
            color: white;
            padding: 14px 15px;
            text-align: left;
            font-weight: 600;
            font-size: 0.9em;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        .report-table td {
            padding: 14px 15px;
            border-bottom: 1px solid #f0f2f4;
        }
        .report-table tbody tr:hover {
            background: #f8f9fa;
        }
        .report-table tbody tr:last-child td {
            border-bottom: none;
        }
        .badge {
            padding: 6px 12px;
            border-radius: 6px;
            font-size: 0.75em;
            font-weight: 700;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            display: inline-block;
        }
        .badge.severity-critical {
            background: #fad2cf;
            color: #a50e0e;
        }
        .badge.severity-high {
            background: #fce8e6;
            color: #d93025;
        }
        .badge.severity-medium {
            background: #fef7e0;
            color: #f9ab00;
        }
        .badge.severity-low {
            background: #e6f4ea;
            color: #1e8e3e;
        }
        .badge.direction-improving {
            background: #e6f4ea;
            color: #1e8e3e;
        }
        .badge.direction-declining {
            background: #fce8e6;
            color: #d93025;
        }
        .badge.direction-stable {
            background: #f1f3f4;
            color: #5f6368;
        }
        .badge.insight-warning {
            background: #fce8e6;
            color: #d93025;
        }
        .badge.insight-caution {
            background: #fef7e0;
            color: #f9ab00;
        }
        .badge.insight-info {
            background: #e8f0fe;
            color: #1a73e8;
        }
        .badge.priority-high {
            background: #fce8e6;
            color: #d93025;
        }
        .badge.priority-medium {
            background: #fef7e0;
            color: #f9ab00;
        }
        .badge.priority-low {
            background: #f1f3f4;
            color: #5f6368;
        }
        .stat-row {
            display: flex;
            justify-content: space-between;
            padding: 10px 0;
            border-bottom: 1px solid #f0f2f4;
            max-width: 520px;
        }
        .stat-row:last-child {
            border-bottom: none;
        }
        .stat-label {
            color: #5f6368;
            font-weight: 500;
        }
        .stat-value {
            font-weight: 700;
            color: #202124;
        }
        .footer {
            background: #202124;
            color: #9aa0a6;
            padding: 30px 40px;
            text-align: center;
            font-size: 0.9em;
        }
        .footer strong {
            color: #fff;
        }
    </style>
</head>
<body>
    <div class="container">
        <!-- Header -->
        <div class="header">
            <h1>Test Trend Report</h1>
            <div class="meta">
                <p><strong>Suite:</strong> {{if .Suite}}{{.Suite}}{{else}}All Suites{{end}} | <strong>Window:</strong> last {{.WindowDays}} days</p>
                <p><strong>Generated:</strong> {{.GeneratedAt.Format "January 2, 2006 15:04:05 MST"}}</p>
            </div>
        </div>

        <!-- Headline Signals -->
        <div class="summary">
            <div class="summary-card risk-{{.Risk.Level | lower}}">
                <h3>Security Risk</h3>
                <div class="value">{{.Risk.Level}}</div>
            </div>
            {{if .Trend}}
            <div class="summary-card neutral">
                <h3>Success Rate Trend</h3>
                <div class="value">{{.Trend.Direction}}</div>
            </div>
            {{end}}
            <div class="summary-card neutral">
                <h3>Pass Rate</h3>
                <div class="value">{{printf "%.1f" .Metrics.PassRate}}%</div>
            </div>
            {{if .Performance}}
            <div class="summary-card neutral">
                <h3>Stability Score</h3>
                <div class="value">{{printf "%.0f" .Performance.StabilityScore}}</div>
            </div>
            {{end}}
        </div>

        <!-- Trend Insights -->
        {{if .Trend}}
        <div class="section">
            <h2>Trend Insights</h2>
            <div class="stat-row">
                <span class="stat-label">Trend strength</span>
                <span class="stat-value">{{printf "%.2f" .Trend.Strength}}</span>
            </div>
            <div class="stat-row">
                <span class="stat-label">Volatility</span>
                <span class="stat-value">{{printf "%.3f" .Trend.Volatility}}</span>
            </div>
            <div class="stat-row">
                <span class="stat-label">Data points</span>
                <span class="stat-value">{{.Trend.DataPoints}}</span>
            </div>
            {{if .Trend.Insights}}
            <ul class="insight-list">
                {{range .Trend.Insights}}
                <li>
                    <span class="badge insight-{{.Severity | lower}}">{{.Severity}}</span>
                    <span>{{.Message}}</span>
                </li>
                {{end}}
            </ul>
            {{end}}
            {{if .Trend.Anomalies}}
            <table class="report-table" style="margin-top: 25px;">
                <thead>
                    <tr>
                        <th>Date</th>
                        <th>Observed Value</th>
                        <th>Deviation Score</th>
                        <th>Classification</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Trend.Anomalies}}
                    <tr>
                        <td>{{.Date}}</td>
                        <td>{{printf "%.2f" .ObservedValue}}</td>
                        <td>{{printf "%.2f" .DeviationScore}}</td>
                        <td>{{.Classification}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{end}}
        </div>
        {{end}}

        <!-- Security -->
        {{if .Security}}
        <div class="section">
            <h2>Security Trends</h2>
            <div class="stat-row">
                <span class="stat-label">Overall risk trend</span>
                <span class="stat-value">{{.Security.OverallTrend}}</span>
            </div>
            <div class="stat-row">
                <span class="stat-label">Risk velocity</span>
                <span class="stat-value">{{printf "%.2f" .Security.RiskVelocity}} points/day</span>
            </div>
            {{if .SeverityRows}}
            <table class="report-table" style="margin-top: 25px;">
                <thead>
                    <tr>
                        <th>Severity</th>
                        <th>Daily Count Trend</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .SeverityRows}}
                    <tr>
                        <td><span class="badge severity-{{.Severity | lower}}">{{.Severity}}</span></td>
                        <td><span class="badge direction-{{.Direction | lower}}">{{.Direction}}</span></td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{end}}
            {{if .Security.Patterns}}
            <table class="report-table" style="margin-top: 25px;">
                <thead>
                    <tr>
                        <th>Vulnerability Type</th>
                        <th>Findings</th>
                        <th>Description</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Security.Patterns}}
                    <tr>
                        <td><strong>{{.Type}}</strong></td>
                        <td>{{.Count}}</td>
                        <td>{{.Description}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{end}}
        </div>
        {{end}}

        <!-- Performance -->
        {{if .Performance}}
        <div class="section">
            <h2>Performance</h2>
            <div class="stat-row">
                <span class="stat-label">Response time trend</span>
                <span class="stat-value">{{.Performance.ResponseTimeTrend}}</span>
            </div>
            <div class="stat-row">
                <span class="stat-label">Throughput trend</span>
                <span class="stat-value">{{.Performance.ThroughputTrend}}</span>
            </div>
            <div class="stat-row">
                <span class="stat-label">Error rate trend</span>
                <span class="stat-value">{{.Performance.ErrorRateTrend}}</span>
            </div>
            {{if .Performance.DegradationPatterns}}
            <table class="report-table" style="margin-top: 25px;">
                <thead>
                    <tr>
                        <th>Degradation</th>
                        <th>Value</th>
                        <th>Detail</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Performance.DegradationPatterns}}
                    <tr>
                        <td><strong>{{.Type}}</strong></td>
                        <td>{{printf "%.2f" .Value}}</td>
                        <td>{{.Detail}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{end}}
        </div>
        {{end}}

        <!-- Recommendations -->
        {{if .Recommendations}}
        <div class="section">
            <h2>Recommendations</h2>
            <table class="report-table">
                <thead>
                    <tr>
                        <th>Priority</th>
                        <th>Category</th>
                        <th>Action</th>
                        <th>Rationale</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Recommendations}}
                    <tr>
                        <td><span class="badge priority-{{.Priority | lower}}">{{.Priority}}</span></td>
                        <td>{{.Category}}</td>
                        <td><strong>{{.Action}}</strong></td>
                        <td>{{.Rationale}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        <!-- Suite Summary -->
        {{if .Summaries}}
        <div class="section">
            <h2>Suite Activity</h2>
            <table class="report-table">
                <thead>
                    <tr>
                        <th>Suite</th>
                        <th>Executions</th>
                        <th>Passed</th>
                        <th>Failed</th>
                        <th>Avg Success Rate</th>
                        <th>Last Execution</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Summaries}}
                    <tr>
                        <td><strong>{{.Suite}}</strong></td>
                        <td>{{.Executions}}</td>
                        <td>{{.Passed}}</td>
                        <td>{{.Failed}}</td>
                        <td>{{printf "%.1f" .AvgSuccessRate}}%</td>
                        <td>{{.LastExecution.Format "2006-01-02 15:04"}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        <!-- Footer -->
        <div class="footer">
            <p>Generated by <strong>trend-scan</strong> | Report {{.ID}}</p>
        </div>
    </div>
</body>
</html>
`

// RenderHTML writes the report as a standalone HTML page.
func RenderHTML(w io.Writer, r *Report) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"lower": func(s interface{}) string {
			return strings.ToLower(fmt.Sprintf("%v", s))
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, r); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}
