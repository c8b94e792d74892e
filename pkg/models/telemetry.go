package models

import "time"

const dayFormat = "2006-01-02"

// ExecutionRecord is one test execution as stored in test_executions.
type ExecutionRecord struct {
	ID          string    `json:"id,omitempty"`
	Suite       string    `json:"suite"`
	TestName    string    `json:"test_name"`
	Status      string    `json:"status"`
	Environment string    `json:"environment,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
}

// ToRecord renders the execution in the engine's record shape. A single
// execution is fully passed or fully failed; daily success rates come
// from the trend view, which aggregates these rows per day.
func (e ExecutionRecord) ToRecord() Record {
	rate := 0.0
	if e.Status == StatusPassed {
		rate = 100.0
	}
	return Record{
		FieldSuite:         e.Suite,
		FieldStatus:        e.Status,
		FieldExecutionDate: e.StartedAt.Format(dayFormat),
		FieldSuccessRate:   rate,
		FieldAvgDuration:   e.DurationMS,
	}
}

// VulnerabilityRecord is one security finding as stored in
// security_test_results.
type VulnerabilityRecord struct {
	ID          string    `json:"id,omitempty"`
	ExecutionID string    `json:"execution_id,omitempty"`
	ScanDate    time.Time `json:"scan_date"`
	Type        string    `json:"vulnerability_type"`
	Severity    string    `json:"severity_level"`
	Count       int       `json:"vulnerability_count"`
	Description string    `json:"description,omitempty"`
	Endpoint    string    `json:"endpoint,omitempty"`
}

// ToRecord renders the finding in the engine's record shape.
func (v VulnerabilityRecord) ToRecord() Record {
	return Record{
		FieldScanDate:           v.ScanDate.Format(dayFormat),
		FieldVulnerabilityType:  v.Type,
		FieldSeverityLevel:      NormalizeSeverity(v.Severity),
		FieldVulnerabilityCount: v.Count,
	}
}

// PerformanceRecord is one day of performance telemetry for a suite, as
// stored in performance_metrics or assembled from Prometheus.
type PerformanceRecord struct {
	ID              string    `json:"id,omitempty"`
	Suite           string    `json:"suite"`
	MetricDate      time.Time `json:"metric_date"`
	AvgResponseTime float64   `json:"avg_response_time"`
	Throughput      float64   `json:"throughput"`
	ErrorRate       float64   `json:"error_rate"`
	SampleCount     int       `json:"sample_count,omitempty"`
}

// ToRecord renders the metrics in the engine's record shape.
func (p PerformanceRecord) ToRecord() Record {
	return Record{
		FieldSuite:           p.Suite,
		FieldExecutionDate:   p.MetricDate.Format(dayFormat),
		FieldAvgResponseTime: p.AvgResponseTime,
		FieldThroughput:      p.Throughput,
		FieldErrorRate:       p.ErrorRate,
	}
}

// IngestBatch is the JSON upload shape the test program produces after a
// run: any mix of executions, findings and performance rows.
type IngestBatch struct {
	Executions      []ExecutionRecord     `json:"executions,omitempty"`
	Vulnerabilities []VulnerabilityRecord `json:"vulnerabilities,omitempty"`
	Performance     []PerformanceRecord   `json:"performance,omitempty"`
}

// SuiteSummary is the per-suite execution rollup behind the dashboard and
// the report header.
type SuiteSummary struct {
	Suite          string    `json:"suite"`
	Executions     int       `json:"executions"`
	Passed         int       `json:"passed"`
	Failed         int       `json:"failed"`
	AvgSuccessRate float64   `json:"avg_success_rate"`
	AvgDurationMS  float64   `json:"avg_duration_ms"`
	LastExecution  time.Time `json:"last_execution"`
}
