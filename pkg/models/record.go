package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Canonical field names for telemetry records. Storage queries, the
// Prometheus datasource and the analysis engine all speak this vocabulary.
const (
	FieldExecutionDate      = "execution_date"
	FieldScanDate           = "scan_date"
	FieldSuite              = "suite"
	FieldStatus             = "status"
	FieldSuccessRate        = "success_rate"
	FieldTotalTests         = "total_tests"
	FieldPassedTests        = "passed_tests"
	FieldAvgDuration        = "avg_duration_ms"
	FieldSeverityLevel      = "severity_level"
	FieldVulnerabilityType  = "vulnerability_type"
	FieldVulnerabilityCount = "vulnerability_count"
	FieldAvgResponseTime    = "avg_response_time"
	FieldThroughput         = "throughput"
	FieldErrorRate          = "error_rate"
)

// Record is a single telemetry row as a field-name-to-value mapping.
// Rows arrive from SQL queries, JSON ingest files and Prometheus matrices,
// so values may be float64, int, string, time.Time or json.Number depending
// on the source. Accessors coerce loosely: a missing or malformed field
// yields the zero value, never an error.
type Record map[string]any

// Float returns the field coerced to float64, or 0 when absent or
// non-numeric. Numeric strings parse.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// Int returns the field coerced to int, truncating fractional values.
func (r Record) Int(key string) int {
	return int(r.Float(key))
}

// String returns the field as a string. Dates render as RFC 3339 so they
// stay lexicographically sortable; anything else falls back to its
// printed form, mirroring how loosely typed rows behave upstream.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
