package models

import "strings"

// Severity levels for vulnerability findings.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// SeverityOrder lists severities from most to least severe, for stable
// display and serialization order.
var SeverityOrder = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// NormalizeSeverity canonicalizes a severity tag. Unknown values keep
// their normalized text so they still group, they just carry no weight.
func NormalizeSeverity(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Execution statuses recorded by the test program.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)
