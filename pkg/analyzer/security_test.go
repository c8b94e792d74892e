package analyzer

import (
	"fmt"
	"math"
	"testing"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// vulns builds one record per day for the severity, with daily counts
// taken from counts in order starting 2025-06-01.
func vulns(severity string, counts ...int) []models.Record {
	records := make([]models.Record, len(counts))
	for i, c := range counts {
		records[i] = models.Record{
			models.FieldScanDate:           fmt.Sprintf("2025-06-%02d", i+1),
			models.FieldSeverityLevel:      severity,
			models.FieldVulnerabilityCount: c,
			models.FieldVulnerabilityType:  "XSS",
		}
	}
	return records
}

func TestCalculateSeverityTrends(t *testing.T) {
	records := append(vulns(models.SeverityMedium, 1, 2, 3, 4, 5),
		vulns(models.SeverityLow, 3, 3, 3, 3, 3)...)

	trends := CalculateSeverityTrends(records, 0.01)

	if got := trends[models.SeverityMedium]; got != TrendImproving {
		t.Errorf("Expected MEDIUM daily counts rising (IMPROVING), got %s", got)
	}
	if got := trends[models.SeverityLow]; got != TrendStable {
		t.Errorf("Expected LOW daily counts STABLE, got %s", got)
	}
	if _, ok := trends[models.SeverityCritical]; ok {
		t.Errorf("Absent severity must not appear in the map")
	}
}

func TestCalculateSeverityTrends_NormalizesTags(t *testing.T) {
	records := vulns(" critical ", 1, 2, 3, 4, 5)

	trends := CalculateSeverityTrends(records, 0.01)
	if got := trends[models.SeverityCritical]; got != TrendImproving {
		t.Errorf("Expected normalized CRITICAL rising, got %q map %v", got, trends)
	}
}

func TestOverallRiskTrend(t *testing.T) {
	up := TrendImproving
	flat := TrendStable

	tests := []struct {
		name   string
		trends map[string]TrendDirection
		want   RiskTrend
	}{
		{
			name:   "critical rising alone is increasing",
			trends: map[string]TrendDirection{models.SeverityCritical: up},
			want:   RiskIncreasing,
		},
		{
			name:   "medium rising alone stays stable",
			trends: map[string]TrendDirection{models.SeverityMedium: up, models.SeverityCritical: flat},
			want:   RiskStable,
		},
		{
			name:   "high rising alone stays stable",
			trends: map[string]TrendDirection{models.SeverityHigh: up},
			want:   RiskStable,
		},
		{
			name:   "high and medium rising together is increasing",
			trends: map[string]TrendDirection{models.SeverityHigh: up, models.SeverityMedium: up},
			want:   RiskIncreasing,
		},
		{
			name:   "low rising carries no weight",
			trends: map[string]TrendDirection{models.SeverityLow: up},
			want:   RiskDecreasing,
		},
		{
			name:   "nothing rising is decreasing",
			trends: map[string]TrendDirection{models.SeverityCritical: flat, models.SeverityHigh: flat},
			want:   RiskDecreasing,
		},
		{
			name:   "empty map is decreasing",
			trends: map[string]TrendDirection{},
			want:   RiskDecreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallRiskTrend(tt.trends); got != tt.want {
				t.Errorf("OverallRiskTrend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateRiskVelocity(t *testing.T) {
	// Daily composite scores 10, 20, 30 from 1, 2 and 3 CRITICAL
	// findings per day: average delta must be exactly 10.
	records := []models.Record{}
	for day := 1; day <= 3; day++ {
		for i := 0; i < day; i++ {
			records = append(records, models.Record{
				models.FieldScanDate:      fmt.Sprintf("2025-06-%02d", day),
				models.FieldSeverityLevel: models.SeverityCritical,
			})
		}
	}

	got := CalculateRiskVelocity(records)
	if math.Abs(got-10.0) > 1e-9 {
		t.Errorf("Expected risk velocity 10.0, got %.4f", got)
	}
}

func TestCalculateRiskVelocity_UnknownSeverityIgnored(t *testing.T) {
	records := []models.Record{
		{models.FieldScanDate: "2025-06-01", models.FieldSeverityLevel: models.SeverityHigh},
		{models.FieldScanDate: "2025-06-02", models.FieldSeverityLevel: models.SeverityHigh},
		{models.FieldScanDate: "2025-06-02", models.FieldSeverityLevel: models.SeverityHigh},
		{models.FieldScanDate: "2025-06-02", models.FieldSeverityLevel: "BOGUS"},
	}

	// Day scores 5 then 10; the unknown tag contributes nothing.
	got := CalculateRiskVelocity(records)
	if math.Abs(got-5.0) > 1e-9 {
		t.Errorf("Expected risk velocity 5.0, got %.4f", got)
	}
}

func TestCalculateRiskVelocity_SingleDay(t *testing.T) {
	records := vulns(models.SeverityCritical, 5)

	if got := CalculateRiskVelocity(records); got != 0 {
		t.Errorf("Expected 0 velocity for a single day, got %.4f", got)
	}
}

func TestTopVulnerabilityPatterns(t *testing.T) {
	types := []string{"SQL_INJECTION", "XSS", "SQL_INJECTION", "CSRF", "XSS", "SQL_INJECTION", "SSRF"}
	records := make([]models.Record, len(types))
	for i, typ := range types {
		records[i] = models.Record{
			models.FieldScanDate:          fmt.Sprintf("2025-06-%02d", i+1),
			models.FieldVulnerabilityType: typ,
		}
	}

	patterns := TopVulnerabilityPatterns(records, 3)
	if len(patterns) != 3 {
		t.Fatalf("Expected 3 patterns, got %d", len(patterns))
	}

	if patterns[0].Type != "SQL_INJECTION" || patterns[0].Count != 3 {
		t.Errorf("Expected SQL_INJECTION x3 first, got %+v", patterns[0])
	}
	if patterns[1].Type != "XSS" || patterns[1].Count != 2 {
		t.Errorf("Expected XSS x2 second, got %+v", patterns[1])
	}
	// CSRF and SSRF tie at 1; the name breaks the tie.
	if patterns[2].Type != "CSRF" {
		t.Errorf("Expected CSRF third on tie-break, got %+v", patterns[2])
	}
}
