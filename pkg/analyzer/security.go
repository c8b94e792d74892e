package analyzer

import (
	"fmt"
	"sort"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// Severity weights for the composite daily risk score.
const (
	weightCritical = 10.0
	weightHigh     = 5.0
	weightMedium   = 2.0
	weightLow      = 1.0
)

// SeverityWeight returns the per-finding risk contribution of a
// severity level. Unknown levels contribute nothing.
func SeverityWeight(severity string) float64 {
	switch severity {
	case models.SeverityCritical:
		return weightCritical
	case models.SeverityHigh:
		return weightHigh
	case models.SeverityMedium:
		return weightMedium
	case models.SeverityLow:
		return weightLow
	default:
		return 0
	}
}

// CalculateSeverityTrends classifies, per severity level, the direction
// of that severity's daily finding counts. Directions are slope-based:
// IMPROVING means the counts are rising. Records without a severity tag
// are skipped.
func CalculateSeverityTrends(records []models.Record, slopeThreshold float64) map[string]TrendDirection {
	groups := map[string][]models.Record{}
	for _, r := range records {
		severity := models.NormalizeSeverity(r.String(models.FieldSeverityLevel))
		if severity == "" {
			continue
		}
		groups[severity] = append(groups[severity], r)
	}

	trends := map[string]TrendDirection{}
	for severity, group := range groups {
		daily := DailySeries(group, models.FieldVulnerabilityCount, models.FieldScanDate)
		trends[severity] = ClassifyTrend(seriesValues(daily), slopeThreshold)
	}

	return trends
}

// OverallRiskTrend combines per-severity directions into one weighted
// signal. Rising CRITICAL counts weigh 4, HIGH 2, MEDIUM 1, LOW nothing.
// A total of 3 or more is INCREASING, anything above zero STABLE, and
// zero DECREASING, meaning no severity class is trending upward. Absent
// severities contribute nothing.
func OverallRiskTrend(trends map[string]TrendDirection) RiskTrend {
	rising := func(severity string) bool {
		return trends[severity] == TrendImproving
	}

	weight := 0
	if rising(models.SeverityCritical) {
		weight += 4
	}
	if rising(models.SeverityHigh) {
		weight += 2
	}
	if rising(models.SeverityMedium) {
		weight += 1
	}

	switch {
	case weight >= 3:
		return RiskIncreasing
	case weight > 0:
		return RiskStable
	default:
		return RiskDecreasing
	}
}

// CalculateRiskVelocity sums severity weights per calendar day into a
// composite risk score and returns the mean day-over-day change,
// walking the days in date order. Fewer than 2 distinct days yields 0.
func CalculateRiskVelocity(records []models.Record) float64 {
	if len(records) < 2 {
		return 0
	}

	daily := map[string]float64{}
	for _, r := range records {
		day := dayKey(r.String(models.FieldScanDate))
		if day == "" {
			continue
		}
		daily[day] += SeverityWeight(models.NormalizeSeverity(r.String(models.FieldSeverityLevel)))
	}

	if len(daily) < 2 {
		return 0
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	totalChange := 0.0
	for i := 1; i < len(days); i++ {
		totalChange += daily[days[i]] - daily[days[i-1]]
	}

	return totalChange / float64(len(days)-1)
}

// TopVulnerabilityPatterns returns the most frequent vulnerability types
// in the batch, at most limit of them, ordered by count descending with
// ties broken by type name.
func TopVulnerabilityPatterns(records []models.Record, limit int) []VulnerabilityPattern {
	counts := map[string]int{}
	for _, r := range records {
		vulnType := r.String(models.FieldVulnerabilityType)
		if vulnType == "" {
			continue
		}
		counts[vulnType]++
	}

	patterns := []VulnerabilityPattern{}
	for vulnType, count := range counts {
		patterns = append(patterns, VulnerabilityPattern{
			Type:        vulnType,
			Description: fmt.Sprintf("Frequent vulnerability type: %d occurrences", count),
			Count:       count,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Type < patterns[j].Type
	})

	if limit > 0 && len(patterns) > limit {
		patterns = patterns[:limit]
	}

	return patterns
}
