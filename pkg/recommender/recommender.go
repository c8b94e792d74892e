package recommender

import (
	"fmt"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/models"
)

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Category groups recommendations by the signal that produced them.
type Category string

const (
	CategoryQuality     Category = "QUALITY"
	CategorySecurity    Category = "SECURITY"
	CategoryPerformance Category = "PERFORMANCE"
	CategoryStability   Category = "STABILITY"
	CategoryGeneral     Category = "GENERAL"
)

// Recommendation is one suggested action derived from the analyses.
type Recommendation struct {
	Category  Category `json:"category"`
	Priority  Priority `json:"priority"`
	Action    string   `json:"action"`
	Rationale string   `json:"rationale"`
}

func (r *Recommendation) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", r.Priority, r.Category, r.Action, r.Rationale)
}

type Recommender struct{}

func New() *Recommender {
	return &Recommender{}
}

// Recommend applies the rule set over the three analyses. Nil analyses
// are skipped; when no adverse signal fires, a single keep-course note
// comes back.
func (r *Recommender) Recommend(trend *analyzer.TrendAnalysisResult, security *analyzer.SecurityTrendAnalysis, performance *analyzer.PerformanceTrendAnalysis) []Recommendation {
	recs := []Recommendation{}

	if trend != nil {
		if trend.Direction == analyzer.TrendDeclining {
			recs = append(recs, Recommendation{
				Category:  CategoryQuality,
				Priority:  PriorityHigh,
				Action:    "Investigate the declining success rate",
				Rationale: fmt.Sprintf("Success rate is declining with trend strength %.2f over %d data points", trend.Strength, trend.DataPoints),
			})
		}
		if trend.HasInsight(analyzer.InsightHighVolatility) {
			recs = append(recs, Recommendation{
				Category:  CategoryStability,
				Priority:  PriorityMedium,
				Action:    "Stabilize the test environment",
				Rationale: fmt.Sprintf("Coefficient of variation is %.2f, results are inconsistent between runs", trend.Volatility),
			})
		}
		if len(trend.Anomalies) > 0 {
			recs = append(recs, Recommendation{
				Category:  CategoryQuality,
				Priority:  PriorityMedium,
				Action:    "Review anomalous runs",
				Rationale: fmt.Sprintf("%d runs deviate sharply from the period mean", len(trend.Anomalies)),
			})
		}
	}

	if security != nil {
		if security.OverallTrend == analyzer.RiskIncreasing || security.RiskVelocity > 0 {
			rationale := "Severity-weighted vulnerability counts are trending upward"
			if security.RiskVelocity > 0 {
				rationale = fmt.Sprintf("Composite risk score is growing %.1f points per day", security.RiskVelocity)
			}
			recs = append(recs, Recommendation{
				Category:  CategorySecurity,
				Priority:  PriorityHigh,
				Action:    "Prioritize remediation of trending vulnerability classes",
				Rationale: rationale,
			})
		}
		if len(security.Patterns) > 0 {
			top := security.Patterns[0]
			recs = append(recs, Recommendation{
				Category:  CategorySecurity,
				Priority:  PriorityMedium,
				Action:    fmt.Sprintf("Add regression tests for %s", top.Type),
				Rationale: fmt.Sprintf("%s is the most frequent finding with %d occurrences", top.Type, top.Count),
			})
		}
	}

	if performance != nil {
		for _, pattern := range performance.DegradationPatterns {
			recs = append(recs, performanceRecommendation(pattern))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Category:  CategoryGeneral,
			Priority:  PriorityLow,
			Action:    "Keep the current testing cadence",
			Rationale: "No adverse trends detected in the analysis window",
		})
	}

	return recs
}

func performanceRecommendation(pattern analyzer.DegradationPattern) Recommendation {
	switch pattern.Type {
	case analyzer.DegradationResponseTime:
		return Recommendation{
			Category:  CategoryPerformance,
			Priority:  PriorityHigh,
			Action:    "Profile slow endpoints and set latency budgets",
			Rationale: pattern.Detail,
		}
	case analyzer.DegradationThroughput:
		return Recommendation{
			Category:  CategoryPerformance,
			Priority:  PriorityMedium,
			Action:    "Investigate the throughput decline",
			Rationale: pattern.Detail,
		}
	case analyzer.DegradationErrorRate:
		return Recommendation{
			Category:  CategoryPerformance,
			Priority:  PriorityHigh,
			Action:    "Triage the rising error rate",
			Rationale: pattern.Detail,
		}
	default:
		return Recommendation{
			Category:  CategoryPerformance,
			Priority:  PriorityMedium,
			Action:    "Review performance telemetry",
			Rationale: pattern.Detail,
		}
	}
}

// AssessRisk counts findings per severity over a vulnerability batch and
// grades the posture. Rows without a recognized severity are ignored; a
// row without an explicit count counts once.
func (r *Recommender) AssessRisk(records []models.Record) models.RiskAssessment {
	counts := map[string]int{}
	for _, rec := range records {
		severity := models.NormalizeSeverity(rec.String(models.FieldSeverityLevel))
		if analyzer.SeverityWeight(severity) == 0 {
			continue
		}
		n := rec.Int(models.FieldVulnerabilityCount)
		if n <= 0 {
			n = 1
		}
		counts[severity] += n
	}

	score := 0.0
	drivers := []string{}
	for _, severity := range models.SeverityOrder {
		n := counts[severity]
		if n == 0 {
			continue
		}
		score += float64(n) * analyzer.SeverityWeight(severity)
		drivers = append(drivers, fmt.Sprintf("%d %s findings", n, severity))
	}

	return models.RiskAssessment{
		Level:   riskLevel(counts),
		Score:   score,
		Drivers: drivers,
	}
}

func riskLevel(counts map[string]int) models.RiskLevel {
	critical := counts[models.SeverityCritical]
	high := counts[models.SeverityHigh]
	medium := counts[models.SeverityMedium]
	low := counts[models.SeverityLow]

	switch {
	case critical > 0 || high > 5:
		return models.RiskCritical
	case high > 0 || medium > 10:
		return models.RiskHigh
	case medium > 0 || low > 20:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
