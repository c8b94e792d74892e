package analyzer

import (
	"fmt"
	"strings"
)

// Insight codes, stable across the report and API surfaces.
const (
	InsightPositiveTrend     = "positive_trend"
	InsightNegativeTrend     = "negative_trend"
	InsightStableTrend       = "stable_trend"
	InsightStrongTrend       = "strong_trend"
	InsightWeakTrend         = "weak_trend"
	InsightHighVolatility    = "high_volatility"
	InsightAnomaliesDetected = "anomalies_detected"
	InsightSeasonalPattern   = "seasonal_pattern"
)

// BuildInsights maps the computed signals of a result to human-readable
// findings: one direction insight always, then strength, volatility,
// anomaly and seasonal insights as their conditions hold. The result's
// Insights field is ignored; everything else must already be populated.
func BuildInsights(metricLabel string, r *TrendAnalysisResult, volatilityThreshold float64) []TrendInsight {
	insights := []TrendInsight{}

	switch r.Direction {
	case TrendImproving:
		insights = append(insights, TrendInsight{
			Code:     InsightPositiveTrend,
			Message:  metricLabel + " is improving over time",
			Severity: InsightInfo,
		})
	case TrendDeclining:
		insights = append(insights, TrendInsight{
			Code:     InsightNegativeTrend,
			Message:  metricLabel + " is declining - investigation recommended",
			Severity: InsightWarning,
		})
	default:
		insights = append(insights, TrendInsight{
			Code:     InsightStableTrend,
			Message:  metricLabel + " is stable",
			Severity: InsightInfo,
		})
	}

	if r.Strength > 0.8 {
		insights = append(insights, TrendInsight{
			Code:     InsightStrongTrend,
			Message:  "Trend is statistically significant",
			Severity: InsightInfo,
		})
	} else if r.Strength < 0.3 {
		insights = append(insights, TrendInsight{
			Code:     InsightWeakTrend,
			Message:  "Trend is not statistically significant",
			Severity: InsightWarning,
		})
	}

	if r.Volatility > volatilityThreshold {
		insights = append(insights, TrendInsight{
			Code:     InsightHighVolatility,
			Message:  "High volatility detected - results are inconsistent",
			Severity: InsightWarning,
		})
	}

	if len(r.Anomalies) > 0 {
		insights = append(insights, TrendInsight{
			Code:     InsightAnomaliesDetected,
			Message:  fmt.Sprintf("%d anomalies detected in the data", len(r.Anomalies)),
			Severity: InsightCaution,
		})
	}

	if len(r.SeasonalPatterns) > 0 {
		insights = append(insights, TrendInsight{
			Code:     InsightSeasonalPattern,
			Message:  "Recurring pattern: " + r.SeasonalPatterns[0].Description,
			Severity: InsightInfo,
		})
	}

	return insights
}

// metricLabel humanizes a snake_case field name for insight text.
func metricLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return "Metric"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
