package analyzer

import "time"

// TrendDirection classifies the slope of a single metric series.
// The label is slope-based: IMPROVING means the values are rising, so for
// inverted metrics (response time, vulnerability counts) callers interpret
// it against the metric's meaning.
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendStable    TrendDirection = "STABLE"
	TrendDeclining TrendDirection = "DECLINING"
)

// RiskTrend classifies the severity-weighted security aggregate, a
// separate vocabulary from TrendDirection: DECREASING means no severity
// class is trending upward, not that a literal downward slope was
// measured.
type RiskTrend string

const (
	RiskIncreasing RiskTrend = "INCREASING"
	RiskStable     RiskTrend = "STABLE"
	RiskDecreasing RiskTrend = "DECREASING"
)

// InsightSeverity tags how urgently an insight should be read.
type InsightSeverity string

const (
	InsightInfo    InsightSeverity = "INFO"
	InsightCaution InsightSeverity = "CAUTION"
	InsightWarning InsightSeverity = "WARNING"
)

// TimeSeriesPoint is one dated observation. Dates are ISO strings
// (yyyy-mm-dd, optionally with a time part) so lexicographic order is
// chronological order.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Anomaly is a statistical outlier within a series.
type Anomaly struct {
	Date           string  `json:"date"`
	ObservedValue  float64 `json:"observed_value"`
	DeviationScore float64 `json:"deviation_score"`
	Classification string  `json:"classification"`
}

// SeasonalPattern is a calendar bucket whose values consistently deviate
// from the rest of the series.
type SeasonalPattern struct {
	PeriodLabel string  `json:"period_label"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// TrendInsight is a human-readable finding derived from the computed
// signals.
type TrendInsight struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Severity InsightSeverity `json:"severity"`
}

// TrendAnalysisResult is the full output of a single-metric trend
// analysis. A fresh value is built per call and owned by the caller.
type TrendAnalysisResult struct {
	Direction        TrendDirection    `json:"direction"`
	Strength         float64           `json:"strength"`
	Insights         []TrendInsight    `json:"insights"`
	SeasonalPatterns []SeasonalPattern `json:"seasonal_patterns"`
	Anomalies        []Anomaly         `json:"anomalies"`
	Volatility       float64           `json:"volatility"`
	DataPoints       int               `json:"data_points"`
	AnalyzedAt       time.Time         `json:"analyzed_at"`
}

// HasInsight reports whether an insight with the given code is present.
func (r *TrendAnalysisResult) HasInsight(code string) bool {
	for _, insight := range r.Insights {
		if insight.Code == code {
			return true
		}
	}
	return false
}

// VulnerabilityPattern is a recurring vulnerability type with its
// occurrence count across the batch.
type VulnerabilityPattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// SecurityTrendAnalysis is the output of a vulnerability batch analysis.
// SeverityTrends holds the slope classification of each severity's daily
// counts, so IMPROVING there means counts are rising.
type SecurityTrendAnalysis struct {
	OverallTrend       RiskTrend                 `json:"overall_trend"`
	SeverityTrends     map[string]TrendDirection `json:"severity_trends"`
	Patterns           []VulnerabilityPattern    `json:"patterns"`
	RiskVelocity       float64                   `json:"risk_velocity"`
	VulnerabilityTrend RiskTrend                 `json:"vulnerability_trend"`
	AnalyzedAt         time.Time                 `json:"analyzed_at"`
}

// DegradationPattern is a threshold rule that fired over a performance
// series.
type DegradationPattern struct {
	Type   string  `json:"type"`
	Detail string  `json:"detail"`
	Value  float64 `json:"value"`
}

// PerformanceTrendAnalysis is the output of a performance batch analysis.
type PerformanceTrendAnalysis struct {
	ResponseTimeTrend   TrendDirection       `json:"response_time_trend"`
	ThroughputTrend     TrendDirection       `json:"throughput_trend"`
	ErrorRateTrend      TrendDirection       `json:"error_rate_trend"`
	DegradationPatterns []DegradationPattern `json:"degradation_patterns"`
	StabilityScore      float64              `json:"stability_score"`
	AnalyzedAt          time.Time            `json:"analyzed_at"`
}
