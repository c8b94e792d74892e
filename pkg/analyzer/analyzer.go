package analyzer

import (
	"time"

	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// Analyzer runs the trend, security and performance analyses with a
// fixed set of thresholds. It carries no mutable state, so one instance
// may serve concurrent analyses.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// New returns an Analyzer. A zero Config falls back to the defaults and
// a nil logger to a no-op one.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Config returns the thresholds the analyzer runs with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// AnalyzeTrends runs the single-metric trend analysis over a batch of
// records: direction and strength via regression, seasonal patterns,
// anomalies, volatility, and the derived insights. An empty batch yields
// a neutral STABLE result.
func (a *Analyzer) AnalyzeTrends(records []models.Record, metricField string) *TrendAnalysisResult {
	a.logger.Debug("analyzing trends",
		zap.Int("records", len(records)),
		zap.String("metric", metricField))

	result := &TrendAnalysisResult{
		Direction:        TrendStable,
		Insights:         []TrendInsight{},
		SeasonalPatterns: []SeasonalPattern{},
		Anomalies:        []Anomaly{},
		AnalyzedAt:       time.Now(),
	}

	if len(records) == 0 {
		return result
	}

	points := extractPoints(records, metricField, models.FieldExecutionDate)
	values := seriesValues(points)

	result.Direction = ClassifyTrend(values, a.cfg.SlopeThreshold)
	result.Strength = TrendStrength(values)
	result.SeasonalPatterns = DetectSeasonalPatterns(points, GranularityDayOfWeek, a.cfg.SeasonalDeviation)
	result.Anomalies = DetectAnomalies(points, a.cfg.AnomalyThreshold)
	result.Volatility = CalculateVolatility(values)
	result.DataPoints = len(points)
	result.Insights = BuildInsights(metricLabel(metricField), result, a.cfg.VolatilityThreshold)

	a.logger.Debug("trend analysis completed",
		zap.String("direction", string(result.Direction)),
		zap.Float64("strength", result.Strength),
		zap.Int("anomalies", len(result.Anomalies)))

	return result
}

// AnalyzeSecurityTrends runs the vulnerability batch analysis:
// per-severity daily-count directions, the weighted overall risk trend,
// the most frequent vulnerability types and the risk velocity. An empty
// batch yields a neutral STABLE result.
func (a *Analyzer) AnalyzeSecurityTrends(records []models.Record) *SecurityTrendAnalysis {
	a.logger.Debug("analyzing security trends", zap.Int("records", len(records)))

	result := &SecurityTrendAnalysis{
		OverallTrend:       RiskStable,
		SeverityTrends:     map[string]TrendDirection{},
		Patterns:           []VulnerabilityPattern{},
		VulnerabilityTrend: RiskStable,
		AnalyzedAt:         time.Now(),
	}

	if len(records) == 0 {
		return result
	}

	result.SeverityTrends = CalculateSeverityTrends(records, a.cfg.SlopeThreshold)
	result.OverallTrend = OverallRiskTrend(result.SeverityTrends)
	result.Patterns = TopVulnerabilityPatterns(records, 3)
	result.RiskVelocity = CalculateRiskVelocity(records)
	result.VulnerabilityTrend = result.OverallTrend

	a.logger.Debug("security trend analysis completed",
		zap.String("overall", string(result.OverallTrend)),
		zap.Float64("risk_velocity", result.RiskVelocity))

	return result
}

// AnalyzePerformanceTrends runs the performance batch analysis:
// direction per series, the degradation rules and the stability score.
// An empty batch yields STABLE directions and a zero score.
func (a *Analyzer) AnalyzePerformanceTrends(records []models.Record) *PerformanceTrendAnalysis {
	a.logger.Debug("analyzing performance trends", zap.Int("records", len(records)))

	result := &PerformanceTrendAnalysis{
		ResponseTimeTrend:   TrendStable,
		ThroughputTrend:     TrendStable,
		ErrorRateTrend:      TrendStable,
		DegradationPatterns: []DegradationPattern{},
		AnalyzedAt:          time.Now(),
	}

	if len(records) == 0 {
		return result
	}

	responseTimes := ExtractSeries(records, models.FieldAvgResponseTime, "")
	throughputs := ExtractSeries(records, models.FieldThroughput, "")
	errorRates := ExtractSeries(records, models.FieldErrorRate, "")

	result.ResponseTimeTrend = ClassifyTrend(responseTimes, a.cfg.SlopeThreshold)
	result.ThroughputTrend = ClassifyTrend(throughputs, a.cfg.SlopeThreshold)
	result.ErrorRateTrend = ClassifyTrend(errorRates, a.cfg.SlopeThreshold)
	result.DegradationPatterns = DetectDegradation(responseTimes, throughputs, errorRates, a.cfg)
	result.StabilityScore = CalculateStability(responseTimes, errorRates)

	a.logger.Debug("performance trend analysis completed",
		zap.String("response_time", string(result.ResponseTimeTrend)),
		zap.String("throughput", string(result.ThroughputTrend)),
		zap.String("error_rate", string(result.ErrorRateTrend)))

	return result
}
