package analyzer

import (
	"fmt"
	"math"
)

// Degradation pattern types.
const (
	DegradationResponseTime = "response_time_degradation"
	DegradationThroughput   = "throughput_degradation"
	DegradationErrorRate    = "error_rate_increase"
)

// DetectDegradation applies the three independent degradation rules:
// mean response time over the threshold, declining throughput, mean
// error rate over the threshold. Any subset may fire; an empty series
// skips its rule.
func DetectDegradation(responseTimes, throughputs, errorRates []float64, cfg Config) []DegradationPattern {
	patterns := []DegradationPattern{}

	if len(responseTimes) > 0 {
		avg := mean(responseTimes)
		if avg > cfg.ResponseTimeThreshold {
			patterns = append(patterns, DegradationPattern{
				Type:   DegradationResponseTime,
				Detail: fmt.Sprintf("Average response time %.0fms exceeds %.0fms", avg, cfg.ResponseTimeThreshold),
				Value:  avg,
			})
		}
	}

	if len(throughputs) > 0 {
		if ClassifyTrend(throughputs, cfg.SlopeThreshold) == TrendDeclining {
			patterns = append(patterns, DegradationPattern{
				Type:   DegradationThroughput,
				Detail: "Throughput is declining over time",
			})
		}
	}

	if len(errorRates) > 0 {
		avg := mean(errorRates)
		if avg > cfg.ErrorRateThreshold {
			patterns = append(patterns, DegradationPattern{
				Type:   DegradationErrorRate,
				Detail: fmt.Sprintf("Error rate %.1f%% exceeds %.1f%%", avg*100, cfg.ErrorRateThreshold*100),
				Value:  avg,
			})
		}
	}

	return patterns
}

// CalculateStability scores run stability out of 100, penalizing
// response time variability at 20 points per unit of coefficient of
// variation and error rate at 100 points per unit, clamped to [0,100].
func CalculateStability(responseTimes, errorRates []float64) float64 {
	score := 100.0

	if len(responseTimes) > 0 {
		score -= CalculateVolatility(responseTimes) * 20
	}

	if len(errorRates) > 0 {
		score -= mean(errorRates) * 100
	}

	return math.Max(0, math.Min(100, score))
}
