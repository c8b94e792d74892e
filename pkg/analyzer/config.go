package analyzer

// Config holds the tunable thresholds of the engine. The defaults mirror
// the values the test program has used historically.
type Config struct {
	// SlopeThreshold is the |slope| below which a series counts as STABLE.
	SlopeThreshold float64
	// AnomalyThreshold is the z-score above which a point is an outlier.
	AnomalyThreshold float64
	// VolatilityThreshold is the coefficient of variation above which
	// results count as inconsistent.
	VolatilityThreshold float64
	// ResponseTimeThreshold is the mean response time in milliseconds
	// above which response_time_degradation fires.
	ResponseTimeThreshold float64
	// ErrorRateThreshold is the mean error rate above which
	// error_rate_increase fires.
	ErrorRateThreshold float64
	// SeasonalDeviation is the relative deviation of a calendar bucket's
	// mean from the global mean required to report a seasonal pattern.
	SeasonalDeviation float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		SlopeThreshold:        0.01,
		AnomalyThreshold:      2.0,
		VolatilityThreshold:   0.2,
		ResponseTimeThreshold: 5000,
		ErrorRateThreshold:    0.05,
		SeasonalDeviation:     0.2,
	}
}
