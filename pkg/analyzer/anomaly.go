package analyzer

import "math"

// DetectAnomalies flags points whose z-score against the series' own
// population mean and standard deviation exceeds threshold. A series
// shorter than 3 points reports nothing; so does a constant series,
// where every point equals the mean with no dispersion to measure.
func DetectAnomalies(points []TimeSeriesPoint, threshold float64) []Anomaly {
	anomalies := []Anomaly{}

	if len(points) < 3 {
		return anomalies
	}

	values := seriesValues(points)
	m := mean(values)
	sd := stdDev(values, m)
	if sd < 1e-10 {
		return anomalies
	}

	for _, p := range points {
		z := math.Abs(p.Value-m) / sd
		if z > threshold {
			anomalies = append(anomalies, Anomaly{
				Date:           p.Date,
				ObservedValue:  p.Value,
				DeviationScore: z,
				Classification: "Statistical outlier",
			})
		}
	}

	return anomalies
}
