package analyzer

import "math"

// ClassifyTrend determines the direction of a series via the sign of its
// least-squares slope against the index. Slopes within slopeThreshold of
// zero, and series shorter than 2 points, are STABLE.
func ClassifyTrend(values []float64, slopeThreshold float64) TrendDirection {
	if len(values) < 2 {
		return TrendStable
	}

	slope := leastSquaresSlope(values)

	switch {
	case math.Abs(slope) < slopeThreshold:
		return TrendStable
	case slope > 0:
		return TrendImproving
	default:
		return TrendDeclining
	}
}

// leastSquaresSlope fits y = m*x + b over x = 0..n-1 and returns m.
// A near-zero denominator yields slope 0.
func leastSquaresSlope(values []float64) float64 {
	n := float64(len(values))

	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0

	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denominator
}

// TrendStrength returns the absolute Pearson correlation between index
// and value: 0 means no linear relationship, 1 a perfect one. Fewer than
// 2 points, or zero variance in the values, yields 0.
func TrendStrength(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}

	return math.Abs(correlation(x, values))
}

// correlation computes the Pearson correlation coefficient from
// mean-centered sums of squares. Zero variance in either series yields 0
// rather than dividing by zero.
func correlation(x, y []float64) float64 {
	meanX := mean(x)
	meanY := mean(y)

	numerator := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for i := range x {
		xDiff := x[i] - meanX
		yDiff := y[i] - meanY
		numerator += xDiff * yDiff
		sumX2 += xDiff * xDiff
		sumY2 += yDiff * yDiff
	}

	denominator := math.Sqrt(sumX2 * sumY2)
	if math.Abs(denominator) < 1e-10 {
		return 0
	}

	return numerator / denominator
}
