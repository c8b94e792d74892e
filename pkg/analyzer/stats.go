package analyzer

import "math"

// mean computes the average of values, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stdDev computes the population standard deviation around m.
func stdDev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - m
		sumSquaredDiff += diff * diff
	}

	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

// CalculateVolatility computes the coefficient of variation, a
// scale-independent dispersion measure. Fewer than 2 points or a zero
// mean yields 0.
func CalculateVolatility(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	if m == 0 {
		return 0
	}

	return stdDev(values, m) / m
}
