package analyzer

import (
	"math"
	"testing"
)

func hasPattern(patterns []DegradationPattern, typ string) bool {
	for _, p := range patterns {
		if p.Type == typ {
			return true
		}
	}
	return false
}

func TestDetectDegradation_ResponseTime(t *testing.T) {
	cfg := DefaultConfig()

	slow := []float64{6000, 6000, 6000}
	patterns := DetectDegradation(slow, nil, nil, cfg)
	if !hasPattern(patterns, DegradationResponseTime) {
		t.Errorf("Expected response_time_degradation for mean 6000, got %v", patterns)
	}

	fine := []float64{4000, 4000, 4000}
	patterns = DetectDegradation(fine, nil, nil, cfg)
	if hasPattern(patterns, DegradationResponseTime) {
		t.Errorf("Did not expect response_time_degradation for mean 4000, got %v", patterns)
	}
}

func TestDetectDegradation_DecliningThroughput(t *testing.T) {
	cfg := DefaultConfig()

	patterns := DetectDegradation(nil, []float64{100, 90, 80, 70, 60}, nil, cfg)
	if !hasPattern(patterns, DegradationThroughput) {
		t.Errorf("Expected throughput_degradation for declining series, got %v", patterns)
	}

	patterns = DetectDegradation(nil, []float64{100, 100, 100}, nil, cfg)
	if hasPattern(patterns, DegradationThroughput) {
		t.Errorf("Did not expect throughput_degradation for flat series, got %v", patterns)
	}
}

func TestDetectDegradation_ErrorRate(t *testing.T) {
	cfg := DefaultConfig()

	patterns := DetectDegradation(nil, nil, []float64{0.08, 0.09, 0.07}, cfg)
	if !hasPattern(patterns, DegradationErrorRate) {
		t.Errorf("Expected error_rate_increase for mean 0.08, got %v", patterns)
	}

	patterns = DetectDegradation(nil, nil, []float64{0.01, 0.02, 0.01}, cfg)
	if hasPattern(patterns, DegradationErrorRate) {
		t.Errorf("Did not expect error_rate_increase for mean 0.013, got %v", patterns)
	}
}

func TestDetectDegradation_RulesFireIndependently(t *testing.T) {
	cfg := DefaultConfig()

	patterns := DetectDegradation(
		[]float64{7000, 7000, 7000},
		[]float64{100, 80, 60},
		[]float64{0.1, 0.1, 0.1},
		cfg,
	)

	if len(patterns) != 3 {
		t.Fatalf("Expected all 3 rules to fire, got %d: %v", len(patterns), patterns)
	}
}

func TestDetectDegradation_EmptySeriesSkipped(t *testing.T) {
	if patterns := DetectDegradation(nil, nil, nil, DefaultConfig()); len(patterns) != 0 {
		t.Errorf("Expected no patterns for empty input, got %v", patterns)
	}
}

func TestCalculateStability(t *testing.T) {
	tests := []struct {
		name          string
		responseTimes []float64
		errorRates    []float64
		want          float64
	}{
		{
			name:          "steady with low errors",
			responseTimes: []float64{100, 100, 100},
			errorRates:    []float64{0.1, 0.1},
			want:          90, // 100 - 0 - 10
		},
		{
			name:          "variable response times",
			responseTimes: []float64{100, 300},
			errorRates:    []float64{0},
			want:          90, // CV 0.5 costs 10 points
		},
		{
			name:          "clamped at zero",
			responseTimes: []float64{100, 100},
			errorRates:    []float64{1.5, 1.5},
			want:          0,
		},
		{
			name: "no data",
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStability(tt.responseTimes, tt.errorRates)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateStability = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}
