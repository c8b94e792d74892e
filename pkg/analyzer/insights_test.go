package analyzer

import "testing"

func insightCodes(insights []TrendInsight) []string {
	codes := make([]string, len(insights))
	for i, ins := range insights {
		codes[i] = ins.Code
	}
	return codes
}

func hasInsight(insights []TrendInsight, code string) bool {
	for _, ins := range insights {
		if ins.Code == code {
			return true
		}
	}
	return false
}

func TestBuildInsights_Direction(t *testing.T) {
	tests := []struct {
		direction    TrendDirection
		wantCode     string
		wantSeverity InsightSeverity
	}{
		{TrendImproving, "positive_trend", InsightInfo},
		{TrendDeclining, "negative_trend", InsightWarning},
		{TrendStable, "stable_trend", InsightInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			r := &TrendAnalysisResult{Direction: tt.direction, Strength: 0.5}
			insights := BuildInsights("Success rate", r, 0.2)

			if len(insights) == 0 {
				t.Fatal("Expected at least the direction insight")
			}
			if insights[0].Code != tt.wantCode {
				t.Errorf("Expected %s first, got %s", tt.wantCode, insights[0].Code)
			}
			if insights[0].Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, insights[0].Severity)
			}
		})
	}
}

func TestBuildInsights_StrengthBands(t *testing.T) {
	strong := BuildInsights("Success rate", &TrendAnalysisResult{Direction: TrendImproving, Strength: 0.9}, 0.2)
	if !hasInsight(strong, "strong_trend") {
		t.Errorf("Expected strong_trend at strength 0.9, got %v", insightCodes(strong))
	}

	weak := BuildInsights("Success rate", &TrendAnalysisResult{Direction: TrendStable, Strength: 0.1}, 0.2)
	if !hasInsight(weak, "weak_trend") {
		t.Errorf("Expected weak_trend at strength 0.1, got %v", insightCodes(weak))
	}

	middling := BuildInsights("Success rate", &TrendAnalysisResult{Direction: TrendStable, Strength: 0.5}, 0.2)
	if hasInsight(middling, "strong_trend") || hasInsight(middling, "weak_trend") {
		t.Errorf("Expected no strength insight at 0.5, got %v", insightCodes(middling))
	}
}

func TestBuildInsights_VolatilityAnomaliesSeasonal(t *testing.T) {
	r := &TrendAnalysisResult{
		Direction:  TrendStable,
		Strength:   0.5,
		Volatility: 0.35,
		Anomalies: []Anomaly{
			{Date: "2025-06-03", ObservedValue: 12},
			{Date: "2025-06-09", ObservedValue: 90},
		},
		SeasonalPatterns: []SeasonalPattern{
			{PeriodLabel: "Sunday", Description: "Sunday values average 30.0% below the overall mean", Confidence: 0.8},
		},
	}

	insights := BuildInsights("Success rate", r, 0.2)

	if !hasInsight(insights, "high_volatility") {
		t.Errorf("Expected high_volatility, got %v", insightCodes(insights))
	}
	for _, ins := range insights {
		if ins.Code == "anomalies_detected" {
			if ins.Severity != InsightCaution {
				t.Errorf("Expected CAUTION for anomalies, got %s", ins.Severity)
			}
			if ins.Message != "2 anomalies detected in the data" {
				t.Errorf("Unexpected anomaly message %q", ins.Message)
			}
		}
	}
	if !hasInsight(insights, "anomalies_detected") {
		t.Errorf("Expected anomalies_detected, got %v", insightCodes(insights))
	}
	if !hasInsight(insights, "seasonal_pattern") {
		t.Errorf("Expected seasonal_pattern, got %v", insightCodes(insights))
	}
}

func TestMetricLabel(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"success_rate", "Success rate"},
		{"avg_response_time", "Avg response time"},
		{"", "Metric"},
	}

	for _, tt := range tests {
		if got := metricLabel(tt.field); got != tt.want {
			t.Errorf("metricLabel(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
