package analyzer

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// weekdaySeries builds days consecutive points starting 2025-06-02, a
// Monday, with weekend values replaced by weekendValue.
func weekdaySeries(days int, weekdayValue, weekendValue float64) []TimeSeriesPoint {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	points := make([]TimeSeriesPoint, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		v := weekdayValue
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			v = weekendValue
		}
		points[i] = TimeSeriesPoint{Date: d.Format("2006-01-02"), Value: v}
	}
	return points
}

func TestDetectSeasonalPatterns_WeekendDip(t *testing.T) {
	points := weekdaySeries(21, 100, 60)

	patterns := DetectSeasonalPatterns(points, GranularityDayOfWeek, 0.2)
	if len(patterns) != 2 {
		t.Fatalf("Expected 2 patterns (Saturday, Sunday), got %d: %v", len(patterns), patterns)
	}

	if patterns[0].PeriodLabel != "Saturday" || patterns[1].PeriodLabel != "Sunday" {
		t.Errorf("Expected Saturday then Sunday, got %s then %s",
			patterns[0].PeriodLabel, patterns[1].PeriodLabel)
	}
	for _, p := range patterns {
		if !strings.Contains(p.Description, "below") {
			t.Errorf("Expected a below-mean description, got %q", p.Description)
		}
		if p.Confidence <= 0 || p.Confidence > 1 {
			t.Errorf("Confidence out of range: %.4f", p.Confidence)
		}
	}
}

func TestDetectSeasonalPatterns_HourOfDay(t *testing.T) {
	// Three days sampled at 00:00, 06:00, 12:00 and 18:00, with a clear
	// midday peak.
	points := []TimeSeriesPoint{}
	for day := 2; day <= 4; day++ {
		for _, hour := range []int{0, 6, 12, 18} {
			v := 100.0
			if hour == 12 {
				v = 200.0
			}
			points = append(points, TimeSeriesPoint{
				Date:  fmt.Sprintf("2025-06-%02dT%02d:00:00", day, hour),
				Value: v,
			})
		}
	}

	patterns := DetectSeasonalPatterns(points, GranularityHourOfDay, 0.2)
	if len(patterns) != 1 {
		t.Fatalf("Expected 1 pattern, got %d: %v", len(patterns), patterns)
	}
	if patterns[0].PeriodLabel != "12:00" {
		t.Errorf("Expected 12:00 bucket, got %s", patterns[0].PeriodLabel)
	}
	if !strings.Contains(patterns[0].Description, "above") {
		t.Errorf("Expected an above-mean description, got %q", patterns[0].Description)
	}
}

func TestDetectSeasonalPatterns_TooFewPoints(t *testing.T) {
	points := weekdaySeries(6, 100, 10)

	if patterns := DetectSeasonalPatterns(points, GranularityDayOfWeek, 0.2); len(patterns) != 0 {
		t.Errorf("Expected no patterns below 7 points, got %d", len(patterns))
	}
}

func TestDetectSeasonalPatterns_UniformSeries(t *testing.T) {
	points := weekdaySeries(21, 100, 100)

	if patterns := DetectSeasonalPatterns(points, GranularityDayOfWeek, 0.2); len(patterns) != 0 {
		t.Errorf("Expected no patterns for uniform series, got %d", len(patterns))
	}
}

func TestDetectSeasonalPatterns_UndateablePointsSkipped(t *testing.T) {
	points := weekdaySeries(21, 100, 60)
	points = append(points, TimeSeriesPoint{Date: "not-a-date", Value: 1e9})

	patterns := DetectSeasonalPatterns(points, GranularityDayOfWeek, 0.2)
	if len(patterns) != 2 {
		t.Errorf("Undateable point should be ignored, got %d patterns", len(patterns))
	}
}
