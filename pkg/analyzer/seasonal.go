package analyzer

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Granularity selects the calendar bucket for seasonal analysis.
type Granularity string

const (
	GranularityDayOfWeek Granularity = "day_of_week"
	GranularityHourOfDay Granularity = "hour_of_day"
)

// pointLayouts are the date shapes telemetry actually carries: plain SQL
// dates, SQL timestamps and RFC 3339.
var pointLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePointTime(date string) (time.Time, bool) {
	for _, layout := range pointLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func bucketLabel(t time.Time, g Granularity) string {
	if g == GranularityHourOfDay {
		return t.Format("15:00")
	}
	return t.Weekday().String()
}

// DetectSeasonalPatterns groups a series by calendar bucket and reports
// buckets whose mean deviates from the global mean by more than
// deviationThreshold (relative). Buckets need at least 2 samples and the
// series at least 7 dateable points; smaller samples would flag noise.
// Patterns come back strongest first.
func DetectSeasonalPatterns(points []TimeSeriesPoint, g Granularity, deviationThreshold float64) []SeasonalPattern {
	patterns := []SeasonalPattern{}

	if len(points) < 7 || deviationThreshold <= 0 {
		return patterns
	}

	buckets := map[string][]float64{}
	all := []float64{}
	for _, p := range points {
		t, ok := parsePointTime(p.Date)
		if !ok {
			continue
		}
		label := bucketLabel(t, g)
		buckets[label] = append(buckets[label], p.Value)
		all = append(all, p.Value)
	}

	if len(all) < 7 {
		return patterns
	}
	global := mean(all)
	if global == 0 {
		return patterns
	}

	for label, values := range buckets {
		if len(values) < 2 {
			continue
		}

		deviation := (mean(values) - global) / global
		if math.Abs(deviation) <= deviationThreshold {
			continue
		}

		direction := "above"
		if deviation < 0 {
			direction = "below"
		}

		// Confidence grows with how far past the threshold the bucket
		// sits and with how much of the series it covers.
		excess := math.Abs(deviation) / deviationThreshold
		share := float64(len(values)) / float64(len(all))
		confidence := math.Min(1.0, excess*(0.4+0.6*share))

		patterns = append(patterns, SeasonalPattern{
			PeriodLabel: label,
			Description: fmt.Sprintf("%s values average %.1f%% %s the overall mean", label, math.Abs(deviation)*100, direction),
			Confidence:  confidence,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].PeriodLabel < patterns[j].PeriodLabel
	})

	return patterns
}
