package analyzer

import (
	"sort"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// extractPoints builds the per-record series for a field: one point per
// record, stable-sorted ascending by date string so records sharing a
// date keep their input order.
func extractPoints(records []models.Record, field, dateField string) []TimeSeriesPoint {
	if dateField == "" {
		dateField = models.FieldExecutionDate
	}

	points := make([]TimeSeriesPoint, 0, len(records))
	for _, r := range records {
		points = append(points, TimeSeriesPoint{
			Date:  r.String(dateField),
			Value: r.Float(field),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}

// seriesValues strips the dates off a point series.
func seriesValues(points []TimeSeriesPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// ExtractSeries returns the field's values in chronological order, one
// per record. Missing or malformed fields coerce to 0 rather than
// aborting the batch. Re-extracting from a series' own points is the
// identity transform.
func ExtractSeries(records []models.Record, field, dateField string) []float64 {
	return seriesValues(extractPoints(records, field, dateField))
}

// DailySeries returns one point per distinct calendar day, summing
// values that share a day. Timestamps truncate to their date part.
func DailySeries(records []models.Record, field, dateField string) []TimeSeriesPoint {
	points := extractPoints(records, field, dateField)

	out := []TimeSeriesPoint{}
	for _, p := range points {
		day := dayKey(p.Date)
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].Value += p.Value
			continue
		}
		out = append(out, TimeSeriesPoint{Date: day, Value: p.Value})
	}

	return out
}

// dayKey truncates an ISO timestamp to its yyyy-mm-dd prefix. Strings
// that do not look like ISO dates pass through unchanged.
func dayKey(date string) string {
	if len(date) > 10 && date[4] == '-' && date[7] == '-' {
		return date[:10]
	}
	return date
}
