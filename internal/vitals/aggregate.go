package vitals

import (
	"math"
	"slices"
	"time"
)

// Trend indicates the direction a metric is moving within a query window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// trendBand is the percentage change below which movement between the two
// halves of the window is treated as noise rather than a trend.
const trendBand = 5.0

// HistoryPoint is one hourly bucket of a metric's history.
type HistoryPoint struct {
	Timestamp time.Time
	Value     float64
	Rating    Rating
}

// AggregatedVital summarizes one metric over a set of samples.
type AggregatedVital struct {
	Name            MetricName
	P75             float64
	Rating          Rating
	Count           int
	Trend           Trend
	TrendPercentage float64
	History         []HistoryPoint
}

// Aggregate computes the per-metric summary for samples of the given metric.
// The device class selects the threshold table used to rate the computed
// percentiles. Samples must be in insertion (time) order, which is the order
// the store returns them in.
//
// An empty input produces a zero-value result (p75 0, rating good, stable
// trend, empty history) so callers never divide by zero or rate absent data.
func Aggregate(name MetricName, device DeviceClass, samples []Sample) AggregatedVital {
	if len(samples) == 0 {
		return AggregatedVital{
			Name:    name,
			Rating:  RatingGood,
			Trend:   TrendStable,
			History: []HistoryPoint{},
		}
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value()
	}

	p75 := percentile75(values)
	trend, trendPct := computeTrend(values)

	return AggregatedVital{
		Name:            name,
		P75:             p75,
		Rating:          Rate(name, p75, device),
		Count:           len(samples),
		Trend:           trend,
		TrendPercentage: trendPct,
		History:         buildHistory(name, device, samples),
	}
}

// percentile75 computes the nearest-rank 75th percentile without
// interpolation: sorted[floor(n*0.75)].
func percentile75(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[len(sorted)*3/4]
}

// computeTrend compares the mean of the second half of the time-ordered
// values against the mean of the first half. Every supported metric is
// lower-is-better, so a negative change is an improvement. Movement within
// the stability band is reported as stable.
func computeTrend(values []float64) (Trend, float64) {
	mid := len(values) / 2
	first := values[:mid]
	second := values[mid:]
	if len(first) == 0 || len(second) == 0 {
		return TrendStable, 0
	}

	firstMean := mean(first)
	if firstMean == 0 {
		return TrendStable, 0
	}
	secondMean := mean(second)

	pct := (secondMean - firstMean) / firstMean * 100
	pct = math.Round(pct*10) / 10

	switch {
	case pct < -trendBand:
		return TrendImproving, pct
	case pct > trendBand:
		return TrendDeclining, pct
	default:
		return TrendStable, pct
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// buildHistory groups samples into hourly buckets, computes the nearest-rank
// p75 within each bucket and rates it. Empty buckets are omitted, so the
// series is sparse. Points are returned in ascending time order.
func buildHistory(name MetricName, device DeviceClass, samples []Sample) []HistoryPoint {
	buckets := make(map[int64][]float64)
	for _, s := range samples {
		hour := s.Timestamp().Truncate(time.Hour).Unix()
		buckets[hour] = append(buckets[hour], s.Value())
	}

	hours := make([]int64, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	slices.Sort(hours)

	history := make([]HistoryPoint, 0, len(hours))
	for _, hour := range hours {
		p75 := percentile75(buckets[hour])
		history = append(history, HistoryPoint{
			Timestamp: time.Unix(hour, 0),
			Value:     p75,
			Rating:    Rate(name, p75, device),
		})
	}
	return history
}
