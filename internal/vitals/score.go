package vitals

import "math"

// scoreCeiling is the reference value (5s) against which per-metric scores
// decay linearly. CLS reports a 0-1-ish shift score and so naturally sits
// near the top of this scale; that asymmetry is inherited behavior and is
// kept identical for every metric.
const scoreCeiling = 5000.0

// MetricScoreBreakdown is the contribution of one metric to an overall
// performance score.
type MetricScoreBreakdown struct {
	Score  int
	Weight float64
	Value  float64
	Rating Rating
}

// PerformanceScoreBreakdown is the weighted 0-100 performance score for one
// device class, with the per-metric contributions that produced it.
type PerformanceScoreBreakdown struct {
	Overall     int
	Metrics     map[MetricName]MetricScoreBreakdown
	Device      DeviceClass
	SampleCount int
}

// Distribution is the share of raw samples per rating bucket, each rounded
// independently to the nearest integer percent. The three values may not sum
// to exactly 100; that is an accepted rounding artifact.
type Distribution struct {
	Good             int
	NeedsImprovement int
	Poor             int
}

// metricWeight returns the weight of a metric in the overall score for a
// device class. Each device's weights sum to 1.0. Interaction latency is
// weighted heavier on mobile, where responsiveness dominates perceived
// quality.
func metricWeight(metric MetricName, device DeviceClass) float64 {
	switch metric {
	case MetricLCP:
		if device == DeviceMobile {
			return 0.25
		}
		return 0.30
	case MetricINP:
		if device == DeviceMobile {
			return 0.30
		}
		return 0.25
	case MetricCLS:
		return 0.15
	case MetricFCP:
		return 0.15
	case MetricTTFB:
		return 0.15
	default:
		return 0
	}
}

// MetricScore maps a metric's p75 value onto a 0-100 score: a linear decay
// against the 5-second ceiling, clamped to [0, 100]. Worse values never
// score higher.
func MetricScore(value float64) int {
	score := math.Round(100 * (1 - value/scoreCeiling))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// ComputeScore combines the p75 values of metrics with at least one sample
// into one weighted overall score for the given device class. Metrics absent
// from the window contribute neither score nor weight.
func ComputeScore(device DeviceClass, vitals map[MetricName]AggregatedVital, sampleCount int) PerformanceScoreBreakdown {
	breakdown := PerformanceScoreBreakdown{
		Metrics:     make(map[MetricName]MetricScoreBreakdown),
		Device:      device,
		SampleCount: sampleCount,
	}

	var weightedSum, totalWeight float64
	for _, name := range MetricNames() {
		v, ok := vitals[name]
		if !ok || v.Count == 0 {
			continue
		}
		weight := metricWeight(name, device)
		score := MetricScore(v.P75)
		breakdown.Metrics[name] = MetricScoreBreakdown{
			Score:  score,
			Weight: weight,
			Value:  v.P75,
			Rating: v.Rating,
		}
		weightedSum += float64(score) * weight
		totalWeight += weight
	}

	if totalWeight > 0 {
		breakdown.Overall = int(math.Round(weightedSum / totalWeight))
	}
	return breakdown
}

// ComputeDistribution buckets the raw, unaggregated sample set by the rating
// assigned at ingestion, pooling all metrics together.
func ComputeDistribution(samples []Sample) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}

	var good, needsImprovement, poor int
	for _, s := range samples {
		switch s.Rating() {
		case RatingGood:
			good++
		case RatingNeedsImprovement:
			needsImprovement++
		case RatingPoor:
			poor++
		}
	}

	total := float64(len(samples))
	return Distribution{
		Good:             int(math.Round(float64(good) / total * 100)),
		NeedsImprovement: int(math.Round(float64(needsImprovement) / total * 100)),
		Poor:             int(math.Round(float64(poor) / total * 100)),
	}
}
