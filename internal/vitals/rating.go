package vitals

// Rating classifies a metric value into the three Web Vitals buckets.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// Valid reports whether r is a recognized rating.
func (r Rating) Valid() bool {
	switch r {
	case RatingGood, RatingNeedsImprovement, RatingPoor:
		return true
	}
	return false
}

// thresholds returns the good and needs-improvement upper bounds for a
// metric on a device class. Mobile bounds are looser than desktop for the
// load-time metrics to absorb network and CPU variance; tablet sits between.
func thresholds(metric MetricName, device DeviceClass) (good, needsImprovement float64) {
	switch metric {
	case MetricLCP:
		switch device {
		case DeviceMobile:
			return 3000, 4800
		case DeviceTablet:
			return 2750, 4400
		default:
			return 2500, 4000
		}
	case MetricINP:
		return 200, 500
	case MetricCLS:
		return 0.1, 0.25
	case MetricFCP:
		switch device {
		case DeviceMobile:
			return 2200, 3600
		case DeviceTablet:
			return 2000, 3300
		default:
			return 1800, 3000
		}
	case MetricTTFB:
		switch device {
		case DeviceMobile:
			return 1000, 2200
		case DeviceTablet:
			return 900, 2000
		default:
			return 800, 1800
		}
	default:
		// Unreachable for valid metrics; classify everything as poor so an
		// unvalidated value can never be reported as healthy.
		return -1, -1
	}
}

// Rate classifies value against the per-metric, per-device threshold table.
// It is pure and is used both at ingestion time and on aggregated p75s.
func Rate(metric MetricName, value float64, device DeviceClass) Rating {
	good, needsImprovement := thresholds(metric, device)
	switch {
	case value <= good:
		return RatingGood
	case value <= needsImprovement:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}
