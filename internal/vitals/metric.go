package vitals

import "strings"

// MetricName identifies one of the five supported Web Vitals metrics.
// All metrics report in milliseconds except CLS, which is a dimensionless
// layout shift score.
type MetricName string

const (
	MetricLCP  MetricName = "LCP"  // Largest Contentful Paint
	MetricINP  MetricName = "INP"  // Interaction to Next Paint
	MetricCLS  MetricName = "CLS"  // Cumulative Layout Shift
	MetricFCP  MetricName = "FCP"  // First Contentful Paint
	MetricTTFB MetricName = "TTFB" // Time to First Byte
)

// MetricNames returns every supported metric in a fixed order.
func MetricNames() []MetricName {
	return []MetricName{MetricLCP, MetricINP, MetricCLS, MetricFCP, MetricTTFB}
}

// Valid reports whether m is a recognized metric name.
func (m MetricName) Valid() bool {
	switch m {
	case MetricLCP, MetricINP, MetricCLS, MetricFCP, MetricTTFB:
		return true
	}
	return false
}

// ParseMetricName maps a client-supplied metric name to a MetricName.
// The second return value is false for unrecognized names.
func ParseMetricName(s string) (MetricName, bool) {
	m := MetricName(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", false
	}
	return m, true
}
