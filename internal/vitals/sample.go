package vitals

import (
	"math"
	"strings"
	"time"
)

// Sample represents a single Web Vitals observation reported by a client.
// It is an immutable value object.
type Sample struct {
	sessionID string
	path      string
	title     string
	device    DeviceClass
	metric    MetricName
	value     float64
	delta     float64
	rating    Rating
	timestamp time.Time
}

// NewSample creates a new sample with validation. An unrecognized device
// class falls back to desktop, and an empty or unrecognized rating is
// computed from the threshold tables. The timestamp is expected to be the
// server ingestion time, never a client-supplied clock.
func NewSample(
	sessionID string,
	path string,
	title string,
	device DeviceClass,
	metric MetricName,
	value float64,
	delta float64,
	rating Rating,
	timestamp time.Time,
) (Sample, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Sample{}, ErrEmptySessionID
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Sample{}, ErrEmptyPath
	}
	if !metric.Valid() {
		return Sample{}, ErrUnknownMetric
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return Sample{}, ErrInvalidValue
	}
	if timestamp.IsZero() {
		return Sample{}, ErrInvalidTimestamp
	}
	if !device.Valid() {
		device = DeviceDesktop
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		delta = value
	}
	if !rating.Valid() {
		rating = Rate(metric, value, device)
	}
	return Sample{
		sessionID: sessionID,
		path:      path,
		title:     title,
		device:    device,
		metric:    metric,
		value:     value,
		delta:     delta,
		rating:    rating,
		timestamp: timestamp,
	}, nil
}

// ReconstructSample rebuilds a Sample from persisted state.
// Intended for repository adapters only — bypasses validation.
func ReconstructSample(
	sessionID string,
	path string,
	title string,
	device DeviceClass,
	metric MetricName,
	value float64,
	delta float64,
	rating Rating,
	timestamp time.Time,
) Sample {
	return Sample{
		sessionID: sessionID,
		path:      path,
		title:     title,
		device:    device,
		metric:    metric,
		value:     value,
		delta:     delta,
		rating:    rating,
		timestamp: timestamp,
	}
}

func (s Sample) SessionID() string    { return s.sessionID }
func (s Sample) Path() string         { return s.path }
func (s Sample) Title() string        { return s.title }
func (s Sample) Device() DeviceClass  { return s.device }
func (s Sample) Metric() MetricName   { return s.metric }
func (s Sample) Value() float64       { return s.value }
func (s Sample) Delta() float64       { return s.delta }
func (s Sample) Rating() Rating       { return s.rating }
func (s Sample) Timestamp() time.Time { return s.timestamp }
