package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gatewayz/rum-server/internal/port/driven"
	"github.com/gatewayz/rum-server/internal/vitals"
	"github.com/gatewayz/rum-server/metrics"
)

const (
	// DefaultMaxSamples caps the store size.
	DefaultMaxSamples = 10000

	// DefaultRetention is how long a sample stays queryable.
	DefaultRetention = 24 * time.Hour
)

var _ driven.SampleRepository = (*SampleStore)(nil)

// SampleStore is a bounded, append-ordered in-memory sample repository.
// Appends go to the tail and eviction removes from the head, which is
// correct because ingestion stamps server time, so insertion order is
// timestamp order.
type SampleStore struct {
	mu         sync.RWMutex
	samples    []vitals.Sample
	maxSamples int
	retention  time.Duration
}

// NewSampleStore creates a sample store with the given size cap and
// retention window. Non-positive arguments fall back to the defaults.
func NewSampleStore(maxSamples int, retention time.Duration) *SampleStore {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SampleStore{
		maxSamples: maxSamples,
		retention:  retention,
	}
}

// Append stores the sample at the tail and evicts expired and excess
// samples from the head.
func (s *SampleStore) Append(ctx context.Context, sample vitals.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, sample)
	s.evictExpired(time.Now())
	metrics.SetStoreSamples(len(s.samples))
	return nil
}

// evictExpired drops head samples older than the retention window, then
// drops further head samples while the store exceeds its cap. Must be
// called with the write lock held.
func (s *SampleStore) evictExpired(now time.Time) {
	cutoff := now.Add(-s.retention)

	drop := 0
	for drop < len(s.samples) && s.samples[drop].Timestamp().Before(cutoff) {
		drop++
	}
	if excess := len(s.samples) - drop - s.maxSamples; excess > 0 {
		drop += excess
	}
	if drop > 0 {
		s.samples = s.samples[drop:]
		metrics.RecordSamplesEvicted(drop)
	}
}

// Query returns a fresh slice of samples matching the filter, in insertion
// order.
func (s *SampleStore) Query(ctx context.Context, f driven.SampleFilter) ([]vitals.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]vitals.Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		if !f.Since.IsZero() && sample.Timestamp().Before(f.Since) {
			continue
		}
		if f.Device != "" && sample.Device() != f.Device {
			continue
		}
		if f.Path != "" && sample.Path() != f.Path {
			continue
		}
		result = append(result, sample)
	}
	return result, nil
}

// Ping verifies the store is usable. An in-memory store always is.
func (s *SampleStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of samples currently held.
func (s *SampleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}
