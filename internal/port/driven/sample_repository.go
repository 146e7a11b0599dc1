package driven

import (
	"context"
	"time"

	"github.com/gatewayz/rum-server/internal/vitals"
)

// SampleFilter narrows a sample query. Zero-valued fields are ignored.
type SampleFilter struct {
	// Since excludes samples observed before this instant.
	Since time.Time

	// Device restricts to one device class. Empty matches every class.
	Device vitals.DeviceClass

	// Path restricts to one normalized URL path. Empty matches every path.
	Path string
}

// SampleRepository defines the interface for Web Vitals sample storage.
// This is a driven port implemented by concrete adapters (in-memory by
// default, BoltDB for deployments that want samples to survive restarts).
type SampleRepository interface {
	// Append stores one validated sample at the tail and applies retention:
	// samples older than the retention window, or in excess of the size cap,
	// are dropped from the head. Samples must be appended in timestamp
	// order; head eviction correctness depends on it.
	Append(ctx context.Context, s vitals.Sample) error

	// Query returns the samples matching the filter in insertion order.
	// The result is a read-only projection; mutating it does not affect
	// the store.
	Query(ctx context.Context, f SampleFilter) ([]vitals.Sample, error)

	// Ping verifies the store is usable.
	Ping(ctx context.Context) error
}
