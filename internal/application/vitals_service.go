package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gatewayz/rum-server/internal/port/driven"
	"github.com/gatewayz/rum-server/internal/vitals"
	"github.com/gatewayz/rum-server/metrics"
)

// ErrInvalidBatch is returned when a batch fails top-level validation.
// Individual invalid metric entries never produce this error; they are
// skipped, because ingestion is best-effort and must not fail the client's
// page-load path.
var ErrInvalidBatch = errors.New("invalid vitals batch")

// SampleInput is one metric entry in an ingest batch.
type SampleInput struct {
	Name   string
	Value  float64
	Delta  *float64
	Rating string
}

// Batch is one client-submitted Web Vitals report: session-level fields plus
// the individual metric observations. Client timestamps are ignored; the
// server clock stamps every sample to prevent skew and fraud.
type Batch struct {
	SessionID string
	Path      string
	Title     string
	Device    string
	Metrics   []SampleInput
}

// SummaryQuery selects the window and segment for GetSummary.
type SummaryQuery struct {
	Hours  int    // query window in hours; defaults to 24
	Device string // "all", empty, or one concrete device class
	Path   string // optional exact path filter
}

// TimeRange is the resolved window bounds of a summary.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Summary is the aggregated view returned by GetSummary.
type Summary struct {
	Breakdown    vitals.PerformanceScoreBreakdown
	Distribution vitals.Distribution
	Vitals       map[vitals.MetricName]vitals.AggregatedVital
	PathCount    int
	SessionCount int
	Range        TimeRange
}

// PagesQuery selects, orders and paginates the page-level rows.
type PagesQuery struct {
	Limit     int
	Offset    int
	SortBy    string // score, opportunity, loads, or a metric name; defaults to opportunity
	SortOrder string // "asc" or "desc"; defaults to desc
	Search    string // case-insensitive substring match over path and title
}

// PageList is one page of page-level rows.
type PageList struct {
	Pages   []vitals.PageVitals
	Total   int
	HasMore bool
}

const (
	defaultSummaryHours = 24
	defaultPageLimit    = 20
	maxPageLimit        = 100
)

// VitalsService orchestrates sample ingestion and aggregation queries over
// the sample repository.
type VitalsService struct {
	repo   driven.SampleRepository
	logger *slog.Logger
}

// NewVitalsService creates a new VitalsService.
func NewVitalsService(repo driven.SampleRepository, logger *slog.Logger) *VitalsService {
	return &VitalsService{
		repo:   repo,
		logger: logger,
	}
}

// RecordSamples validates the batch, appends each valid metric entry to the
// store and returns how many were recorded. Invalid entries within a valid
// batch are skipped, not fatal.
func (s *VitalsService) RecordSamples(ctx context.Context, b Batch) (int, error) {
	if strings.TrimSpace(b.SessionID) == "" {
		metrics.RecordBatchRejected()
		return 0, fmt.Errorf("%w: missing session id", ErrInvalidBatch)
	}
	if strings.TrimSpace(b.Path) == "" {
		metrics.RecordBatchRejected()
		return 0, fmt.Errorf("%w: missing path", ErrInvalidBatch)
	}
	if len(b.Metrics) == 0 {
		metrics.RecordBatchRejected()
		return 0, fmt.Errorf("%w: empty metrics", ErrInvalidBatch)
	}

	batchID := uuid.New().String()
	device := vitals.ParseDeviceClass(b.Device)
	now := time.Now()

	recorded := 0
	dropped := 0
	for _, in := range b.Metrics {
		name, ok := vitals.ParseMetricName(in.Name)
		if !ok {
			dropped++
			metrics.RecordSampleDropped("unknown_metric")
			continue
		}
		if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value < 0 {
			dropped++
			metrics.RecordSampleDropped("invalid_value")
			continue
		}

		delta := in.Value
		if in.Delta != nil {
			delta = *in.Delta
		}

		sample, err := vitals.NewSample(
			b.SessionID, b.Path, b.Title, device,
			name, in.Value, delta, vitals.Rating(in.Rating), now,
		)
		if err != nil {
			dropped++
			metrics.RecordSampleDropped("invalid_sample")
			continue
		}

		if err := s.repo.Append(ctx, sample); err != nil {
			return recorded, fmt.Errorf("failed to append sample: %w", err)
		}
		metrics.RecordSampleRecorded(string(name))
		recorded++
	}

	s.logger.Debug("vitals batch recorded",
		"batch_id", batchID,
		"session_id", b.SessionID,
		"path", b.Path,
		"device", device,
		"recorded", recorded,
		"dropped", dropped,
	)
	return recorded, nil
}

// GetSummary aggregates the samples in the query window into the per-metric
// vitals, the weighted score breakdown and the rating distribution. It never
// fails on empty data; every derived value has a zero-value shape.
func (s *VitalsService) GetSummary(ctx context.Context, q SummaryQuery) (Summary, error) {
	hours := q.Hours
	if hours <= 0 {
		hours = defaultSummaryHours
	}
	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	filter := driven.SampleFilter{Since: from, Path: q.Path}

	// The desktop tables rate and weight the pooled "all" segment.
	segment := vitals.DeviceDesktop
	if q.Device != "" && q.Device != "all" {
		segment = vitals.ParseDeviceClass(q.Device)
		filter.Device = segment
	}

	samples, err := s.repo.Query(ctx, filter)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to query samples: %w", err)
	}

	byMetric := make(map[vitals.MetricName][]vitals.Sample)
	paths := make(map[string]struct{})
	sessions := make(map[string]struct{})
	for _, sample := range samples {
		byMetric[sample.Metric()] = append(byMetric[sample.Metric()], sample)
		paths[sample.Path()] = struct{}{}
		sessions[sample.SessionID()] = struct{}{}
	}

	aggregated := make(map[vitals.MetricName]vitals.AggregatedVital, len(vitals.MetricNames()))
	for _, name := range vitals.MetricNames() {
		aggregated[name] = vitals.Aggregate(name, segment, byMetric[name])
	}

	return Summary{
		Breakdown:    vitals.ComputeScore(segment, aggregated, len(samples)),
		Distribution: vitals.ComputeDistribution(samples),
		Vitals:       aggregated,
		PathCount:    len(paths),
		SessionCount: len(sessions),
		Range:        TimeRange{From: from, To: to},
	}, nil
}

// GetPages returns the page-level rows, filtered by the optional search
// term, sorted by the requested field and paginated by offset/limit.
func (s *VitalsService) GetPages(ctx context.Context, q PagesQuery) (PageList, error) {
	samples, err := s.repo.Query(ctx, driven.SampleFilter{})
	if err != nil {
		return PageList{}, fmt.Errorf("failed to query samples: %w", err)
	}

	pages := vitals.AggregatePages(samples)

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := pages[:0]
		for _, p := range pages {
			if strings.Contains(strings.ToLower(p.Path), needle) ||
				strings.Contains(strings.ToLower(p.Title), needle) {
				filtered = append(filtered, p)
			}
		}
		pages = filtered
	}

	sortPages(pages, q.SortBy, q.SortOrder)

	total := len(pages)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return PageList{
		Pages:   pages[offset:end],
		Total:   total,
		HasMore: end < total,
	}, nil
}

// sortPages orders rows by the requested numeric field. Unknown fields fall
// back to opportunity, the default prioritization order.
func sortPages(pages []vitals.PageVitals, sortBy, sortOrder string) {
	value := func(p vitals.PageVitals) float64 {
		switch strings.ToLower(sortBy) {
		case "score":
			return float64(p.Score)
		case "loads":
			return float64(p.Loads)
		case "", "opportunity":
			return p.Opportunity
		}
		if name, ok := vitals.ParseMetricName(sortBy); ok {
			return p.Vitals[name].P75
		}
		return p.Opportunity
	}

	asc := strings.EqualFold(sortOrder, "asc")
	slices.SortStableFunc(pages, func(a, b vitals.PageVitals) int {
		va, vb := value(a), value(b)
		if asc {
			va, vb = vb, va
		}
		switch {
		case va < vb:
			return 1
		case va > vb:
			return -1
		default:
			return 0
		}
	})
}
