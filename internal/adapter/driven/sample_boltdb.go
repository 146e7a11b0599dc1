package driven

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	port "github.com/gatewayz/rum-server/internal/port/driven"
	"github.com/gatewayz/rum-server/internal/vitals"
)

const samplesBucket = "samples"

// SampleBoltDBRepository implements the SampleRepository port using BoltDB,
// for deployments that want samples to survive restarts. Keys are
// timestamp-prefixed so cursor order is insertion order, and retention is
// applied from the head on every append, mirroring the in-memory store.
type SampleBoltDBRepository struct {
	db         *bbolt.DB
	maxSamples int
	retention  time.Duration

	mu    sync.Mutex
	count int
	seq   uint64
}

// NewSampleBoltDBRepository creates a new BoltDB-backed sample repository.
// It initializes the required bucket if it doesn't exist and counts the
// retained samples.
func NewSampleBoltDBRepository(db *bbolt.DB, maxSamples int, retention time.Duration) (*SampleBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if maxSamples <= 0 || retention <= 0 {
		return nil, errors.New("max samples and retention must be positive")
	}

	repo := &SampleBoltDBRepository{
		db:         db,
		maxSamples: maxSamples,
		retention:  retention,
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(samplesBucket))
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			repo.count++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

// sampleDTO is the JSON serialization format for a sample.
type sampleDTO struct {
	SessionID string  `json:"session_id"`
	Path      string  `json:"path"`
	Title     string  `json:"title,omitempty"`
	Device    string  `json:"device"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Delta     float64 `json:"delta"`
	Rating    string  `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// Append persists a sample and prunes expired and excess samples from the
// head of the bucket.
func (r *SampleBoltDBRepository) Append(ctx context.Context, s vitals.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(samplesBucket))
		if b == nil {
			return errors.New("samples bucket not found")
		}

		dto := sampleDTO{
			SessionID: s.SessionID(),
			Path:      s.Path(),
			Title:     s.Title(),
			Device:    string(s.Device()),
			Metric:    string(s.Metric()),
			Value:     s.Value(),
			Delta:     s.Delta(),
			Rating:    string(s.Rating()),
			Timestamp: s.Timestamp().UnixMilli(),
		}

		data, err := json.Marshal(dto)
		if err != nil {
			return err
		}

		r.seq++
		if err := b.Put(sampleKey(s.Timestamp(), r.seq), data); err != nil {
			return err
		}
		r.count++

		return r.prune(b, time.Now())
	})
}

// prune removes head entries older than the retention window, then head
// entries in excess of the size cap. Must be called with r.mu held inside
// a write transaction.
func (r *SampleBoltDBRepository) prune(b *bbolt.Bucket, now time.Time) error {
	cutoff := now.Add(-r.retention).UnixMilli()

	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if keyTimestamp(k) >= cutoff && r.count <= r.maxSamples {
			break
		}
		if err := c.Delete(); err != nil {
			return err
		}
		r.count--
	}
	return nil
}

// Query returns the samples matching the filter in insertion order.
func (r *SampleBoltDBRepository) Query(ctx context.Context, f port.SampleFilter) ([]vitals.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := []vitals.Sample{}

	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(samplesBucket))
		if b == nil {
			return errors.New("samples bucket not found")
		}

		c := b.Cursor()
		var k, v []byte
		if f.Since.IsZero() {
			k, v = c.First()
		} else {
			k, v = c.Seek(sinceKey(f.Since))
		}

		for ; k != nil; k, v = c.Next() {
			s, err := dtoToSample(v)
			if err != nil {
				return err
			}
			if f.Device != "" && s.Device() != f.Device {
				continue
			}
			if f.Path != "" && s.Path() != f.Path {
				continue
			}
			result = append(result, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Ping verifies the database is readable.
func (r *SampleBoltDBRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(samplesBucket)) == nil {
			return errors.New("samples bucket not found")
		}
		return nil
	})
}

// sampleKey builds a 16-byte key: big-endian unix-milli timestamp followed
// by a sequence number, so identical timestamps never collide and byte
// order equals time order.
func sampleKey(ts time.Time, seq uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(ts.UnixMilli()))
	binary.BigEndian.PutUint64(key[8:], seq)
	return key
}

// sinceKey is the smallest possible key at the given instant.
func sinceKey(ts time.Time) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(ts.UnixMilli()))
	return key
}

func keyTimestamp(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key[:8]))
}

func dtoToSample(data []byte) (vitals.Sample, error) {
	var dto sampleDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return vitals.Sample{}, err
	}
	return vitals.ReconstructSample(
		dto.SessionID,
		dto.Path,
		dto.Title,
		vitals.DeviceClass(dto.Device),
		vitals.MetricName(dto.Metric),
		dto.Value,
		dto.Delta,
		vitals.Rating(dto.Rating),
		time.UnixMilli(dto.Timestamp),
	), nil
}
