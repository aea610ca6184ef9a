package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/biswatma/zerocoder/pkg/audit"
)

// DefaultMemoryMaxRecords caps a MemoryStorage created with a zero limit.
const DefaultMemoryMaxRecords = 10000

// MemoryStorage keeps records in memory, evicting the oldest once
// maxRecords is reached. Records are lost on restart.
type MemoryStorage struct {
	mu         sync.RWMutex
	records    []*audit.Record
	maxRecords int
}

// NewMemoryStorage creates an in-memory backend.
func NewMemoryStorage(maxRecords int) *MemoryStorage {
	if maxRecords <= 0 {
		maxRecords = DefaultMemoryMaxRecords
	}
	return &MemoryStorage{maxRecords: maxRecords}
}

// Store appends a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	if err := ctx.Err(); err != nil {
		return audit.NewStorageError("memory", "store", err)
	}

	recordCopy := *record

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) >= s.maxRecords {
		n := len(s.records) - s.maxRecords + 1
		s.records = append(s.records[:0], s.records[n:]...)
	}
	s.records = append(s.records, &recordCopy)
	return nil
}

// Query returns copies of the matching records, newest first.
func (s *MemoryStorage) Query(ctx context.Context, q *audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	var results []*audit.Record
	for _, r := range s.records {
		if q.Matches(r) {
			recordCopy := *r
			results = append(results, &recordCopy)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	if q == nil {
		return results, nil
	}
	if q.Offset > 0 {
		if q.Offset >= len(results) {
			return []*audit.Record{}, nil
		}
		results = results[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(results) {
		results = results[:q.Limit]
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, q *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.records {
		if q.Matches(r) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore removes records started before cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.StartedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	clear(s.records[len(kept):])
	s.records = kept
	return deleted, nil
}

// Ping always succeeds.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Close drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
