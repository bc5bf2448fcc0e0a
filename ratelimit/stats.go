package ratelimit

import (
	"context"
	"sync"
	"time"
)

// StatsEvent is one rate-limit decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Route   string // "METHOD /path"
	At      time.Time
}

// StatsStore persists decision counters. Callers treat errors as best effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

type Counters struct {
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
}

// MemoryStatsStore keeps process-local counters. It never expires anything.
type MemoryStatsStore struct {
	mu    sync.Mutex
	total Counters
	byKey map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{byKey: make(map[string]Counters)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bump(&s.total, ev.Allowed)
	if s.trackKeys {
		c := s.byKey[ev.Key]
		bump(&c, ev.Allowed)
		s.byKey[ev.Key] = c
	}
	return nil
}

func bump(c *Counters, allowed bool) {
	if allowed {
		c.Allowed++
	} else {
		c.Denied++
	}
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byKey))
	for k, v := range s.byKey {
		out[k] = v
	}
	return out
}

// Tee records every event in each store and returns the first error.
func Tee(stores ...StatsStore) StatsStore {
	return teeStore(stores)
}

type teeStore []StatsStore

func (t teeStore) Record(ctx context.Context, ev StatsEvent) error {
	var first error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
