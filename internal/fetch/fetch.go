// Package fetch populates report leaf cells from an upstream data source.
// The cache lives on an explicit Service held by the caller; there is no
// package-level state.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/credit360-dev/credit360/internal/model"
	"github.com/credit360-dev/credit360/internal/sheet"
)

// Source produces the current raw leaf values for a report session.
type Source interface {
	Fetch(ctx context.Context) (map[model.CellRef]decimal.Decimal, error)
}

// Snapshot is one set of fetched leaf values. Stale marks a snapshot served
// from cache after a failed refresh; staleness is a warning, not an error.
type Snapshot struct {
	Values    map[model.CellRef]decimal.Decimal
	FetchedAt time.Time
	Stale     bool
	Warning   string
}

// Service caches Source snapshots with a TTL. Concurrent refreshes collapse
// into a single upstream call; on fetch failure the last good snapshot is
// served stale rather than blocking callers.
type Service struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	last  *Snapshot
}

// NewService creates a Service over a source with the given cache TTL.
func NewService(source Source, ttl time.Duration) *Service {
	return &Service{source: source, ttl: ttl, now: time.Now}
}

// Snapshot returns the cached snapshot while fresh, refreshing from the
// source otherwise. A refresh failure with a cached snapshot available
// returns it marked stale; without one, the error propagates.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.last != nil && s.now().Sub(s.last.FetchedAt) < s.ttl {
		snap := *s.last
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		values, err := s.source.Fetch(ctx)
		if err != nil {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.last == nil {
				return nil, fmt.Errorf("fetching leaf values: %w", err)
			}
			snap := *s.last
			snap.Stale = true
			snap.Warning = fmt.Sprintf("serving snapshot from %s: refresh failed: %v",
				snap.FetchedAt.Format(time.RFC3339), err)
			return snap, nil
		}

		snap := Snapshot{Values: values, FetchedAt: s.now()}
		s.mu.Lock()
		s.last = &snap
		s.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Apply fetches a snapshot and writes its values into the book's leaves as
// one batch. The snapshot is returned so callers can surface staleness.
func (s *Service) Apply(ctx context.Context, book *sheet.Book) (Snapshot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if err := book.SetLeaves(snap.Values); err != nil {
		return Snapshot{}, fmt.Errorf("applying snapshot: %w", err)
	}
	return snap, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (map[model.CellRef]decimal.Decimal, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context) (map[model.CellRef]decimal.Decimal, error) {
	return f(ctx)
}
