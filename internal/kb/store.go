// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kb holds the in-memory knowledge base: the current record set and
// the refresh machinery that keeps it current. Readers always see a complete
// generation; refreshes build the next generation off to the side and swap
// it in atomically.
package kb

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/support-engine/pkg/types"
)

// now is overridden in tests to control the freshness gate.
var now = time.Now

// Generation is one immutable record set plus its provenance. Once
// installed it is never mutated; a refresh installs a new one. IDs increase
// monotonically per store.
type Generation struct {
	ID        int64
	Records   []types.Record
	FetchedAt time.Time
	Source    string
}

// Store serves the current generation and refreshes it from a remote
// source. All methods are safe for concurrent use.
type Store struct {
	remote   Source
	fallback Source
	interval time.Duration
	log      *zap.Logger

	current atomic.Pointer[Generation]
	nextID  atomic.Int64
	group   singleflight.Group
}

// New builds a store over the given sources. fallback may be nil when no
// local snapshot is configured. The refresh interval is clamped so a
// misconfigured value cannot hammer the sheet.
func New(remote Source, fallback Source, cfg types.KnowledgeBaseConfig, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = types.DefaultRefreshInterval
	}
	if interval < types.MinRefreshInterval {
		interval = types.MinRefreshInterval
	}
	return &Store{
		remote:   remote,
		fallback: fallback,
		interval: interval,
		log:      log,
	}
}

// Interval returns the clamped refresh interval.
func (s *Store) Interval() time.Duration {
	return s.interval
}

// Ready reports whether a record set has been loaded.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Records returns the current record set, or ErrEmpty before the first
// successful load. Callers must not modify the returned slice.
func (s *Store) Records() ([]types.Record, error) {
	gen := s.current.Load()
	if gen == nil {
		return nil, ErrEmpty
	}
	return gen.Records, nil
}

// Len returns the number of records in the current generation.
func (s *Store) Len() int {
	gen := s.current.Load()
	if gen == nil {
		return 0
	}
	return len(gen.Records)
}

// Current returns the current generation, or nil before the first load.
func (s *Store) Current() *Generation {
	return s.current.Load()
}

// LoadInitial performs the startup load: the remote source first, then the
// fallback. When both fail the returned error carries both causes.
func (s *Store) LoadInitial(ctx context.Context) error {
	remoteErr := s.Refresh(ctx, true)
	if remoteErr == nil {
		return nil
	}
	if s.fallback == nil {
		return remoteErr
	}

	s.log.Warn("remote fetch failed, trying fallback",
		zap.String("fallback", s.fallback.Name()),
		zap.Error(remoteErr))

	records, fallbackErr := fetchFrom(ctx, s.fallback)
	if fallbackErr != nil {
		return errors.Join(remoteErr, fallbackErr)
	}
	s.install(records, s.fallback.Name())
	return nil
}

// Refresh fetches a new record set from the remote source and swaps it in.
// Unforced refreshes are a no-op while the current generation is younger
// than the refresh interval; force bypasses that gate. Concurrent callers
// share a single in-flight fetch. On failure the current generation is
// retained.
func (s *Store) Refresh(ctx context.Context, force bool) error {
	if !force {
		if gen := s.current.Load(); gen != nil && now().Sub(gen.FetchedAt) < s.interval {
			return nil
		}
	}

	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		records, err := fetchFrom(ctx, s.remote)
		if err != nil {
			s.log.Warn("refresh failed, keeping current records", zap.Error(err))
			return nil, err
		}
		s.install(records, s.remote.Name())
		return nil, nil
	})
	return err
}

// Run refreshes the store periodically until ctx is cancelled. Refresh
// failures are logged and retried at the next tick.
func (s *Store) Run(ctx context.Context) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.Refresh(ctx, false); err != nil {
				s.log.Warn("periodic refresh failed", zap.Error(err))
			}
			timer.Reset(s.interval)
		}
	}
}

func (s *Store) install(records []types.Record, source string) {
	gen := &Generation{
		ID:        s.nextID.Add(1),
		Records:   records,
		FetchedAt: now(),
		Source:    source,
	}
	s.current.Store(gen)
	s.log.Info("knowledge base updated",
		zap.Int64("generation", gen.ID),
		zap.Int("records", len(records)),
		zap.String("source", source))
}

// fetchFrom wraps a source fetch, rejecting empty record sets so a truncated
// sheet cannot wipe a serving store.
func fetchFrom(ctx context.Context, src Source) ([]types.Record, error) {
	records, err := src.Fetch(ctx)
	if err != nil {
		return nil, &FetchError{Source: src.Name(), Err: err}
	}
	if len(records) == 0 {
		return nil, &FetchError{Source: src.Name(), Err: ErrEmpty}
	}
	return records, nil
}
