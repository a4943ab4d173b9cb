package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	dErrors "povertymap/pkg/domain-errors"
)

// ErrNotLoaded is returned by a Store that has never completed a load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Source is what the Store needs from a loader.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Store holds the outcome views are served from. Reload swaps it atomically.
type Store struct {
	source  Source
	logger  *slog.Logger
	current atomic.Pointer[outcome]
}

// NewStore builds a store over source. Call Reload once before serving.
func NewStore(source Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{source: source, logger: logger}
}

// Current returns the snapshot in service, or the load error it stands for.
func (s *Store) Current() (*Snapshot, error) {
	o := s.current.Load()
	if o == nil {
		return nil, dErrors.Wrap(ErrNotLoaded, dErrors.CodeSourceNotFound, "dataset not loaded yet")
	}
	return o.snap, o.err
}

// Reload loads the sources again and replaces the current outcome with the
// result, whether it is a snapshot or an error.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	snap, err := s.source.Load(ctx)
	next := &outcome{snap: snap, err: err}
	if snap != nil {
		next.fingerprint = snap.Fingerprint()
	}

	prev := s.current.Swap(next)
	if prev != nil && prev.snap != nil && snap != nil && prev.snap.ID() != snap.ID() {
		s.logger.InfoContext(ctx, "snapshot replaced",
			"previous_id", prev.snap.ID(),
			"snapshot_id", snap.ID(),
		)
	}
	return snap, err
}
