// Package snapshot owns the loaded dataset.
//
// A Snapshot is the immutable result of one load: the enriched governorate
// records, the reference tables they were joined with and the boundary file.
// Views receive a Snapshot explicitly and never see a half-loaded state. A
// reload builds a new Snapshot and swaps the Store's pointer; nothing is
// mutated in place.
package snapshot

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"povertymap/internal/poverty/geo"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
)

// Snapshot is one successful load.
type Snapshot struct {
	id          uuid.UUID
	loadedAt    time.Time
	fingerprint Fingerprint
	records     []models.GovernorateRecord
	reference   *reference.Table
	boundaries  *geo.Boundaries
	boundaryErr error
}

// New assembles a snapshot from already enriched records. Loader uses it; tests
// use it to build fixtures without touching the filesystem.
func New(records []models.GovernorateRecord, table *reference.Table, boundaries *geo.Boundaries, boundaryErr error) *Snapshot {
	return &Snapshot{
		id:          uuid.New(),
		loadedAt:    time.Now().UTC(),
		records:     slices.Clone(records),
		reference:   table,
		boundaries:  boundaries,
		boundaryErr: boundaryErr,
	}
}

func (s *Snapshot) ID() uuid.UUID {
	return s.id
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Fingerprint identifies the source files the snapshot was built from.
func (s *Snapshot) Fingerprint() Fingerprint {
	return s.fingerprint
}

// Records returns a copy of the enriched governorate table in source order.
func (s *Snapshot) Records() []models.GovernorateRecord {
	return slices.Clone(s.records)
}

// Record finds a governorate by canonical or display name.
func (s *Snapshot) Record(name string) (models.GovernorateRecord, bool) {
	for _, r := range s.records {
		if r.Name == name || r.DisplayName == name {
			return r, true
		}
	}
	return models.GovernorateRecord{}, false
}

// Reference returns the reference tables the records were enriched with.
func (s *Snapshot) Reference() *reference.Table {
	return s.reference
}

// Boundaries returns the boundary file, or the reason it could not be loaded.
// The boundary file only feeds the map, so its absence does not fail the load.
func (s *Snapshot) Boundaries() (*geo.Boundaries, error) {
	if s.boundaryErr != nil {
		return nil, s.boundaryErr
	}
	return s.boundaries, nil
}
