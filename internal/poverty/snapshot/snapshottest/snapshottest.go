// Package snapshottest builds snapshots of the bundled 2015 dataset for tests.
package snapshottest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"povertymap/internal/poverty/enrich"
	"povertymap/internal/poverty/geo"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/poverty/source"
)

// Root returns the module root, where data/ and geo/ live.
func Root() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..")
}

// DataPath is the bundled governorate table.
func DataPath() string {
	return filepath.Join(Root(), "data", "poverty_tunisia.csv")
}

// GeoPath is the bundled boundary file.
func GeoPath() string {
	return filepath.Join(Root(), "geo", "tunisia_governorates.geojson")
}

// Table parses the embedded reference tables.
func Table(t testing.TB) *reference.Table {
	t.Helper()
	table, err := reference.Default()
	require.NoError(t, err)
	return table
}

// Records reads and enriches the bundled governorate table.
func Records(t testing.TB) []models.GovernorateRecord {
	t.Helper()
	rows, err := source.ReadTable(DataPath())
	require.NoError(t, err)
	records, err := enrich.Enrich(rows, Table(t))
	require.NoError(t, err)
	return records
}

// Load returns a snapshot of the bundled dataset, boundaries included.
func Load(t testing.TB) *snapshot.Snapshot {
	t.Helper()
	boundaries, err := geo.Read(GeoPath())
	require.NoError(t, err)
	return snapshot.New(Records(t), Table(t), boundaries, nil)
}

// WithRecords returns a snapshot of arbitrary records over the real reference
// tables and boundary file.
func WithRecords(t testing.TB, records []models.GovernorateRecord) *snapshot.Snapshot {
	t.Helper()
	boundaries, err := geo.Read(GeoPath())
	require.NoError(t, err)
	return snapshot.New(records, Table(t), boundaries, nil)
}
