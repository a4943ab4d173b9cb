package views

import (
	"maps"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"povertymap/internal/poverty/geo"
	"povertymap/internal/poverty/snapshot"
	dErrors "povertymap/pkg/domain-errors"
)

// FeatureIDKey tells map clients which property joins features to rows.
const FeatureIDKey = "properties." + geo.NameProperty

// Choropleth is the map view: the boundary file joined with the governorate
// table.
type Choropleth struct {
	Features     *geojson.FeatureCollection `json:"features"`
	FeatureIDKey string                     `json:"feature_id_key"`
	// Bounds is [min lon, min lat, max lon, max lat] of the joined features.
	Bounds []float64 `json:"bounds"`
	// Unmatched lists governorates whose join key has no boundary.
	Unmatched []string `json:"unmatched"`
	// UnusedBoundaries lists boundary keys no governorate joined to.
	UnusedBoundaries []string `json:"unused_boundaries"`
}

// BuildChoropleth joins every governorate to its boundary through the
// reference geo keys. A missing boundary file makes the view unavailable
// without affecting the other views.
func BuildChoropleth(snap *snapshot.Snapshot) (Choropleth, error) {
	boundaries, err := snap.Boundaries()
	if err != nil {
		return Choropleth{}, err
	}
	if boundaries == nil {
		return Choropleth{}, dErrors.New(dErrors.CodeSourceNotFound, "no boundary file loaded")
	}

	table := snap.Reference()
	records := snap.Records()
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	bounds := geom.NewBounds(geom.XY)
	used := make(map[string]bool, boundaries.Len())
	view := Choropleth{
		FeatureIDKey:     FeatureIDKey,
		Unmatched:        []string{},
		UnusedBoundaries: []string{},
	}

	for _, r := range records {
		key := table.GeoKey(r.Name)
		b, ok := boundaries.Lookup(key)
		if !ok {
			view.Unmatched = append(view.Unmatched, r.Name)
			continue
		}
		used[b.Key] = true

		props := maps.Clone(b.Properties)
		if props == nil {
			props = make(map[string]any, 5)
		}
		props["name"] = r.Name
		props["display_name"] = r.DisplayName
		props["region"] = r.Region
		if v, ok := r.PovertyRate.Value(); ok {
			props["poverty_rate"] = v
		} else {
			props["poverty_rate"] = nil
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.Name,
			Geometry:   b.Geometry,
			Properties: props,
		})
		bounds.Extend(b.Geometry)
	}

	for _, key := range boundaries.Keys() {
		if !used[key] {
			view.UnusedBoundaries = append(view.UnusedBoundaries, key)
		}
	}

	if len(fc.Features) > 0 {
		fc.BBox = bounds
		view.Bounds = []float64{bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)}
	}
	view.Features = fc
	return view, nil
}
