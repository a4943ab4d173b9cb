// Package geo loads the governorate boundary file used by the choropleth view.
package geo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/text/unicode/norm"

	dErrors "povertymap/pkg/domain-errors"
)

// NameProperty is the feature property that carries the governorate join key.
const NameProperty = "NAME_1"

// Boundary is one governorate polygon keyed by its NAME_1 property.
type Boundary struct {
	Key        string
	Geometry   geom.T
	Bounds     *geom.Bounds
	Properties map[string]any
}

// Center returns the midpoint of the boundary's bounding box, used to place labels.
func (b Boundary) Center() (lon, lat float64) {
	return (b.Bounds.Min(0) + b.Bounds.Max(0)) / 2, (b.Bounds.Min(1) + b.Bounds.Max(1)) / 2
}

// Boundaries is a parsed, read-only boundary file.
type Boundaries struct {
	features []Boundary
	byKey    map[string]int
	bounds   *geom.Bounds
}

// Read loads a GeoJSON FeatureCollection from path.
func Read(path string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, dErrors.Newf(dErrors.CodeSourceNotFound, "%s not found", path)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceNotFound, "read "+path)
	}
	return Parse(path, data)
}

// Parse decodes a FeatureCollection. Every feature must carry a geometry and a
// non-empty, unique NAME_1 property.
func Parse(origin string, data []byte) (*Boundaries, error) {
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, origin)
	}
	if len(fc.Features) == 0 {
		return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: no features", origin)
	}

	b := &Boundaries{
		features: make([]Boundary, 0, len(fc.Features)),
		byKey:    make(map[string]int, len(fc.Features)),
		bounds:   geom.NewBounds(geom.XY),
	}
	for i, f := range fc.Features {
		key, err := featureKey(f)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeSourceMalformed, fmt.Sprintf("%s: feature %d", origin, i))
		}
		if _, dup := b.byKey[key]; dup {
			return nil, dErrors.Newf(dErrors.CodeSourceMalformed, "%s: duplicate %s %q", origin, NameProperty, key)
		}
		b.byKey[key] = len(b.features)
		b.features = append(b.features, Boundary{
			Key:        key,
			Geometry:   f.Geometry,
			Bounds:     f.Geometry.Bounds(),
			Properties: f.Properties,
		})
		b.bounds.Extend(f.Geometry)
	}
	return b, nil
}

func featureKey(f *geojson.Feature) (string, error) {
	if f == nil || f.Geometry == nil {
		return "", errors.New("missing geometry")
	}
	raw, ok := f.Properties[NameProperty]
	if !ok {
		return "", fmt.Errorf("missing %s property", NameProperty)
	}
	name, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s is %T, want string", NameProperty, raw)
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("empty %s property", NameProperty)
	}
	return name, nil
}

// Len returns the number of features.
func (b *Boundaries) Len() int {
	return len(b.features)
}

// Keys returns the join keys in file order.
func (b *Boundaries) Keys() []string {
	keys := make([]string, len(b.features))
	for i, f := range b.features {
		keys[i] = f.Key
	}
	return keys
}

// All returns the boundaries in file order.
func (b *Boundaries) All() []Boundary {
	out := make([]Boundary, len(b.features))
	copy(out, b.features)
	return out
}

// Lookup finds a boundary by join key.
func (b *Boundaries) Lookup(key string) (Boundary, bool) {
	i, ok := b.byKey[norm.NFC.String(key)]
	if !ok {
		return Boundary{}, false
	}
	return b.features[i], true
}

// Bounds returns the extent of every feature, for map fitting.
func (b *Boundaries) Bounds() *geom.Bounds {
	return b.bounds.Clone()
}
