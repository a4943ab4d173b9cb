// Package reference holds the versioned lookup tables of the 2015 poverty map:
// the governorate -> region partition, the governorate -> boundary-file join
// keys, the curated regional summary and the report narrative.
//
// The tables ship embedded in the binary and are validated once at startup.
// Every table is enumerable so tests can check partition totality against the
// real source file.
package reference

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"povertymap/internal/poverty/models"
	dErrors "povertymap/pkg/domain-errors"
)

//go:embed reference_2015.yaml
var embedded2015 []byte

// Governorate is one row of the partition table.
type Governorate struct {
	Name        string `yaml:"name" json:"name"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Region      string `yaml:"region" json:"region"`
	GeoKey      string `yaml:"geo_key,omitempty" json:"geo_key,omitempty"`
}

type regionEntry struct {
	models.RegionSummaryRecord `yaml:",inline"`
	Insight                    models.RegionInsight `yaml:"insight"`
}

// Extreme names one entity at the edge of a distribution.
type Extreme struct {
	Name        string  `yaml:"name" json:"name"`
	PovertyRate float64 `yaml:"poverty_rate" json:"poverty_rate"`
}

// Narrative is the static text the INS report attaches to the figures.
type Narrative struct {
	KeyInsights struct {
		HighPoverty       []string `yaml:"high_poverty" json:"high_poverty"`
		CorrelatedFactors []string `yaml:"correlated_factors" json:"correlated_factors"`
	} `yaml:"key_insights" json:"key_insights"`
	Correlations struct {
		Negative   []string `yaml:"negative" json:"negative"`
		Positive   []string `yaml:"positive" json:"positive"`
		KeyInsight string   `yaml:"key_insight" json:"key_insight"`
	} `yaml:"correlations" json:"correlations"`
	DelegationExtremes struct {
		Poorest Extreme `yaml:"poorest" json:"poorest"`
		Richest Extreme `yaml:"richest" json:"richest"`
	} `yaml:"delegation_extremes" json:"delegation_extremes"`
	About       []string `yaml:"about" json:"about"`
	Definitions []string `yaml:"definitions" json:"definitions"`
	Limits      []string `yaml:"limits" json:"limits"`
}

type document struct {
	Version      string        `yaml:"version"`
	Source       string        `yaml:"source"`
	Governorates []Governorate `yaml:"governorates"`
	Regions      []regionEntry `yaml:"regions"`
	Narrative    Narrative     `yaml:"narrative"`
}

// Table is the validated, read-only reference data. Accessors return copies.
type Table struct {
	version      *semver.Version
	source       string
	governorates []Governorate
	byName       map[string]int
	regions      []models.RegionSummaryRecord
	byRegion     map[string]int
	insights     map[string]models.RegionInsight
	narrative    Narrative
}

// Default parses the embedded 2015 tables.
func Default() (*Table, error) {
	return Parse(embedded2015)
}

// Parse decodes and validates reference data. Any inconsistency is a
// configuration error: the service must not start on a broken partition.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "decode reference data")
	}

	v, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "reference data version")
	}

	t := &Table{
		version:   v,
		source:    doc.Source,
		byName:    make(map[string]int, len(doc.Governorates)),
		byRegion:  make(map[string]int, len(doc.Regions)),
		insights:  make(map[string]models.RegionInsight, len(doc.Regions)),
		narrative: doc.Narrative,
	}

	for _, g := range doc.Governorates {
		g.Name = norm.NFC.String(strings.TrimSpace(g.Name))
		if g.Name == "" || g.Region == "" {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "governorate entry %q is incomplete", g.Name)
		}
		if _, dup := t.byName[g.Name]; dup {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "governorate %q is mapped twice", g.Name)
		}
		if g.DisplayName == "" {
			g.DisplayName = g.Name
		}
		t.byName[g.Name] = len(t.governorates)
		t.governorates = append(t.governorates, g)
	}
	if len(t.governorates) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "reference data has no governorates")
	}

	for _, r := range doc.Regions {
		rec := r.RegionSummaryRecord
		if _, dup := t.byRegion[rec.RegionName]; dup {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "region %q is listed twice", rec.RegionName)
		}
		if rec.PovertyRate < 0 || rec.PovertyRate > 100 {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "region %q rate %.1f out of range", rec.RegionName, rec.PovertyRate)
		}
		if rec.Population <= 0 {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "region %q has no population", rec.RegionName)
		}
		t.byRegion[rec.RegionName] = len(t.regions)
		t.regions = append(t.regions, rec)
		t.insights[rec.RegionName] = r.Insight
	}

	if err := t.checkRegionSets(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkRegionSets enforces that the summary table and the partition describe
// the same regions.
func (t *Table) checkRegionSets() error {
	partition := t.PartitionRegions()
	summary := make([]string, 0, len(t.regions))
	for _, r := range t.regions {
		summary = append(summary, r.RegionName)
	}
	sort.Strings(summary)
	if !slices.Equal(partition, summary) {
		return dErrors.Newf(dErrors.CodeConfiguration,
			"region summary %v does not match governorate partition %v", summary, partition)
	}
	return nil
}

// Version returns the semantic version of the tables.
func (t *Table) Version() string {
	return t.version.String()
}

// Source returns the citation of the curated figures.
func (t *Table) Source() string {
	return t.source
}

// Governorates lists the partition in table order.
func (t *Table) Governorates() []Governorate {
	return slices.Clone(t.governorates)
}

// Lookup finds a governorate by canonical name. Names are compared in NFC form.
func (t *Table) Lookup(name string) (Governorate, bool) {
	i, ok := t.byName[norm.NFC.String(name)]
	if !ok {
		return Governorate{}, false
	}
	return t.governorates[i], true
}

// RegionOf returns the region of a governorate.
func (t *Table) RegionOf(name string) (string, bool) {
	g, ok := t.Lookup(name)
	return g.Region, ok
}

// GeoKey returns the boundary-file join key for a governorate. Names without an
// explicit key are spelled the same in both sources.
func (t *Table) GeoKey(name string) string {
	if g, ok := t.Lookup(name); ok && g.GeoKey != "" {
		return g.GeoKey
	}
	return name
}

// PartitionRegions returns the distinct regions of the partition, sorted.
func (t *Table) PartitionRegions() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 7)
	for _, g := range t.governorates {
		if _, ok := seen[g.Region]; ok {
			continue
		}
		seen[g.Region] = struct{}{}
		out = append(out, g.Region)
	}
	sort.Strings(out)
	return out
}

// Regions lists the summary table in curated order.
func (t *Table) Regions() []models.RegionSummaryRecord {
	out := make([]models.RegionSummaryRecord, len(t.regions))
	for i, r := range t.regions {
		r.MemberNames = slices.Clone(r.MemberNames)
		out[i] = r
	}
	return out
}

// Region returns one summary row by name.
func (t *Table) Region(name string) (models.RegionSummaryRecord, bool) {
	i, ok := t.byRegion[name]
	if !ok {
		return models.RegionSummaryRecord{}, false
	}
	r := t.regions[i]
	r.MemberNames = slices.Clone(r.MemberNames)
	return r, true
}

// Insight returns the narrative for a region.
func (t *Table) Insight(region string) (models.RegionInsight, bool) {
	in, ok := t.insights[region]
	return in, ok
}

// Narrative returns the report text.
func (t *Table) Narrative() Narrative {
	return t.narrative
}

func (t *Table) String() string {
	return fmt.Sprintf("reference %s (%d governorates, %d regions)", t.Version(), len(t.governorates), len(t.regions))
}
