// Package views builds the dashboard view models.
//
// Every builder is a pure function of a snapshot and its parameters: no
// builder reads files, clocks or globals, so the same snapshot always yields
// the same view.
package views

import (
	"slices"

	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/snapshot"
)

// RegionBar is one bar of a regional rate chart.
type RegionBar struct {
	Region      string  `json:"region"`
	PovertyRate float64 `json:"poverty_rate"`
	Selected    bool    `json:"selected,omitempty"`
}

// PopulationPoint is one point of the population vs poverty scatter.
type PopulationPoint struct {
	Region      string  `json:"region"`
	Population  int64   `json:"population"`
	PovertyRate float64 `json:"poverty_rate"`
}

// KeyInsights is the headline text of the overview.
type KeyInsights struct {
	HighPoverty       []string `json:"high_poverty"`
	CorrelatedFactors []string `json:"correlated_factors"`
}

// Footer carries the data attribution shown under every page.
type Footer struct {
	Source           string   `json:"source"`
	ReferenceVersion string   `json:"reference_version"`
	About            []string `json:"about"`
	Definitions      []string `json:"definitions"`
	Limits           []string `json:"limits"`
}

// Overview is the landing page.
type Overview struct {
	NationalRate  float64           `json:"national_rate"`
	PoorestRegion aggregate.Extreme `json:"poorest_region"`
	RichestRegion aggregate.Extreme `json:"richest_region"`
	RegionalGap   aggregate.Gap     `json:"regional_gap"`
	Regions       []RegionBar       `json:"regions"`
	Population    []PopulationPoint `json:"population"`
	KeyInsights   KeyInsights       `json:"key_insights"`
	Governorates  int               `json:"governorates"`
	Footer        Footer            `json:"footer"`
}

// BuildOverview assembles the national headline figures from the curated
// regional table.
func BuildOverview(snap *snapshot.Snapshot) (Overview, error) {
	table := snap.Reference()
	regions := table.Regions()

	gap, err := aggregate.RegionGap(regions)
	if err != nil {
		return Overview{}, err
	}

	population := make([]PopulationPoint, len(regions))
	for i, r := range regions {
		population[i] = PopulationPoint{Region: r.RegionName, Population: r.Population, PovertyRate: r.PovertyRate}
	}

	narrative := table.Narrative()
	return Overview{
		NationalRate:  aggregate.NationalRate,
		PoorestRegion: gap.Poorest,
		RichestRegion: gap.Richest,
		RegionalGap:   gap,
		Regions:       regionBars(regions, ""),
		Population:    population,
		KeyInsights: KeyInsights{
			HighPoverty:       slices.Clone(narrative.KeyInsights.HighPoverty),
			CorrelatedFactors: slices.Clone(narrative.KeyInsights.CorrelatedFactors),
		},
		Governorates: len(snap.Records()),
		Footer:       BuildFooter(table),
	}, nil
}

// BuildFooter returns the attribution block for a reference table.
func BuildFooter(table *reference.Table) Footer {
	n := table.Narrative()
	return Footer{
		Source:           table.Source(),
		ReferenceVersion: table.Version(),
		About:            slices.Clone(n.About),
		Definitions:      slices.Clone(n.Definitions),
		Limits:           slices.Clone(n.Limits),
	}
}

// regionBars returns the regions ordered by ascending rate, flagging selected.
func regionBars(regions []models.RegionSummaryRecord, selected string) []RegionBar {
	bars := make([]RegionBar, len(regions))
	for i, r := range regions {
		bars[i] = RegionBar{Region: r.RegionName, PovertyRate: r.PovertyRate, Selected: r.RegionName == selected}
	}
	slices.SortStableFunc(bars, func(a, b RegionBar) int {
		switch {
		case a.PovertyRate < b.PovertyRate:
			return -1
		case a.PovertyRate > b.PovertyRate:
			return 1
		}
		return 0
	})
	return bars
}
