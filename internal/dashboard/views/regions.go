package views

import (
	"strings"

	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/snapshot"
	dErrors "povertymap/pkg/domain-errors"
)

// RegionRow is one line of the regional summary table.
type RegionRow struct {
	Region        string  `json:"region"`
	PovertyRate   float64 `json:"poverty_rate"`
	Population    int64   `json:"population"`
	EstimatedPoor int64   `json:"estimated_poor"`
	Members       string  `json:"members"`
}

// RegionList is the curated summary table in curated order.
type RegionList struct {
	Regions []RegionRow `json:"regions"`
	Source  string      `json:"source"`
}

// RegionDetail is the page of one region.
type RegionDetail struct {
	Region        string                     `json:"region"`
	PovertyRate   float64                    `json:"poverty_rate"`
	Population    int64                      `json:"population"`
	EstimatedPoor int64                      `json:"estimated_poor"`
	Members       []string                   `json:"members"`
	Governorates  []models.GovernorateRecord `json:"governorates"`
	NationalRate  float64                    `json:"national_rate"`
	Deviation     float64                    `json:"deviation"`
	AboveNational bool                       `json:"above_national"`
	Comparison    []RegionBar                `json:"comparison"`
	Insight       *models.RegionInsight      `json:"insight,omitempty"`
}

// BuildRegionList returns the summary table.
func BuildRegionList(snap *snapshot.Snapshot) RegionList {
	table := snap.Reference()
	regions := table.Regions()
	rows := make([]RegionRow, len(regions))
	for i, r := range regions {
		rows[i] = RegionRow{
			Region:        r.RegionName,
			PovertyRate:   r.PovertyRate,
			Population:    r.Population,
			EstimatedPoor: aggregate.EstimatePoorPopulation(r.Population, r.PovertyRate),
			Members:       r.Members(),
		}
	}
	return RegionList{Regions: rows, Source: table.Source()}
}

// BuildRegionDetail returns the page of the named region. Unknown regions are
// NotFound.
func BuildRegionDetail(snap *snapshot.Snapshot, name string) (RegionDetail, error) {
	table := snap.Reference()
	name = strings.TrimSpace(name)
	region, ok := table.Region(name)
	if !ok {
		return RegionDetail{}, dErrors.Newf(dErrors.CodeNotFound, "region %q not found", name)
	}

	governorates := make([]models.GovernorateRecord, 0, len(region.MemberNames))
	for _, r := range snap.Records() {
		if r.Region == region.RegionName {
			governorates = append(governorates, r)
		}
	}

	deviation := aggregate.Round(aggregate.DeviationFromNational(region.PovertyRate, aggregate.NationalRate), 1)
	detail := RegionDetail{
		Region:        region.RegionName,
		PovertyRate:   region.PovertyRate,
		Population:    region.Population,
		EstimatedPoor: aggregate.EstimatePoorPopulation(region.Population, region.PovertyRate),
		Members:       region.MemberNames,
		Governorates:  governorates,
		NationalRate:  aggregate.NationalRate,
		Deviation:     deviation,
		AboveNational: deviation > 0,
		Comparison:    regionBars(table.Regions(), region.RegionName),
	}
	if insight, ok := table.Insight(region.RegionName); ok {
		detail.Insight = &insight
	}
	return detail, nil
}
