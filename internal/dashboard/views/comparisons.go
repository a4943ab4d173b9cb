package views

import (
	"slices"

	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/snapshot"
)

// StatsPrecision is the number of decimals of the descriptive statistics.
const StatsPrecision = 2

// Disparities are the three headline gaps of the comparisons page.
type Disparities struct {
	Regional    aggregate.Gap `json:"regional"`
	Governorate aggregate.Gap `json:"governorate"`
	Delegation  aggregate.Gap `json:"delegation"`
}

// Correlations lists the factors the report associates with poverty.
type Correlations struct {
	Negative   []string `json:"negative"`
	Positive   []string `json:"positive"`
	KeyInsight string   `json:"key_insight"`
}

// LorenzPoint is one point of the cumulative share curve.
type LorenzPoint struct {
	Share   float64 `json:"share"`
	Poverty float64 `json:"poverty"`
}

// Inequality is the regional inequality curve: regions by ascending rate
// against the national line, with its Lorenz curve and Gini coefficient.
type Inequality struct {
	Regions      []RegionBar   `json:"regions"`
	NationalRate float64       `json:"national_rate"`
	Lorenz       []LorenzPoint `json:"lorenz"`
	Gini         float64       `json:"gini"`
}

// Comparisons is the cross-region analysis page.
type Comparisons struct {
	Stats        []aggregate.RegionStats `json:"stats"`
	Disparities  Disparities             `json:"disparities"`
	Correlations Correlations            `json:"correlations"`
	Inequality   Inequality              `json:"inequality"`
}

// BuildComparisons computes the per-region governorate statistics and the
// disparity figures.
func BuildComparisons(snap *snapshot.Snapshot) (Comparisons, error) {
	records := snap.Records()
	table := snap.Reference()
	regions := table.Regions()

	stats, err := aggregate.GroupedStats(records)
	if err != nil {
		return Comparisons{}, err
	}
	for i := range stats {
		stats[i] = stats[i].Rounded(StatsPrecision)
	}

	regional, err := aggregate.RegionGap(regions)
	if err != nil {
		return Comparisons{}, err
	}
	governorate, err := aggregate.GovernorateGap(records)
	if err != nil {
		return Comparisons{}, err
	}
	narrative := table.Narrative()
	delegation := aggregate.ExtremeGap(
		aggregate.Extreme(narrative.DelegationExtremes.Poorest),
		aggregate.Extreme(narrative.DelegationExtremes.Richest),
	)

	rates := make([]float64, len(regions))
	for i, r := range regions {
		rates[i] = r.PovertyRate
	}
	x, y := aggregate.CumulativeShare(rates)
	lorenz := make([]LorenzPoint, len(x))
	for i := range x {
		lorenz[i] = LorenzPoint{Share: aggregate.Round(x[i], 3), Poverty: aggregate.Round(y[i], 3)}
	}

	return Comparisons{
		Stats: stats,
		Disparities: Disparities{
			Regional:    regional,
			Governorate: governorate,
			Delegation:  delegation,
		},
		Correlations: Correlations{
			Negative:   slices.Clone(narrative.Correlations.Negative),
			Positive:   slices.Clone(narrative.Correlations.Positive),
			KeyInsight: narrative.Correlations.KeyInsight,
		},
		Inequality: Inequality{
			Regions:      regionBars(regions, ""),
			NationalRate: aggregate.NationalRate,
			Lorenz:       lorenz,
			Gini:         aggregate.Round(aggregate.Gini(rates), 3),
		},
	}, nil
}
