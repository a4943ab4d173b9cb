package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"povertymap/internal/poverty/models"
)

// RegionStats describes the governorate rates of one region.
//
// StdDev is the sample standard deviation (n-1). It is nil for a region with a
// single member, where the sample formula is undefined.
type RegionStats struct {
	Region string   `json:"region"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	StdDev *float64 `json:"std_dev"`
}

// Rounded returns a copy with every statistic rounded to places decimals.
func (s RegionStats) Rounded(places int) RegionStats {
	out := s
	out.Mean = Round(s.Mean, places)
	out.Median = Round(s.Median, places)
	out.Min = Round(s.Min, places)
	out.Max = Round(s.Max, places)
	if s.StdDev != nil {
		sd := Round(*s.StdDev, places)
		out.StdDev = &sd
	}
	return out
}

// GroupedStats computes per-region statistics, sorted by region name. An empty
// input yields an empty result.
func GroupedStats(records []models.GovernorateRecord) ([]RegionStats, error) {
	groups := make(map[string][]float64)
	for _, r := range records {
		v, ok := r.PovertyRate.Value()
		if !ok {
			return nil, missing(r)
		}
		groups[r.Region] = append(groups[r.Region], v)
	}

	out := make([]RegionStats, 0, len(groups))
	for region, rates := range groups {
		out = append(out, describe(region, rates))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

// RatesByRegion groups rates per region, sorted by region name, for charts.
func RatesByRegion(records []models.GovernorateRecord) ([]string, [][]float64, error) {
	stats, err := GroupedStats(records)
	if err != nil {
		return nil, nil, err
	}
	index := make(map[string]int, len(stats))
	regions := make([]string, len(stats))
	for i, s := range stats {
		regions[i] = s.Region
		index[s.Region] = i
	}
	values := make([][]float64, len(stats))
	for _, r := range records {
		v, _ := r.PovertyRate.Value()
		i := index[r.Region]
		values[i] = append(values[i], v)
	}
	return regions, values, nil
}

func describe(region string, rates []float64) RegionStats {
	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)

	s := RegionStats{
		Region: region,
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: median(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		sd := stat.StdDev(sorted, nil)
		s.StdDev = &sd
	}
	return s
}

// median of an ascending slice; the mean of the middle pair for even lengths.
// stat.Quantile uses the lower value instead, which is not what the report quotes.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Round rounds half away from zero to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
