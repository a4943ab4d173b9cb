package aggregate

import (
	"math"
	"sort"

	"povertymap/internal/poverty/models"
	dErrors "povertymap/pkg/domain-errors"
)

// EstimatePoorPopulation returns round(population * rate / 100), rounding half
// away from zero.
func EstimatePoorPopulation(population int64, rate float64) int64 {
	return int64(math.Round(float64(population) * rate / 100))
}

// DeviationFromNational returns rate - national.
func DeviationFromNational(rate, national float64) float64 {
	return rate - national
}

// Deviation is DeviationFromNational for a record against NationalRate.
func Deviation(record models.GovernorateRecord) (float64, error) {
	v, ok := record.PovertyRate.Value()
	if !ok {
		return 0, missing(record)
	}
	return DeviationFromNational(v, NationalRate), nil
}

// Extreme names the entity at one end of a distribution.
type Extreme struct {
	Name        string  `json:"name"`
	PovertyRate float64 `json:"poverty_rate"`
}

// Gap is the spread between the poorest and the richest entity.
type Gap struct {
	Poorest Extreme `json:"poorest"`
	Richest Extreme `json:"richest"`
	Points  float64 `json:"points"`
	// Ratio is Poorest/Richest; zero when the richest rate is zero.
	Ratio float64 `json:"ratio"`
}

func newGap(poorest, richest Extreme) Gap {
	g := Gap{
		Poorest: poorest,
		Richest: richest,
		Points:  Round(poorest.PovertyRate-richest.PovertyRate, 1),
	}
	if richest.PovertyRate > 0 {
		g.Ratio = Round(poorest.PovertyRate/richest.PovertyRate, 1)
	}
	return g
}

// GovernorateGap measures the disparity across governorates. Ties resolve to
// the first record in input order.
func GovernorateGap(records []models.GovernorateRecord) (Gap, error) {
	if len(records) == 0 {
		return Gap{}, dErrors.New(dErrors.CodeMissingValue, "no governorates to compare")
	}
	var hi, lo Extreme
	for i, r := range records {
		v, ok := r.PovertyRate.Value()
		if !ok {
			return Gap{}, missing(r)
		}
		e := Extreme{Name: r.DisplayName, PovertyRate: v}
		if i == 0 || v > hi.PovertyRate {
			hi = e
		}
		if i == 0 || v < lo.PovertyRate {
			lo = e
		}
	}
	return newGap(hi, lo), nil
}

// RegionGap measures the disparity across the curated regional summary.
func RegionGap(regions []models.RegionSummaryRecord) (Gap, error) {
	if len(regions) == 0 {
		return Gap{}, dErrors.New(dErrors.CodeMissingValue, "no regions to compare")
	}
	hi := Extreme{Name: regions[0].RegionName, PovertyRate: regions[0].PovertyRate}
	lo := hi
	for _, r := range regions[1:] {
		if r.PovertyRate > hi.PovertyRate {
			hi = Extreme{Name: r.RegionName, PovertyRate: r.PovertyRate}
		}
		if r.PovertyRate < lo.PovertyRate {
			lo = Extreme{Name: r.RegionName, PovertyRate: r.PovertyRate}
		}
	}
	return newGap(hi, lo), nil
}

// ExtremeGap builds a Gap from two quoted extremes, such as the delegation
// figures of the report narrative.
func ExtremeGap(poorest, richest Extreme) Gap {
	return newGap(poorest, richest)
}

// CumulativeShare returns the Lorenz points of rates: the cumulative share of
// the total at each sorted position, starting at (0, 0). Used by the
// inequality chart.
func CumulativeShare(rates []float64) (x, y []float64) {
	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)
	total := 0.0
	for _, r := range sorted {
		total += r
	}
	x = make([]float64, len(sorted)+1)
	y = make([]float64, len(sorted)+1)
	if total == 0 {
		return x, y
	}
	acc := 0.0
	for i, r := range sorted {
		acc += r
		x[i+1] = float64(i+1) / float64(len(sorted))
		y[i+1] = acc / total
	}
	return x, y
}

// Gini returns the Gini coefficient of rates, computed from the Lorenz curve.
// An empty or all-zero input has no inequality.
func Gini(rates []float64) float64 {
	x, y := CumulativeShare(rates)
	if y[len(y)-1] == 0 {
		return 0
	}
	area := 0.0
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return 1 - 2*area
}
