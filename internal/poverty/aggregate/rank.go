// Package aggregate holds the pure statistics behind every view: rankings,
// top-N selections, per-region descriptive statistics and the few derived
// figures the dashboard quotes.
//
// Nothing here coerces a missing rate. Every routine that needs a rate fails
// with CodeMissingValue instead.
package aggregate

import (
	"slices"

	"povertymap/internal/poverty/models"
	dErrors "povertymap/pkg/domain-errors"
)

// NationalRate is the INS national poverty rate for 2015. It is a cited figure,
// not an aggregate of the governorate table.
const NationalRate = 15.3

// Direction orders a top-N selection.
type Direction string

const (
	Descending Direction = "desc"
	Ascending  Direction = "asc"
)

// ParseDirection accepts "desc" and "asc"; empty means Descending.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Descending:
		return Descending, nil
	case Ascending:
		return Ascending, nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "direction must be %q or %q", Descending, Ascending)
}

// RankOf returns the 1-based descending rank of rate among all: one plus the
// number of strictly greater rates. Equal rates share a rank.
func RankOf(rate float64, all []float64) int {
	rank := 1
	for _, r := range all {
		if r > rate {
			rank++
		}
	}
	return rank
}

// Rank ranks one record against records.
func Rank(record models.GovernorateRecord, records []models.GovernorateRecord) (int, error) {
	rate, ok := record.PovertyRate.Value()
	if !ok {
		return 0, missing(record)
	}
	all, err := Rates(records)
	if err != nil {
		return 0, err
	}
	return RankOf(rate, all), nil
}

// Rates extracts every rate, failing on the first missing one.
func Rates(records []models.GovernorateRecord) ([]float64, error) {
	out := make([]float64, len(records))
	for i, r := range records {
		v, ok := r.PovertyRate.Value()
		if !ok {
			return nil, missing(r)
		}
		out[i] = v
	}
	return out, nil
}

// TopN returns the n records with the highest (Descending) or lowest
// (Ascending) rates. The sort is stable so ties keep input order. n <= 0 or an
// empty input yields an empty result; n larger than the input yields all of it.
func TopN(records []models.GovernorateRecord, n int, dir Direction) ([]models.GovernorateRecord, error) {
	if n <= 0 || len(records) == 0 {
		return []models.GovernorateRecord{}, nil
	}
	if _, err := Rates(records); err != nil {
		return nil, err
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.GovernorateRecord) int {
		av, _ := a.PovertyRate.Value()
		bv, _ := b.PovertyRate.Value()
		if dir == Ascending {
			return compare(av, bv)
		}
		return compare(bv, av)
	})
	return sorted[:min(n, len(sorted))], nil
}

// SortByRate returns a copy of records ordered by descending rate, ties in
// input order.
func SortByRate(records []models.GovernorateRecord) ([]models.GovernorateRecord, error) {
	return TopN(records, len(records), Descending)
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func missing(r models.GovernorateRecord) error {
	return dErrors.Newf(dErrors.CodeMissingValue, "governorate %q has no poverty rate", r.Name)
}
