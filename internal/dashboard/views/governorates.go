package views

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/snapshot"
	dErrors "povertymap/pkg/domain-errors"
)

// TopSize is the length of the poorest and richest lists on a governorate page.
const TopSize = 5

// GovernorateSort orders the governorate list.
type GovernorateSort string

const (
	SortAlpha GovernorateSort = "alpha"
	SortRate  GovernorateSort = "rate"
)

// ParseGovernorateSort accepts "alpha" (the default) or "rate".
func ParseGovernorateSort(s string) (GovernorateSort, error) {
	switch GovernorateSort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortAlpha:
		return SortAlpha, nil
	case SortRate:
		return SortRate, nil
	}
	return "", dErrors.Newf(dErrors.CodeBadRequest, "sort must be %q or %q, got %q", SortAlpha, SortRate, s)
}

// GovernorateList is every governorate row in the requested order.
type GovernorateList struct {
	Sort         GovernorateSort            `json:"sort"`
	NationalRate float64                    `json:"national_rate"`
	Governorates []models.GovernorateRecord `json:"governorates"`
}

// GovernorateDetail is the page of one governorate.
type GovernorateDetail struct {
	Governorate   models.GovernorateRecord   `json:"governorate"`
	Rank          int                        `json:"rank"`
	Total         int                        `json:"total"`
	RankLabel     string                     `json:"rank_label"`
	Deviation     float64                    `json:"deviation"`
	AboveNational bool                       `json:"above_national"`
	TopPoorest    []models.GovernorateRecord `json:"top_poorest"`
	TopRichest    []models.GovernorateRecord `json:"top_richest"`
}

// TopList is a ranked extract of the governorate table.
type TopList struct {
	N            int                        `json:"n"`
	Direction    aggregate.Direction        `json:"direction"`
	Governorates []models.GovernorateRecord `json:"governorates"`
}

// BuildGovernorateList sorts the table alphabetically by display name, using
// French collation so accented names sort with their base letter, or by
// descending rate.
func BuildGovernorateList(snap *snapshot.Snapshot, order GovernorateSort) (GovernorateList, error) {
	records := snap.Records()
	switch order {
	case SortRate:
		sorted, err := aggregate.SortByRate(records)
		if err != nil {
			return GovernorateList{}, err
		}
		records = sorted
	case SortAlpha:
		SortAlphabetically(records)
	default:
		return GovernorateList{}, dErrors.Newf(dErrors.CodeBadRequest, "unknown sort %q", order)
	}
	return GovernorateList{Sort: order, NationalRate: aggregate.NationalRate, Governorates: records}, nil
}

// SortAlphabetically orders records by display name in French collation.
func SortAlphabetically(records []models.GovernorateRecord) {
	c := collate.New(language.French)
	slices.SortStableFunc(records, func(a, b models.GovernorateRecord) int {
		return c.CompareString(a.DisplayName, b.DisplayName)
	})
}

// BuildGovernorateDetail returns the page of the named governorate. Names
// match the canonical or the display spelling.
func BuildGovernorateDetail(snap *snapshot.Snapshot, name string) (GovernorateDetail, error) {
	name = strings.TrimSpace(name)
	record, ok := snap.Record(name)
	if !ok {
		return GovernorateDetail{}, dErrors.Newf(dErrors.CodeNotFound, "governorate %q not found", name)
	}

	records := snap.Records()
	rank, err := aggregate.Rank(record, records)
	if err != nil {
		return GovernorateDetail{}, err
	}
	deviation, err := aggregate.Deviation(record)
	if err != nil {
		return GovernorateDetail{}, err
	}
	poorest, err := aggregate.TopN(records, TopSize, aggregate.Descending)
	if err != nil {
		return GovernorateDetail{}, err
	}
	richest, err := aggregate.TopN(records, TopSize, aggregate.Ascending)
	if err != nil {
		return GovernorateDetail{}, err
	}

	deviation = aggregate.Round(deviation, 1)
	return GovernorateDetail{
		Governorate:   record,
		Rank:          rank,
		Total:         len(records),
		RankLabel:     fmt.Sprintf("%d/%d", rank, len(records)),
		Deviation:     deviation,
		AboveNational: deviation > 0,
		TopPoorest:    poorest,
		TopRichest:    richest,
	}, nil
}

// BuildTopList returns the n poorest (desc) or richest (asc) governorates.
func BuildTopList(snap *snapshot.Snapshot, n int, dir aggregate.Direction) (TopList, error) {
	top, err := aggregate.TopN(snap.Records(), n, dir)
	if err != nil {
		return TopList{}, err
	}
	return TopList{N: n, Direction: dir, Governorates: top}, nil
}
