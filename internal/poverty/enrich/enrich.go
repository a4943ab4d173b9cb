// Package enrich turns raw source rows into canonical governorate records.
package enrich

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
	dErrors "povertymap/pkg/domain-errors"
)

// Lookup resolves a canonical governorate name to its partition entry.
type Lookup interface {
	Lookup(name string) (reference.Governorate, bool)
}

// Enrich attaches region, display name and entity type to every row.
//
// The output has the input order. A name missing from the lookup fails the
// whole call with CodeUnmappedRegion, naming every unmapped row; a partially
// enriched table would corrupt each regional aggregate built on it.
func Enrich(rows []models.RawRow, lookup Lookup) ([]models.GovernorateRecord, error) {
	records := make([]models.GovernorateRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	var unmapped []string

	for _, row := range rows {
		name := norm.NFC.String(strings.TrimSpace(row.Governorate))
		if first, dup := seen[name]; dup {
			return nil, dErrors.Newf(dErrors.CodeSourceMalformed,
				"governorate %q appears twice (lines %d and %d)", name, first, row.Line)
		}
		seen[name] = row.Line

		g, ok := lookup.Lookup(name)
		if !ok {
			unmapped = append(unmapped, name)
			continue
		}
		records = append(records, models.GovernorateRecord{
			Name:        name,
			DisplayName: g.DisplayName,
			PovertyRate: row.Rate,
			Region:      g.Region,
			EntityType:  models.EntityGovernorate,
		})
	}

	if len(unmapped) > 0 {
		return nil, dErrors.Newf(dErrors.CodeUnmappedRegion,
			"no region for governorate(s): %s", strings.Join(unmapped, ", "))
	}
	return records, nil
}

// FilterByType keeps the records of one entity type, preserving order.
func FilterByType(records []models.GovernorateRecord, t models.EntityType) []models.GovernorateRecord {
	out := make([]models.GovernorateRecord, 0, len(records))
	for _, r := range records {
		if r.EntityType == t {
			out = append(out, r)
		}
	}
	return out
}

// Regions returns the distinct regions of records in first-seen order.
func Regions(records []models.GovernorateRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}
