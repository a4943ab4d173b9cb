package models

import "strings"

// EntityType tags the administrative level a record describes.
type EntityType string

// EntityGovernorate is the only level the dataset carries. Delegation-level
// rows were never observed in any source file, so no variant exists for them.
const EntityGovernorate EntityType = "Governorate"

// RawRow is one row of the statistical source after column normalization.
type RawRow struct {
	Line        int
	Governorate string
	Rate        Rate
}

// GovernorateRecord is one enriched governorate row.
//
// Invariants:
//   - Region is one of the seven regions of the reference partition
//   - EntityType is EntityGovernorate
type GovernorateRecord struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	PovertyRate Rate       `json:"poverty_rate"`
	Region      string     `json:"region"`
	EntityType  EntityType `json:"entity_type"`
}

// RegionSummaryRecord is one row of the hand-curated regional table. Its rate is
// an independently sourced figure, not an aggregate of governorate rows.
type RegionSummaryRecord struct {
	RegionName  string   `json:"region_name" yaml:"name"`
	PovertyRate float64  `json:"poverty_rate" yaml:"poverty_rate"`
	Population  int64    `json:"population" yaml:"population"`
	MemberNames []string `json:"member_names" yaml:"members"`
}

// Members returns the member governorates comma-joined for display.
func (r RegionSummaryRecord) Members() string {
	return strings.Join(r.MemberNames, ", ")
}

// RegionInsight is the narrative attached to a region: its main
// characteristics and the poorest and richest delegations quoted by the INS report.
type RegionInsight struct {
	Characteristics    []string `json:"characteristics" yaml:"characteristics"`
	PoorestDelegations string   `json:"poorest_delegations" yaml:"poorest_delegations"`
	RichestDelegations string   `json:"richest_delegations" yaml:"richest_delegations"`
}
