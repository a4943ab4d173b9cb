package enrich

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/source"
	dErrors "povertymap/pkg/domain-errors"
)

type EnrichSuite struct {
	suite.Suite
	table *reference.Table
	rows  []models.RawRow
}

func TestEnrichSuite(t *testing.T) {
	suite.Run(t, new(EnrichSuite))
}

func (s *EnrichSuite) SetupSuite() {
	var err error
	s.table, err = reference.Default()
	s.Require().NoError(err)
	s.rows, err = source.ReadTable("../../../data/poverty_tunisia.csv")
	s.Require().NoError(err)
}

// =============================================================================
// Partition
// =============================================================================

func (s *EnrichSuite) TestPartitionTotality() {
	records, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)
	s.Require().Len(records, len(s.rows))

	allowed := map[string]bool{}
	for _, r := range s.table.PartitionRegions() {
		allowed[r] = true
	}
	for i, rec := range records {
		s.Equal(s.rows[i].Governorate, rec.Name, "input order kept")
		s.True(allowed[rec.Region], "%s mapped to %q", rec.Name, rec.Region)
		s.Equal(models.EntityGovernorate, rec.EntityType)
		s.NotEmpty(rec.DisplayName)
	}
}

func (s *EnrichSuite) TestRegionSetConsistency() {
	records, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)

	var summary []string
	for _, r := range s.table.Regions() {
		summary = append(summary, r.RegionName)
	}
	s.ElementsMatch(summary, Regions(records))
}

func (s *EnrichSuite) TestDisplayNames() {
	records, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)

	byName := map[string]models.GovernorateRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	s.Equal("Béja", byName["Beja"].DisplayName)
	s.Equal("Nord-Ouest", byName["Beja"].Region)
	s.Equal("Gabès", byName["Gabes"].DisplayName)
}

// =============================================================================
// Determinism
// =============================================================================

func (s *EnrichSuite) TestIdempotent() {
	first, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)
	second, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *EnrichSuite) TestMissingRateIsKept() {
	rows := []models.RawRow{{Line: 2, Governorate: "Tunis", Rate: models.MissingRate()}}
	records, err := Enrich(rows, s.table)
	s.Require().NoError(err)
	s.False(records[0].PovertyRate.Valid())
}

// =============================================================================
// Failures
// =============================================================================

func (s *EnrichSuite) TestUnmappedName() {
	rows := append([]models.RawRow{}, s.rows...)
	rows = append(rows,
		models.RawRow{Line: 26, Governorate: "Atlantis", Rate: models.NewRate(10)},
		models.RawRow{Line: 27, Governorate: "Carthage", Rate: models.NewRate(11)},
	)

	records, err := Enrich(rows, s.table)
	s.Require().Error(err)
	s.Nil(records)
	s.True(dErrors.HasCode(err, dErrors.CodeUnmappedRegion))
	s.Contains(err.Error(), "Atlantis")
	s.Contains(err.Error(), "Carthage")
}

func (s *EnrichSuite) TestDuplicateName() {
	rows := []models.RawRow{
		{Line: 2, Governorate: "Tunis", Rate: models.NewRate(4.6)},
		{Line: 3, Governorate: " Tunis ", Rate: models.NewRate(4.6)},
	}
	_, err := Enrich(rows, s.table)
	s.Require().Error(err)
	s.Equal(dErrors.CodeSourceMalformed, dErrors.CodeOf(err))
}

func (s *EnrichSuite) TestFilterByType() {
	records, err := Enrich(s.rows, s.table)
	s.Require().NoError(err)

	s.Equal(records, FilterByType(records, models.EntityGovernorate))
	s.Empty(FilterByType(records, models.EntityType("Delegation")))
	s.Empty(FilterByType(nil, models.EntityGovernorate))
}
