package views

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/poverty/snapshot/snapshottest"
	dErrors "povertymap/pkg/domain-errors"
)

type ViewsSuite struct {
	suite.Suite
	snap *snapshot.Snapshot
}

func TestViewsSuite(t *testing.T) {
	suite.Run(t, new(ViewsSuite))
}

func (s *ViewsSuite) SetupSuite() {
	s.snap = snapshottest.Load(s.T())
}

func names(records []models.GovernorateRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

// =============================================================================
// Overview and regions
// =============================================================================

func (s *ViewsSuite) TestOverview() {
	view, err := BuildOverview(s.snap)
	s.Require().NoError(err)

	s.Equal(15.3, view.NationalRate)
	s.Equal(aggregate.Extreme{Name: "Centre-Ouest", PovertyRate: 29.3}, view.PoorestRegion)
	s.Equal(aggregate.Extreme{Name: "Grand Tunis", PovertyRate: 6.1}, view.RichestRegion)
	s.Equal(23.2, view.RegionalGap.Points)
	s.Equal(4.8, view.RegionalGap.Ratio)
	s.Equal(24, view.Governorates)

	s.Require().Len(view.Regions, 7)
	s.Equal("Grand Tunis", view.Regions[0].Region)
	s.Equal("Centre-Ouest", view.Regions[6].Region)
	for i := 1; i < len(view.Regions); i++ {
		s.LessOrEqual(view.Regions[i-1].PovertyRate, view.Regions[i].PovertyRate)
		s.False(view.Regions[i].Selected)
	}

	s.Len(view.Population, 7)
	s.NotEmpty(view.KeyInsights.HighPoverty)
	s.NotEmpty(view.KeyInsights.CorrelatedFactors)
	s.Contains(view.Footer.Source, "INS")
	s.Equal("2015.1.0", view.Footer.ReferenceVersion)
	s.NotEmpty(view.Footer.Limits)
}

func (s *ViewsSuite) TestRegionList() {
	view := BuildRegionList(s.snap)
	s.Require().Len(view.Regions, 7)
	first := view.Regions[0]
	s.Equal("Grand Tunis", first.Region)
	s.Equal(int64(165859), first.EstimatedPoor)
	s.Equal("Tunis, Ariana, Ben Arous, Manouba", first.Members)
}

func (s *ViewsSuite) TestRegionDetail() {
	s.Run("below national", func() {
		view, err := BuildRegionDetail(s.snap, "Grand Tunis")
		s.Require().NoError(err)
		s.Equal(6.1, view.PovertyRate)
		s.Equal(int64(2719000), view.Population)
		s.Equal(int64(165859), view.EstimatedPoor)
		s.Equal(-9.2, view.Deviation)
		s.False(view.AboveNational)
		s.ElementsMatch([]string{"Tunis", "Ariana", "Ben Arous", "Manouba"}, names(view.Governorates))
		s.Require().NotNil(view.Insight)
		s.Contains(view.Insight.RichestDelegations, "El Menzah")
	})

	s.Run("above national", func() {
		view, err := BuildRegionDetail(s.snap, " Centre-Ouest ")
		s.Require().NoError(err)
		s.Equal(14.0, view.Deviation)
		s.True(view.AboveNational)
	})

	s.Run("comparison flags only the selected region", func() {
		view, err := BuildRegionDetail(s.snap, "Sud-Ouest")
		s.Require().NoError(err)
		s.Require().Len(view.Comparison, 7)
		selected := 0
		for _, bar := range view.Comparison {
			if bar.Selected {
				selected++
				s.Equal("Sud-Ouest", bar.Region)
			}
		}
		s.Equal(1, selected)
	})

	s.Run("unknown region", func() {
		_, err := BuildRegionDetail(s.snap, "Atlantis")
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Governorates
// =============================================================================

func (s *ViewsSuite) TestParseGovernorateSort() {
	for in, want := range map[string]GovernorateSort{"": SortAlpha, "alpha": SortAlpha, "RATE": SortRate} {
		got, err := ParseGovernorateSort(in)
		s.Require().NoError(err)
		s.Equal(want, got, in)
	}
	_, err := ParseGovernorateSort("population")
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func (s *ViewsSuite) TestGovernorateListAlphabetical() {
	view, err := BuildGovernorateList(s.snap, SortAlpha)
	s.Require().NoError(err)
	s.Require().Len(view.Governorates, 24)

	display := make([]string, len(view.Governorates))
	for i, g := range view.Governorates {
		display[i] = g.DisplayName
	}
	s.Equal([]string{"Ariana", "Béja", "Ben Arous", "Bizerte"}, display[:4])
	s.Less(indexOf(display, "Manouba"), indexOf(display, "Médenine"))
	s.Less(indexOf(display, "Médenine"), indexOf(display, "Monastir"))
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func (s *ViewsSuite) TestGovernorateListByRate() {
	view, err := BuildGovernorateList(s.snap, SortRate)
	s.Require().NoError(err)
	s.Require().Len(view.Governorates, 24)
	s.Equal("Le Kef", view.Governorates[0].Name)
	s.Equal("Tunis", view.Governorates[23].Name)
}

func (s *ViewsSuite) TestGovernorateDetail() {
	s.Run("poorest", func() {
		view, err := BuildGovernorateDetail(s.snap, "Le Kef")
		s.Require().NoError(err)
		s.Equal(1, view.Rank)
		s.Equal("1/24", view.RankLabel)
		s.Equal(17.8, view.Deviation)
		s.True(view.AboveNational)
		s.Equal([]string{"Le Kef", "Kasserine", "Kairouan", "Jendouba", "Sidi Bouzid"}, names(view.TopPoorest))
		s.Equal([]string{"Tunis", "Ben Arous", "Ariana", "Monastir", "Sousse"}, names(view.TopRichest))
	})

	s.Run("richest", func() {
		view, err := BuildGovernorateDetail(s.snap, "Tunis")
		s.Require().NoError(err)
		s.Equal("24/24", view.RankLabel)
		s.Equal(-10.7, view.Deviation)
		s.False(view.AboveNational)
	})

	s.Run("display name resolves", func() {
		view, err := BuildGovernorateDetail(s.snap, "Béja")
		s.Require().NoError(err)
		s.Equal("Beja", view.Governorate.Name)
		s.Equal(6, view.Rank)
		s.Equal(9.4, view.Deviation)
	})

	s.Run("unknown governorate", func() {
		_, err := BuildGovernorateDetail(s.snap, "Carthage")
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *ViewsSuite) TestTopList() {
	view, err := BuildTopList(s.snap, 3, aggregate.Ascending)
	s.Require().NoError(err)
	s.Equal(3, view.N)
	s.Equal([]string{"Tunis", "Ben Arous", "Ariana"}, names(view.Governorates))

	view, err = BuildTopList(s.snap, 0, aggregate.Descending)
	s.Require().NoError(err)
	s.Empty(view.Governorates)
}

func (s *ViewsSuite) TestMissingRateFailsRankedViews() {
	records := snapshottest.Records(s.T())
	records[0].PovertyRate = models.MissingRate()
	snap := snapshottest.WithRecords(s.T(), records)

	_, err := BuildGovernorateDetail(snap, "Ariana")
	s.Equal(dErrors.CodeMissingValue, dErrors.CodeOf(err))

	_, err = BuildGovernorateList(snap, SortRate)
	s.Equal(dErrors.CodeMissingValue, dErrors.CodeOf(err))

	_, err = BuildComparisons(snap)
	s.Equal(dErrors.CodeMissingValue, dErrors.CodeOf(err))

	view, err := BuildGovernorateList(snap, SortAlpha)
	s.Require().NoError(err, "alphabetical order needs no rate")
	s.Len(view.Governorates, 24)
}

// =============================================================================
// Comparisons, delegations and map
// =============================================================================

func (s *ViewsSuite) TestComparisons() {
	view, err := BuildComparisons(s.snap)
	s.Require().NoError(err)

	s.Require().Len(view.Stats, 7)
	var centreOuest aggregate.RegionStats
	for _, st := range view.Stats {
		if st.Region == "Centre-Ouest" {
			centreOuest = st
		}
	}
	s.Equal(3, centreOuest.Count)
	s.Equal(29.63, centreOuest.Mean)
	s.Equal(31.2, centreOuest.Median)
	s.Equal(24.9, centreOuest.Min)
	s.Equal(32.8, centreOuest.Max)
	s.NotNil(centreOuest.StdDev)

	s.Equal(23.2, view.Disparities.Regional.Points)
	s.Equal(28.5, view.Disparities.Governorate.Points)
	s.Equal("Le Kef", view.Disparities.Governorate.Poorest.Name)
	s.Equal(53.3, view.Disparities.Delegation.Points)
	s.Equal("Hassi Ferid", view.Disparities.Delegation.Poorest.Name)

	s.NotEmpty(view.Correlations.Negative)
	s.NotEmpty(view.Correlations.KeyInsight)

	s.Len(view.Inequality.Lorenz, 8)
	s.Equal(LorenzPoint{}, view.Inequality.Lorenz[0])
	s.Equal(1.0, view.Inequality.Lorenz[7].Share)
	s.Equal(1.0, view.Inequality.Lorenz[7].Poverty)
	s.Greater(view.Inequality.Gini, 0.0)
	s.Less(view.Inequality.Gini, 1.0)
	s.Equal("Grand Tunis", view.Inequality.Regions[0].Region)
}

func (s *ViewsSuite) TestDelegations() {
	view := BuildDelegations()
	s.Equal(StatusDataUnavailable, view.Status)
	s.Equal(EntityDelegation, view.Entity)
	s.Equal("/api/v1/regions", view.Alternative)
}

func (s *ViewsSuite) TestChoropleth() {
	view, err := BuildChoropleth(s.snap)
	s.Require().NoError(err)

	s.Len(view.Features.Features, 24)
	s.Empty(view.Unmatched)
	s.Empty(view.UnusedBoundaries)
	s.Equal("properties.NAME_1", view.FeatureIDKey)

	s.Require().Len(view.Bounds, 4)
	s.Greater(view.Bounds[0], 7.0)
	s.Less(view.Bounds[2], 12.0)
	s.Greater(view.Bounds[1], 30.0)
	s.Less(view.Bounds[3], 38.0)

	var kef map[string]any
	for _, f := range view.Features.Features {
		if f.ID == "Le Kef" {
			kef = f.Properties
		}
	}
	s.Require().NotNil(kef)
	s.Equal("LeKef", kef["NAME_1"])
	s.Equal(33.1, kef["poverty_rate"])
	s.Equal("Nord-Ouest", kef["region"])

	data, err := json.Marshal(view)
	s.Require().NoError(err)
	s.Contains(string(data), `"FeatureCollection"`)
}

func (s *ViewsSuite) TestChoroplethUnavailableWithoutBoundaries() {
	records := snapshottest.Records(s.T())
	table := snapshottest.Table(s.T())

	snap := snapshot.New(records, table, nil, dErrors.New(dErrors.CodeSourceMalformed, "bad geojson"))
	_, err := BuildChoropleth(snap)
	s.Equal(dErrors.CodeSourceMalformed, dErrors.CodeOf(err))

	snap = snapshot.New(records, table, nil, nil)
	_, err = BuildChoropleth(snap)
	s.Equal(dErrors.CodeSourceNotFound, dErrors.CodeOf(err))

	_, err = BuildOverview(snap)
	s.NoError(err, "other views do not need boundaries")
}

func (s *ViewsSuite) TestChoroplethReportsUnmatchedNames() {
	records := snapshottest.Records(s.T())
	records = append(records, models.GovernorateRecord{
		Name: "Djerba", DisplayName: "Djerba", Region: "Sud-Est",
		PovertyRate: models.NewRate(10), EntityType: models.EntityGovernorate,
	})
	view, err := BuildChoropleth(snapshottest.WithRecords(s.T(), records))
	s.Require().NoError(err)
	s.Equal([]string{"Djerba"}, view.Unmatched)
	s.Len(view.Features.Features, 24)
}
