package snapshot

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"povertymap/internal/poverty/reference"
	dErrors "povertymap/pkg/domain-errors"
)

type LoaderSuite struct {
	suite.Suite
	table    *reference.Table
	dir      string
	dataPath string
	geoPath  string
	logger   *slog.Logger
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) SetupSuite() {
	var err error
	s.table, err = reference.Default()
	s.Require().NoError(err)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *LoaderSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.dataPath = filepath.Join(s.dir, "poverty.csv")
	s.geoPath = filepath.Join(s.dir, "governorates.geojson")
	s.copyFile("../../../data/poverty_tunisia.csv", s.dataPath)
	s.copyFile("../../../geo/tunisia_governorates.geojson", s.geoPath)
}

func (s *LoaderSuite) copyFile(from, to string) {
	data, err := os.ReadFile(from)
	s.Require().NoError(err)
	s.Require().NoError(os.WriteFile(to, data, 0o600))
}

func (s *LoaderSuite) newLoader() *Loader {
	l, err := NewLoader(s.dataPath, s.geoPath, s.table, WithLogger(s.logger))
	s.Require().NoError(err)
	return l
}

// =============================================================================
// Loading
// =============================================================================

func (s *LoaderSuite) TestLoad() {
	snap, err := s.newLoader().Load(context.Background())
	s.Require().NoError(err)

	s.NotEqual(uuid.Nil, snap.ID())
	s.Len(snap.Records(), 24)
	s.Equal(s.dataPath, snap.Fingerprint().Data.Path)
	s.Same(s.table, snap.Reference())

	b, err := snap.Boundaries()
	s.Require().NoError(err)
	s.Equal(24, b.Len())

	r, ok := snap.Record("Béja")
	s.True(ok)
	s.Equal("Beja", r.Name)
}

func (s *LoaderSuite) TestRecordsAreCopies() {
	snap, err := s.newLoader().Load(context.Background())
	s.Require().NoError(err)

	records := snap.Records()
	records[0].Region = "changed"
	s.NotEqual("changed", snap.Records()[0].Region)
}

func (s *LoaderSuite) TestMissingBoundaryFileOnlyAffectsMap() {
	s.Require().NoError(os.Remove(s.geoPath))

	snap, err := s.newLoader().Load(context.Background())
	s.Require().NoError(err)
	s.Len(snap.Records(), 24)

	_, err = snap.Boundaries()
	s.Equal(dErrors.CodeSourceNotFound, dErrors.CodeOf(err))
}

func (s *LoaderSuite) TestRequiredArguments() {
	_, err := NewLoader("", s.geoPath, s.table)
	s.Equal(dErrors.CodeConfiguration, dErrors.CodeOf(err))

	_, err = NewLoader(s.dataPath, s.geoPath, nil)
	s.Equal(dErrors.CodeConfiguration, dErrors.CodeOf(err))
}

// =============================================================================
// Memoization
// =============================================================================

func (s *LoaderSuite) TestMemoizedByFingerprint() {
	loader := s.newLoader()
	ctx := context.Background()

	first, err := loader.Load(ctx)
	s.Require().NoError(err)
	second, err := loader.Load(ctx)
	s.Require().NoError(err)
	s.Same(first, second)

	s.Run("changed file produces a new snapshot", func() {
		f, err := os.OpenFile(s.dataPath, os.O_APPEND|os.O_WRONLY, 0)
		s.Require().NoError(err)
		_, err = f.WriteString("\n")
		s.Require().NoError(err)
		s.Require().NoError(f.Close())

		third, err := loader.Load(ctx)
		s.Require().NoError(err)
		s.NotEqual(first.ID(), third.ID())
	})
}

func (s *LoaderSuite) TestConcurrentLoadsShareOneSnapshot() {
	loader := s.newLoader()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 16)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := loader.Load(context.Background())
			if err == nil {
				ids[i] = snap.ID()
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		s.Equal(ids[0], id)
	}
	s.NotEqual(uuid.Nil, ids[0])
}

func (s *LoaderSuite) TestFailureOutcomeIsCached() {
	s.Require().NoError(os.Remove(s.dataPath))
	loader := s.newLoader()
	ctx := context.Background()

	_, first := loader.Load(ctx)
	s.Require().Error(first)
	s.Equal(dErrors.CodeSourceNotFound, dErrors.CodeOf(first))

	_, second := loader.Load(ctx)
	s.Same(first, second)

	s.Run("recovers when the file appears", func() {
		s.copyFile("../../../data/poverty_tunisia.csv", s.dataPath)
		snap, err := loader.Load(ctx)
		s.Require().NoError(err)
		s.Len(snap.Records(), 24)
	})
}

func (s *LoaderSuite) TestErrorCodes() {
	cases := []struct {
		name    string
		content string
		code    dErrors.Code
	}{
		{"malformed rate", "Governorate,Poverty_Rate\nTunis,lots\n", dErrors.CodeSourceMalformed},
		{"unmapped governorate", "Governorate,Poverty_Rate\nTunis,4.6\nAtlantis,3\n", dErrors.CodeUnmappedRegion},
		{"wrong columns", "Town,Value\nTunis,4.6\n", dErrors.CodeSourceMalformed},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Require().NoError(os.WriteFile(s.dataPath, []byte(tc.content), 0o600))
			_, err := s.newLoader().Load(context.Background())
			s.Require().Error(err)
			s.Equal(tc.code, dErrors.CodeOf(err))
			s.True(dErrors.IsDataUnavailable(err))
		})
	}
}

// =============================================================================
// Store
// =============================================================================

func (s *LoaderSuite) TestStore() {
	store := NewStore(s.newLoader(), s.logger)
	ctx := context.Background()

	s.Run("empty before the first load", func() {
		_, err := store.Current()
		s.Require().Error(err)
		s.ErrorIs(err, ErrNotLoaded)
		s.True(dErrors.IsDataUnavailable(err))
	})

	first, err := store.Reload(ctx)
	s.Require().NoError(err)
	current, err := store.Current()
	s.Require().NoError(err)
	s.Same(first, current)

	s.Run("reload with unchanged files keeps the snapshot", func() {
		again, err := store.Reload(ctx)
		s.Require().NoError(err)
		s.Same(first, again)
	})

	s.Run("reload replaces the snapshot", func() {
		s.Require().NoError(os.WriteFile(s.dataPath, []byte("Governorate,Poverty_Rate\nTunis,4.6\n"), 0o600))
		next, err := store.Reload(ctx)
		s.Require().NoError(err)
		s.NotEqual(first.ID(), next.ID())
		s.Len(next.Records(), 1)
		s.Len(first.Records(), 24, "previous snapshot is untouched")
	})

	s.Run("failed reload is served as the outcome", func() {
		s.Require().NoError(os.Remove(s.dataPath))
		_, err := store.Reload(ctx)
		s.Require().Error(err)
		_, err = store.Current()
		s.Equal(dErrors.CodeSourceNotFound, dErrors.CodeOf(err))
	})
}
