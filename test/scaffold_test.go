package test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"povertymap/internal/dashboard/handler"
	"povertymap/internal/dashboard/service"
	"povertymap/internal/platform/middleware"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/poverty/snapshot/snapshottest"
	"povertymap/internal/viewcache"
	dErrors "povertymap/pkg/domain-errors"
	"povertymap/pkg/testutil"
)

func newRouter(t *testing.T, dataPath string) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	table, err := reference.Default()
	require.NoError(t, err)
	loader, err := snapshot.NewLoader(dataPath, snapshottest.GeoPath(), table, snapshot.WithLogger(log))
	require.NoError(t, err)
	store := snapshot.NewStore(loader, log)
	_, _ = store.Reload(context.Background())

	renderer := viewcache.NewRenderer(viewcache.NewMemory(), time.Minute, viewcache.WithLogger(log))
	svc := service.New(store, service.WithLogger(log), service.WithRenderer(renderer))

	r := chi.NewRouter()
	r.Use(middleware.RequestContext)
	r.Use(middleware.AccessLog(log, nil))
	handler.New(svc, log, nil).Register(r)
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the dashboard router over the bundled dataset", func(t *testing.T) {
		router := newRouter(t, snapshottest.DataPath())

		for _, path := range []string{
			"/api/v1/overview",
			"/api/v1/regions",
			"/api/v1/regions/Centre-Ouest",
			"/api/v1/governorates?sort=rate",
			"/api/v1/governorates/Le%20Kef",
			"/api/v1/governorates/top?n=3",
			"/api/v1/comparisons",
			"/api/v1/map",
			"/api/v1/delegations",
		} {
			testutil.When(t, "calling GET "+path, func(t *testing.T) {
				rec := get(router, path)
				testutil.Then(t, "it should respond with JSON", func(t *testing.T) {
					testutil.AssertStatusOK(t, rec)
					testutil.AssertContentType(t, rec, "application/json")
				})
			})
		}

		testutil.When(t, "calling GET /api/v1/charts/regions.png", func(t *testing.T) {
			rec := get(router, "/api/v1/charts/regions.png")
			testutil.Then(t, "it should respond with a PNG", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertPNG(t, rec)
			})
		})
	})

	testutil.Given(t, "a router whose dataset is missing", func(t *testing.T) {
		router := newRouter(t, filepath.Join(t.TempDir(), "absent.csv"))

		testutil.When(t, "calling GET /api/v1/overview", func(t *testing.T) {
			rec := get(router, "/api/v1/overview")
			testutil.Then(t, "it should respond with data unavailable", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rec, http.StatusServiceUnavailable, string(dErrors.CodeSourceNotFound))
			})
		})

		testutil.When(t, "calling GET /api/v1/delegations", func(t *testing.T) {
			rec := get(router, "/api/v1/delegations")
			testutil.Then(t, "the static notice is still served", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
			})
		})
	})
}
