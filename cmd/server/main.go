package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"povertymap/internal/dashboard/handler"
	"povertymap/internal/dashboard/service"
	"povertymap/internal/platform/config"
	"povertymap/internal/platform/health"
	"povertymap/internal/platform/httpserver"
	"povertymap/internal/platform/logger"
	"povertymap/internal/platform/metrics"
	"povertymap/internal/platform/middleware"
	redisclient "povertymap/internal/platform/redis"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/viewcache"
	"povertymap/pkg/platform/circuit"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := config.LoadDotEnv(os.Getenv("POVERTYMAP_ENV_FILE")); err != nil {
		slog.Error("load env file", "error", err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A broken partition is a build defect, not a data problem: refuse to start.
	table, err := reference.Default()
	if err != nil {
		return err
	}
	log.Info("reference data loaded", "reference", table.String())

	loader, err := snapshot.NewLoader(cfg.Data.Path, cfg.Data.GeoPath, table,
		snapshot.WithLogger(log),
		snapshot.WithMetrics(snapshot.NewMetrics()),
	)
	if err != nil {
		return err
	}
	store := snapshot.NewStore(loader, log)
	if _, err := store.Reload(ctx); err != nil {
		log.Warn("starting without data; views answer data unavailable until a reload succeeds", "error", err)
	}

	cache, closeCache, err := newViewCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()
	cacheOpts := []viewcache.Option{
		viewcache.WithLogger(log),
		viewcache.WithMetrics(viewcache.NewMetrics()),
	}
	if cache.ping != nil {
		cacheOpts = append(cacheOpts, viewcache.WithBreaker(circuit.New("redis-viewcache")))
	}
	renderer := viewcache.NewRenderer(cache.store, cfg.ViewCacheTTL, cacheOpts...)

	svc := service.New(store, service.WithLogger(log), service.WithRenderer(renderer))
	httpMetrics := metrics.New()

	checker := health.NewChecker(version)
	checker.Register("dataset", datasetCheck(store))
	if cache.ping != nil {
		checker.Register("redis", health.PingCheck(cache.ping, true))
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestContext)
	r.Use(middleware.AccessLog(log, httpMetrics))
	checker.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log, httpMetrics).Register(r)

	srv := httpserver.New(cfg.Addr, r)
	checker.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting povertymap", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reloadOnHangup(gctx, store, log)
	})
	if cache.sweep != nil {
		g.Go(func() error {
			return sweepEvery(gctx, time.Minute, cache.sweep)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		checker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type viewCache struct {
	store viewcache.Cache
	ping  func(ctx context.Context) error
	sweep func() int
}

// newViewCache returns Redis when REDIS_URL is set, process memory otherwise.
func newViewCache(ctx context.Context, cfg config.Server, log *slog.Logger) (viewCache, func(), error) {
	client, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return viewCache{}, nil, err
	}
	if client == nil {
		mem := viewcache.NewMemory()
		log.Info("view cache in process memory", "ttl", cfg.ViewCacheTTL)
		return viewCache{store: mem, sweep: mem.Sweep}, func() {}, nil
	}
	log.Info("view cache in redis", "ttl", cfg.ViewCacheTTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	return viewCache{store: viewcache.NewRedis(client.Client), ping: client.Health}, closeFn, nil
}

// datasetCheck reports degraded, never unhealthy, while no snapshot is loaded:
// the process still serves health, metrics and the delegation page.
func datasetCheck(store *snapshot.Store) health.CheckFunc {
	return func(context.Context) health.CheckResult {
		snap, err := store.Current()
		if err != nil {
			return health.CheckResult{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.CheckResult{Status: health.StatusHealthy, Message: "snapshot " + snap.ID().String()}
	}
}

// reloadOnHangup reloads the dataset on SIGHUP until ctx ends.
func reloadOnHangup(ctx context.Context, store *snapshot.Store, log *slog.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			log.Info("reload requested")
			if _, err := store.Reload(ctx); err != nil {
				log.Warn("reload failed", "error", err)
			}
		}
	}
}

func sweepEvery(ctx context.Context, every time.Duration, sweep func() int) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sweep()
		}
	}
}
