package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"povertymap/internal/poverty/enrich"
	"povertymap/internal/poverty/geo"
	"povertymap/internal/poverty/models"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/source"
	dErrors "povertymap/pkg/domain-errors"
)

var tracer = otel.Tracer("povertymap/snapshot")

// outcome is the terminal result of loading one fingerprint: a snapshot or
// the error that prevented it.
type outcome struct {
	fingerprint Fingerprint
	snap        *Snapshot
	err         error
}

// Loader reads and enriches the source files. Results are memoized by the
// files' fingerprint, failures included, and concurrent loads of the same
// fingerprint share one read.
type Loader struct {
	dataPath string
	geoPath  string
	table    *reference.Table
	logger   *slog.Logger
	metrics  *Metrics

	group singleflight.Group
	mu    sync.Mutex
	last  *outcome
}

type Option func(*Loader)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader builds a loader for the given files. The reference table must
// already be validated.
func NewLoader(dataPath, geoPath string, table *reference.Table, opts ...Option) (*Loader, error) {
	if dataPath == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "data path is required")
	}
	if table == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "reference table is required")
	}
	l := &Loader{
		dataPath: dataPath,
		geoPath:  geoPath,
		table:    table,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load returns the snapshot for the files as they are now. Unchanged files
// return the memoized outcome, which may be an error.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	fp := Take(l.dataPath, l.geoPath)
	if o := l.cached(fp); o != nil {
		l.metrics.IncrementCached()
		return o.snap, o.err
	}

	v, _, _ := l.group.Do(fp.String(), func() (any, error) {
		if o := l.cached(fp); o != nil {
			return o, nil
		}
		o := l.build(ctx, fp)
		l.mu.Lock()
		l.last = o
		l.mu.Unlock()
		return o, nil
	})
	o := v.(*outcome)
	return o.snap, o.err
}

func (l *Loader) cached(fp Fingerprint) *outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last != nil && l.last.fingerprint == fp {
		return l.last
	}
	return nil
}

func (l *Loader) build(ctx context.Context, fp Fingerprint) *outcome {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("data.path", fp.Data.Path),
		attribute.Int64("data.size", fp.Data.Size),
		attribute.String("geo.path", fp.Geo.Path),
	)
	start := time.Now()

	snap, err := l.read(ctx)
	o := &outcome{fingerprint: fp, snap: snap, err: err}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		l.metrics.ObserveLoad(start, string(dErrors.CodeOf(err)), 0)
		l.logger.ErrorContext(ctx, "dataset load failed",
			"data_path", fp.Data.Path,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
		return o
	}

	snap.fingerprint = fp
	l.metrics.ObserveLoad(start, "ok", len(snap.records))
	attrs := []any{
		"snapshot_id", snap.ID(),
		"records", len(snap.records),
		"reference_version", l.table.Version(),
		"duration", time.Since(start),
	}
	if snap.boundaryErr != nil {
		attrs = append(attrs, "boundaries_error", snap.boundaryErr)
	}
	l.logger.InfoContext(ctx, "dataset loaded", attrs...)
	return o
}

func (l *Loader) read(ctx context.Context) (*Snapshot, error) {
	var (
		rows       []models.RawRow
		boundaries *geo.Boundaries
		geoErr     error
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = source.ReadTable(l.dataPath)
		return err
	})
	g.Go(func() error {
		if l.geoPath == "" {
			geoErr = dErrors.New(dErrors.CodeSourceNotFound, "no boundary file configured")
			return nil
		}
		boundaries, geoErr = geo.Read(l.geoPath)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records, err := enrich.Enrich(rows, l.table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeSourceMalformed, "dataset has no governorates")
	}
	return New(records, l.table, boundaries, geoErr), nil
}
