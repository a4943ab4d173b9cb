// Package service serves dashboard views from the current dataset snapshot.
//
// Each call takes the snapshot once and builds the view from it, so a reload
// in the middle of a request never mixes two datasets. Rendered charts and
// workbooks go through the view cache keyed by snapshot ID.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/report"
	"povertymap/internal/viewcache"
	dErrors "povertymap/pkg/domain-errors"
	"povertymap/pkg/requestcontext"
)

var tracer = otel.Tracer("povertymap/dashboard")

// Snapshots yields the snapshot requests are served from.
type Snapshots interface {
	Current() (*snapshot.Snapshot, error)
}

// Service builds views against the current snapshot.
type Service struct {
	snapshots Snapshots
	renderer  *viewcache.Renderer
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRenderer routes chart and workbook rendering through a view cache.
func WithRenderer(r *viewcache.Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func New(snapshots Snapshots, opts ...Option) *Service {
	s := &Service{
		snapshots: snapshots,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = viewcache.NewRenderer(nil, 0, viewcache.WithLogger(s.logger))
	}
	return s
}

// build runs one view builder inside a span against the current snapshot.
func build[T any](ctx context.Context, s *Service, view string, fn func(ctx context.Context, snap *snapshot.Snapshot) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "dashboard."+view)
	defer span.End()
	span.SetAttributes(attribute.String("view", view))

	var zero T
	snap, err := s.snapshots.Current()
	if err != nil {
		s.fail(ctx, span, view, err)
		return zero, err
	}
	ctx = requestcontext.WithSnapshotID(ctx, snap.ID().String())
	span.SetAttributes(attribute.String("snapshot.id", snap.ID().String()))

	v, err := fn(ctx, snap)
	if err != nil {
		s.fail(ctx, span, view, err)
		return zero, err
	}
	return v, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, view string, err error) {
	code := dErrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))

	attrs := []any{
		"view", view,
		"code", code,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if id := requestcontext.SnapshotID(ctx); id != "" {
		attrs = append(attrs, "snapshot_id", id)
	}
	switch {
	case dErrors.IsDataUnavailable(err):
		s.logger.WarnContext(ctx, "dataset unavailable", attrs...)
	case code == dErrors.CodeInternal:
		s.logger.ErrorContext(ctx, "view failed", attrs...)
	default:
		s.logger.DebugContext(ctx, "view rejected", attrs...)
	}
}

func (s *Service) Overview(ctx context.Context) (views.Overview, error) {
	return build(ctx, s, "overview", func(_ context.Context, snap *snapshot.Snapshot) (views.Overview, error) {
		return views.BuildOverview(snap)
	})
}

func (s *Service) Regions(ctx context.Context) (views.RegionList, error) {
	return build(ctx, s, "regions", func(_ context.Context, snap *snapshot.Snapshot) (views.RegionList, error) {
		return views.BuildRegionList(snap), nil
	})
}

func (s *Service) Region(ctx context.Context, name string) (views.RegionDetail, error) {
	return build(ctx, s, "region", func(_ context.Context, snap *snapshot.Snapshot) (views.RegionDetail, error) {
		return views.BuildRegionDetail(snap, name)
	})
}

func (s *Service) Governorates(ctx context.Context, order views.GovernorateSort) (views.GovernorateList, error) {
	return build(ctx, s, "governorates", func(_ context.Context, snap *snapshot.Snapshot) (views.GovernorateList, error) {
		return views.BuildGovernorateList(snap, order)
	})
}

func (s *Service) Governorate(ctx context.Context, name string) (views.GovernorateDetail, error) {
	return build(ctx, s, "governorate", func(_ context.Context, snap *snapshot.Snapshot) (views.GovernorateDetail, error) {
		return views.BuildGovernorateDetail(snap, name)
	})
}

func (s *Service) Top(ctx context.Context, n int, dir aggregate.Direction) (views.TopList, error) {
	return build(ctx, s, "top", func(_ context.Context, snap *snapshot.Snapshot) (views.TopList, error) {
		return views.BuildTopList(snap, n, dir)
	})
}

func (s *Service) Comparisons(ctx context.Context) (views.Comparisons, error) {
	return build(ctx, s, "comparisons", func(_ context.Context, snap *snapshot.Snapshot) (views.Comparisons, error) {
		return views.BuildComparisons(snap)
	})
}

// Delegations needs no snapshot: the dataset never carries delegation rows.
func (s *Service) Delegations(context.Context) views.Unavailable {
	return views.BuildDelegations()
}

func (s *Service) Map(ctx context.Context) (views.Choropleth, error) {
	return build(ctx, s, "map", func(_ context.Context, snap *snapshot.Snapshot) (views.Choropleth, error) {
		return views.BuildChoropleth(snap)
	})
}

// Chart renders one chart as PNG, once per snapshot.
func (s *Service) Chart(ctx context.Context, chart report.Chart) ([]byte, error) {
	return build(ctx, s, "chart", func(ctx context.Context, snap *snapshot.Snapshot) ([]byte, error) {
		key := viewcache.Key(snap.ID().String(), chart.Filename())
		return s.renderer.Do(ctx, key, func(context.Context) ([]byte, error) {
			return report.RenderChart(snap, chart)
		})
	})
}

// Workbook renders the XLSX export, once per snapshot.
func (s *Service) Workbook(ctx context.Context) ([]byte, error) {
	return build(ctx, s, "workbook", func(ctx context.Context, snap *snapshot.Snapshot) ([]byte, error) {
		key := viewcache.Key(snap.ID().String(), report.WorkbookFilename)
		return s.renderer.Do(ctx, key, func(context.Context) ([]byte, error) {
			return report.Workbook(snap)
		})
	})
}
