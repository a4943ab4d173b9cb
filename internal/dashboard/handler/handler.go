package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/platform/metrics"
	"povertymap/internal/poverty/aggregate"
	"povertymap/internal/report"
	dErrors "povertymap/pkg/domain-errors"
	"povertymap/pkg/platform/httputil"
	"povertymap/pkg/requestcontext"
)

const (
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Service defines the dashboard views the API exposes.
type Service interface {
	Overview(ctx context.Context) (views.Overview, error)
	Regions(ctx context.Context) (views.RegionList, error)
	Region(ctx context.Context, name string) (views.RegionDetail, error)
	Governorates(ctx context.Context, order views.GovernorateSort) (views.GovernorateList, error)
	Governorate(ctx context.Context, name string) (views.GovernorateDetail, error)
	Top(ctx context.Context, n int, dir aggregate.Direction) (views.TopList, error)
	Comparisons(ctx context.Context) (views.Comparisons, error)
	Delegations(ctx context.Context) views.Unavailable
	Map(ctx context.Context) (views.Choropleth, error)
	Chart(ctx context.Context, chart report.Chart) ([]byte, error)
	Workbook(ctx context.Context) ([]byte, error)
}

// Handler serves the dashboard API.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a dashboard Handler. metrics may be nil.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts the dashboard routes under /api/v1.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/overview", h.handleOverview)
		r.Get("/regions", h.handleRegions)
		r.Get("/regions/{region}", h.handleRegion)
		r.Get("/governorates", h.handleGovernorates)
		r.Get("/governorates/top", h.handleTop)
		r.Get("/governorates/{name}", h.handleGovernorate)
		r.Get("/comparisons", h.handleComparisons)
		r.Get("/delegations", h.handleDelegations)
		r.Get("/map", h.handleMap)
		r.Get("/charts/{chart}.png", h.handleChart)
		r.Get("/export.xlsx", h.handleWorkbook)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Overview(r.Context())
	h.respond(w, r, view, err)
}

func (h *Handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Regions(r.Context())
	h.respond(w, r, view, err)
}

func (h *Handler) handleRegion(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Region(r.Context(), pathParam(r, "region"))
	h.respond(w, r, view, err)
}

func (h *Handler) handleGovernorates(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.service.Governorates(r.Context(), q.order())
	h.respond(w, r, view, err)
}

func (h *Handler) handleGovernorate(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Governorate(r.Context(), pathParam(r, "name"))
	h.respond(w, r, view, err)
}

func (h *Handler) handleTop(w http.ResponseWriter, r *http.Request) {
	q, err := parseTopQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.service.Top(r.Context(), q.N, q.direction())
	h.respond(w, r, view, err)
}

func (h *Handler) handleComparisons(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Comparisons(r.Context())
	h.respond(w, r, view, err)
}

func (h *Handler) handleDelegations(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Delegations(r.Context()))
}

func (h *Handler) handleMap(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Map(r.Context())
	h.respond(w, r, view, err)
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := report.ParseChart(chi.URLParam(r, "chart"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := h.service.Chart(r.Context(), chart)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteBlob(w, contentTypePNG, body)
}

func (h *Handler) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Workbook(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.WorkbookFilename+`"`)
	httputil.WriteBlob(w, contentTypeXLSX, body)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, view any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// writeError answers with the error envelope. Dataset failures feed the
// data-unavailable counter.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	switch {
	case dErrors.IsDataUnavailable(err):
		h.metrics.IncrementDataUnavailable(string(code))
	case code == dErrors.CodeInternal || code == dErrors.CodeConfiguration:
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
