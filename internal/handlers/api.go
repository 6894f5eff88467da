package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// parseYear reads the optional year query parameter. A missing year selects
// the latest year in the data.
func parseYear(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.BadRequestWrap(err, "year must be an integer")
	}
	return &year, nil
}

// dashboardError maps service errors onto API error codes.
func dashboardError(err error) error {
	switch {
	case stderrors.Is(err, services.ErrUnknownYear):
		return errors.Wrap(err, errors.CodeNotFound, "year not available")
	case stderrors.Is(err, services.ErrNoData):
		return errors.Wrap(err, errors.CodeNoData, "no sales data for the selected year")
	case stderrors.Is(err, services.ErrNotLoaded):
		return errors.DataUnavailable(err, "dashboard data is not loaded")
	default:
		return err
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, dashboardError(err), observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) report(w http.ResponseWriter, r *http.Request) (models.Report, bool) {
	year, err := parseYear(r)
	if err != nil {
		h.fail(w, r, err)
		return models.Report{}, false
	}
	report, _, err := h.dashboard.Report(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return models.Report{}, false
	}
	return report, true
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if _, err := h.dashboard.AvailableYears(); err != nil {
		status = "degraded"
	}

	healthData := map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccess(w, stats)
}

func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Reload(r.Context()); err != nil {
		h.fail(w, r, errors.InternalWrap(err, "reload failed"))
		return
	}

	stats, err := h.dashboard.Stats()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, stats)
}

func (h *APIHandlers) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.dashboard.AvailableYears()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sel, err := h.dashboard.Select(nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"years":   years,
		"default": sel.Year,
	}, cacheHeaders)
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, report, cacheHeaders)
}

func (h *APIHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, report.Revenue, cacheHeaders)
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	if report.Products == nil {
		h.fail(w, r, errors.NoData("product metrics not available"))
		return
	}

	errors.WriteSuccessWithHeaders(w, report.Products, cacheHeaders)
}

func (h *APIHandlers) HandleGeography(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	if report.Geography == nil {
		h.fail(w, r, errors.NoData("geographic metrics not available"))
		return
	}

	errors.WriteSuccessWithHeaders(w, report.Geography, cacheHeaders)
}

func (h *APIHandlers) HandleExperience(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	if report.CustomerExperience == nil {
		h.fail(w, r, errors.NoData("customer experience metrics not available"))
		return
	}

	errors.WriteSuccessWithHeaders(w, report.CustomerExperience, cacheHeaders)
}
