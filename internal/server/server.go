package server

import (
	"log/slog"
	"net/http"

	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

type Server struct {
	dashboard      *services.Dashboard
	metrics        *observability.Metrics
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	sseHandlers    *handlers.SSEHandlers
	exportHandlers *handlers.ExportHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dashboard *services.Dashboard, metrics *observability.Metrics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	api := handlers.NewAPIHandlers(dashboard, logger)
	s := &Server{
		dashboard:      dashboard,
		metrics:        metrics,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    api,
		sseHandlers:    handlers.NewSSEHandlers(dashboard, logger),
		exportHandlers: handlers.NewExportHandlers(api, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.apiHandlers.HandleReload)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/years", s.apiHandlers.HandleYears)
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/report/export", s.exportHandlers.HandleReportExport)
	s.mux.HandleFunc("GET /api/revenue", s.apiHandlers.HandleRevenue)
	s.mux.HandleFunc("GET /api/products", s.apiHandlers.HandleProducts)
	s.mux.HandleFunc("GET /api/geography", s.apiHandlers.HandleGeography)
	s.mux.HandleFunc("GET /api/experience", s.apiHandlers.HandleExperience)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/kpis", s.sseHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /sse/categories", s.sseHandlers.HandleCategories)
	s.mux.HandleFunc("GET /sse/states", s.sseHandlers.HandleStates)
	s.mux.HandleFunc("GET /sse/experience", s.sseHandlers.HandleExperience)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
