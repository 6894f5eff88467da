package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/middleware"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/server"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheNoStore  = "no-store"
)

// dashboardPage renders the page shell for the requested year. Sections are
// streamed in afterwards by the page itself.
func dashboardPage(dashboard *services.Dashboard, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		page := templates.Page{}
		var year *int
		if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
			year = &y
		}

		years, err := dashboard.AvailableYears()
		switch {
		case err != nil:
			page.Notice = "Dashboard data is not loaded yet."
		case len(years) == 0:
			page.Notice = "No orders found in the data directory."
		default:
			page.Years = years
			sel, err := dashboard.Select(year)
			if err != nil {
				sel, _ = dashboard.Select(nil)
			}
			page.Selected = sel.Year
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheNoStore)
		if err := templates.Dashboard(page).Render(ctx, w); err != nil {
			logger.Error("render dashboard", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// newHandler wires the routes behind the middleware chain. Metrics sits
// innermost so it sees the pattern the mux matched.
func newHandler(cfg *config.Config, dashboard *services.Dashboard, metrics *observability.Metrics, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPage(dashboard, logger),
	}
	srv := server.NewServer(dashboard, metrics, logger, templateHandlers)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
		middleware.Metrics(metrics),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"data_dir", cfg.Data.Dir,
		"status_filter", cfg.Data.StatusFilter,
		"tracing", cfg.Tracing.Enabled,
	)

	shutdownTracing, err := observability.InitTracing(cfg.Tracing)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	dashboard := services.NewDashboard(cfg.Data.Dir, logger,
		services.WithObserver(metrics),
		services.WithStatusFilter(cfg.Data.StatusFilter),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	start := time.Now()
	err = dashboard.Load(ctx)
	cancel()
	if err != nil {
		// The page reports the missing data; POST /admin/reload retries.
		logger.Error("failed to load dashboard data", "error", err, "path", cfg.Data.Dir)
	} else {
		logger.Info("dashboard data loaded successfully", "duration", time.Since(start))
	}

	limiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go limiter.Run(sweepCtx)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, metrics, limiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook("tracing", shutdownTracing)
	gracefulServer.RegisterShutdownHook("rate limiter", func(context.Context) error {
		stopSweep()
		return nil
	})

	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
