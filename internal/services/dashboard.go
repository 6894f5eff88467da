package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ecommerce-dashboard/internal/loader"
	"ecommerce-dashboard/internal/metrics"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

var (
	ErrNotLoaded   = errors.New("dashboard data not loaded")
	ErrUnknownYear = errors.New("year not present in data")
	ErrNoData      = errors.New("no sales for selected year")
)

// Observer receives load and report outcomes, typically for metrics.
type Observer interface {
	ObserveReport(cached bool, d time.Duration)
	ObserveLoad(err error, tables map[string]int)
}

type nopObserver struct{}

func (nopObserver) ObserveReport(bool, time.Duration) {}
func (nopObserver) ObserveLoad(error, map[string]int) {}

// Selection is the resolved year and, when the data has it, the year before.
type Selection struct {
	Year     int  `json:"year"`
	Previous *int `json:"previous_year,omitempty"`
}

type Stats struct {
	DataDir       string                `json:"data_dir"`
	StatusFilter  string                `json:"status_filter"`
	LoadedAt      time.Time             `json:"loaded_at"`
	Years         []int                 `json:"years_available"`
	CachedReports int                   `json:"cached_reports"`
	Dataset       loader.DatasetSummary `json:"dataset"`
}

// Dashboard owns the session data for one data directory: the processed
// tables and the reports computed from them. All access to the loader and
// the report store goes through mu.
type Dashboard struct {
	dataDir      string
	statusFilter string
	logger       *slog.Logger
	observer     Observer
	tracer       trace.Tracer
	now          func() time.Time

	mu       sync.Mutex
	loader   *loader.Loader
	store    *metrics.ReportStore
	years    []int
	loadedAt time.Time
}

type Option func(*Dashboard)

func WithObserver(o Observer) Option {
	return func(d *Dashboard) {
		d.observer = o
	}
}

// WithStatusFilter sets the order status that sales views keep. An empty
// status keeps every order.
func WithStatusFilter(status string) Option {
	return func(d *Dashboard) {
		d.statusFilter = status
	}
}

// WithClock overrides the clock used for load times and report stamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		d.now = now
	}
}

func NewDashboard(dataDir string, logger *slog.Logger, opts ...Option) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{
		dataDir:      dataDir,
		statusFilter: "delivered",
		logger:       logger,
		observer:     nopObserver{},
		tracer:       observability.Tracer(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load processes the data directory and swaps it in on success. A failed
// load keeps the previously loaded data and reports.
func (d *Dashboard) Load(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "dashboard.Load",
		trace.WithAttributes(attribute.String("data.dir", d.dataDir)))
	defer span.End()

	start := time.Now()
	l := loader.New(d.dataDir, d.logger)

	err := l.ProcessAll(ctx)
	var years []int
	if err == nil {
		years, err = l.AvailableYears()
	}
	if err != nil {
		d.observer.ObserveLoad(err, nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("load dashboard data: %w", err)
	}

	d.observer.ObserveLoad(nil, l.RecordCounts())

	d.mu.Lock()
	d.loader = l
	d.store = metrics.NewReportStore()
	d.years = years
	d.loadedAt = d.now()
	d.mu.Unlock()

	d.logger.Info("dashboard data loaded",
		"path", d.dataDir,
		"years", years,
		"duration", time.Since(start),
	)
	return nil
}

// Reload re-reads the data directory and discards every stored report.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.logger.Info("reloading dashboard data", "path", d.dataDir)
	return d.Load(ctx)
}

func (d *Dashboard) AvailableYears() ([]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loader == nil {
		return nil, ErrNotLoaded
	}
	return slices.Clone(d.years), nil
}

// Select resolves a requested year. A nil year selects the latest one.
func (d *Dashboard) Select(year *int) (Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectLocked(year)
}

func (d *Dashboard) selectLocked(year *int) (Selection, error) {
	if d.loader == nil {
		return Selection{}, ErrNotLoaded
	}
	if len(d.years) == 0 {
		return Selection{}, ErrNoData
	}

	sel := Selection{Year: d.years[len(d.years)-1]}
	if year != nil {
		if !slices.Contains(d.years, *year) {
			return Selection{}, fmt.Errorf("%w: %d", ErrUnknownYear, *year)
		}
		sel.Year = *year
	}
	if prev := sel.Year - 1; slices.Contains(d.years, prev) {
		sel.Previous = &prev
	}
	return sel, nil
}

// Report returns the comprehensive report for year, computing it on the
// first request and serving it from the report store afterwards.
func (d *Dashboard) Report(ctx context.Context, year *int) (models.Report, Selection, error) {
	_, span := d.tracer.Start(ctx, "dashboard.Report")
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.selectLocked(year)
	if err != nil {
		span.RecordError(err)
		return models.Report{}, Selection{}, err
	}
	span.SetAttributes(attribute.Int("report.year", sel.Year))

	start := time.Now()
	key := metrics.NewReportKey(d.dataDir, sel.Year, sel.Previous)
	report, cached, err := d.store.GetOrCompute(key, func() (models.Report, error) {
		return d.buildReport(sel)
	})
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, ErrNoData) {
			span.SetStatus(codes.Error, err.Error())
		}
		return models.Report{}, sel, err
	}

	d.observer.ObserveReport(cached, time.Since(start))
	span.SetAttributes(attribute.Bool("report.cached", cached))
	return report, sel, nil
}

func (d *Dashboard) buildReport(sel Selection) (models.Report, error) {
	years := []int{sel.Year}
	if sel.Previous != nil {
		years = append(years, *sel.Previous)
	}

	sales, err := d.loader.BuildSalesView(loader.SalesFilter{Years: years, Status: d.statusFilter})
	if err != nil {
		return models.Report{}, fmt.Errorf("build sales view: %w", err)
	}
	if !slices.ContainsFunc(sales, func(s models.SalesRecord) bool { return s.Year == sel.Year }) {
		return models.Report{}, fmt.Errorf("%w: %d", ErrNoData, sel.Year)
	}

	categories, err := d.loader.CategoryLookup()
	if err != nil {
		return models.Report{}, err
	}
	customers, err := d.loader.GeographyLookup()
	if err != nil {
		return models.Report{}, err
	}
	reviews, err := d.loader.ReviewLookup()
	if err != nil {
		return models.Report{}, err
	}

	calc := metrics.NewCalculator(sales, metrics.WithClock(d.now))
	report := calc.ComprehensiveReport(sel.Year, sel.Previous,
		metrics.WithCategories(categories),
		metrics.WithCustomers(customers),
		metrics.WithReviews(reviews),
	)

	d.logger.Info("report computed",
		"year", sel.Year,
		"previous_year", sel.Previous,
		"records", calc.Records(),
	)
	return report, nil
}

func (d *Dashboard) Stats() (Stats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loader == nil {
		return Stats{}, ErrNotLoaded
	}
	summary, err := d.loader.Summary()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		DataDir:       d.dataDir,
		StatusFilter:  d.statusFilter,
		LoadedAt:      d.loadedAt,
		Years:         slices.Clone(d.years),
		CachedReports: d.store.Len(),
		Dataset:       summary,
	}, nil
}
