package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-dashboard/internal/loader"
	"ecommerce-dashboard/internal/loader/loadertest"
	"ecommerce-dashboard/internal/models"
)

type recordingObserver struct {
	mu      sync.Mutex
	hits    int
	misses  int
	loadOK  int
	loadErr int
	tables  map[string]int
}

func (o *recordingObserver) ObserveReport(cached bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cached {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *recordingObserver) ObserveLoad(err error, tables map[string]int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.loadErr++
		return
	}
	o.loadOK++
	o.tables = tables
}

var testNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoadedDashboard(t *testing.T, opts ...Option) (*Dashboard, *recordingObserver) {
	t.Helper()
	obs := &recordingObserver{}
	opts = append([]Option{WithObserver(obs), WithClock(func() time.Time { return testNow })}, opts...)
	d := NewDashboard(loadertest.WriteSample(t), testLogger(), opts...)
	require.NoError(t, d.Load(context.Background()))
	return d, obs
}

func intPtr(v int) *int {
	return &v
}

func TestDashboard_NotLoaded(t *testing.T) {
	d := NewDashboard(t.TempDir(), testLogger())

	_, err := d.AvailableYears()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, _, err = d.Report(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = d.Stats()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestDashboard_LoadMissingDirectory(t *testing.T) {
	obs := &recordingObserver{}
	d := NewDashboard(filepath.Join(t.TempDir(), "nope"), testLogger(), WithObserver(obs))

	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, obs.loadErr)

	_, err = d.AvailableYears()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestDashboard_Load(t *testing.T) {
	d, obs := newLoadedDashboard(t)

	years, err := d.AvailableYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2017, 2018}, years)

	assert.Equal(t, 1, obs.loadOK)
	assert.Equal(t, 7, obs.tables[string(loader.TableOrders)])
	assert.Equal(t, 6, obs.tables[string(loader.TablePayments)])
}

func TestDashboard_Select(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	tests := []struct {
		name     string
		year     *int
		want     int
		previous *int
		err      error
	}{
		{"latest by default", nil, 2018, intPtr(2017), nil},
		{"year with predecessor", intPtr(2018), 2018, intPtr(2017), nil},
		{"earliest year", intPtr(2017), 2017, nil, nil},
		{"unknown year", intPtr(2016), 0, nil, ErrUnknownYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := d.Select(tt.year)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Year)
			assert.Equal(t, tt.previous, sel.Previous)
		})
	}
}

func TestDashboard_Report(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	report, sel, err := d.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2018, sel.Year)
	assert.Equal(t, testNow, report.GeneratedAt)

	rev := report.Revenue
	assert.InDelta(t, 330.0, rev.TotalRevenue, 1e-9)
	assert.Equal(t, 4, rev.TotalOrders)
	assert.Equal(t, 6, rev.TotalItems)
	require.NotNil(t, rev.AverageOrderValue)
	assert.InDelta(t, 82.5, *rev.AverageOrderValue, 1e-9)
	require.NotNil(t, rev.Comparison)
	assert.InDelta(t, 200.0, rev.Comparison.PreviousRevenue, 1e-9)
	require.NotNil(t, rev.Comparison.RevenueGrowthRate)
	assert.InDelta(t, 65.0, *rev.Comparison.RevenueGrowthRate, 1e-9)
	require.NotNil(t, rev.Comparison.OrderGrowthRate)
	assert.InDelta(t, 100.0, *rev.Comparison.OrderGrowthRate, 1e-9)

	assert.Equal(t, 8, report.DataSummary.TotalRecords)
	assert.Equal(t, []int{2017, 2018}, report.DataSummary.YearsAvailable)

	require.NotNil(t, report.Products)
	assert.Equal(t, 3, report.Products.TotalCategories)
	assert.Equal(t, "electronics", report.Products.CategoryPerformance[0].Category)
	assert.InDelta(t, 330.0, report.Products.CategoryPerformance[0].TotalRevenue, 1e-9)
	assert.InDelta(t, 30.0, report.Products.UncategorizedRevenue, 1e-9)

	require.NotNil(t, report.Geography)
	require.Len(t, report.Geography.StatePerformance, 3)
	sp := report.Geography.StatePerformance[0]
	assert.Equal(t, "SP", sp.State)
	assert.InDelta(t, 300.0, sp.TotalRevenue, 1e-9)
	assert.Equal(t, 3, sp.TotalOrders)
	assert.Equal(t, 2, sp.UniqueCustomers)

	require.NotNil(t, report.CustomerExperience)
	cx := report.CustomerExperience
	assert.Equal(t, 5, cx.TotalReviews)
	require.NotNil(t, cx.Satisfaction.AverageReviewScore)
	assert.InDelta(t, 3.0, *cx.Satisfaction.AverageReviewScore, 1e-9)
	require.Len(t, cx.DeliverySatisfaction, 4)
	assert.Equal(t, models.BandFast, cx.DeliverySatisfaction[0].Band)
	assert.InDelta(t, 4.5, *cx.DeliverySatisfaction[0].AverageReviewScore, 1e-9)
	assert.Equal(t, models.BandUnknown, cx.DeliverySatisfaction[3].Band)
	assert.Nil(t, cx.DeliverySatisfaction[3].AverageReviewScore)
}

func TestDashboard_ReportWithoutReviews(t *testing.T) {
	dir := t.TempDir()
	ds := loadertest.Sample()
	ds[loader.TableReviews] = "review_id,order_id,review_score,review_creation_date,review_answer_timestamp\n"
	ds[loader.TablePayments] = "order_id,payment_sequential,payment_type,payment_installments,payment_value\n"
	loadertest.Write(t, dir, ds)

	d := NewDashboard(dir, testLogger())
	require.NoError(t, d.Load(context.Background()))

	report, _, err := d.Report(context.Background(), intPtr(2018))
	require.NoError(t, err)
	assert.InDelta(t, 330.0, report.Revenue.TotalRevenue, 1e-9)

	require.NotNil(t, report.CustomerExperience)
	cx := report.CustomerExperience
	assert.Equal(t, 0, cx.TotalReviews)
	assert.Nil(t, cx.Satisfaction.AverageReviewScore)
	assert.Empty(t, cx.Satisfaction.ReviewScoreDistribution)
	require.NotNil(t, cx.Delivery.AverageDeliveryDays)
}

func TestDashboard_ReportWithoutPreviousYear(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	report, sel, err := d.Report(context.Background(), intPtr(2017))
	require.NoError(t, err)
	assert.Nil(t, sel.Previous)
	assert.InDelta(t, 200.0, report.Revenue.TotalRevenue, 1e-9)
	assert.Nil(t, report.Revenue.Comparison)
}

func TestDashboard_ReportStored(t *testing.T) {
	d, obs := newLoadedDashboard(t)
	ctx := context.Background()

	first, _, err := d.Report(ctx, intPtr(2018))
	require.NoError(t, err)
	second, _, err := d.Report(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 1, obs.hits)

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CachedReports)
}

func TestDashboard_ReportErrors(t *testing.T) {
	d, _ := newLoadedDashboard(t)
	_, _, err := d.Report(context.Background(), intPtr(2016))
	assert.ErrorIs(t, err, ErrUnknownYear)

	canceled, _ := newLoadedDashboard(t, WithStatusFilter("canceled"))
	_, _, err = canceled.Report(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoData)

	stats, err := canceled.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.CachedReports, "failed reports are not stored")
}

func TestDashboard_Reload(t *testing.T) {
	d, obs := newLoadedDashboard(t)
	ctx := context.Background()

	_, _, err := d.Report(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, d.Reload(ctx))
	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.CachedReports)
	assert.Equal(t, 2, obs.loadOK)
}

func TestDashboard_ReloadFailureKeepsData(t *testing.T) {
	d, _ := newLoadedDashboard(t)
	ctx := context.Background()

	_, _, err := d.Report(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(d.dataDir, loader.TableReviews.FileName())))
	require.Error(t, d.Reload(ctx))

	years, err := d.AvailableYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2017, 2018}, years)

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CachedReports)
}

func TestDashboard_Stats(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, "delivered", stats.StatusFilter)
	assert.Equal(t, testNow, stats.LoadedAt)
	assert.Equal(t, []int{2017, 2018}, stats.Years)
	assert.Equal(t, 7, stats.Dataset.UniqueOrders)
	assert.Len(t, stats.Dataset.Tables, 6)
}

func TestDashboard_ConcurrentReports(t *testing.T) {
	d, obs := newLoadedDashboard(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := d.Report(context.Background(), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 7, obs.hits)
}
