package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-dashboard/internal/models"
)

func sale(orderID, productID, customerID string, price float64, year, month int, days *int) models.SalesRecord {
	purchased := time.Date(year, time.Month(month), 1, 10, 0, 0, 0, time.UTC)
	return models.SalesRecord{
		OrderID:      orderID,
		ProductID:    productID,
		CustomerID:   customerID,
		Price:        decimal.NewNullDecimal(decimal.NewFromFloat(price)),
		Status:       "delivered",
		PurchasedAt:  &purchased,
		Year:         year,
		Month:        month,
		DeliveryDays: days,
	}
}

// unpriced is a sales row whose price cell did not parse.
func unpriced(orderID, productID, customerID string, year, month int) models.SalesRecord {
	s := sale(orderID, productID, customerID, 0, year, month, nil)
	s.Price = decimal.NullDecimal{}
	return s
}

func days(v int) *int {
	return &v
}

func year(v int) *int {
	return &v
}

// twoYearSales has three 2018 orders totalling 100, 50 and 150 and two 2017
// orders totalling 80 and 120. The first 2018 order has two items.
func twoYearSales() []models.SalesRecord {
	return []models.SalesRecord{
		sale("a", "p1", "c1", 60, 2018, 1, days(2)),
		sale("a", "p2", "c1", 40, 2018, 1, days(2)),
		sale("b", "p3", "c2", 50, 2018, 2, days(5)),
		sale("c", "p1", "c3", 150, 2018, 3, days(9)),
		sale("d", "p2", "c1", 80, 2017, 6, days(3)),
		sale("e", "p3", "c2", 120, 2017, 7, nil),
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
}

func TestRevenueMetrics_WithPriorYear(t *testing.T) {
	c := NewCalculator(twoYearSales())

	m := c.RevenueMetrics(2018, year(2017))

	assert.Equal(t, 2018, m.CurrentYear)
	assert.InDelta(t, 300.0, m.TotalRevenue, 1e-9)
	assert.Equal(t, 3, m.TotalOrders)
	assert.Equal(t, 4, m.TotalItems)
	require.NotNil(t, m.AverageOrderValue)
	assert.InDelta(t, 100.0, *m.AverageOrderValue, 1e-9)

	require.NotNil(t, m.Comparison)
	p := m.Comparison
	assert.Equal(t, 2017, p.PreviousYear)
	assert.InDelta(t, 200.0, p.PreviousRevenue, 1e-9)
	assert.Equal(t, 2, p.PreviousOrders)
	require.NotNil(t, p.RevenueGrowthRate)
	assert.InDelta(t, (300.0-200.0)/200.0*100, *p.RevenueGrowthRate, 1e-9)
	assert.InDelta(t, 50.0, *p.RevenueGrowthRate, 1e-9)
	require.NotNil(t, p.OrderGrowthRate)
	assert.InDelta(t, 50.0, *p.OrderGrowthRate, 1e-9)
	require.NotNil(t, p.AOVGrowthRate)
	assert.InDelta(t, 0.0, *p.AOVGrowthRate, 1e-9)
	assert.Equal(t, []models.MonthlyRevenue{{Month: 6, Revenue: 80}, {Month: 7, Revenue: 120}}, p.PreviousMonthlyRevenue)
}

func TestRevenueMetrics_OrderValueDiffersFromItemPrice(t *testing.T) {
	m := NewCalculator(twoYearSales()).RevenueMetrics(2018, nil)

	require.NotNil(t, m.AverageOrderValue)
	require.NotNil(t, m.AverageItemPrice)
	assert.InDelta(t, 100.0, *m.AverageOrderValue, 1e-9)
	assert.InDelta(t, 75.0, *m.AverageItemPrice, 1e-9)
	assert.NotEqual(t, *m.AverageOrderValue, *m.AverageItemPrice)
	assert.Nil(t, m.Comparison)
}

func TestRevenueMetrics_MonthlySeries(t *testing.T) {
	m := NewCalculator(twoYearSales()).RevenueMetrics(2018, nil)

	assert.Equal(t, []models.MonthlyRevenue{
		{Month: 1, Revenue: 100},
		{Month: 2, Revenue: 50},
		{Month: 3, Revenue: 150},
	}, m.MonthlyRevenue)

	// -50% then +200%
	require.NotNil(t, m.MonthlyGrowthTrend)
	assert.InDelta(t, 75.0, *m.MonthlyGrowthTrend, 1e-9)
}

func TestRevenueMetrics_EmptyYear(t *testing.T) {
	m := NewCalculator(twoYearSales()).RevenueMetrics(2016, year(2015))

	assert.Zero(t, m.TotalRevenue)
	assert.Zero(t, m.TotalOrders)
	assert.Zero(t, m.TotalItems)
	assert.Nil(t, m.AverageOrderValue)
	assert.Nil(t, m.AverageItemPrice)
	assert.Nil(t, m.MonthlyGrowthTrend)
	assert.Nil(t, m.Comparison)
	assert.NotNil(t, m.MonthlyRevenue)
	assert.Empty(t, m.MonthlyRevenue)
}

func TestRevenueMetrics_EmptyYearWithPriorData(t *testing.T) {
	m := NewCalculator(twoYearSales()).RevenueMetrics(2019, year(2018))

	assert.Zero(t, m.TotalRevenue)
	assert.Nil(t, m.Comparison)
}

func TestRevenueMetrics_ZeroPriorRevenue(t *testing.T) {
	sales := []models.SalesRecord{
		sale("a", "p1", "c1", 100, 2018, 1, nil),
		sale("z", "p1", "c1", 0, 2017, 1, nil),
	}

	m := NewCalculator(sales).RevenueMetrics(2018, year(2017))

	require.NotNil(t, m.Comparison)
	assert.Zero(t, m.Comparison.PreviousRevenue)
	assert.Nil(t, m.Comparison.RevenueGrowthRate)
	assert.Nil(t, m.Comparison.AOVGrowthRate)
	require.NotNil(t, m.Comparison.OrderGrowthRate)
	assert.InDelta(t, 0.0, *m.Comparison.OrderGrowthRate, 1e-9)
}

func TestRevenueMetrics_PriorYearWithoutRows(t *testing.T) {
	m := NewCalculator(twoYearSales()).RevenueMetrics(2018, year(2010))
	assert.Nil(t, m.Comparison)
}

func TestRevenueMetrics_MissingPrice(t *testing.T) {
	sales := []models.SalesRecord{
		sale("a", "p1", "c1", 100, 2018, 1, nil),
		unpriced("a", "p2", "c1", 2018, 1),
		unpriced("b", "p2", "c2", 2018, 2),
	}

	m := NewCalculator(sales).RevenueMetrics(2018, nil)

	assert.InDelta(t, 100.0, m.TotalRevenue, 1e-9)
	assert.Equal(t, 2, m.TotalOrders)
	assert.Equal(t, 3, m.TotalItems, "unpriced items still count")
	require.NotNil(t, m.AverageItemPrice)
	assert.InDelta(t, 100.0, *m.AverageItemPrice, 1e-9)
	require.NotNil(t, m.AverageOrderValue)
	assert.InDelta(t, 50.0, *m.AverageOrderValue, 1e-9)
	assert.Equal(t, []models.MonthlyRevenue{{Month: 1, Revenue: 100}, {Month: 2, Revenue: 0}}, m.MonthlyRevenue)
}

func TestRevenueMetrics_ExactCents(t *testing.T) {
	sales := []models.SalesRecord{
		sale("a", "p1", "c1", 0.1, 2018, 1, nil),
		sale("b", "p1", "c1", 0.2, 2018, 1, nil),
	}

	m := NewCalculator(sales).RevenueMetrics(2018, nil)

	assert.Equal(t, 0.3, m.TotalRevenue)
	assert.Equal(t, 0.3, m.MonthlyRevenue[0].Revenue)
}

func TestMonthlyGrowthTrend(t *testing.T) {
	tests := []struct {
		name    string
		monthly []models.MonthlyRevenue
		want    *float64
	}{
		{"empty", nil, nil},
		{"single month", []models.MonthlyRevenue{{Month: 1, Revenue: 10}}, nil},
		{"doubling", []models.MonthlyRevenue{{Month: 1, Revenue: 10}, {Month: 2, Revenue: 20}}, ptr(100.0)},
		{"zero month skipped", []models.MonthlyRevenue{
			{Month: 1, Revenue: 0},
			{Month: 2, Revenue: 10},
			{Month: 3, Revenue: 5},
		}, ptr(-50.0)},
		{"only zero steps", []models.MonthlyRevenue{{Month: 1, Revenue: 0}, {Month: 2, Revenue: 10}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthlyGrowthTrend(tt.monthly)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestProductMetrics(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 60, 2018, 1, nil),
		sale("o1", "p2", "c1", 40, 2018, 1, nil),
		sale("o2", "p3", "c2", 50, 2018, 2, nil),
		sale("o3", "p1", "c3", 100, 2018, 3, nil),
		sale("o3", "p4", "c3", 50, 2018, 3, nil),
		sale("o3", "p9", "c3", 10, 2018, 3, nil),
	}
	categories := []models.ProductCategory{
		{ProductID: "p1", Category: "electronics"},
		{ProductID: "p2", Category: "housewares"},
		{ProductID: "p3", Category: "electronics"},
		{ProductID: "p4", Category: ""},
	}

	m := NewCalculator(sales).ProductMetrics(categories)

	require.Len(t, m.CategoryPerformance, 2)
	assert.Equal(t, 2, m.TotalCategories)
	assert.InDelta(t, 60.0, m.UncategorizedRevenue, 1e-9)

	top := m.CategoryPerformance[0]
	assert.Equal(t, "electronics", top.Category)
	assert.InDelta(t, 210.0, top.TotalRevenue, 1e-9)
	assert.InDelta(t, 70.0, top.AvgItemPrice, 1e-9)
	assert.Equal(t, 3, top.TotalItems)
	assert.Equal(t, 3, top.TotalOrders)
	assert.Equal(t, 2, top.UniqueProducts)
	require.NotNil(t, top.RevenueSharePct)
	assert.InDelta(t, 84.0, *top.RevenueSharePct, 1e-9)

	second := m.CategoryPerformance[1]
	assert.Equal(t, "housewares", second.Category)
	require.NotNil(t, second.RevenueSharePct)
	assert.InDelta(t, 16.0, *second.RevenueSharePct, 1e-9)

	require.NotNil(t, m.RevenueConcentration)
	assert.InDelta(t, 100.0, *m.RevenueConcentration, 1e-9)
	assert.Equal(t, m.CategoryPerformance, m.TopCategories)
}

func TestProductMetrics_MissingPrice(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 60, 2018, 1, nil),
		unpriced("o2", "p1", "c2", 2018, 1),
		unpriced("o3", "p2", "c3", 2018, 1),
	}
	categories := []models.ProductCategory{
		{ProductID: "p1", Category: "electronics"},
		{ProductID: "p2", Category: "toys"},
	}

	m := NewCalculator(sales).ProductMetrics(categories)

	require.Len(t, m.CategoryPerformance, 2)
	electronics := m.CategoryPerformance[0]
	assert.InDelta(t, 60.0, electronics.TotalRevenue, 1e-9)
	assert.InDelta(t, 60.0, electronics.AvgItemPrice, 1e-9)
	assert.Equal(t, 1, electronics.TotalItems, "items count priced rows only")
	assert.Equal(t, 2, electronics.TotalOrders)

	toys := m.CategoryPerformance[1]
	assert.Zero(t, toys.TotalRevenue)
	assert.Zero(t, toys.AvgItemPrice)
	assert.Zero(t, toys.TotalItems)
	assert.Equal(t, 1, toys.TotalOrders)
}

func TestProductMetrics_SharesSumToHundred(t *testing.T) {
	var sales []models.SalesRecord
	var categories []models.ProductCategory
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		product := "p" + name
		sales = append(sales, sale("o"+name, product, "c1", float64(10+i), 2018, 1, nil))
		categories = append(categories, models.ProductCategory{ProductID: product, Category: name})
	}

	m := NewCalculator(sales).ProductMetrics(categories)

	total := 0.0
	for _, c := range m.CategoryPerformance {
		require.NotNil(t, c.RevenueSharePct)
		total += *c.RevenueSharePct
	}
	assert.InDelta(t, 100.0, total, 0.05)

	require.NotNil(t, m.RevenueConcentration)
	top5 := 0.0
	for _, c := range m.CategoryPerformance[:5] {
		top5 += *c.RevenueSharePct
	}
	assert.InDelta(t, top5, *m.RevenueConcentration, 0.005)

	for i := 1; i < len(m.CategoryPerformance); i++ {
		assert.GreaterOrEqual(t, m.CategoryPerformance[i-1].TotalRevenue, m.CategoryPerformance[i].TotalRevenue)
	}
}

func TestProductMetrics_NoRevenue(t *testing.T) {
	m := NewCalculator(nil).ProductMetrics(nil)

	assert.Empty(t, m.CategoryPerformance)
	assert.Empty(t, m.TopCategories)
	assert.Zero(t, m.TotalCategories)
	assert.Nil(t, m.RevenueConcentration)
}

func TestGeographicMetrics(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 60, 2018, 1, nil),
		sale("o1", "p2", "c1", 60, 2018, 1, nil),
		sale("o2", "p3", "c2", 50, 2018, 2, nil),
		sale("o3", "p1", "c1", 30, 2018, 3, nil),
		sale("o4", "p1", "c3", 70, 2018, 3, nil),
		sale("o5", "p1", "c9", 20, 2018, 3, nil),
	}
	customers := []models.CustomerLocation{
		{CustomerID: "c1", State: "SP", City: "sao paulo"},
		{CustomerID: "c2", State: "RJ", City: "rio de janeiro"},
		{CustomerID: "c3", State: "", City: "unknown"},
	}

	m := NewCalculator(sales).GeographicMetrics(customers)

	require.Len(t, m.StatePerformance, 2)
	assert.Equal(t, 2, m.TotalStates)

	sp := m.StatePerformance[0]
	assert.Equal(t, "SP", sp.State)
	assert.InDelta(t, 90.0, sp.TotalRevenue, 1e-9, "same-price items of one order count once")
	assert.Equal(t, 2, sp.TotalOrders)
	assert.Equal(t, 1, sp.UniqueCustomers)
	assert.InDelta(t, 45.0, sp.AvgOrderValue, 1e-9)
	assert.InDelta(t, 90.0, sp.RevenuePerCustomer, 1e-9)
	require.NotNil(t, sp.RevenueSharePct)
	assert.InDelta(t, 64.29, *sp.RevenueSharePct, 1e-9)

	rj := m.StatePerformance[1]
	assert.Equal(t, "RJ", rj.State)
	require.NotNil(t, rj.RevenueSharePct)
	assert.InDelta(t, 35.71, *rj.RevenueSharePct, 1e-9)

	require.NotNil(t, m.GeographicConcentration)
	assert.InDelta(t, 100.0, *m.GeographicConcentration, 1e-9)
}

func TestGeographicMetrics_DecimalTotals(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 0.1, 2018, 1, nil),
		sale("o2", "p1", "c1", 0.2, 2018, 1, nil),
		unpriced("o3", "p2", "c1", 2018, 1),
		unpriced("o3", "p3", "c1", 2018, 1),
	}
	customers := []models.CustomerLocation{{CustomerID: "c1", State: "SP"}}

	m := NewCalculator(sales).GeographicMetrics(customers)

	require.Len(t, m.StatePerformance, 1)
	sp := m.StatePerformance[0]
	assert.Equal(t, 0.3, sp.TotalRevenue)
	assert.Equal(t, 3, sp.TotalOrders)
	assert.Equal(t, 0.1, sp.AvgOrderValue)
	assert.Equal(t, 0.3, sp.RevenuePerCustomer)
}

func TestCustomerSatisfactionMetrics_DeliveryBands(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 10, 2018, 1, days(1)),
		sale("o1", "p2", "c1", 20, 2018, 1, days(1)),
		sale("o2", "p1", "c2", 10, 2018, 1, days(5)),
		sale("o3", "p1", "c3", 10, 2018, 1, days(12)),
		sale("o4", "p1", "c4", 10, 2018, 1, nil),
	}
	reviews := []models.ReviewScore{
		{OrderID: "o1", Score: 5},
		{OrderID: "o2", Score: 3},
		{OrderID: "o3", Score: 2},
		{OrderID: "o4", Score: 4},
		{OrderID: "zz", Score: 1},
	}

	m := NewCalculator(sales).CustomerSatisfactionMetrics(reviews)

	require.Len(t, m.DeliverySatisfaction, 4)
	want := []struct {
		band  string
		score float64
	}{
		{models.BandFast, 5},
		{models.BandMedium, 3},
		{models.BandSlow, 2},
		{models.BandUnknown, 4},
	}
	for i, w := range want {
		got := m.DeliverySatisfaction[i]
		assert.Equal(t, w.band, got.Band)
		assert.Equal(t, 1, got.Orders)
		require.NotNil(t, got.AverageReviewScore)
		assert.Equal(t, w.score, *got.AverageReviewScore)
	}

	s := m.Satisfaction
	require.NotNil(t, s.AverageReviewScore)
	assert.InDelta(t, 3.5, *s.AverageReviewScore, 1e-9)
	assert.InDelta(t, 50.0, *s.HighSatisfactionRate, 1e-9)
	assert.InDelta(t, 25.0, *s.LowSatisfactionRate, 1e-9)
	assert.Equal(t, []models.ScoreShare{
		{Score: 2, Share: 0.25},
		{Score: 3, Share: 0.25},
		{Score: 4, Share: 0.25},
		{Score: 5, Share: 0.25},
	}, s.ReviewScoreDistribution)

	d := m.Delivery
	require.NotNil(t, d.AverageDeliveryDays)
	assert.InDelta(t, 6.0, *d.AverageDeliveryDays, 1e-9)
	assert.InDelta(t, 5.0, *d.MedianDeliveryDays, 1e-9)
	assert.InDelta(t, 25.0, *d.FastDeliveryRate, 1e-9)
	assert.InDelta(t, 25.0, *d.SlowDeliveryRate, 1e-9)
	assert.Equal(t, 4, m.TotalReviews)
}

func TestCustomerSatisfactionMetrics_UnreviewedOrders(t *testing.T) {
	sales := []models.SalesRecord{
		sale("o1", "p1", "c1", 10, 2018, 1, days(2)),
		sale("o2", "p1", "c2", 10, 2018, 1, days(4)),
	}
	reviews := []models.ReviewScore{
		{OrderID: "o1", Score: 5},
		{OrderID: "o1", Score: 4},
	}

	m := NewCalculator(sales).CustomerSatisfactionMetrics(reviews)

	assert.Equal(t, 2, m.TotalReviews)
	require.NotNil(t, m.Satisfaction.HighSatisfactionRate)
	assert.InDelta(t, 200.0/3, *m.Satisfaction.HighSatisfactionRate, 1e-9, "unreviewed order counts in the denominator")

	require.Len(t, m.DeliverySatisfaction, 2)
	medium := m.DeliverySatisfaction[1]
	assert.Equal(t, models.BandMedium, medium.Band)
	assert.Nil(t, medium.AverageReviewScore)
}

func TestCustomerSatisfactionMetrics_Empty(t *testing.T) {
	m := NewCalculator(nil).CustomerSatisfactionMetrics(nil)

	assert.Nil(t, m.Satisfaction.AverageReviewScore)
	assert.Nil(t, m.Satisfaction.HighSatisfactionRate)
	assert.Nil(t, m.Delivery.MedianDeliveryDays)
	assert.Empty(t, m.DeliverySatisfaction)
	assert.Zero(t, m.TotalReviews)
}

func TestComprehensiveReport_Sections(t *testing.T) {
	c := NewCalculator(twoYearSales(), WithClock(fixedClock))

	bare := c.ComprehensiveReport(2018, year(2017))
	assert.Nil(t, bare.Products)
	assert.Nil(t, bare.Geography)
	assert.Nil(t, bare.CustomerExperience)
	assert.Equal(t, fixedClock(), bare.GeneratedAt)

	full := c.ComprehensiveReport(2018, year(2017),
		WithCategories([]models.ProductCategory{{ProductID: "p1", Category: "electronics"}}),
		WithCustomers(nil),
		WithReviews(nil),
	)
	require.NotNil(t, full.Products)
	require.NotNil(t, full.Geography)
	require.NotNil(t, full.CustomerExperience)
	assert.Equal(t, 1, full.Products.TotalCategories)
	assert.Zero(t, full.Geography.TotalStates)
	assert.Equal(t, bare.Revenue, full.Revenue)
}

func TestComprehensiveReport_DataSummary(t *testing.T) {
	r := NewCalculator(twoYearSales(), WithClock(fixedClock)).ComprehensiveReport(2018, nil)

	assert.Equal(t, 6, r.DataSummary.TotalRecords)
	assert.Equal(t, []int{2017, 2018}, r.DataSummary.YearsAvailable)
	require.NotNil(t, r.DataSummary.DateRange.Start)
	require.NotNil(t, r.DataSummary.DateRange.End)
	assert.Equal(t, time.Date(2017, 6, 1, 10, 0, 0, 0, time.UTC), *r.DataSummary.DateRange.Start)
	assert.Equal(t, time.Date(2018, 3, 1, 10, 0, 0, 0, time.UTC), *r.DataSummary.DateRange.End)
}

func TestComprehensiveReport_Idempotent(t *testing.T) {
	sales := twoYearSales()
	before := make([]models.SalesRecord, len(sales))
	copy(before, sales)

	c := NewCalculator(sales, WithClock(fixedClock))
	opts := []ReportOption{
		WithCategories([]models.ProductCategory{{ProductID: "p1", Category: "electronics"}}),
		WithCustomers([]models.CustomerLocation{{CustomerID: "c1", State: "SP"}}),
		WithReviews([]models.ReviewScore{{OrderID: "a", Score: 5}}),
	}

	first := c.ComprehensiveReport(2018, year(2017), opts...)
	second := c.ComprehensiveReport(2018, year(2017), opts...)

	assert.Equal(t, first, second)
	assert.Equal(t, before, sales)
}

func TestNewCalculator_CopiesInput(t *testing.T) {
	sales := twoYearSales()
	c := NewCalculator(sales)
	sales[0].Price = decimal.NewNullDecimal(decimal.NewFromInt(1000))

	m := c.RevenueMetrics(2018, nil)
	assert.InDelta(t, 300.0, m.TotalRevenue, 1e-9)
}

func TestStats(t *testing.T) {
	assert.Equal(t, 2.68, round2(2.675))
	assert.Equal(t, 33.33, round2(100.0/3))

	assert.Nil(t, median(nil))
	assert.Equal(t, 3.0, *median([]float64{5, 1}))
	assert.Equal(t, 5.0, *median([]float64{12, 1, 5}))

	assert.Nil(t, rate(1, 0))
	assert.Nil(t, growth(10, 0))
	assert.InDelta(t, -100.0, *growth(0, 10), 1e-9)
	assert.Nil(t, growthPtr(nil, ptr(1.0)))
}

func TestReportStore_GetOrCompute(t *testing.T) {
	store := NewReportStore()
	key := NewReportKey("data", 2018, year(2017))
	calls := 0
	compute := func() (models.Report, error) {
		calls++
		return models.Report{Revenue: models.RevenueMetrics{CurrentYear: 2018}}, nil
	}

	r, hit, err := store.GetOrCompute(key, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2018, r.Revenue.CurrentYear)

	r, hit, err = store.GetOrCompute(key, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2018, r.Revenue.CurrentYear)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get(NewReportKey("data", 2018, nil))
	assert.False(t, ok, "a report without comparison is a different entry")
}

func TestReportStore_ComputeError(t *testing.T) {
	store := NewReportStore()
	boom := errors.New("boom")

	_, _, err := store.GetOrCompute(NewReportKey("data", 2018, nil), func() (models.Report, error) {
		return models.Report{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())
}

func TestReportStore_PutReplaces(t *testing.T) {
	store := NewReportStore()
	key := NewReportKey("data", 2018, nil)

	store.Put(key, models.Report{Revenue: models.RevenueMetrics{TotalOrders: 1}})
	store.Put(key, models.Report{Revenue: models.RevenueMetrics{TotalOrders: 2}})

	r, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, r.Revenue.TotalOrders)
	assert.Equal(t, 1, store.Len())
}

func BenchmarkComprehensiveReport(b *testing.B) {
	var sales []models.SalesRecord
	var categories []models.ProductCategory
	var customers []models.CustomerLocation
	var reviews []models.ReviewScore
	for i := range 5000 {
		order := fmt.Sprintf("o%d", i/3)
		product := fmt.Sprintf("p%d", i%200)
		customer := fmt.Sprintf("c%d", i%900)
		sales = append(sales, sale(order, product, customer, float64(i%300), 2017+i%2, 1+i%12, days(i%15)))
		reviews = append(reviews, models.ReviewScore{OrderID: order, Score: 1 + i%5})
	}
	for i := range 200 {
		categories = append(categories, models.ProductCategory{ProductID: fmt.Sprintf("p%d", i), Category: fmt.Sprintf("cat%d", i%20)})
	}
	for i := range 900 {
		customers = append(customers, models.CustomerLocation{CustomerID: fmt.Sprintf("c%d", i), State: fmt.Sprintf("S%d", i%27)})
	}

	c := NewCalculator(sales)
	for b.Loop() {
		c.ComprehensiveReport(2018, year(2017), WithCategories(categories), WithCustomers(customers), WithReviews(reviews))
	}
}
