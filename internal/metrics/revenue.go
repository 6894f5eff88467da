package metrics

import (
	"slices"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

type periodTotals struct {
	revenue float64
	orders  int
	aov     *float64
	monthly []models.MonthlyRevenue
}

// totals aggregates a single period. AOV is the mean of per-order sums, not
// the mean item price. Money is summed in decimal and converted once.
func totals(rows []models.SalesRecord) periodTotals {
	perOrder := make(map[string]decimal.Decimal)
	var order []string
	byMonth := make(map[int]decimal.Decimal)

	revenue := decimal.Zero
	for _, r := range rows {
		price := amount(r.Price)
		revenue = revenue.Add(price)
		if _, ok := perOrder[r.OrderID]; !ok {
			order = append(order, r.OrderID)
		}
		perOrder[r.OrderID] = perOrder[r.OrderID].Add(price)
		byMonth[r.Month] = byMonth[r.Month].Add(price)
	}

	t := periodTotals{
		revenue: revenue.InexactFloat64(),
		orders:  len(perOrder),
	}

	orderSums := make([]float64, len(order))
	for i, id := range order {
		orderSums[i] = perOrder[id].InexactFloat64()
	}
	t.aov = mean(orderSums)

	t.monthly = make([]models.MonthlyRevenue, 0, len(byMonth))
	for month, total := range byMonth {
		t.monthly = append(t.monthly, models.MonthlyRevenue{Month: month, Revenue: total.InexactFloat64()})
	}
	slices.SortFunc(t.monthly, func(a, b models.MonthlyRevenue) int {
		return a.Month - b.Month
	})
	return t
}

// RevenueMetrics reports headline revenue for year. When prior is set and
// both periods have rows, a comparison block with growth rates is added.
func (c *Calculator) RevenueMetrics(year int, prior *int) models.RevenueMetrics {
	current := c.forYear(year)
	cur := totals(current)

	prices := make([]float64, 0, len(current))
	for _, r := range current {
		if r.Price.Valid {
			prices = append(prices, r.Price.Decimal.InexactFloat64())
		}
	}

	m := models.RevenueMetrics{
		CurrentYear:        year,
		TotalRevenue:       cur.revenue,
		TotalOrders:        cur.orders,
		TotalItems:         len(current),
		AverageOrderValue:  cur.aov,
		AverageItemPrice:   mean(prices),
		MonthlyRevenue:     cur.monthly,
		MonthlyGrowthTrend: monthlyGrowthTrend(cur.monthly),
	}

	if prior == nil || len(current) == 0 {
		return m
	}
	previous := c.forYear(*prior)
	if len(previous) == 0 {
		return m
	}

	prev := totals(previous)
	m.Comparison = &models.PriorPeriod{
		PreviousYear:           *prior,
		PreviousRevenue:        prev.revenue,
		PreviousOrders:         prev.orders,
		PreviousAOV:            prev.aov,
		PreviousMonthlyRevenue: prev.monthly,
		RevenueGrowthRate:      growth(cur.revenue, prev.revenue),
		OrderGrowthRate:        growth(float64(cur.orders), float64(prev.orders)),
		AOVGrowthRate:          growthPtr(cur.aov, prev.aov),
	}
	return m
}

// monthlyGrowthTrend is the mean month-over-month percentage change of a
// month-sorted series. Steps out of a zero month are undefined and skipped.
func monthlyGrowthTrend(monthly []models.MonthlyRevenue) *float64 {
	var changes []float64
	for i := 1; i < len(monthly); i++ {
		if g := growth(monthly[i].Revenue, monthly[i-1].Revenue); g != nil {
			changes = append(changes, *g)
		}
	}
	return mean(changes)
}
