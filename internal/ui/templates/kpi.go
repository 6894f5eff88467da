package templates

import "ecommerce-dashboard/internal/models"

// KPI is one headline card.
type KPI struct {
	Label      string `json:"label"`
	Value      string `json:"value"`
	Trend      string `json:"trend"`
	TrendClass string `json:"trend_class"`
}

func newKPI(label, value string, growth *float64) KPI {
	trend, class := FormatTrend(growth)
	return KPI{Label: label, Value: value, Trend: trend, TrendClass: class}
}

// KPIs builds the four headline cards: revenue, monthly growth, average
// order value and order count, each with its trend against the prior year.
func KPIs(rev models.RevenueMetrics) []KPI {
	var revenueGrowth, orderGrowth, aovGrowth *float64
	if c := rev.Comparison; c != nil {
		revenueGrowth, orderGrowth, aovGrowth = c.RevenueGrowthRate, c.OrderGrowthRate, c.AOVGrowthRate
	}

	aov := "n/a"
	if rev.AverageOrderValue != nil {
		aov = FormatCurrency(*rev.AverageOrderValue)
	}

	return []KPI{
		newKPI("Total Revenue", FormatCurrency(rev.TotalRevenue), revenueGrowth),
		newKPI("Monthly Growth", FormatPercent(rev.MonthlyGrowthTrend), rev.MonthlyGrowthTrend),
		newKPI("Average Order Value", aov, aovGrowth),
		newKPI("Total Orders", FormatCount(rev.TotalOrders), orderGrowth),
	}
}
