package metrics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

// categoryGroup accumulates one category. prices holds only the items
// that carry a price.
type categoryGroup struct {
	revenue  decimal.Decimal
	prices   []float64
	orders   map[string]struct{}
	products map[string]struct{}
}

// ProductMetrics groups the sales view by product category. Products with
// no category are left out of the table and reported as uncategorized
// revenue instead.
func (c *Calculator) ProductMetrics(categories []models.ProductCategory) models.ProductMetrics {
	lookup := make(map[string]string, len(categories))
	for _, p := range categories {
		if _, ok := lookup[p.ProductID]; !ok {
			lookup[p.ProductID] = p.Category
		}
	}

	groups := make(map[string]*categoryGroup)
	uncategorized := decimal.Zero
	for _, s := range c.sales {
		name := lookup[s.ProductID]
		if name == "" {
			uncategorized = uncategorized.Add(amount(s.Price))
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &categoryGroup{
				orders:   make(map[string]struct{}),
				products: make(map[string]struct{}),
			}
			groups[name] = g
		}
		g.revenue = g.revenue.Add(amount(s.Price))
		if s.Price.Valid {
			g.prices = append(g.prices, s.Price.Decimal.InexactFloat64())
		}
		g.orders[s.OrderID] = struct{}{}
		g.products[s.ProductID] = struct{}{}
	}

	rows := make([]models.CategoryPerformance, 0, len(groups))
	for name, g := range groups {
		avg := 0.0
		if m := mean(g.prices); m != nil {
			avg = round2(*m)
		}
		rows = append(rows, models.CategoryPerformance{
			Category:       name,
			TotalRevenue:   money(g.revenue),
			AvgItemPrice:   avg,
			TotalItems:     len(g.prices),
			TotalOrders:    len(g.orders),
			UniqueProducts: len(g.products),
		})
	}
	slices.SortFunc(rows, func(a, b models.CategoryPerformance) int {
		return cmp.Or(
			cmp.Compare(b.TotalRevenue, a.TotalRevenue),
			cmp.Compare(a.Category, b.Category),
		)
	})

	revenues := make([]float64, len(rows))
	for i, r := range rows {
		revenues[i] = r.TotalRevenue
	}
	pct := shares(revenues)
	for i := range rows {
		rows[i].RevenueSharePct = pct[i]
	}

	return models.ProductMetrics{
		CategoryPerformance:  rows,
		TopCategories:        slices.Clone(rows[:min(topCategoriesLen, len(rows))]),
		TotalCategories:      len(rows),
		RevenueConcentration: concentration(pct, categoryConcentrate),
		UncategorizedRevenue: money(uncategorized),
	}
}
