package metrics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/models"
)

type stateGroup struct {
	revenue   decimal.Decimal
	orders    map[string]struct{}
	customers map[string]struct{}
}

// saleKey identifies a sales row for geographic de-duplication. Two items of
// the same order with the same price collapse into one, as do two items
// without a price.
type saleKey struct {
	orderID    string
	customerID string
	price      string
	priced     bool
}

func keyOf(s models.SalesRecord) saleKey {
	k := saleKey{orderID: s.OrderID, customerID: s.CustomerID, priced: s.Price.Valid}
	if k.priced {
		k.price = s.Price.Decimal.String()
	}
	return k
}

// GeographicMetrics groups the sales view by customer state. Customers with
// no known state are left out.
func (c *Calculator) GeographicMetrics(customers []models.CustomerLocation) models.GeographicMetrics {
	states := make(map[string]string, len(customers))
	for _, cu := range customers {
		if _, ok := states[cu.CustomerID]; !ok {
			states[cu.CustomerID] = cu.State
		}
	}

	seen := make(map[saleKey]struct{}, len(c.sales))
	groups := make(map[string]*stateGroup)
	for _, s := range c.sales {
		key := keyOf(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		state := states[s.CustomerID]
		if state == "" {
			continue
		}
		g, ok := groups[state]
		if !ok {
			g = &stateGroup{
				orders:    make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			groups[state] = g
		}
		g.revenue = g.revenue.Add(amount(s.Price))
		g.orders[s.OrderID] = struct{}{}
		g.customers[s.CustomerID] = struct{}{}
	}

	rows := make([]models.StatePerformance, 0, len(groups))
	for state, g := range groups {
		revenue := g.revenue.Round(2)
		rows = append(rows, models.StatePerformance{
			State:              state,
			TotalRevenue:       revenue.InexactFloat64(),
			TotalOrders:        len(g.orders),
			UniqueCustomers:    len(g.customers),
			AvgOrderValue:      money(revenue.Div(decimal.NewFromInt(int64(len(g.orders))))),
			RevenuePerCustomer: money(revenue.Div(decimal.NewFromInt(int64(len(g.customers))))),
		})
	}
	slices.SortFunc(rows, func(a, b models.StatePerformance) int {
		return cmp.Or(
			cmp.Compare(b.TotalRevenue, a.TotalRevenue),
			cmp.Compare(a.State, b.State),
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

	return models.GeographicMetrics{
		StatePerformance:        rows,
		TopStates:               slices.Clone(rows[:min(topStatesLen, len(rows))]),
		TotalStates:             len(rows),
		GeographicConcentration: concentration(pct, stateConcentrate),
	}
}
