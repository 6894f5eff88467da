package metrics

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// round2 rounds half away from zero on the decimal representation, so 2.675
// becomes 2.68 rather than the binary 2.67.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// amount is the price of a sales row as a decimal. A missing price adds
// nothing to a total.
func amount(p decimal.NullDecimal) decimal.Decimal {
	if !p.Valid {
		return decimal.Zero
	}
	return p.Decimal
}

// money rounds a decimal total to cents.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := sum(values) / float64(len(values))
	return &m
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := len(sorted)
	m := sorted[n/2]
	if n%2 == 0 {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &m
}

// rate is the percentage of total taken by hits, nil for an empty total.
func rate(hits, total int) *float64 {
	if total == 0 {
		return nil
	}
	r := float64(hits) / float64(total) * 100
	return &r
}

// growth is the percentage change from prior to current. It is undefined for
// a zero or non-finite prior value.
func growth(current, prior float64) *float64 {
	if prior == 0 || math.IsNaN(prior) || math.IsInf(prior, 0) {
		return nil
	}
	g := (current - prior) / prior * 100
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return nil
	}
	return &g
}

func growthPtr(current, prior *float64) *float64 {
	if current == nil || prior == nil {
		return nil
	}
	return growth(*current, *prior)
}

// shares converts rounded revenues into rounded percentage shares of their
// total. All shares are nil when the total is zero.
func shares(revenues []float64) []*float64 {
	out := make([]*float64, len(revenues))
	total := sum(revenues)
	if total == 0 {
		return out
	}
	for i, r := range revenues {
		s := round2(r / total * 100)
		out[i] = &s
	}
	return out
}

// concentration sums the first n shares. It is nil when shares are
// undefined.
func concentration(values []*float64, n int) *float64 {
	if len(values) == 0 || values[0] == nil {
		return nil
	}
	total := 0.0
	for _, v := range values[:min(n, len(values))] {
		total += *v
	}
	c := round2(total)
	return &c
}

func ptr[T any](v T) *T {
	return &v
}
