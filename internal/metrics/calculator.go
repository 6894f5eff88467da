// Package metrics turns a sales view and its lookup tables into nested
// business metrics reports.
package metrics

import (
	"slices"
	"time"

	"ecommerce-dashboard/internal/models"
)

const (
	topCategoriesLen    = 10
	topStatesLen        = 10
	categoryConcentrate = 5
	stateConcentrate    = 10
)

// Calculator computes metrics over a fixed sales view. The view is copied on
// construction and never modified afterwards.
type Calculator struct {
	sales []models.SalesRecord
	now   func() time.Time
}

type Option func(*Calculator)

// WithClock overrides the clock used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

func NewCalculator(sales []models.SalesRecord, opts ...Option) *Calculator {
	c := &Calculator{
		sales: slices.Clone(sales),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Records returns the number of rows in the sales view.
func (c *Calculator) Records() int {
	return len(c.sales)
}

func (c *Calculator) forYear(year int) []models.SalesRecord {
	var rows []models.SalesRecord
	for _, s := range c.sales {
		if s.Year == year {
			rows = append(rows, s)
		}
	}
	return rows
}

// DataSummary describes the whole sales view: row count, purchase range and
// the distinct years it spans.
func (c *Calculator) DataSummary() models.DataSummary {
	summary := models.DataSummary{
		TotalRecords:   len(c.sales),
		YearsAvailable: []int{},
	}

	seen := make(map[int]struct{})
	for _, s := range c.sales {
		p := s.PurchasedAt
		if p == nil {
			continue
		}
		if summary.DateRange.Start == nil || p.Before(*summary.DateRange.Start) {
			summary.DateRange.Start = p
		}
		if summary.DateRange.End == nil || p.After(*summary.DateRange.End) {
			summary.DateRange.End = p
		}
		if _, ok := seen[s.Year]; !ok {
			seen[s.Year] = struct{}{}
			summary.YearsAvailable = append(summary.YearsAvailable, s.Year)
		}
	}
	slices.Sort(summary.YearsAvailable)
	return summary
}
