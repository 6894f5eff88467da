package metrics

import (
	"time"

	"ecommerce-dashboard/internal/models"
)

type reportInputs struct {
	categories    []models.ProductCategory
	hasCategories bool
	customers     []models.CustomerLocation
	hasCustomers  bool
	reviews       []models.ReviewScore
	hasReviews    bool
}

// ReportOption supplies a lookup table to ComprehensiveReport. Each table
// enables one report section.
type ReportOption func(*reportInputs)

func WithCategories(categories []models.ProductCategory) ReportOption {
	return func(in *reportInputs) {
		in.categories, in.hasCategories = categories, true
	}
}

func WithCustomers(customers []models.CustomerLocation) ReportOption {
	return func(in *reportInputs) {
		in.customers, in.hasCustomers = customers, true
	}
}

func WithReviews(reviews []models.ReviewScore) ReportOption {
	return func(in *reportInputs) {
		in.reviews, in.hasReviews = reviews, true
	}
}

// ComprehensiveReport assembles the data summary, revenue metrics and every
// section whose lookup table was supplied. Sections without one stay nil.
func (c *Calculator) ComprehensiveReport(year int, prior *int, opts ...ReportOption) models.Report {
	var in reportInputs
	for _, opt := range opts {
		opt(&in)
	}

	report := models.Report{
		GeneratedAt: c.now().UTC().Truncate(time.Second),
		DataSummary: c.DataSummary(),
		Revenue:     c.RevenueMetrics(year, prior),
	}

	if in.hasCategories {
		products := c.ProductMetrics(in.categories)
		report.Products = &products
	}
	if in.hasCustomers {
		geography := c.GeographicMetrics(in.customers)
		report.Geography = &geography
	}
	if in.hasReviews {
		experience := c.CustomerSatisfactionMetrics(in.reviews)
		report.CustomerExperience = &experience
	}

	return report
}
