package models

import "time"

// Report is the comprehensive metrics report for one selected year.
// Sections whose lookup table was not supplied are nil.
type Report struct {
	GeneratedAt        time.Time                  `json:"analysis_date"`
	DataSummary        DataSummary                `json:"data_summary"`
	Revenue            RevenueMetrics             `json:"revenue_metrics"`
	Products           *ProductMetrics            `json:"product_metrics,omitempty"`
	Geography          *GeographicMetrics         `json:"geographic_metrics,omitempty"`
	CustomerExperience *CustomerExperienceMetrics `json:"customer_experience_metrics,omitempty"`
}

type DataSummary struct {
	TotalRecords   int       `json:"total_records"`
	DateRange      DateRange `json:"date_range"`
	YearsAvailable []int     `json:"years_available"`
}

type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type MonthlyRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// RevenueMetrics holds the headline figures for a year. Averages are nil
// when the year has no rows.
type RevenueMetrics struct {
	CurrentYear        int              `json:"current_year"`
	TotalRevenue       float64          `json:"total_revenue"`
	TotalOrders        int              `json:"total_orders"`
	TotalItems         int              `json:"total_items"`
	AverageOrderValue  *float64         `json:"average_order_value,omitempty"`
	AverageItemPrice   *float64         `json:"average_item_price,omitempty"`
	MonthlyRevenue     []MonthlyRevenue `json:"monthly_revenue"`
	MonthlyGrowthTrend *float64         `json:"monthly_growth_trend,omitempty"`
	Comparison         *PriorPeriod     `json:"comparison,omitempty"`
}

// PriorPeriod compares against the previous year. A growth rate is nil when
// its prior value is zero or undefined.
type PriorPeriod struct {
	PreviousYear           int              `json:"previous_year"`
	PreviousRevenue        float64          `json:"previous_revenue"`
	PreviousOrders         int              `json:"previous_orders"`
	PreviousAOV            *float64         `json:"previous_aov,omitempty"`
	PreviousMonthlyRevenue []MonthlyRevenue `json:"previous_monthly_revenue"`
	RevenueGrowthRate      *float64         `json:"revenue_growth_rate,omitempty"`
	OrderGrowthRate        *float64         `json:"order_growth_rate,omitempty"`
	AOVGrowthRate          *float64         `json:"aov_growth_rate,omitempty"`
}

type CategoryPerformance struct {
	Category        string   `json:"product_category_name"`
	TotalRevenue    float64  `json:"total_revenue"`
	AvgItemPrice    float64  `json:"avg_item_price"`
	TotalItems      int      `json:"total_items"`
	TotalOrders     int      `json:"total_orders"`
	UniqueProducts  int      `json:"unique_products"`
	RevenueSharePct *float64 `json:"revenue_share_pct,omitempty"`
}

type ProductMetrics struct {
	CategoryPerformance  []CategoryPerformance `json:"category_performance"`
	TopCategories        []CategoryPerformance `json:"top_categories"`
	TotalCategories      int                   `json:"total_categories"`
	RevenueConcentration *float64              `json:"revenue_concentration,omitempty"`
	UncategorizedRevenue float64               `json:"uncategorized_revenue"`
}

type StatePerformance struct {
	State              string   `json:"customer_state"`
	TotalRevenue       float64  `json:"total_revenue"`
	TotalOrders        int      `json:"total_orders"`
	UniqueCustomers    int      `json:"unique_customers"`
	AvgOrderValue      float64  `json:"avg_order_value"`
	RevenuePerCustomer float64  `json:"revenue_per_customer"`
	RevenueSharePct    *float64 `json:"revenue_share_pct,omitempty"`
}

type GeographicMetrics struct {
	StatePerformance        []StatePerformance `json:"state_performance"`
	TopStates               []StatePerformance `json:"top_states"`
	TotalStates             int                `json:"total_states"`
	GeographicConcentration *float64           `json:"geographic_concentration,omitempty"`
}

type ScoreShare struct {
	Score int     `json:"score"`
	Share float64 `json:"share"`
}

type SatisfactionMetrics struct {
	AverageReviewScore      *float64     `json:"average_review_score,omitempty"`
	ReviewScoreDistribution []ScoreShare `json:"review_score_distribution"`
	HighSatisfactionRate    *float64     `json:"high_satisfaction_rate,omitempty"`
	LowSatisfactionRate     *float64     `json:"low_satisfaction_rate,omitempty"`
}

type DeliveryMetrics struct {
	AverageDeliveryDays *float64 `json:"average_delivery_days,omitempty"`
	MedianDeliveryDays  *float64 `json:"median_delivery_days,omitempty"`
	FastDeliveryRate    *float64 `json:"fast_delivery_rate,omitempty"`
	SlowDeliveryRate    *float64 `json:"slow_delivery_rate,omitempty"`
}

// Delivery speed bands, in display order.
const (
	BandFast    = "1-3 days"
	BandMedium  = "4-7 days"
	BandSlow    = "8+ days"
	BandUnknown = "Unknown"
)

type DeliveryBandSatisfaction struct {
	Band               string   `json:"delivery_category"`
	Orders             int      `json:"orders"`
	AverageReviewScore *float64 `json:"average_review_score,omitempty"`
}

type CustomerExperienceMetrics struct {
	Satisfaction         SatisfactionMetrics        `json:"satisfaction"`
	Delivery             DeliveryMetrics            `json:"delivery"`
	DeliverySatisfaction []DeliveryBandSatisfaction `json:"delivery_satisfaction_correlation"`
	TotalReviews         int                        `json:"total_reviews"`
}
