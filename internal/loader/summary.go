package loader

import "time"

type TableSummary struct {
	Name    Table `json:"name"`
	Records int   `json:"records"`
	Columns int   `json:"columns"`
}

// DatasetSummary describes the loaded tables for operators.
type DatasetSummary struct {
	Tables             []TableSummary `json:"tables"`
	UniqueOrders       int            `json:"unique_orders"`
	OrderStatuses      int            `json:"order_statuses"`
	FirstPurchase      *time.Time     `json:"first_purchase,omitempty"`
	LastPurchase       *time.Time     `json:"last_purchase,omitempty"`
	UniqueProducts     int            `json:"unique_products"`
	ProductCategories  int            `json:"product_categories"`
	UniqueCustomers    int            `json:"unique_customers"`
	States             int            `json:"states"`
	AverageReviewScore *float64       `json:"average_review_score,omitempty"`
	MinReviewScore     int            `json:"min_review_score"`
	MaxReviewScore     int            `json:"max_review_score"`
}

func (l *Loader) Summary() (DatasetSummary, error) {
	if !l.processed {
		return DatasetSummary{}, ErrNotLoaded
	}

	var s DatasetSummary
	for _, t := range Tables {
		df := l.raw[t]
		s.Tables = append(s.Tables, TableSummary{Name: t, Records: df.Nrow(), Columns: df.Ncol()})
	}

	orderIDs := make(map[string]struct{})
	statuses := make(map[string]struct{})
	for _, o := range l.orders {
		orderIDs[o.OrderID] = struct{}{}
		if o.Status != "" {
			statuses[o.Status] = struct{}{}
		}
		if p := o.PurchasedAt; p != nil {
			if s.FirstPurchase == nil || p.Before(*s.FirstPurchase) {
				s.FirstPurchase = p
			}
			if s.LastPurchase == nil || p.After(*s.LastPurchase) {
				s.LastPurchase = p
			}
		}
	}
	s.UniqueOrders = len(orderIDs)
	s.OrderStatuses = len(statuses)

	productIDs := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, p := range l.products {
		productIDs[p.ProductID] = struct{}{}
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
	}
	s.UniqueProducts = len(productIDs)
	s.ProductCategories = len(categories)

	customerIDs := make(map[string]struct{})
	states := make(map[string]struct{})
	for _, c := range l.customers {
		customerIDs[c.CustomerID] = struct{}{}
		if c.State != "" {
			states[c.State] = struct{}{}
		}
	}
	s.UniqueCustomers = len(customerIDs)
	s.States = len(states)

	if len(l.reviews) > 0 {
		total := 0
		s.MinReviewScore, s.MaxReviewScore = l.reviews[0].Score, l.reviews[0].Score
		for _, r := range l.reviews {
			total += r.Score
			s.MinReviewScore = min(s.MinReviewScore, r.Score)
			s.MaxReviewScore = max(s.MaxReviewScore, r.Score)
		}
		avg := float64(total) / float64(len(l.reviews))
		s.AverageReviewScore = &avg
	}

	return s, nil
}

// RecordCounts maps each raw table to its row count.
func (l *Loader) RecordCounts() map[string]int {
	counts := make(map[string]int, len(l.raw))
	for t, df := range l.raw {
		counts[string(t)] = df.Nrow()
	}
	return counts
}
