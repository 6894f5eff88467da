package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of orders_dataset.csv with the calendar and latency
// columns derived from its timestamps. Nil timestamps did not parse.
type Order struct {
	OrderID             string
	CustomerID          string
	Status              string
	PurchasedAt         *time.Time
	ApprovedAt          *time.Time
	DeliveredCarrierAt  *time.Time
	DeliveredCustomerAt *time.Time
	EstimatedDeliveryAt *time.Time
	Year                int
	Month               int
	Day                 int
	Weekday             string
	DeliveryDays        *int
}

// OrderItem is a row of order_items_dataset.csv. Price is invalid when the
// cell was empty or malformed; the item is kept so it still counts.
type OrderItem struct {
	OrderID      string
	OrderItemID  int
	ProductID    string
	Price        decimal.NullDecimal
	FreightValue float64
}

// ProductCategory is the category projection of products_dataset.csv.
// An empty Category means the product has no category.
type ProductCategory struct {
	ProductID string `json:"product_id"`
	Category  string `json:"product_category_name"`
}

type CustomerLocation struct {
	CustomerID string `json:"customer_id"`
	State      string `json:"customer_state"`
	City       string `json:"customer_city"`
}

type Review struct {
	ReviewID   string
	OrderID    string
	Score      int
	CreatedAt  *time.Time
	AnsweredAt *time.Time
}

// ReviewScore is the projection of reviews used by the experience metrics.
type ReviewScore struct {
	OrderID   string     `json:"order_id"`
	Score     int        `json:"review_score"`
	CreatedAt *time.Time `json:"review_creation_date,omitempty"`
}

// SalesRecord is one order item joined with its order.
type SalesRecord struct {
	OrderID      string              `json:"order_id"`
	OrderItemID  int                 `json:"order_item_id"`
	ProductID    string              `json:"product_id"`
	Price        decimal.NullDecimal `json:"price"`
	FreightValue float64             `json:"freight_value"`
	CustomerID   string              `json:"customer_id"`
	Status       string              `json:"order_status"`
	PurchasedAt  *time.Time          `json:"order_purchase_timestamp,omitempty"`
	DeliveredAt  *time.Time          `json:"order_delivered_customer_date,omitempty"`
	Year         int                 `json:"order_year"`
	Month        int                 `json:"order_month"`
	DeliveryDays *int                `json:"delivery_days,omitempty"`
}
