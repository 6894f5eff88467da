package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type Table string

const (
	TableOrders     Table = "orders"
	TableOrderItems Table = "order_items"
	TableProducts   Table = "products"
	TableCustomers  Table = "customers"
	TableReviews    Table = "reviews"
	TablePayments   Table = "payments"
)

// Tables lists every source table in load order.
var Tables = []Table{
	TableOrders,
	TableOrderItems,
	TableProducts,
	TableCustomers,
	TableReviews,
	TablePayments,
}

var tableFiles = map[Table]string{
	TableOrders:     "orders_dataset.csv",
	TableOrderItems: "order_items_dataset.csv",
	TableProducts:   "products_dataset.csv",
	TableCustomers:  "customers_dataset.csv",
	TableReviews:    "order_reviews_dataset.csv",
	TablePayments:   "order_payments_dataset.csv",
}

// FileName returns the fixed file name of t inside the data directory.
func (t Table) FileName() string {
	return tableFiles[t]
}

var timestampColumns = map[Table][]string{
	TableOrders: {
		colPurchase,
		"order_approved_at",
		"order_delivered_carrier_date",
		colDeliveredCustomer,
		"order_estimated_delivery_date",
	},
	TableReviews: {colReviewCreated, "review_answer_timestamp"},
}

const (
	colOrderID           = "order_id"
	colCustomerID        = "customer_id"
	colOrderStatus       = "order_status"
	colPurchase          = "order_purchase_timestamp"
	colDeliveredCustomer = "order_delivered_customer_date"
	colOrderItemID       = "order_item_id"
	colProductID         = "product_id"
	colPrice             = "price"
	colFreight           = "freight_value"
	colCategory          = "product_category_name"
	colState             = "customer_state"
	colCity              = "customer_city"
	colReviewID          = "review_id"
	colReviewScore       = "review_score"
	colReviewCreated     = "review_creation_date"
)

var (
	ErrMissingColumn = errors.New("missing expected column")
	ErrNotLoaded     = errors.New("data not loaded")
)

// readTable reads a delimited file into an all-string frame. Typing happens
// later so that malformed cells can be handled per column.
func readTable(dir string, t Table) (dataframe.DataFrame, error) {
	path := filepath.Join(dir, t.FileName())

	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s table: %w", t, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		if empty, ok := headerOnly(data); ok {
			return empty, nil
		}
		return dataframe.DataFrame{}, fmt.Errorf("read %s table: %w", t, df.Err)
	}

	return df, nil
}

// headerOnly builds a zero-row frame when data holds a header line and no
// records, which gota refuses to load.
func headerOnly(data []byte) (dataframe.DataFrame, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil || len(header) == 0 {
		return dataframe.DataFrame{}, false
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return dataframe.DataFrame{}, false
	}

	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, false
	}
	return df, true
}

// columns returns the string cells of each requested column, failing if any
// is absent from the frame.
func columns(df dataframe.DataFrame, t Table, names ...string) (map[string][]string, error) {
	present := df.Names()
	out := make(map[string][]string, len(names))
	for _, name := range names {
		if !slices.Contains(present, name) {
			return nil, fmt.Errorf("%s table: %w %q", t, ErrMissingColumn, name)
		}
		out[name] = df.Col(name).Records()
	}
	return out, nil
}

// project keeps only the given columns, in order, and returns the data rows.
func project(df dataframe.DataFrame, t Table, names ...string) ([][]string, error) {
	present := df.Names()
	for _, name := range names {
		if !slices.Contains(present, name) {
			return nil, fmt.Errorf("%s table: %w %q", t, ErrMissingColumn, name)
		}
	}

	sub := df.Select(names)
	if sub.Err != nil {
		return nil, fmt.Errorf("project %s table: %w", t, sub.Err)
	}

	records := sub.Records()
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
