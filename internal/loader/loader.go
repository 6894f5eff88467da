package loader

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/models"
)

// Loader turns the six raw tables of a data directory into typed, derived
// tables and filtered sales views. It is not safe for concurrent use.
type Loader struct {
	dataPath string
	logger   *slog.Logger

	raw        map[Table]dataframe.DataFrame
	timestamps map[Table]map[string][]*time.Time

	orders    []models.Order
	items     []models.OrderItem
	products  []models.ProductCategory
	customers []models.CustomerLocation
	reviews   []models.Review
	processed bool
}

func New(dataPath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dataPath: dataPath,
		logger:   logger,
	}
}

func (l *Loader) DataPath() string {
	return l.dataPath
}

// LoadRaw reads every source table. Any missing or unreadable file fails
// the whole load and leaves previously loaded data untouched.
func (l *Loader) LoadRaw(ctx context.Context) (map[Table]dataframe.DataFrame, error) {
	frames := make([]dataframe.DataFrame, len(Tables))

	g, ctx := errgroup.WithContext(ctx)
	for i, t := range Tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			df, err := readTable(l.dataPath, t)
			if err != nil {
				return err
			}
			frames[i] = df
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load raw data: %w", err)
	}

	raw := make(map[Table]dataframe.DataFrame, len(Tables))
	for i, t := range Tables {
		raw[t] = frames[i]
		l.logger.Info("loaded table", "table", t, "records", frames[i].Nrow())
	}

	l.raw = raw
	l.timestamps = nil
	l.processed = false
	return raw, nil
}

// NormalizeDatetimes parses the known timestamp columns of the orders and
// reviews tables. Columns that are absent are skipped and cells that do
// not parse become nil.
func (l *Loader) NormalizeDatetimes() error {
	if l.raw == nil {
		return ErrNotLoaded
	}

	parsed := make(map[Table]map[string][]*time.Time, len(timestampColumns))
	for t, cols := range timestampColumns {
		df := l.raw[t]
		present := df.Names()
		byCol := make(map[string][]*time.Time, len(cols))

		for _, col := range cols {
			if !slices.Contains(present, col) {
				continue
			}
			cells := df.Col(col).Records()
			values := make([]*time.Time, len(cells))
			invalid := 0
			for i, cell := range cells {
				values[i] = parseTimestamp(cell)
				if values[i] == nil && !isNull(cell) {
					invalid++
				}
			}
			if invalid > 0 {
				l.logger.Warn("unparsable timestamps coerced to null",
					"table", t, "column", col, "count", invalid)
			}
			byCol[col] = values
		}
		parsed[t] = byCol
	}

	l.timestamps = parsed
	return nil
}

// DeriveColumns builds the typed tables, adding calendar fields and
// delivery latency to orders.
func (l *Loader) DeriveColumns() error {
	if l.raw == nil || l.timestamps == nil {
		return ErrNotLoaded
	}

	orders, err := l.deriveOrders()
	if err != nil {
		return err
	}
	items, err := l.typeOrderItems()
	if err != nil {
		return err
	}
	products, err := l.typeProducts()
	if err != nil {
		return err
	}
	customers, err := l.typeCustomers()
	if err != nil {
		return err
	}
	reviews, err := l.typeReviews()
	if err != nil {
		return err
	}

	l.orders = orders
	l.items = items
	l.products = products
	l.customers = customers
	l.reviews = reviews
	l.processed = true
	return nil
}

// ProcessAll runs the full pipeline: load, normalize, derive.
func (l *Loader) ProcessAll(ctx context.Context) error {
	l.logger.Info("processing e-commerce datasets", "path", l.dataPath)

	if _, err := l.LoadRaw(ctx); err != nil {
		return err
	}
	if err := l.NormalizeDatetimes(); err != nil {
		return fmt.Errorf("normalize datetimes: %w", err)
	}
	if err := l.DeriveColumns(); err != nil {
		return fmt.Errorf("derive columns: %w", err)
	}

	l.logger.Info("data processing completed",
		"orders", len(l.orders),
		"order_items", len(l.items),
	)
	return nil
}

func (l *Loader) deriveOrders() ([]models.Order, error) {
	cols, err := columns(l.raw[TableOrders], TableOrders,
		colOrderID, colCustomerID, colOrderStatus, colPurchase, colDeliveredCustomer)
	if err != nil {
		return nil, err
	}

	ts := l.timestamps[TableOrders]
	ids := cols[colOrderID]
	orders := make([]models.Order, len(ids))

	for i := range ids {
		o := models.Order{
			OrderID:             nullable(ids[i]),
			CustomerID:          nullable(cols[colCustomerID][i]),
			Status:              nullable(cols[colOrderStatus][i]),
			PurchasedAt:         ts[colPurchase][i],
			ApprovedAt:          at(ts["order_approved_at"], i),
			DeliveredCarrierAt:  at(ts["order_delivered_carrier_date"], i),
			DeliveredCustomerAt: ts[colDeliveredCustomer][i],
			EstimatedDeliveryAt: at(ts["order_estimated_delivery_date"], i),
		}

		if p := o.PurchasedAt; p != nil {
			o.Year = p.Year()
			o.Month = int(p.Month())
			o.Day = p.Day()
			o.Weekday = p.Weekday().String()
		}
		if o.PurchasedAt != nil && o.DeliveredCustomerAt != nil {
			days := wholeDays(o.DeliveredCustomerAt.Sub(*o.PurchasedAt))
			o.DeliveryDays = &days
		}

		orders[i] = o
	}

	return orders, nil
}

func at(values []*time.Time, i int) *time.Time {
	if values == nil {
		return nil
	}
	return values[i]
}

func (l *Loader) typeOrderItems() ([]models.OrderItem, error) {
	cols, err := columns(l.raw[TableOrderItems], TableOrderItems,
		colOrderID, colOrderItemID, colProductID, colPrice, colFreight)
	if err != nil {
		return nil, err
	}

	ids := cols[colOrderID]
	items := make([]models.OrderItem, len(ids))
	unpriced := 0

	for i := range ids {
		price := parsePrice(cols[colPrice][i])
		if !price.Valid {
			unpriced++
		}
		itemID, _ := parseInt(cols[colOrderItemID][i])
		freight, _ := parseFloat(cols[colFreight][i])

		items[i] = models.OrderItem{
			OrderID:      nullable(ids[i]),
			OrderItemID:  itemID,
			ProductID:    nullable(cols[colProductID][i]),
			Price:        price,
			FreightValue: freight,
		}
	}

	if unpriced > 0 {
		l.logger.Warn("order items without a valid price", "count", unpriced)
	}
	return items, nil
}

func (l *Loader) typeProducts() ([]models.ProductCategory, error) {
	rows, err := project(l.raw[TableProducts], TableProducts, colProductID, colCategory)
	if err != nil {
		return nil, err
	}

	products := make([]models.ProductCategory, len(rows))
	for i, r := range rows {
		products[i] = models.ProductCategory{
			ProductID: nullable(r[0]),
			Category:  nullable(r[1]),
		}
	}
	return products, nil
}

func (l *Loader) typeCustomers() ([]models.CustomerLocation, error) {
	rows, err := project(l.raw[TableCustomers], TableCustomers, colCustomerID, colState, colCity)
	if err != nil {
		return nil, err
	}

	customers := make([]models.CustomerLocation, len(rows))
	for i, r := range rows {
		customers[i] = models.CustomerLocation{
			CustomerID: nullable(r[0]),
			State:      nullable(r[1]),
			City:       nullable(r[2]),
		}
	}
	return customers, nil
}

func (l *Loader) typeReviews() ([]models.Review, error) {
	df := l.raw[TableReviews]
	cols, err := columns(df, TableReviews, colOrderID, colReviewScore)
	if err != nil {
		return nil, err
	}

	var reviewIDs []string
	if slices.Contains(df.Names(), colReviewID) {
		reviewIDs = df.Col(colReviewID).Records()
	}

	ts := l.timestamps[TableReviews]
	ids := cols[colOrderID]
	reviews := make([]models.Review, 0, len(ids))
	dropped := 0

	for i := range ids {
		score, ok := parseInt(cols[colReviewScore][i])
		if !ok {
			dropped++
			continue
		}

		r := models.Review{
			OrderID:    nullable(ids[i]),
			Score:      score,
			CreatedAt:  at(ts[colReviewCreated], i),
			AnsweredAt: at(ts["review_answer_timestamp"], i),
		}
		if reviewIDs != nil {
			r.ReviewID = nullable(reviewIDs[i])
		}
		reviews = append(reviews, r)
	}

	if dropped > 0 {
		l.logger.Warn("dropped reviews without a valid score", "count", dropped)
	}
	return reviews, nil
}

// BuildSalesView inner-joins order items with the orders that pass the
// filter. No matching orders yields an empty view, not an error.
func (l *Loader) BuildSalesView(filter SalesFilter) ([]models.SalesRecord, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}

	selected := make(map[string]*models.Order)
	for i := range l.orders {
		o := &l.orders[i]
		if !filter.matches(o.Year, o.Month, o.Status) {
			continue
		}
		if _, dup := selected[o.OrderID]; !dup {
			selected[o.OrderID] = o
		}
	}

	sales := make([]models.SalesRecord, 0)
	for _, item := range l.items {
		o, ok := selected[item.OrderID]
		if !ok {
			continue
		}
		sales = append(sales, models.SalesRecord{
			OrderID:      item.OrderID,
			OrderItemID:  item.OrderItemID,
			ProductID:    item.ProductID,
			Price:        item.Price,
			FreightValue: item.FreightValue,
			CustomerID:   o.CustomerID,
			Status:       o.Status,
			PurchasedAt:  o.PurchasedAt,
			DeliveredAt:  o.DeliveredCustomerAt,
			Year:         o.Year,
			Month:        o.Month,
			DeliveryDays: o.DeliveryDays,
		})
	}

	l.logger.Info("created sales dataset",
		"records", len(sales),
		"years", filter.Years,
		"months", filter.Months,
		"status", filter.Status,
	)
	return sales, nil
}

// CategoryLookup returns a copy of the product to category projection.
func (l *Loader) CategoryLookup() ([]models.ProductCategory, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}
	return slices.Clone(l.products), nil
}

// GeographyLookup returns a copy of the customer location projection.
func (l *Loader) GeographyLookup() ([]models.CustomerLocation, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}
	return slices.Clone(l.customers), nil
}

// ReviewLookup returns the order, score and creation date of every review.
func (l *Loader) ReviewLookup() ([]models.ReviewScore, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}
	scores := make([]models.ReviewScore, len(l.reviews))
	for i, r := range l.reviews {
		scores[i] = models.ReviewScore{
			OrderID:   r.OrderID,
			Score:     r.Score,
			CreatedAt: r.CreatedAt,
		}
	}
	return scores, nil
}

// Orders returns a copy of the derived orders table.
func (l *Loader) Orders() ([]models.Order, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}
	return slices.Clone(l.orders), nil
}

// AvailableYears lists the distinct purchase years, ascending.
func (l *Loader) AvailableYears() ([]int, error) {
	if !l.processed {
		return nil, ErrNotLoaded
	}
	seen := make(map[int]struct{})
	for _, o := range l.orders {
		if o.PurchasedAt != nil {
			seen[o.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	return years, nil
}
