package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xuri/excelize/v2"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/ui/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetRevenue    = "Revenue"
	SheetCategories = "Categories"
	SheetStates     = "States"
	SheetExperience = "Experience"
)

type ExportHandlers struct {
	api    *APIHandlers
	logger *slog.Logger
}

func NewExportHandlers(api *APIHandlers, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{api: api, logger: logger}
}

// HandleReportExport streams the selected year's report as a workbook with
// one sheet per section present in the report.
func (h *ExportHandlers) HandleReportExport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.api.report(w, r)
	if !ok {
		return
	}

	f, err := NewWorkbook(report)
	if err != nil {
		h.api.fail(w, r, errors.InternalWrap(err, "build report workbook"))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="report-%d.xlsx"`, report.Revenue.CurrentYear))
	if err := f.Write(w); err != nil {
		h.logger.Error("write report workbook", "error", err)
	}
}

type sheet struct {
	name string
	rows [][]any
}

// NewWorkbook lays a report out as a spreadsheet. Undefined values are left
// as empty cells.
func NewWorkbook(report models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetRevenue); err != nil {
		f.Close()
		return nil, err
	}

	sheets := []sheet{{SheetRevenue, revenueRows(report)}}
	if p := report.Products; p != nil {
		sheets = append(sheets, sheet{SheetCategories, categoryRows(p)})
	}
	if g := report.Geography; g != nil {
		sheets = append(sheets, sheet{SheetStates, stateRows(g)})
	}
	if cx := report.CustomerExperience; cx != nil {
		sheets = append(sheets, sheet{SheetExperience, experienceRows(cx)})
	}

	for _, s := range sheets {
		if s.name != SheetRevenue {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, err
			}
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, name string, rows [][]any) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &row); err != nil {
			return err
		}
	}
	return nil
}

func cell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func revenueRows(report models.Report) [][]any {
	rev := report.Revenue
	rows := [][]any{
		{"Metric", "Value"},
		{"Year", rev.CurrentYear},
		{"Total Revenue", rev.TotalRevenue},
		{"Total Orders", rev.TotalOrders},
		{"Total Items", rev.TotalItems},
		{"Average Order Value", cell(rev.AverageOrderValue)},
		{"Average Item Price", cell(rev.AverageItemPrice)},
		{"Monthly Growth Trend %", cell(rev.MonthlyGrowthTrend)},
	}
	if c := rev.Comparison; c != nil {
		rows = append(rows,
			[]any{"Previous Year", c.PreviousYear},
			[]any{"Previous Revenue", c.PreviousRevenue},
			[]any{"Previous Orders", c.PreviousOrders},
			[]any{"Revenue Growth %", cell(c.RevenueGrowthRate)},
			[]any{"Order Growth %", cell(c.OrderGrowthRate)},
			[]any{"AOV Growth %", cell(c.AOVGrowthRate)},
		)
	}

	rows = append(rows, []any{}, []any{"Month", "Revenue"})
	for _, m := range rev.MonthlyRevenue {
		rows = append(rows, []any{templates.MonthName(m.Month), m.Revenue})
	}
	return rows
}

func categoryRows(p *models.ProductMetrics) [][]any {
	rows := [][]any{{"Category", "Revenue", "Avg Item Price", "Items", "Orders", "Products", "Share %"}}
	for _, c := range p.CategoryPerformance {
		rows = append(rows, []any{
			c.Category, c.TotalRevenue, c.AvgItemPrice, c.TotalItems, c.TotalOrders, c.UniqueProducts, cell(c.RevenueSharePct),
		})
	}
	return rows
}

func stateRows(g *models.GeographicMetrics) [][]any {
	rows := [][]any{{"State", "Revenue", "Orders", "Customers", "Avg Order Value", "Revenue per Customer", "Share %"}}
	for _, s := range g.StatePerformance {
		rows = append(rows, []any{
			s.State, s.TotalRevenue, s.TotalOrders, s.UniqueCustomers, s.AvgOrderValue, s.RevenuePerCustomer, cell(s.RevenueSharePct),
		})
	}
	return rows
}

func experienceRows(cx *models.CustomerExperienceMetrics) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Average Review Score", cell(cx.Satisfaction.AverageReviewScore)},
		{"High Satisfaction %", cell(cx.Satisfaction.HighSatisfactionRate)},
		{"Low Satisfaction %", cell(cx.Satisfaction.LowSatisfactionRate)},
		{"Average Delivery Days", cell(cx.Delivery.AverageDeliveryDays)},
		{"Median Delivery Days", cell(cx.Delivery.MedianDeliveryDays)},
		{"Fast Delivery %", cell(cx.Delivery.FastDeliveryRate)},
		{"Slow Delivery %", cell(cx.Delivery.SlowDeliveryRate)},
		{"Total Reviews", cx.TotalReviews},
		{},
		{"Delivery Time", "Orders", "Average Review Score"},
	}
	for _, b := range cx.DeliverySatisfaction {
		rows = append(rows, []any{b.Band, b.Orders, cell(b.AverageReviewScore)})
	}
	return rows
}
