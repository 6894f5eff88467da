package handlers

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const (
	maxCategoryRows = 10
	maxStateRows    = 27
)

var fragmentFuncs = template.FuncMap{
	"money": templates.FormatMoney,
	"share": templates.FormatShare,
	"score": templates.FormatScore,
	"count": templates.FormatCount,
}

var categoryTableTemplate = template.Must(template.New("categoryTable").Funcs(fragmentFuncs).Parse(`
<div id="category-content">
<table class="modern-table">
<thead><tr><th>Category</th><th>Revenue</th><th>Orders</th><th>Share</th></tr></thead>
<tbody>
{{range $i, $item := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Category}}</td>
<td><strong>{{money .TotalRevenue}}</strong></td>
<td>{{count .TotalOrders}}</td>
<td>{{share .RevenueSharePct}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

var stateTableTemplate = template.Must(template.New("stateTable").Funcs(fragmentFuncs).Parse(`
<div id="state-content">
<table class="modern-table">
<thead><tr><th>State</th><th>Revenue</th><th>Orders</th><th>Customers</th><th>Avg Order</th></tr></thead>
<tbody>
{{range $i, $item := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.State}}</td>
<td><strong>{{money .TotalRevenue}}</strong></td>
<td>{{count .TotalOrders}}</td>
<td>{{count .UniqueCustomers}}</td>
<td>{{money .AvgOrderValue}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

var deliveryTableTemplate = template.Must(template.New("deliveryTable").Funcs(fragmentFuncs).Parse(`
<div id="delivery-content">
<table class="modern-table">
<thead><tr><th>Delivery Time</th><th>Orders</th><th>Avg Review Score</th></tr></thead>
<tbody>
{{range .Data}}<tr>
<td>{{.Band}}</td>
<td>{{count .Orders}}</td>
<td>{{score .AverageReviewScore}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type templateData struct {
	Data    any
	MaxRows int
}

func renderTable(t *template.Template, data any, maxRows int) (string, error) {
	var buf strings.Builder
	err := t.Execute(&buf, templateData{Data: data, MaxRows: maxRows})
	return buf.String(), err
}

func renderComponent(r *http.Request, c templ.Component) (string, error) {
	var buf strings.Builder
	err := c.Render(r.Context(), &buf)
	return buf.String(), err
}

// monthlySignals carries the chart series for the selected and previous year.
type monthlySignals struct {
	Year     int                     `json:"year"`
	Monthly  []models.MonthlyRevenue `json:"monthlyData"`
	Previous []models.MonthlyRevenue `json:"previousMonthlyData"`
}

func revenueSignals(rev models.RevenueMetrics) ([]byte, error) {
	s := monthlySignals{
		Year:     rev.CurrentYear,
		Monthly:  rev.MonthlyRevenue,
		Previous: []models.MonthlyRevenue{},
	}
	if rev.Comparison != nil {
		s.Previous = rev.Comparison.PreviousMonthlyRevenue
	}
	return json.Marshal(s)
}

// report resolves the requested year and returns its report. On failure the
// error is patched into target so the page shows why the section is empty.
func (h *SSEHandlers) report(sse *datastar.ServerSentEventGenerator, r *http.Request, target string) (models.Report, bool) {
	year, err := parseYear(r)
	if err == nil {
		var report models.Report
		report, _, err = h.dashboard.Report(r.Context(), year)
		if err == nil {
			return report, true
		}
	}

	h.logger.Warn("sse report unavailable", "target", target, "error", err)
	msg := "Data not available"
	var appErr *errors.AppError
	if stderrors.As(dashboardError(err), &appErr) {
		msg = appErr.Message
	}
	sse.PatchElements(`<div id="` + target + `"><div class="notice">` + template.HTMLEscapeString(msg) + `</div></div>`)
	return models.Report{}, false
}

func (h *SSEHandlers) patchKPIs(sse *datastar.ServerSentEventGenerator, r *http.Request, report models.Report) error {
	html, err := renderComponent(r, templates.KPICards(templates.KPIs(report.Revenue)))
	if err != nil {
		return err
	}
	if err := sse.PatchElements(html); err != nil {
		return err
	}

	signals, err := revenueSignals(report.Revenue)
	if err != nil {
		return err
	}
	if err := sse.PatchSignals(signals); err != nil {
		return err
	}
	return sse.PatchElements(`<div id="revenue-content">Monthly revenue data loaded</div>`)
}

func (h *SSEHandlers) patchCategories(sse *datastar.ServerSentEventGenerator, report models.Report) error {
	if report.Products == nil {
		return sse.PatchElements(`<div id="category-content"><div class="notice">Product metrics not available</div></div>`)
	}
	html, err := renderTable(categoryTableTemplate, report.Products.TopCategories, maxCategoryRows)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

func (h *SSEHandlers) patchStates(sse *datastar.ServerSentEventGenerator, report models.Report) error {
	if report.Geography == nil {
		return sse.PatchElements(`<div id="state-content"><div class="notice">Geographic metrics not available</div></div>`)
	}
	html, err := renderTable(stateTableTemplate, report.Geography.StatePerformance, maxStateRows)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

func (h *SSEHandlers) patchExperience(sse *datastar.ServerSentEventGenerator, r *http.Request, report models.Report) error {
	html, err := renderComponent(r, templates.ExperienceCards(report.CustomerExperience))
	if err != nil {
		return err
	}
	if err := sse.PatchElements(html); err != nil {
		return err
	}
	if report.CustomerExperience == nil {
		return nil
	}

	html, err = renderTable(deliveryTableTemplate, report.CustomerExperience.DeliverySatisfaction, len(report.CustomerExperience.DeliverySatisfaction))
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report, ok := h.report(sse, r, "kpi-content")
	if ok {
		if err := h.patchKPIs(sse, r, report); err != nil {
			h.logger.Error("patch kpis", "error", err)
		}
	}

	flush(w)
}

func (h *SSEHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report, ok := h.report(sse, r, "category-content")
	if ok {
		if err := h.patchCategories(sse, report); err != nil {
			h.logger.Error("render category table", "error", err)
		}
	}

	flush(w)
}

func (h *SSEHandlers) HandleStates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report, ok := h.report(sse, r, "state-content")
	if ok {
		if err := h.patchStates(sse, report); err != nil {
			h.logger.Error("render state table", "error", err)
		}
	}

	flush(w)
}

func (h *SSEHandlers) HandleExperience(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report, ok := h.report(sse, r, "experience-content")
	if ok {
		if err := h.patchExperience(sse, r, report); err != nil {
			h.logger.Error("render experience", "error", err)
		}
	}

	flush(w)
}

// HandleRefreshAll patches every section of the page for the selected year.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	report, ok := h.report(sse, r, "kpi-content")
	if !ok {
		flush(w)
		return
	}

	steps := []struct {
		name  string
		patch func() error
	}{
		{"kpis", func() error { return h.patchKPIs(sse, r, report) }},
		{"categories", func() error { return h.patchCategories(sse, report) }},
		{"states", func() error { return h.patchStates(sse, report) }},
		{"experience", func() error { return h.patchExperience(sse, r, report) }},
		{"footer", func() error {
			html, err := renderComponent(r, templates.Footer(report.DataSummary))
			if err != nil {
				return err
			}
			return sse.PatchElements(html)
		}},
	}
	for _, s := range steps {
		if err := s.patch(); err != nil {
			h.logger.Error("refresh section", "section", s.name, "error", err)
			break
		}
	}

	flush(w)
}
