package reporthttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/platform/httpx"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports/export"
)

const requestTimeout = 15 * time.Second

// ReportService is the generation contract the handler depends on.
type ReportService interface {
	Generate(ctx context.Context, d reports.Descriptor, p reports.Params) ([]reports.Row, error)
}

// Handler serves report catalogue listings and exports.
type Handler struct {
	logger   *slog.Logger
	service  ReportService
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// reportForm is the validated query surface of the export endpoint. Dates
// carry no validation tag: unparseable values fall back to the trailing
// 30-day window in ParseRange instead of failing the request.
type reportForm struct {
	ReportType     string `validate:"required"`
	Format         string `validate:"omitempty,oneof=csv excel pdf"`
	StartDate      string
	EndDate        string
	PaymentStatus  string `validate:"omitempty,alpha"`
	ActivityType   string `validate:"omitempty,oneof=all login inventory sales"`
	PeriodGrouping string `validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
}

func (h *Handler) handleListFamily(w http.ResponseWriter, r *http.Request) {
	family := reports.Family(chi.URLParam(r, "family"))
	descriptors := reports.Descriptors(family)
	if len(descriptors) == 0 {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown report family")
		return
	}

	type entry struct {
		Type    string   `json:"type"`
		Title   string   `json:"title"`
		Columns []string `json:"columns"`
	}
	out := make([]entry, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, entry{Type: string(d.Type), Title: d.Title, Columns: d.Columns})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"family": family, "reports": out})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	family := reports.Family(chi.URLParam(r, "family"))
	query := r.URL.Query()

	form := reportForm{
		ReportType:     query.Get("report_type"),
		Format:         query.Get("format"),
		StartDate:      query.Get("start_date"),
		EndDate:        query.Get("end_date"),
		PaymentStatus:  query.Get("payment_status"),
		ActivityType:   query.Get("activity_type"),
		PeriodGrouping: query.Get("period_grouping"),
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	descriptor, err := reports.Lookup(family, reports.Type(form.ReportType))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown report type")
		return
	}

	formatStr := form.Format
	if formatStr == "" {
		formatStr = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown export format")
		return
	}

	now := h.now()
	from, to := reports.ParseRange(form.StartDate, form.EndDate, now)
	params := reports.Params{
		From:            from,
		To:              to,
		CategoryID:      queryID(query.Get("category_id")),
		SupplierID:      queryID(query.Get("supplier_id")),
		CustomerID:      queryID(query.Get("customer_id")),
		ProductID:       queryID(query.Get("product_id")),
		UserID:          queryID(query.Get("user_id")),
		PaymentStatus:   form.PaymentStatus,
		ActivityType:    form.ActivityType,
		Grouping:        reports.ValidGrouping(form.PeriodGrouping),
		IncludeInactive: query.Get("include_inactive") == "true",
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rows, err := h.service.Generate(ctx, descriptor, params)
	if err != nil {
		h.handleServerError(w, "generate report", descriptor.Type, err)
		return
	}

	payload, err := export.Render(descriptor, rows, format, now)
	if err != nil {
		h.handleServerError(w, "render report", descriptor.Type, err)
		return
	}

	filename := export.Filename(descriptor.Type, format, now)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("reports: write response", slog.String("error", err.Error()))
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, action string, t reports.Type, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.Warn("reports: timed out",
			slog.String("action", action),
			slog.String("report_type", string(t)),
		)
		httpx.Problem(w, http.StatusGatewayTimeout, "Timeout", "report generation timed out")
		return
	}
	h.logger.Error("reports: "+action,
		slog.String("report_type", string(t)),
		slog.String("error", err.Error()),
	)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

// queryID parses a numeric id filter, treating absent or malformed values as
// unfiltered.
func queryID(s string) int64 {
	if s == "" {
		return reports.FilterAll
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return reports.FilterAll
	}
	return id
}
