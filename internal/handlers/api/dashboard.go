package api

import (
	"bytes"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"rankdash/internal/excel"
	"rankdash/internal/revenue"
)

// DashboardHandler serves roll-ups over all stored keywords.
type DashboardHandler struct {
	store     Store
	estimates *Estimates
}

// NewDashboardHandler creates a new API dashboard handler.
func NewDashboardHandler(store Store, estimates *Estimates) *DashboardHandler {
	return &DashboardHandler{store: store, estimates: estimates}
}

// DashboardResponse is the body of GET /dashboard/summary.
type DashboardResponse struct {
	Summary    revenue.DashboardSummary  `json:"summary"`
	Categories []revenue.CategorySummary `json:"categories"`
}

// Summary returns dashboard totals and per-category summaries, optionally
// limited to one category.
func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	keywords, err := h.store.ListKeywords(c.Context(), c.Query("category"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}

	resolve, err := h.estimates.resolver(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "categories unavailable")
	}

	e := h.estimates.Estimator
	resp := DashboardResponse{
		Summary:    e.Summarize(keywords, resolve),
		Categories: e.ByCategory(keywords, resolve),
	}
	if resp.Categories == nil {
		resp.Categories = []revenue.CategorySummary{}
	}
	if resp.Summary.TopOpportunities == nil {
		resp.Summary.TopOpportunities = []revenue.KeywordRevenue{}
	}
	return jsonSuccess(c, resp)
}

// RevenueReport downloads the revenue-loss workbook.
func (h *DashboardHandler) RevenueReport(c fiber.Ctx) error {
	keywords, err := h.store.ListKeywords(c.Context(), c.Query("category"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}

	resolve, err := h.estimates.resolver(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "categories unavailable")
	}

	e := h.estimates.Estimator
	rows := make([]excel.ReportRow, 0, len(keywords))
	for _, kr := range e.Evaluate(keywords, resolve) {
		p := resolve(kr.Keyword)
		rows = append(rows, excel.ReportRow{
			KeywordRevenue: kr,
			TargetRank:     effectiveTarget(p),
			Competitors:    e.DeriveCompetitors(kr.Keyword, p),
		})
	}

	var buf bytes.Buffer
	if err := excel.WriteRevenueReport(&buf, rows); err != nil {
		slog.Error("revenue report failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	c.Attachment("revenue_report.xlsx")
	return c.Send(buf.Bytes())
}
