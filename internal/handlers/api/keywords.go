package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"rankdash/internal/db"
	"rankdash/internal/models"
	"rankdash/internal/revenue"
	"rankdash/internal/validation"
)

// KeywordHandler handles keyword CRUD and per-keyword estimates via JSON API.
type KeywordHandler struct {
	store     Store
	estimates *Estimates
}

// NewKeywordHandler creates a new API keyword handler.
func NewKeywordHandler(store Store, estimates *Estimates) *KeywordHandler {
	return &KeywordHandler{store: store, estimates: estimates}
}

// List returns keywords, optionally filtered by category.
func (h *KeywordHandler) List(c fiber.Ctx) error {
	keywords, err := h.store.ListKeywords(c.Context(), c.Query("category"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}
	if keywords == nil {
		keywords = []models.Keyword{}
	}
	return jsonSuccess(c, keywords)
}

// Create stores a JSON array of keywords.
func (h *KeywordHandler) Create(c fiber.Ctx) error {
	var body []models.Keyword
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "at least one keyword is required")
	}

	for i := range body {
		kw := &body[i]
		kw.Text = strings.TrimSpace(kw.Text)
		if !validation.ValidateKeyword(kw.Text) {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("keyword %d: text is required and at most %d characters", i+1, validation.MaxKeywordLength))
		}
		if kw.MonthlySearches < 0 {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("keyword %d: monthly searches cannot be negative", i+1))
		}
		if kw.CurrentRank < 0 || kw.TargetRank < 0 {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("keyword %d: ranks cannot be negative", i+1))
		}
		if !validation.ValidateCount(kw.MonthlySearches) || !validation.ValidateCount(kw.CurrentRank) || !validation.ValidateCount(kw.TargetRank) {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("keyword %d: values must be at most %d", i+1, validation.MaxCount))
		}
		if kw.TargetRank == 0 {
			kw.TargetRank = h.estimates.Defaults.TargetRank
		}
	}

	created, err := h.store.CreateKeywords(c.Context(), body)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save keywords")
	}
	return jsonCreated(c, created)
}

// UpdateRank sets the business's rank for a keyword. Rank 0 clears it.
func (h *KeywordHandler) UpdateRank(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	var body struct {
		Rank *int `json:"rank"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Rank == nil {
		return jsonError(c, fiber.StatusBadRequest, "rank is required")
	}
	if *body.Rank < 0 {
		return jsonError(c, fiber.StatusBadRequest, "rank cannot be negative")
	}
	if !validation.ValidateCount(*body.Rank) {
		return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("rank must be at most %d", validation.MaxCount))
	}

	kw, err := h.store.UpdateKeywordRank(c.Context(), id, *body.Rank)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update rank")
	}
	return jsonSuccess(c, kw)
}

// Revenue returns the revenue estimate for one keyword. Query parameters
// avg_job_value, conversion_rate, target_rank and category override the
// values resolved from the keyword's category.
func (h *KeywordHandler) Revenue(c fiber.Ctx) error {
	kw, p, err := h.keywordWithParams(c)
	if err != nil {
		return err
	}

	metrics := h.estimates.Estimator.Estimate(*kw, p)
	return jsonSuccess(c, models.KeywordRevenueResponse{
		Keyword:     *kw,
		Metrics:     metrics,
		TargetRank:  effectiveTarget(p),
		Competitors: h.estimates.Estimator.DeriveCompetitors(*kw, p),
	})
}

// Competitors returns the competitors derived from a keyword's competitor ranks.
func (h *KeywordHandler) Competitors(c fiber.Ctx) error {
	kw, p, err := h.keywordWithParams(c)
	if err != nil {
		return err
	}
	return jsonSuccess(c, h.estimates.Estimator.DeriveCompetitors(*kw, p))
}

// keywordWithParams loads the :id keyword and resolves its estimate params.
// Failures are returned as *fiber.Error for ErrorHandler to render.
func (h *KeywordHandler) keywordWithParams(c fiber.Ctx) (*models.Keyword, revenue.Params, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, revenue.Params{}, fiber.NewError(fiber.StatusBadRequest, "invalid keyword id")
	}

	kw, err := h.store.GetKeyword(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return nil, revenue.Params{}, fiber.NewError(fiber.StatusNotFound, "keyword not found")
		}
		return nil, revenue.Params{}, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch keyword")
	}

	resolve, err := h.estimates.resolver(c.Context())
	if err != nil {
		return nil, revenue.Params{}, fiber.NewError(fiber.StatusServiceUnavailable, "categories unavailable")
	}

	lookup := *kw
	if category := c.Query("category"); category != "" {
		lookup.Category = category
	}
	p := resolve(lookup)

	p, msg := applyParamOverrides(c, p)
	if msg != "" {
		return nil, revenue.Params{}, fiber.NewError(fiber.StatusBadRequest, msg)
	}
	return kw, p, nil
}

// applyParamOverrides applies the estimate query parameters to p.
// It returns a non-empty message for an invalid value.
func applyParamOverrides(c fiber.Ctx, p revenue.Params) (revenue.Params, string) {
	if v := c.Query("avg_job_value"); v != "" {
		n, err := validation.ParseNumber(v)
		if err != nil || n < 0 {
			return p, "avg_job_value must be a non-negative number"
		}
		p.AvgJobValue = n
	}
	if v := c.Query("conversion_rate"); v != "" {
		n, err := validation.ParseNumber(v)
		if err != nil || !validation.InRange(n, 0, 100) {
			return p, "conversion_rate must be between 0 and 100"
		}
		p.ConversionRate = validation.NormalizeConversionRate(n)
	}
	if v := c.Query("target_rank"); v != "" {
		n, err := validation.ParseInt(v)
		if err != nil || !validation.ValidateRank(n) {
			return p, "target_rank must be at least 1"
		}
		p.TargetRank = n
	}
	return p, ""
}

func effectiveTarget(p revenue.Params) int {
	if p.TargetRank > 0 {
		return p.TargetRank
	}
	return revenue.DefaultTargetRank
}
