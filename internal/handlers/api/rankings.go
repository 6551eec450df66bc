package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"rankdash/internal/db"
	"rankdash/internal/ingest"
	"rankdash/internal/models"
	"rankdash/internal/validation"
)

// RankingHandler handles ranking operations via JSON API.
type RankingHandler struct {
	store Store
}

// NewRankingHandler creates a new API ranking handler.
func NewRankingHandler(store Store) *RankingHandler {
	return &RankingHandler{store: store}
}

// List returns rankings, optionally for a single keyword_id.
func (h *RankingHandler) List(c fiber.Ctx) error {
	var keywordID *uuid.UUID
	if v := c.Query("keyword_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid keyword_id")
		}
		keywordID = &id
	}

	rankings, err := h.store.ListRankings(c.Context(), keywordID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch rankings")
	}
	if rankings == nil {
		rankings = []models.Ranking{}
	}
	return jsonSuccess(c, rankings)
}

// Upsert stores a JSON array of rankings. A ranking with the same keyword,
// entity name and rank as a stored one replaces it.
func (h *RankingHandler) Upsert(c fiber.Ctx) error {
	var body []models.Ranking
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "at least one ranking is required")
	}

	for i := range body {
		if msg := checkRanking(&body[i]); msg != "" {
			return jsonError(c, fiber.StatusBadRequest, fmt.Sprintf("ranking %d: %s", i+1, msg))
		}
	}

	saved, err := h.store.UpsertRankings(c.Context(), body)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to save rankings")
	}

	if _, err := syncKeywordRanks(c.Context(), h.store); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update keyword ranks")
	}
	return jsonSuccess(c, saved)
}

// Update changes one ranking.
func (h *RankingHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid ranking id")
	}

	var r models.Ranking
	if err := json.Unmarshal(c.Body(), &r); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	r.ID = id
	r.EntityName = strings.TrimSpace(r.EntityName)
	if msg := rankProblem(r.Rank); msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if r.EntityName == "" {
		return jsonError(c, fiber.StatusBadRequest, "entity_name is required")
	}

	if err := h.store.UpdateRanking(c.Context(), &r); err != nil {
		switch {
		case errors.Is(err, db.ErrRankingNotFound):
			return jsonError(c, fiber.StatusNotFound, "ranking not found")
		case errors.Is(err, db.ErrDuplicateRanking):
			return jsonError(c, fiber.StatusConflict, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update ranking")
	}

	if _, err := syncKeywordRanks(c.Context(), h.store); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update keyword ranks")
	}
	return jsonSuccess(c, r)
}

// checkRanking normalizes r and returns a message describing the first problem.
func checkRanking(r *models.Ranking) string {
	r.EntityName = strings.TrimSpace(r.EntityName)
	switch {
	case r.KeywordID == uuid.Nil:
		return "keyword_id is required"
	case r.EntityName == "":
		return "entity_name is required"
	case rankProblem(r.Rank) != "":
		return rankProblem(r.Rank)
	case !validation.InRange(r.TrafficShare, 0, 100):
		return "traffic_share must be between 0 and 100"
	}
	return ""
}

func rankProblem(rank int) string {
	switch {
	case rank < 1:
		return "rank must be at least 1"
	case !validation.ValidateRank(rank):
		return fmt.Sprintf("rank must be at most %d", validation.MaxCount)
	}
	return ""
}

// syncKeywordRanks folds stored rankings into keyword current and competitor
// ranks. Returns the number of keywords updated.
func syncKeywordRanks(ctx context.Context, store Store) (int, error) {
	keywords, err := store.ListKeywords(ctx, "")
	if err != nil {
		return 0, err
	}
	rankings, err := store.ListRankings(ctx, nil)
	if err != nil {
		return 0, err
	}

	changed := ingest.ApplyRankings(keywords, rankings)
	if err := store.SaveKeywordRanks(ctx, changed); err != nil {
		return 0, err
	}
	return len(changed), nil
}
