package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ranking is an observed position of a named entity for a keyword.
type Ranking struct {
	ID           uuid.UUID `json:"id"`
	KeywordID    uuid.UUID `json:"keyword_id"`
	Rank         int       `json:"rank"`
	EntityName   string    `json:"entity_name"`
	TrafficShare float64   `json:"traffic_share"` // percent of keyword volume
	IsMyBusiness bool      `json:"is_my_business"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CompositeKey identifies a ranking by (keyword, entity name, rank).
// Entity names compare case-insensitively.
func (r *Ranking) CompositeKey() string {
	return r.KeywordID.String() + "|" + strings.ToLower(strings.TrimSpace(r.EntityName)) + "|" + strconv.Itoa(r.Rank)
}

// DedupeRankings keeps the last ranking for each composite key, preserving
// the position of its first occurrence.
func DedupeRankings(rankings []Ranking) []Ranking {
	index := make(map[string]int, len(rankings))
	out := make([]Ranking, 0, len(rankings))
	for _, r := range rankings {
		key := r.CompositeKey()
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}
