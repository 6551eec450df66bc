package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Competition level constants as they appear in keyword exports.
const (
	CompetitionLow    = "Low"
	CompetitionMedium = "Medium"
	CompetitionHigh   = "High"
)

// Keyword is a tracked search phrase with its volume and ranking position.
type Keyword struct {
	ID              uuid.UUID `json:"id"`
	Text            string    `json:"keyword"`
	MonthlySearches int       `json:"monthly_searches"`
	Competition     string    `json:"competition"`
	CPC             float64   `json:"cpc"`
	Difficulty      int       `json:"difficulty"`
	State           string    `json:"state"`
	City            string    `json:"city"`
	Category        string    `json:"category"`
	AvgJobSize      float64   `json:"avg_job_size"`
	CurrentRank     int       `json:"current_rank"` // 0 when not ranked
	TargetRank      int       `json:"target_rank"`

	// Optional ranks of the three tracked competitors
	Competitor1Rank *int `json:"competitor1_rank,omitempty"`
	Competitor2Rank *int `json:"competitor2_rank,omitempty"`
	Competitor3Rank *int `json:"competitor3_rank,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompetitorRanks returns the three competitor rank slots in order.
func (k *Keyword) CompetitorRanks() [3]*int {
	return [3]*int{k.Competitor1Rank, k.Competitor2Rank, k.Competitor3Rank}
}

// Location renders the keyword's geographic reference as "City, State".
func (k *Keyword) Location() string {
	switch {
	case k.City != "" && k.State != "":
		return k.City + ", " + k.State
	case k.City != "":
		return k.City
	default:
		return k.State
	}
}

// IsRanked returns true if the business has an observed position for the keyword.
func (k *Keyword) IsRanked() bool {
	return k.CurrentRank > 0
}

// MatchesText compares keyword text case-insensitively, ignoring surrounding space.
func (k *Keyword) MatchesText(text string) bool {
	return strings.EqualFold(strings.TrimSpace(k.Text), strings.TrimSpace(text))
}

// IntPtr is a small helper for building optional rank fields.
func IntPtr(v int) *int {
	return &v
}
