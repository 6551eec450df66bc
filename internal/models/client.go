package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a business the dashboard reports on.
type Client struct {
	ID              uuid.UUID `json:"id"`
	BusinessName    string    `json:"business_name"`
	Category        string    `json:"category"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Website         string    `json:"website"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	AvgJobValue     float64   `json:"avg_job_value"`
	ConversionRate  float64   `json:"conversion_rate"`
	VisibilityScore int       `json:"visibility_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// GlobalKeyword is a category-wide keyword shared by all clients.
type GlobalKeyword struct {
	ID           uuid.UUID `json:"id"`
	Keyword      string    `json:"keyword"`
	Category     string    `json:"category"`
	SearchVolume int       `json:"search_volume"`
	CPC          float64   `json:"cpc"`
	Difficulty   int       `json:"difficulty"`
	CreatedAt    time.Time `json:"created_at"`
}
