package models

// ImportResponse summarizes a CSV or spreadsheet import.
type ImportResponse struct {
	Valid    bool     `json:"valid"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// KeywordRevenueResponse pairs a keyword with its revenue estimate.
type KeywordRevenueResponse struct {
	Keyword     Keyword        `json:"keyword"`
	Metrics     RevenueMetrics `json:"metrics"`
	TargetRank  int            `json:"target_rank"`
	Competitors []Competitor   `json:"competitors"`
}
