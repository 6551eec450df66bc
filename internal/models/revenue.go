package models

// RevenueMetrics is the derived revenue picture for one keyword.
// Never persisted; recomputed on every request.
type RevenueMetrics struct {
	CurrentRevenue   float64 `json:"current_revenue"`
	PotentialRevenue float64 `json:"potential_revenue"`
	RevenueLoss      float64 `json:"revenue_loss"` // negative when ranking above target
	CurrentClicks    int     `json:"current_clicks"`
	PotentialClicks  int     `json:"potential_clicks"`
}

// Competitor is synthesized from a keyword's stored competitor ranks.
// Name, domain, rating and review count are display placeholders.
type Competitor struct {
	Name        string  `json:"name"`
	Domain      string  `json:"domain"`
	Rank        int     `json:"rank"`
	Clicks      int     `json:"clicks"`
	Revenue     float64 `json:"revenue"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
