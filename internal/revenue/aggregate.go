package revenue

import (
	"cmp"
	"slices"

	"rankdash/internal/models"
)

// Sum adds up a value extracted from each item.
func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// Average returns the mean of the extracted values, or 0 for no items.
func Average[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Sum(items, value) / float64(len(items))
}

// TopN returns the first n items under less. The input slice is not modified.
func TopN[T any](items []T, n int, less func(a, b T) int) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, less)
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// ParamsFunc resolves the business parameters for a keyword, usually from
// its category.
type ParamsFunc func(models.Keyword) Params

// KeywordRevenue pairs a keyword with its estimate.
type KeywordRevenue struct {
	Keyword models.Keyword        `json:"keyword"`
	Metrics models.RevenueMetrics `json:"metrics"`
}

// DashboardSummary rolls keyword estimates into dashboard totals.
type DashboardSummary struct {
	KeywordCount          int              `json:"keyword_count"`
	RankedCount           int              `json:"ranked_count"`
	TotalSearchVolume     int              `json:"total_search_volume"`
	TotalCurrentClicks    int              `json:"total_current_clicks"`
	TotalPotentialClicks  int              `json:"total_potential_clicks"`
	TotalCurrentRevenue   float64          `json:"total_current_revenue"`
	TotalPotentialRevenue float64          `json:"total_potential_revenue"`
	TotalRevenueLoss      float64          `json:"total_revenue_loss"`
	AverageRank           float64          `json:"average_rank"` // ranked keywords only
	TopOpportunities      []KeywordRevenue `json:"top_opportunities"`
}

// CategorySummary is the per-category roll-up.
type CategorySummary struct {
	Category         string  `json:"category"`
	KeywordCount     int     `json:"keyword_count"`
	SearchVolume     int     `json:"search_volume"`
	CurrentRevenue   float64 `json:"current_revenue"`
	PotentialRevenue float64 `json:"potential_revenue"`
	RevenueLoss      float64 `json:"revenue_loss"`
}

// TopOpportunityCount is the number of keywords listed in a summary.
const TopOpportunityCount = 5

// Evaluate estimates every keyword.
func (e *Estimator) Evaluate(keywords []models.Keyword, params ParamsFunc) []KeywordRevenue {
	out := make([]KeywordRevenue, len(keywords))
	for i, kw := range keywords {
		out[i] = KeywordRevenue{Keyword: kw, Metrics: e.Estimate(kw, params(kw))}
	}
	return out
}

// Summarize computes dashboard totals for a keyword set.
func (e *Estimator) Summarize(keywords []models.Keyword, params ParamsFunc) DashboardSummary {
	evaluated := e.Evaluate(keywords, params)

	summary := DashboardSummary{
		KeywordCount:          len(keywords),
		TotalCurrentRevenue:   Sum(evaluated, func(k KeywordRevenue) float64 { return k.Metrics.CurrentRevenue }),
		TotalPotentialRevenue: Sum(evaluated, func(k KeywordRevenue) float64 { return k.Metrics.PotentialRevenue }),
		TotalRevenueLoss:      Sum(evaluated, func(k KeywordRevenue) float64 { return k.Metrics.RevenueLoss }),
		TotalSearchVolume:     int(Sum(keywords, func(k models.Keyword) float64 { return float64(k.MonthlySearches) })),
		TotalCurrentClicks:    int(Sum(evaluated, func(k KeywordRevenue) float64 { return float64(k.Metrics.CurrentClicks) })),
		TotalPotentialClicks:  int(Sum(evaluated, func(k KeywordRevenue) float64 { return float64(k.Metrics.PotentialClicks) })),
	}

	ranked := slices.DeleteFunc(slices.Clone(keywords), func(k models.Keyword) bool { return !k.IsRanked() })
	summary.RankedCount = len(ranked)
	summary.AverageRank = Average(ranked, func(k models.Keyword) float64 { return float64(k.CurrentRank) })

	summary.TopOpportunities = TopN(evaluated, TopOpportunityCount, func(a, b KeywordRevenue) int {
		return cmp.Compare(b.Metrics.RevenueLoss, a.Metrics.RevenueLoss)
	})

	return summary
}

// ByCategory groups estimates by keyword category, largest revenue loss first.
func (e *Estimator) ByCategory(keywords []models.Keyword, params ParamsFunc) []CategorySummary {
	index := make(map[string]int)
	var out []CategorySummary

	for _, kr := range e.Evaluate(keywords, params) {
		name := kr.Keyword.Category
		if name == "" {
			name = "uncategorized"
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategorySummary{Category: name})
		}
		out[i].KeywordCount++
		out[i].SearchVolume += kr.Keyword.MonthlySearches
		out[i].CurrentRevenue += kr.Metrics.CurrentRevenue
		out[i].PotentialRevenue += kr.Metrics.PotentialRevenue
		out[i].RevenueLoss += kr.Metrics.RevenueLoss
	}

	slices.SortFunc(out, func(a, b CategorySummary) int {
		if c := cmp.Compare(b.RevenueLoss, a.RevenueLoss); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}
