package revenue

import (
	"fmt"

	"rankdash/internal/models"
)

// Placeholder listing details shown next to synthesized competitors.
var (
	placeholderRatings = [3]float64{4.8, 4.6, 4.4}
	placeholderReviews = [3]int{127, 89, 64}
)

// DeriveCompetitors builds up to three competitor records from the keyword's
// stored competitor ranks. Empty or non-positive ranks are skipped.
func (e *Estimator) DeriveCompetitors(kw models.Keyword, p Params) []models.Competitor {
	competitors := make([]models.Competitor, 0, 3)
	for i, rank := range kw.CompetitorRanks() {
		if rank == nil || *rank <= 0 {
			continue
		}
		c := clicks(kw.MonthlySearches, e.Table.Lookup(*rank))
		competitors = append(competitors, models.Competitor{
			Name:        fmt.Sprintf("Competitor #%d", i+1),
			Domain:      fmt.Sprintf("competitor%d.example.com", i+1),
			Rank:        *rank,
			Clicks:      c,
			Revenue:     revenue(c, p),
			Rating:      placeholderRatings[i],
			ReviewCount: placeholderReviews[i],
		})
	}
	return competitors
}
