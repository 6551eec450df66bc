package ingest

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"rankdash/internal/models"
	"rankdash/internal/validation"
)

// ApplyRankings folds imported rankings into their keywords: the best
// my-business rank becomes CurrentRank and the best ranks of the three
// leading other entities fill the competitor slots. Slots with no entity
// left are cleared. CurrentRank is kept when no ranking is marked as the
// business, so a manual rank edit survives. Keywords without rankings are
// unchanged. Returns only the keywords that were modified.
func ApplyRankings(keywords []models.Keyword, rankings []models.Ranking) []models.Keyword {
	byKeyword := make(map[uuid.UUID][]models.Ranking)
	for _, r := range rankings {
		byKeyword[r.KeywordID] = append(byKeyword[r.KeywordID], r)
	}

	var changed []models.Keyword
	for _, kw := range keywords {
		rs, ok := byKeyword[kw.ID]
		if !ok {
			continue
		}
		slices.SortStableFunc(rs, func(a, b models.Ranking) int { return cmp.Compare(a.Rank, b.Rank) })

		var others []int
		seen := make(map[string]bool)
		mine := 0
		for _, r := range rs {
			if r.IsMyBusiness {
				if mine == 0 {
					mine = r.Rank
				}
				continue
			}
			entity := validation.NormalizeKeyword(r.EntityName)
			if seen[entity] {
				continue
			}
			seen[entity] = true
			others = append(others, r.Rank)
		}

		if mine > 0 {
			kw.CurrentRank = mine
		}
		slots := [3]**int{&kw.Competitor1Rank, &kw.Competitor2Rank, &kw.Competitor3Rank}
		for i, slot := range slots {
			if i < len(others) {
				*slot = models.IntPtr(others[i])
			} else {
				*slot = nil
			}
		}
		changed = append(changed, kw)
	}
	return changed
}
