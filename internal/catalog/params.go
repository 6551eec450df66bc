package catalog

import (
	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

// Params returns a resolver for per-keyword estimate parameters. A keyword's
// own job size and target rank win over its category, which wins over
// fallback.
func (c *Catalog) Params(fallback revenue.Params) revenue.ParamsFunc {
	return func(kw models.Keyword) revenue.Params {
		p := fallback
		if cat, err := c.Get(kw.Category); err == nil {
			p = revenue.ParamsFor(cat, fallback)
		}
		if kw.AvgJobSize > 0 {
			p.AvgJobValue = kw.AvgJobSize
		}
		if kw.TargetRank > 0 {
			p.TargetRank = kw.TargetRank
		}
		return p
	}
}
