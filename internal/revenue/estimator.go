// Package revenue turns keyword rankings into revenue estimates.
package revenue

import (
	"math"

	"rankdash/internal/ctr"
	"rankdash/internal/models"
)

// DefaultTargetRank is the hypothetical position revenue loss is measured against.
const DefaultTargetRank = 3

// Params are the business inputs to an estimate.
type Params struct {
	AvgJobValue    float64
	ConversionRate float64 // fraction, e.g. 0.05
	TargetRank     int     // 0 means DefaultTargetRank
}

func (p Params) targetRank() int {
	if p.TargetRank <= 0 {
		return DefaultTargetRank
	}
	return p.TargetRank
}

// ParamsFor returns the category's job value and conversion rate, keeping the
// fallback value for any field the category leaves zero.
func ParamsFor(category models.BusinessCategory, fallback Params) Params {
	p := fallback
	if category.AvgJobValue > 0 {
		p.AvgJobValue = category.AvgJobValue
	}
	if category.ConversionRate > 0 {
		p.ConversionRate = category.ConversionRate
	}
	return p
}

// Estimator computes revenue metrics against a CTR table.
type Estimator struct {
	Table ctr.Table
}

// NewEstimator creates an estimator over the given table.
func NewEstimator(table ctr.Table) *Estimator {
	return &Estimator{Table: table}
}

// Estimate computes current and potential revenue for a keyword.
// Revenue loss is potential minus current and is not clamped.
func (e *Estimator) Estimate(kw models.Keyword, p Params) models.RevenueMetrics {
	currentCTR := e.Table.Lookup(kw.CurrentRank)
	targetCTR := e.Table.Lookup(p.targetRank())

	currentClicks := clicks(kw.MonthlySearches, currentCTR)
	potentialClicks := clicks(kw.MonthlySearches, targetCTR)

	currentRevenue := revenue(currentClicks, p)
	potentialRevenue := revenue(potentialClicks, p)

	return models.RevenueMetrics{
		CurrentRevenue:   currentRevenue,
		PotentialRevenue: potentialRevenue,
		RevenueLoss:      potentialRevenue - currentRevenue,
		CurrentClicks:    currentClicks,
		PotentialClicks:  potentialClicks,
	}
}

// Estimate computes revenue metrics using ctr.Default.
func Estimate(kw models.Keyword, p Params) models.RevenueMetrics {
	return (&Estimator{Table: ctr.Default}).Estimate(kw, p)
}

func clicks(volume int, rate float64) int {
	return int(math.Round(float64(volume) * rate))
}

func revenue(clicks int, p Params) float64 {
	return math.Round(float64(clicks) * p.ConversionRate * p.AvgJobValue)
}
