package revenue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rankdash/internal/ctr"
	"rankdash/internal/models"
)

func TestEstimate_WorkedExample(t *testing.T) {
	kw := models.Keyword{Text: "plumber near me", MonthlySearches: 10000, CurrentRank: 7}
	got := Estimate(kw, Params{AvgJobValue: 500, ConversionRate: 0.05, TargetRank: 3})

	assert.Equal(t, models.RevenueMetrics{
		CurrentClicks:    340,
		PotentialClicks:  1070,
		CurrentRevenue:   8500,
		PotentialRevenue: 26750,
		RevenueLoss:      18250,
	}, got)
}

func TestEstimate_DefaultTargetRank(t *testing.T) {
	kw := models.Keyword{MonthlySearches: 10000, CurrentRank: 7}
	explicit := Estimate(kw, Params{AvgJobValue: 500, ConversionRate: 0.05, TargetRank: DefaultTargetRank})
	implicit := Estimate(kw, Params{AvgJobValue: 500, ConversionRate: 0.05})

	assert.Equal(t, explicit, implicit)
}

func TestEstimate_AboveTargetIsNegative(t *testing.T) {
	kw := models.Keyword{MonthlySearches: 1000, CurrentRank: 1}
	got := Estimate(kw, Params{AvgJobValue: 500, ConversionRate: 0.05})

	assert.Equal(t, 316, got.CurrentClicks)
	assert.Equal(t, 107, got.PotentialClicks)
	assert.Equal(t, float64(-5225), got.RevenueLoss)
}

func TestEstimate_Deterministic(t *testing.T) {
	kw := models.Keyword{MonthlySearches: 7321, CurrentRank: 13}
	p := Params{AvgJobValue: 275.5, ConversionRate: 0.037, TargetRank: 2}

	first := Estimate(kw, p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Estimate(kw, p))
	}
}

func TestEstimate_FallbackTables(t *testing.T) {
	kw := models.Keyword{MonthlySearches: 10000, CurrentRank: 0}
	p := Params{AvgJobValue: 100, ConversionRate: 0.1}

	estimator := NewEstimator(ctr.Default).Estimate(kw, p)
	legacy := NewEstimator(ctr.Legacy).Estimate(kw, p)

	assert.Equal(t, 10, estimator.CurrentClicks)
	assert.Equal(t, 100, legacy.CurrentClicks)
	assert.Greater(t, estimator.RevenueLoss, legacy.RevenueLoss)
}

func TestParamsFor(t *testing.T) {
	fallback := Params{AvgJobValue: 250, ConversionRate: 0.005, TargetRank: 3}

	tests := []struct {
		name     string
		category models.BusinessCategory
		want     Params
	}{
		{
			name:     "category values win",
			category: models.BusinessCategory{AvgJobValue: 800, ConversionRate: 0.03},
			want:     Params{AvgJobValue: 800, ConversionRate: 0.03, TargetRank: 3},
		},
		{
			name:     "missing conversion rate falls back",
			category: models.BusinessCategory{AvgJobValue: 800},
			want:     Params{AvgJobValue: 800, ConversionRate: 0.005, TargetRank: 3},
		},
		{
			name:     "empty category falls back entirely",
			category: models.BusinessCategory{},
			want:     fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParamsFor(tt.category, fallback))
		})
	}
}
