package revenue

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankdash/internal/ctr"
	"rankdash/internal/models"
)

func fixedParams(models.Keyword) Params {
	return Params{AvgJobValue: 500, ConversionRate: 0.05}
}

func sampleKeywords() []models.Keyword {
	return []models.Keyword{
		{Text: "plumber near me", MonthlySearches: 10000, CurrentRank: 7, Category: "plumbing"},
		{Text: "emergency plumber", MonthlySearches: 1000, CurrentRank: 1, Category: "plumbing"},
		{Text: "ac repair", MonthlySearches: 2000, CurrentRank: 0, Category: "hvac"},
	}
}

func TestSumAndAverage(t *testing.T) {
	nums := []int{2, 4, 9}
	identity := func(n int) float64 { return float64(n) }

	assert.Equal(t, 15.0, Sum(nums, identity))
	assert.Equal(t, 5.0, Average(nums, identity))
	assert.Equal(t, 0.0, Average([]int{}, identity))
}

func TestTopN(t *testing.T) {
	nums := []int{3, 9, 1, 7}
	desc := func(a, b int) int { return cmp.Compare(b, a) }

	assert.Equal(t, []int{9, 7}, TopN(nums, 2, desc))
	assert.Equal(t, []int{9, 7, 3, 1}, TopN(nums, 10, desc))
	assert.Equal(t, []int{3, 9, 1, 7}, nums, "input must not be reordered")
}

func TestSummarize(t *testing.T) {
	got := NewEstimator(ctr.Default).Summarize(sampleKeywords(), fixedParams)

	assert.Equal(t, 3, got.KeywordCount)
	assert.Equal(t, 2, got.RankedCount)
	assert.Equal(t, 13000, got.TotalSearchVolume)
	assert.Equal(t, 658, got.TotalCurrentClicks)
	assert.Equal(t, 1391, got.TotalPotentialClicks)
	assert.Equal(t, float64(16450), got.TotalCurrentRevenue)
	assert.Equal(t, float64(34775), got.TotalPotentialRevenue)
	assert.Equal(t, float64(18325), got.TotalRevenueLoss)
	assert.Equal(t, 4.0, got.AverageRank)

	require.Len(t, got.TopOpportunities, 3)
	assert.Equal(t, "plumber near me", got.TopOpportunities[0].Keyword.Text)
	assert.Equal(t, "ac repair", got.TopOpportunities[1].Keyword.Text)
	assert.Equal(t, "emergency plumber", got.TopOpportunities[2].Keyword.Text)
}

func TestSummarize_Empty(t *testing.T) {
	got := NewEstimator(ctr.Default).Summarize(nil, fixedParams)

	assert.Zero(t, got.KeywordCount)
	assert.Zero(t, got.AverageRank)
	assert.Empty(t, got.TopOpportunities)
}

func TestByCategory(t *testing.T) {
	got := NewEstimator(ctr.Default).ByCategory(sampleKeywords(), fixedParams)
	require.Len(t, got, 2)

	assert.Equal(t, "plumbing", got[0].Category)
	assert.Equal(t, 2, got[0].KeywordCount)
	assert.Equal(t, 11000, got[0].SearchVolume)
	assert.Equal(t, float64(13025), got[0].RevenueLoss)

	assert.Equal(t, "hvac", got[1].Category)
	assert.Equal(t, float64(5300), got[1].RevenueLoss)
}
