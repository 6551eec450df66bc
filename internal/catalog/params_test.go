package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

func TestParams(t *testing.T) {
	c := New(Static(testCategories))
	require.NoError(t, c.EnsureLoaded(context.Background()))

	fallback := revenue.Params{AvgJobValue: 250, ConversionRate: 0.005, TargetRank: 3}
	resolve := c.Params(fallback)

	tests := []struct {
		name string
		kw   models.Keyword
		want revenue.Params
	}{
		{
			name: "unknown category uses fallback",
			kw:   models.Keyword{Category: "roofing"},
			want: fallback,
		},
		{
			name: "category values",
			kw:   models.Keyword{Category: "HVAC"},
			want: revenue.Params{AvgJobValue: 500, ConversionRate: 0.04, TargetRank: 3},
		},
		{
			name: "keyword job size and target win",
			kw:   models.Keyword{Category: "plumbing", AvgJobSize: 400, TargetRank: 1},
			want: revenue.Params{AvgJobValue: 400, ConversionRate: 0.05, TargetRank: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(tt.kw))
		})
	}
}
