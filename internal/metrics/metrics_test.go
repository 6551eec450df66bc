package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankdash/internal/ctr"
	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

type fakeSource struct {
	keywords []models.Keyword
	err      error
}

func (f *fakeSource) ListKeywords(context.Context, string) ([]models.Keyword, error) {
	return f.keywords, f.err
}

func fixedParams(models.Keyword) revenue.Params {
	return revenue.Params{AvgJobValue: 500, ConversionRate: 0.05, TargetRank: 3}
}

func TestRevenueCollector(t *testing.T) {
	source := &fakeSource{keywords: []models.Keyword{
		{Text: "plumber", MonthlySearches: 10000, CurrentRank: 7, Category: "plumbing"},
		{Text: "ac repair", MonthlySearches: 100, Category: "hvac"},
	}}
	c := NewRevenueCollector(source, revenue.NewEstimator(ctr.Default), fixedParams)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	expected := `
# HELP rankdash_revenue_loss_dollars Estimated monthly revenue lost to competitors by category
# TYPE rankdash_revenue_loss_dollars gauge
rankdash_revenue_loss_dollars{category="hvac"} 275
rankdash_revenue_loss_dollars{category="plumbing"} 18250
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "rankdash_revenue_loss_dollars")
	assert.NoError(t, err)

	assert.Equal(t, 4, testutil.CollectAndCount(c))
}

func TestRevenueCollector_SourceError(t *testing.T) {
	c := NewRevenueCollector(&fakeSource{err: errors.New("db down")}, revenue.NewEstimator(ctr.Default), fixedParams)
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(importRowsTotal.WithLabelValues("keywords_csv"))

	RecordImport("keywords_csv", "ok", 4)
	RecordImport("keywords_csv", "invalid", 0)

	assert.Equal(t, before+4, testutil.ToFloat64(importRowsTotal.WithLabelValues("keywords_csv")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(importsTotal.WithLabelValues("keywords_csv", "invalid")), 1.0)
}
