package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

var (
	revenueLossDesc = prometheus.NewDesc(
		"rankdash_revenue_loss_dollars",
		"Estimated monthly revenue lost to competitors by category",
		[]string{"category"},
		nil,
	)
	keywordsDesc = prometheus.NewDesc(
		"rankdash_keywords",
		"Tracked keywords by category and ranked state",
		[]string{"category", "ranked"},
		nil,
	)

	importsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rankdash_imports_total",
		Help: "Total imports by kind and outcome",
	}, []string{"kind", "outcome"})

	importRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rankdash_import_rows_total",
		Help: "Total rows stored by imports, by kind",
	}, []string{"kind"})
)

// KeywordSource lists stored keywords.
type KeywordSource interface {
	ListKeywords(ctx context.Context, category string) ([]models.Keyword, error)
}

// RevenueCollector is a custom Prometheus collector that reads keywords from
// the database on each scrape and reports estimated revenue loss.
type RevenueCollector struct {
	source    KeywordSource
	estimator *revenue.Estimator
	params    revenue.ParamsFunc
}

// NewRevenueCollector creates a collector over source.
func NewRevenueCollector(source KeywordSource, estimator *revenue.Estimator, params revenue.ParamsFunc) *RevenueCollector {
	return &RevenueCollector{source: source, estimator: estimator, params: params}
}

// Describe sends the metric descriptors to the channel.
func (c *RevenueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- revenueLossDesc
	ch <- keywordsDesc
}

// Collect queries the database for all keywords and emits per-category gauges.
func (c *RevenueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keywords, err := c.source.ListKeywords(ctx, "")
	if err != nil {
		slog.Error("failed to collect revenue metrics", "error", err)
		return
	}

	for _, s := range c.estimator.ByCategory(keywords, c.params) {
		ch <- prometheus.MustNewConstMetric(revenueLossDesc, prometheus.GaugeValue, s.RevenueLoss, s.Category)
	}

	type bucket struct {
		category string
		ranked   bool
	}
	counts := make(map[bucket]int)
	for _, kw := range keywords {
		category := kw.Category
		if category == "" {
			category = "uncategorized"
		}
		counts[bucket{category, kw.IsRanked()}]++
	}
	for b, n := range counts {
		ranked := "false"
		if b.ranked {
			ranked = "true"
		}
		ch <- prometheus.MustNewConstMetric(keywordsDesc, prometheus.GaugeValue, float64(n), b.category, ranked)
	}
}

var initOnce sync.Once

// Init registers the custom collector and the import counters.
// Must be called once at startup.
func Init(collector *RevenueCollector) {
	initOnce.Do(func() {
		prometheus.MustRegister(collector, importsTotal, importRowsTotal)
	})
}

// RecordImport counts an import attempt and the rows it stored.
func RecordImport(kind, outcome string, rows int) {
	importsTotal.WithLabelValues(kind, outcome).Inc()
	if rows > 0 {
		importRowsTotal.WithLabelValues(kind).Add(float64(rows))
	}
}
