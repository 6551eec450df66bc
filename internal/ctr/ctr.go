// Package ctr maps search-result positions to industry click-through rates.
package ctr

// values holds the click-through rate for ranks 1..21 (index 0 is rank 1).
var values = [...]float64{
	0.316, // 1
	0.158,
	0.107,
	0.077,
	0.058,
	0.045,
	0.034, // 7
	0.027,
	0.022,
	0.018, // 10
	0.010,
	0.009,
	0.008,
	0.007,
	0.006,
	0.005,
	0.004,
	0.003,
	0.003,
	0.002,
	0.001, // 21
}

// Fallback rates for ranks outside the table.
const (
	// EstimatorFallback is used by per-keyword revenue estimates.
	EstimatorFallback = 0.001
	// SummaryFallback is used by the dashboard summary cards.
	SummaryFallback = 0.01
)

// Table is a rank to CTR lookup with a fallback for out-of-range ranks.
type Table struct {
	Fallback float64
}

var (
	// Default is the table used for revenue estimates.
	Default = Table{Fallback: EstimatorFallback}
	// Legacy carries the summary-card fallback. The two fallbacks disagree and
	// change reported revenue loss for unranked keywords; callers pick one
	// explicitly.
	Legacy = Table{Fallback: SummaryFallback}
)

// WithFallback returns a table using the given fallback rate.
func WithFallback(fallback float64) Table {
	return Table{Fallback: fallback}
}

// Lookup returns the click-through rate for a rank. Ranks below 1 or beyond
// MaxRank return the fallback.
func (t Table) Lookup(rank int) float64 {
	if rank < 1 || rank > len(values) {
		return t.Fallback
	}
	return values[rank-1]
}

// Lookup returns the click-through rate for a rank using Default.
func Lookup(rank int) float64 {
	return Default.Lookup(rank)
}

// MaxRank returns the last rank covered by the table.
func MaxRank() int {
	return len(values)
}
