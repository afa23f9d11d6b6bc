package costs

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SelectSignificant returns the shortest cost-descending prefix of dims whose
// cumulative cost reaches threshold of the total. The dimension that crosses the
// threshold is included. Ties keep their input order. When the total is zero the
// input is returned unchanged.
func SelectSignificant(dims []*Dimension, threshold float64) []*Dimension {
	included, _ := Partition(dims, threshold)
	return included
}

// Partition splits dims into the significant prefix and the remainder, both in
// cost-descending order.
func Partition(dims []*Dimension, threshold float64) (included, excluded []*Dimension) {
	total := decimal.Zero
	for _, d := range dims {
		total = total.Add(d.TotalCost)
	}
	if total.IsZero() {
		return dims, nil
	}

	sorted := SortByCost(dims)
	cutoff := total.Mul(decimal.NewFromFloat(threshold))
	running := decimal.Zero
	for i, d := range sorted {
		running = running.Add(d.TotalCost)
		if running.GreaterThanOrEqual(cutoff) {
			return sorted[:i+1], sorted[i+1:]
		}
	}
	return sorted, nil
}

// SortByCost returns a copy of dims ordered by total cost, highest first. The sort is stable.
func SortByCost(dims []*Dimension) []*Dimension {
	sorted := make([]*Dimension, len(dims))
	copy(sorted, dims)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCost.GreaterThan(sorted[j].TotalCost)
	})
	return sorted
}
