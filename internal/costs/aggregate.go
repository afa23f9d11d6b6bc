package costs

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregation holds per-dimension totals in first-observed order.
type Aggregation struct {
	Dimensions []*Dimension
	index      map[string]int
}

// Get returns the aggregate for key, if any cost above the noise floor was seen for it.
func (a *Aggregation) Get(key string) (*Dimension, bool) {
	i, ok := a.index[key]
	if !ok {
		return nil, false
	}
	return a.Dimensions[i], true
}

// Total is the sum of every dimension total.
func (a *Aggregation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range a.Dimensions {
		total = total.Add(d.TotalCost)
	}
	return total
}

// Len returns the number of dimensions.
func (a *Aggregation) Len() int {
	return len(a.Dimensions)
}

// Aggregate folds records into per-dimension totals and per-period series.
// Values that fail to parse count as zero; values below NoiseFloor are skipped
// without creating the dimension. Keys within a record are visited in lexical
// order so first-observed order is deterministic.
func Aggregate(records []Record) *Aggregation {
	return aggregateBy(records, func(key string) (string, bool) { return key, true })
}

// aggregateBy folds records after mapping each key through keyFn. Keys for which
// keyFn returns false are ignored. Costs of keys that map to the same result are
// summed within a period.
func aggregateBy(records []Record, keyFn func(string) (string, bool)) *Aggregation {
	agg := &Aggregation{index: make(map[string]int)}

	for _, rec := range records {
		if len(rec.Dimensions) == 0 {
			continue
		}
		keys := make([]string, 0, len(rec.Dimensions))
		for k := range rec.Dimensions {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, raw := range keys {
			cost := ParseCost(rec.Dimensions[raw])
			if cost.LessThan(NoiseFloor) {
				continue
			}
			key, ok := keyFn(raw)
			if !ok {
				continue
			}

			i, seen := agg.index[key]
			if !seen {
				i = len(agg.Dimensions)
				agg.index[key] = i
				agg.Dimensions = append(agg.Dimensions, &Dimension{Key: key, TotalCost: decimal.Zero})
			}
			dim := agg.Dimensions[i]
			dim.TotalCost = dim.TotalCost.Add(cost)

			// one entry per date; projected keys may land on the same date twice
			if n := len(dim.DailyCosts); n > 0 && dim.DailyCosts[n-1].Date == rec.Date {
				dim.DailyCosts[n-1].Cost = dim.DailyCosts[n-1].Cost.Add(cost)
				continue
			}
			dim.DailyCosts = append(dim.DailyCosts, CostPoint{Date: rec.Date, Cost: cost})
		}
	}

	return agg
}

// ParseCost parses a Cost Explorer amount. Malformed or empty values are zero.
func ParseCost(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SplitKey splits a composite two-level key into its parent and child parts.
// Single-level keys return ok=false.
func SplitKey(key string) (parent, child string, ok bool) {
	return strings.Cut(key, compositeSeparator)
}

// JoinKey builds a composite two-level key.
func JoinKey(parts ...string) string {
	return strings.Join(parts, compositeSeparator)
}

// aggregateParents aggregates composite keys by their first level.
func aggregateParents(records []Record) *Aggregation {
	return aggregateBy(records, func(key string) (string, bool) {
		parent, _, ok := SplitKey(key)
		if !ok {
			return key, true
		}
		return parent, true
	})
}

// aggregateChildren aggregates the second level of composite keys under parent.
func aggregateChildren(records []Record, parent string) *Aggregation {
	return aggregateBy(records, func(key string) (string, bool) {
		p, child, ok := SplitKey(key)
		if !ok || p != parent {
			return "", false
		}
		return child, true
	})
}
