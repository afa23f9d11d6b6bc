package costs

import (
	"github.com/ppiankov/awscostlens/internal/chart"
	"github.com/shopspring/decimal"
)

// ChartOptions controls BuildChart.
type ChartOptions struct {
	Title string
	// Threshold is the cumulative cost share charted as named series. Zero means ChartThreshold.
	Threshold float64
}

// BuildChart builds a stacked bar chart of cost per period. Dimensions outside the
// significant set are summed per period into one "Other" series, emitted only for
// periods where it is nonzero. No records, or no cost above the noise floor, yields
// an empty spec.
func BuildChart(records []Record, granularity Granularity, opts ChartOptions) chart.Spec {
	if len(records) == 0 {
		return chart.Spec{}
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = ChartThreshold
	}

	agg := Aggregate(records)
	if agg.Len() == 0 {
		return chart.Spec{}
	}
	included, excluded := Partition(agg.Dimensions, threshold)

	var points []chart.Point
	for _, d := range included {
		series := WholeUSD(d.TotalCost) + " " + d.Key
		for _, p := range d.DailyCosts {
			points = append(points, chart.Point{
				Date:   p.Date,
				Label:  FormatAxis(p.Date, granularity),
				Series: series,
				Value:  p.Cost.InexactFloat64(),
			})
		}
	}

	if len(excluded) > 0 {
		remaining := decimal.Zero
		perDate := make(map[string]decimal.Decimal)
		for _, d := range excluded {
			remaining = remaining.Add(d.TotalCost)
			for _, p := range d.DailyCosts {
				perDate[p.Date] = perDate[p.Date].Add(p.Cost)
			}
		}
		series := WholeUSD(remaining) + " " + OtherSeries
		for _, rec := range records {
			cost, ok := perDate[rec.Date]
			if !ok || cost.IsZero() {
				continue
			}
			points = append(points, chart.Point{
				Date:   rec.Date,
				Label:  FormatAxis(rec.Date, granularity),
				Series: series,
				Value:  cost.InexactFloat64(),
			})
			delete(perDate, rec.Date)
		}
	}

	title := opts.Title
	if title == "" {
		title = "Cost per " + periodUnit(granularity)
	}
	return chart.NewStackedBar(title, "Cost (USD)", points)
}
