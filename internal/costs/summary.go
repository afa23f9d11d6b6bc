package costs

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSummaryLabel prefixes the header line when no label is given.
const DefaultSummaryLabel = "Cost"

// SummaryOptions controls Summarize.
type SummaryOptions struct {
	Granularity Granularity
	// Label names the data set in the header line.
	Label string
	// GroupBy lists the grouping dimensions. Two entries enable sub-dimension lines.
	GroupBy []string
	// Threshold is the cumulative cost share to report. Zero means SummaryThreshold.
	Threshold float64
	// MaxSubDimensions caps the sub-dimension lines per parent. Zero means MaxSubDimensions.
	MaxSubDimensions int
}

// Summarize renders a human-readable cost summary of records.
// An empty record sequence yields NoDataMessage.
func Summarize(records []Record, opts SummaryOptions) string {
	if len(records) == 0 {
		return NoDataMessage
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = SummaryThreshold
	}
	maxSub := opts.MaxSubDimensions
	if maxSub <= 0 {
		maxSub = MaxSubDimensions
	}

	header := Header(records, opts.Granularity, opts.Label, opts.GroupBy)
	periods := len(records)

	if len(opts.GroupBy) != 2 {
		agg := Aggregate(records)
		return Render(header, SelectSignificant(agg.Dimensions, threshold), agg.Total(), periods, opts.Granularity)
	}

	parents := aggregateParents(records)
	total := parents.Total()
	lines := []string{header}
	for _, parent := range SelectSignificant(parents.Dimensions, threshold) {
		lines = append(lines, SummaryLine(parent, total, periods, opts.Granularity))

		children := aggregateChildren(records, parent.Key)
		sorted := SortByCost(children.Dimensions)
		if len(sorted) > maxSub {
			sorted = sorted[:maxSub]
		}
		for _, child := range sorted {
			lines = append(lines, "  - "+SummaryLine(child, parent.TotalCost, periods, opts.Granularity))
		}
	}
	return strings.Join(lines, "\n")
}

// Render formats header followed by one line per dimension, in the given order.
// Percentages are relative to total.
func Render(header string, dims []*Dimension, total decimal.Decimal, periods int, granularity Granularity) string {
	lines := make([]string, 0, len(dims)+1)
	lines = append(lines, header)
	for _, d := range dims {
		lines = append(lines, SummaryLine(d, total, periods, granularity))
	}
	return strings.Join(lines, "\n")
}

// Header describes the date range spanned by records and the grouping used.
func Header(records []Record, granularity Granularity, label string, groupBy []string) string {
	if label == "" {
		label = DefaultSummaryLabel
	}
	var start, end string
	if len(records) > 0 {
		start = FormatPeriod(records[0].Date, granularity)
		end = FormatPeriod(records[len(records)-1].Date, granularity)
	}
	header := fmt.Sprintf("%s data range: %s - %s", label, start, end)
	if len(groupBy) > 0 {
		header += " grouped by " + strings.Join(groupBy, ", ")
	}
	return header
}

// SummaryLine formats the statistics of one dimension over periods reporting periods.
func SummaryLine(d *Dimension, total decimal.Decimal, periods int, granularity Granularity) string {
	unit := periodUnit(granularity)

	var pct float64
	if !total.IsZero() {
		pct = d.TotalCost.Div(total).InexactFloat64() * 100
	}
	avg := decimal.Zero
	if periods > 0 {
		avg = d.TotalCost.Div(decimal.NewFromInt(int64(periods)))
	}
	stddev := StandardDeviation(d.Costs())
	maxPoint, minPoint := MinMax(d.DailyCosts)

	return fmt.Sprintf("%s: Total cost for %d %ss %s (%s%%), average %s/%s (±%s), %s, max cost was on %s at %s, min cost was on %s at %s",
		d.Key, periods, unit, USD(d.TotalCost), percent(pct),
		USD(avg), unit, USDFloat(stddev),
		describeTrend(EstimateTrend(d.DailyCosts), unit),
		FormatPeriod(maxPoint.Date, granularity), USD(maxPoint.Cost),
		FormatPeriod(minPoint.Date, granularity), USD(minPoint.Cost),
	)
}

func describeTrend(t Trend, unit string) string {
	if t.Direction == TrendStable {
		return "trending stable"
	}
	return fmt.Sprintf("trending %s at %s%% per %s", t.Direction, percent(t.PercentagePerPeriod), unit)
}
