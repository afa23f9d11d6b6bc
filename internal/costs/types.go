package costs

import "github.com/shopspring/decimal"

// Granularity is the reporting bucket size of a cost query.
type Granularity string

const (
	Daily   Granularity = "DAILY"
	Monthly Granularity = "MONTHLY"
)

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	return g == Daily || g == Monthly
}

const (
	// SummaryThreshold is the cumulative cost share covered by text summaries.
	SummaryThreshold = 0.95
	// ChartThreshold is the cumulative cost share charted individually; the rest becomes "Other".
	ChartThreshold = 0.90
	// MaxSubDimensions caps the second-level lines rendered under each top-level dimension.
	MaxSubDimensions = 10

	// NoDataMessage is the summary returned when a query produced no records.
	NoDataMessage = "No cost data found for the specified period."

	// OtherSeries names the chart bucket for dimensions outside the significant set.
	OtherSeries = "Other"

	// compositeSeparator joins the two group keys of a two-level grouping.
	compositeSeparator = ", "
)

// NoiseFloor is the smallest cost kept during aggregation.
var NoiseFloor = decimal.RequireFromString("0.01")

// Record is one reporting period returned by a cost query.
// Dimension values are the raw decimal strings reported by Cost Explorer.
type Record struct {
	Date       string            `json:"date"`
	Dimensions map[string]string `json:"dimensions"`
	Total      string            `json:"total,omitempty"`
	Usage      string            `json:"usage,omitempty"`
	Estimated  bool              `json:"estimated,omitempty"`
}

// CostPoint is the cost of one dimension in one period.
type CostPoint struct {
	Date string
	Cost decimal.Decimal
}

// Dimension is the per-key aggregate of a set of records.
type Dimension struct {
	Key        string
	TotalCost  decimal.Decimal
	DailyCosts []CostPoint
}

// Costs returns the per-period costs as floats, in period order.
func (d *Dimension) Costs() []float64 {
	out := make([]float64, len(d.DailyCosts))
	for i, p := range d.DailyCosts {
		out[i] = p.Cost.InexactFloat64()
	}
	return out
}

// Direction is the sign of a cost trend.
type Direction string

const (
	TrendUp     Direction = "up"
	TrendDown   Direction = "down"
	TrendStable Direction = "stable"
)

// Trend is the least-squares trend of a series, expressed as a percentage of its mean per period.
type Trend struct {
	Direction           Direction `json:"direction"`
	PercentagePerPeriod float64   `json:"percentage_per_period"`
}
