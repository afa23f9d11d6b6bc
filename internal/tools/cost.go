package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/chart"
	"github.com/ppiankov/awscostlens/internal/config"
	"github.com/ppiankov/awscostlens/internal/costs"
)

// maxGroupBy is the number of grouping dimensions Cost Explorer accepts.
const maxGroupBy = 2

// GroupByDimensions are the Cost Explorer dimensions a cost query may group by.
var GroupByDimensions = []string{
	"AZ", "INSTANCE_TYPE", "LINKED_ACCOUNT", "OPERATION", "PURCHASE_TYPE", "SERVICE",
	"USAGE_TYPE", "PLATFORM", "TENANCY", "RECORD_TYPE", "LEGAL_ENTITY_NAME",
	"INVOICING_ENTITY", "DEPLOYMENT_OPTION", "DATABASE_ENGINE", "CACHE_ENGINE",
	"INSTANCE_TYPE_FAMILY", "REGION", "BILLING_ENTITY", "RESERVATION_ID",
	"SAVINGS_PLANS_TYPE", "SAVINGS_PLAN_ARN", "OPERATING_SYSTEM",
}

// CostAndUsageInput are the arguments of awsGetCostAndUsage.
type CostAndUsageInput struct {
	// StartDate and EndDate are passed to Cost Explorer as given; EndDate is exclusive.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	// LookBack derives the window when no dates are given. Nil uses the configured default.
	LookBack    *int                `json:"lookBack,omitempty"`
	Granularity costs.Granularity   `json:"granularity"`
	GroupBy     []string            `json:"groupBy,omitempty"`
	Filter      *awstype.CostFilter `json:"filter,omitempty"`
	ChartTitle  string              `json:"chartTitle,omitempty"`
}

// CostPerServicePerRegionInput are the arguments of awsCostPerServicePerRegion.
type CostPerServicePerRegionInput struct {
	Granularity costs.Granularity `json:"granularity"`
	LookBack    *int              `json:"lookBack,omitempty"`
	ChartTitle  string            `json:"chartTitle,omitempty"`
}

// GetCostAndUsage retrieves amortized cost and usage, summarizes the significant
// dimensions, and charts them.
func (d *Deps) GetCostAndUsage(ctx context.Context, in CostAndUsageInput) (*Result[costs.Record], error) {
	if !in.Granularity.Valid() {
		return nil, argError("granularity", "must be DAILY or MONTHLY, got %q", in.Granularity)
	}
	if len(in.GroupBy) > maxGroupBy {
		return nil, argError("groupBy", "at most %d dimensions allowed, got %d", maxGroupBy, len(in.GroupBy))
	}
	for _, g := range in.GroupBy {
		if !lo.Contains(GroupByDimensions, g) {
			return nil, argError("groupBy", "unsupported dimension %q", g)
		}
	}
	if len(lo.Uniq(in.GroupBy)) != len(in.GroupBy) {
		return nil, argError("groupBy", "dimensions must be distinct")
	}
	if f := in.Filter; f != nil {
		if f.Dimension == "" {
			return nil, argError("filter.dimension", "is required")
		}
		if len(f.Values) == 0 {
			return nil, argError("filter.values", "at least one value is required")
		}
	}

	start, end, empty, err := d.window(in.StartDate, in.EndDate, in.LookBack, in.Granularity)
	if err != nil {
		return nil, err
	}
	if empty {
		return emptyCostResult(), nil
	}

	q := awstype.CostQuery{
		Start:       start,
		End:         end,
		Granularity: string(in.Granularity),
		GroupBy:     in.GroupBy,
		Metrics:     []string{awstype.MetricAmortizedCost, awstype.MetricUsageQuantity},
	}
	if in.Filter != nil {
		q.Filters = []awstype.CostFilter{*in.Filter}
	}

	records, err := d.Costs.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get cost and usage: %w", err)
	}
	slog.Debug("Fetched cost records", "tool", NameGetCostAndUsage, "records", len(records))
	return d.costResult(records, in.Granularity, "", in.GroupBy, in.ChartTitle), nil
}

// CostPerServicePerRegion summarizes amortized cost grouped by service, then region,
// excluding credits and taxes.
func (d *Deps) CostPerServicePerRegion(ctx context.Context, in CostPerServicePerRegionInput) (*Result[costs.Record], error) {
	if in.Granularity == "" {
		in.Granularity = costs.Daily
	}
	if !in.Granularity.Valid() {
		return nil, argError("granularity", "must be DAILY or MONTHLY, got %q", in.Granularity)
	}

	start, end, empty, err := d.window("", "", in.LookBack, in.Granularity)
	if err != nil {
		return nil, err
	}
	if empty {
		return emptyCostResult(), nil
	}

	groupBy := []string{"SERVICE", "REGION"}
	records, err := d.Costs.Fetch(ctx, awstype.CostQuery{
		Start:       start,
		End:         end,
		Granularity: string(in.Granularity),
		GroupBy:     groupBy,
		Filters:     []awstype.CostFilter{awstype.ExcludeCreditsAndTaxes},
		Metrics:     []string{awstype.MetricAmortizedCost},
	})
	if err != nil {
		return nil, fmt.Errorf("get cost per service per region: %w", err)
	}
	slog.Debug("Fetched cost records", "tool", NameCostPerServicePerRegion, "records", len(records))
	return d.costResult(records, in.Granularity, NameCostPerServicePerRegion, groupBy, in.ChartTitle), nil
}

// window resolves the query window. Explicit dates pass through unchanged; otherwise
// the window is derived from lookBack and its end is made exclusive.
func (d *Deps) window(startDate, endDate string, lookBack *int, g costs.Granularity) (start, end string, empty bool, err error) {
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return "", "", false, argError("startDate", "startDate and endDate must be given together")
		}
		s, err := time.Parse(costs.DateLayout, startDate)
		if err != nil {
			return "", "", false, argError("startDate", "must be YYYY-MM-DD")
		}
		e, err := time.Parse(costs.DateLayout, endDate)
		if err != nil {
			return "", "", false, argError("endDate", "must be YYYY-MM-DD")
		}
		if !e.After(s) {
			return "", "", false, argError("endDate", "must be after startDate")
		}
		return startDate, endDate, false, nil
	}

	n := d.defaultLookBack(g)
	if lookBack != nil {
		n = *lookBack
	}
	if n < 0 {
		return "", "", false, argError("lookBack", "must not be negative")
	}
	r := costs.CalculateDateRange(d.now(), n, g)
	if r.Empty(g) {
		return "", "", true, nil
	}
	return r.Start, r.ExclusiveEnd(g), false, nil
}

func (d *Deps) defaultLookBack(g costs.Granularity) int {
	if g == costs.Monthly {
		if d.Thresholds.MonthlyLookBack > 0 {
			return d.Thresholds.MonthlyLookBack
		}
		return config.DefaultMonthlyLookBack
	}
	if d.Thresholds.DailyLookBack > 0 {
		return d.Thresholds.DailyLookBack
	}
	return config.DefaultDailyLookBack
}

func (d *Deps) costResult(records []costs.Record, g costs.Granularity, label string, groupBy []string, title string) *Result[costs.Record] {
	if records == nil {
		records = []costs.Record{}
	}
	summary := costs.Summarize(records, costs.SummaryOptions{
		Granularity:      g,
		Label:            label,
		GroupBy:          groupBy,
		Threshold:        d.Thresholds.Summary,
		MaxSubDimensions: d.Thresholds.MaxSubDimensions,
	})
	spec := costs.BuildChart(records, g, costs.ChartOptions{Title: title, Threshold: d.Thresholds.Chart})
	return &Result[costs.Record]{Summary: summary, Datapoints: records, Chart: &spec}
}

func emptyCostResult() *Result[costs.Record] {
	return &Result[costs.Record]{
		Summary:    costs.NoDataMessage,
		Datapoints: []costs.Record{},
		Chart:      new(chart.Spec),
	}
}
