package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/costs"
	"github.com/ppiankov/awscostlens/internal/tools"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var costUsageFlags struct {
	start       string
	end         string
	lookBack    int
	granularity string
	groupBy     []string
	filter      string
	exclude     bool
	chartTitle  string
}

var costUsageCmd = &cobra.Command{
	Use:   "cost-usage",
	Short: "Summarize amortized cost and usage from Cost Explorer",
	Long: `Query Cost Explorer for amortized cost and usage quantity, optionally grouped
by up to two dimensions. Without --start/--end the window is derived from
--look-back (days for DAILY, months for MONTHLY).`,
	Example: `  awscostlens cost-usage --group-by SERVICE
  awscostlens cost-usage --granularity MONTHLY --look-back 12 --group-by SERVICE,REGION
  awscostlens cost-usage --start 2024-01-01 --end 2024-02-01 --filter "SERVICE=Amazon Elastic Compute Cloud - Compute"`,
	RunE: runCostUsage,
}

var costByServiceFlags struct {
	lookBack    int
	granularity string
	chartTitle  string
}

var costByServiceCmd = &cobra.Command{
	Use:   "cost-by-service",
	Short: "Summarize amortized cost per service and region",
	Long: `Query Cost Explorer for amortized cost grouped by service and region, with
credits, taxes and enterprise discounts excluded.`,
	RunE: runCostByService,
}

func init() {
	costUsageCmd.Flags().StringVar(&costUsageFlags.start, "start", "", "Start date (YYYY-MM-DD, inclusive)")
	costUsageCmd.Flags().StringVar(&costUsageFlags.end, "end", "", "End date (YYYY-MM-DD, exclusive)")
	costUsageCmd.Flags().IntVar(&costUsageFlags.lookBack, "look-back", 0, "Periods to look back when no dates are given (default: 30 days or 6 months)")
	costUsageCmd.Flags().StringVar(&costUsageFlags.granularity, "granularity", string(costs.Daily), "DAILY or MONTHLY")
	costUsageCmd.Flags().StringSliceVar(&costUsageFlags.groupBy, "group-by", nil, "Up to two grouping dimensions, e.g. SERVICE,REGION")
	costUsageCmd.Flags().StringVar(&costUsageFlags.filter, "filter", "", "Dimension filter as DIMENSION=value1,value2")
	costUsageCmd.Flags().BoolVar(&costUsageFlags.exclude, "exclude", false, "Exclude the --filter values instead of selecting them")
	costUsageCmd.Flags().StringVar(&costUsageFlags.chartTitle, "chart-title", "", "Chart title")

	costByServiceCmd.Flags().IntVar(&costByServiceFlags.lookBack, "look-back", 0, "Periods to look back (default: 30 days or 6 months)")
	costByServiceCmd.Flags().StringVar(&costByServiceFlags.granularity, "granularity", string(costs.Daily), "DAILY or MONTHLY")
	costByServiceCmd.Flags().StringVar(&costByServiceFlags.chartTitle, "chart-title", "", "Chart title")
}

func runCostUsage(cmd *cobra.Command, _ []string) error {
	in := tools.CostAndUsageInput{
		StartDate:   costUsageFlags.start,
		EndDate:     costUsageFlags.end,
		Granularity: costs.Granularity(strings.ToUpper(costUsageFlags.granularity)),
		GroupBy:     lo.Map(costUsageFlags.groupBy, func(g string, _ int) string { return strings.ToUpper(strings.TrimSpace(g)) }),
		ChartTitle:  costUsageFlags.chartTitle,
	}
	if cmd.Flags().Changed("look-back") {
		in.LookBack = lo.ToPtr(costUsageFlags.lookBack)
	}
	if costUsageFlags.filter != "" {
		f, err := parseCostFilter(costUsageFlags.filter, costUsageFlags.exclude)
		if err != nil {
			return err
		}
		in.Filter = f
	}

	return runTool(cmd, tools.NameGetCostAndUsage, func(ctx context.Context, d *tools.Deps) (toolOutput, error) {
		res, err := d.GetCostAndUsage(ctx, in)
		if err != nil {
			return toolOutput{}, err
		}
		return toolOutput{Result: res, Summary: res.Summary, Chart: res.Chart}, nil
	})
}

func runCostByService(cmd *cobra.Command, _ []string) error {
	in := tools.CostPerServicePerRegionInput{
		Granularity: costs.Granularity(strings.ToUpper(costByServiceFlags.granularity)),
		ChartTitle:  costByServiceFlags.chartTitle,
	}
	if cmd.Flags().Changed("look-back") {
		in.LookBack = lo.ToPtr(costByServiceFlags.lookBack)
	}

	return runTool(cmd, tools.NameCostPerServicePerRegion, func(ctx context.Context, d *tools.Deps) (toolOutput, error) {
		res, err := d.CostPerServicePerRegion(ctx, in)
		if err != nil {
			return toolOutput{}, err
		}
		return toolOutput{Result: res, Summary: res.Summary, Chart: res.Chart}, nil
	})
}

// parseCostFilter parses DIMENSION=value1,value2.
func parseCostFilter(s string, exclude bool) (*aws.CostFilter, error) {
	dim, values, ok := strings.Cut(s, "=")
	dim = strings.ToUpper(strings.TrimSpace(dim))
	if !ok || dim == "" {
		return nil, fmt.Errorf("invalid --filter %q: expected DIMENSION=value1,value2", s)
	}
	vals := lo.Compact(lo.Map(strings.Split(values, ","), func(v string, _ int) string { return strings.TrimSpace(v) }))
	if len(vals) == 0 {
		return nil, fmt.Errorf("invalid --filter %q: no values", s)
	}
	return &aws.CostFilter{Dimension: dim, Values: vals, Exclude: exclude}, nil
}
