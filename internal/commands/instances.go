package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/tools"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var instancesFlags struct {
	regions     []string
	allRegions  bool
	instanceIDs []string
	filters     []string
	maxResults  int
	cpuDays     int
}

var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "Describe EC2 instances with uptime and on-demand cost",
	Long: `Describe EC2 instances in one or more regions with their uptime, estimated
on-demand price and, with --cpu-days, average CPU utilization.`,
	Example: `  awscostlens instances --region eu-west-1
  awscostlens instances --all-regions --filter instance-state-name=running --cpu-days 14`,
	RunE: runInstances,
}

func init() {
	instancesCmd.Flags().StringSliceVar(&instancesFlags.regions, "regions", nil, "Comma-separated regions to describe")
	instancesCmd.Flags().BoolVar(&instancesFlags.allRegions, "all-regions", false, "Describe every enabled region")
	instancesCmd.Flags().StringSliceVar(&instancesFlags.instanceIDs, "instance-ids", nil, "Comma-separated instance IDs")
	instancesCmd.Flags().StringArrayVar(&instancesFlags.filters, "filter", nil, "EC2 filter as name=value1,value2 (repeatable)")
	instancesCmd.Flags().IntVar(&instancesFlags.maxResults, "max-results", 0, "Maximum instances per region (default: all)")
	instancesCmd.Flags().IntVar(&instancesFlags.cpuDays, "cpu-days", 0, "Look up average CPU over this many days (default: off)")
}

func runInstances(cmd *cobra.Command, _ []string) error {
	filters, err := parseInstanceFilters(instancesFlags.filters)
	if err != nil {
		return err
	}

	in := tools.DescribeInstancesInput{
		Region:          resolveRegion(),
		Regions:         instancesRegions(),
		InstanceIDs:     instancesFlags.instanceIDs,
		Filters:         filters,
		MaxResults:      instancesFlags.maxResults,
		CPULookBackDays: instancesFlags.cpuDays,
	}

	return runTool(cmd, tools.NameDescribeInstances, func(ctx context.Context, d *tools.Deps) (toolOutput, error) {
		res, err := d.DescribeInstances(ctx, in)
		if err != nil {
			return toolOutput{}, err
		}
		regions := lo.Uniq(lo.Map(res.Datapoints, func(i tools.InstanceInfo, _ int) string { return i.Region }))
		return toolOutput{Result: res, Summary: res.Summary, Regions: regions}, nil
	})
}

// instancesRegions resolves the region selection from flags, then the config file.
func instancesRegions() []string {
	switch {
	case instancesFlags.allRegions:
		return []string{"all"}
	case len(instancesFlags.regions) > 0:
		return instancesFlags.regions
	default:
		return cfg.Regions
	}
}

// parseInstanceFilters parses name=value1,value2 filters.
func parseInstanceFilters(raw []string) ([]aws.InstanceFilter, error) {
	filters := make([]aws.InstanceFilter, 0, len(raw))
	for _, r := range raw {
		name, values, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --filter %q: expected name=value1,value2", r)
		}
		vals := lo.Compact(lo.Map(strings.Split(values, ","), func(v string, _ int) string { return strings.TrimSpace(v) }))
		if len(vals) == 0 {
			return nil, fmt.Errorf("invalid --filter %q: no values", r)
		}
		filters = append(filters, aws.InstanceFilter{Name: name, Values: vals})
	}
	return filters, nil
}
