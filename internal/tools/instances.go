package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/costs"
)

const (
	// allRegions selects every region enabled for the account.
	allRegions = "all"
	// maxCPULookBackDays is the CloudWatch retention of hourly datapoints.
	maxCPULookBackDays = 455
	hoursPerMonth      = 730
	stateRunning       = "running"
)

// DescribeInstancesInput are the arguments of awsDescribeInstances.
type DescribeInstancesInput struct {
	Region string `json:"region,omitempty"`
	// Regions overrides Region. The single entry "all" selects every enabled region.
	Regions         []string                 `json:"regions,omitempty"`
	InstanceIDs     []string                 `json:"instanceIds,omitempty"`
	Filters         []awstype.InstanceFilter `json:"filters,omitempty"`
	MaxResults      int                      `json:"maxResults,omitempty"`
	CPULookBackDays int                      `json:"cpuLookBackDays,omitempty"`
}

// InstanceInfo is an instance with its uptime and on-demand price.
type InstanceInfo struct {
	awstype.Instance
	UptimeHours         int64    `json:"uptimeHours"`
	HourlyOnDemandCost  *float64 `json:"hourlyOnDemandCost,omitempty"`
	MonthlyOnDemandCost *float64 `json:"monthlyOnDemandCost,omitempty"`
}

// DescribeInstances lists EC2 instances with uptime and on-demand pricing.
func (d *Deps) DescribeInstances(ctx context.Context, in DescribeInstancesInput) (*Result[InstanceInfo], error) {
	if in.MaxResults < 0 {
		return nil, argError("maxResults", "must not be negative")
	}
	if in.CPULookBackDays < 0 || in.CPULookBackDays > maxCPULookBackDays {
		return nil, argError("cpuLookBackDays", "must be between 0 and %d", maxCPULookBackDays)
	}
	for i, f := range in.Filters {
		if f.Name == "" || len(f.Values) == 0 {
			return nil, argError(fmt.Sprintf("filters[%d]", i), "name and values are required")
		}
	}

	regions, err := d.resolveRegions(ctx, in)
	if err != nil {
		return nil, err
	}

	listing, err := d.Instances(regions).ListAll(ctx, awstype.InstanceQuery{
		InstanceIDs:     in.InstanceIDs,
		Filters:         in.Filters,
		MaxResults:      in.MaxResults,
		CPULookBackDays: in.CPULookBackDays,
	})
	if err != nil {
		return nil, fmt.Errorf("describe instances: %w", err)
	}

	now := d.now()
	infos := make([]InstanceInfo, 0, len(listing.Instances))
	for _, inst := range listing.Instances {
		info := InstanceInfo{Instance: inst, UptimeHours: uptimeHours(inst.LaunchTime, now)}
		d.price(ctx, &info)
		infos = append(infos, info)
	}

	return &Result[InstanceInfo]{
		Summary:    summarizeInstances(infos, regions, listing.Errors),
		Datapoints: infos,
	}, nil
}

func (d *Deps) resolveRegions(ctx context.Context, in DescribeInstancesInput) ([]string, error) {
	if len(in.Regions) == 0 {
		return []string{d.region(in.Region)}, nil
	}
	if len(in.Regions) == 1 && strings.EqualFold(in.Regions[0], allRegions) {
		if d.EnabledRegions == nil {
			return nil, argError("regions", "region discovery is not available")
		}
		regions, err := d.EnabledRegions(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover regions: %w", err)
		}
		return regions, nil
	}
	if lo.Contains(in.Regions, "") {
		return nil, argError("regions", "must not contain empty names")
	}
	return lo.Uniq(in.Regions), nil
}

// price annotates info with on-demand prices. Lookup failures leave the prices empty.
func (d *Deps) price(ctx context.Context, info *InstanceInfo) {
	if d.Prices == nil || info.Type == "" {
		return
	}
	hourly, ok, err := d.Prices.HourlyEC2(ctx, info.Type, info.Region)
	if err != nil {
		slog.Warn("Pricing lookup failed", "instance_type", info.Type, "region", info.Region, "error", err)
		return
	}
	if !ok {
		slog.Debug("No on-demand price", "instance_type", info.Type, "region", info.Region)
		return
	}
	monthly := hourly * hoursPerMonth
	info.HourlyOnDemandCost = &hourly
	info.MonthlyOnDemandCost = &monthly
}

// uptimeHours returns the whole hours between launch and now, or 0 for unknown or future launch times.
func uptimeHours(launch, now time.Time) int64 {
	if launch.IsZero() || now.Before(launch) {
		return 0
	}
	return int64(now.Sub(launch) / time.Hour)
}

func summarizeInstances(infos []InstanceInfo, regions, errs []string) string {
	var b strings.Builder
	if len(infos) == 0 {
		fmt.Fprintf(&b, "No EC2 instances found in %s.", strings.Join(regions, ", "))
	} else {
		fmt.Fprintf(&b, "Found %d EC2 instances in %d %s (%s).",
			len(infos), len(regions), plural(len(regions), "region", "regions"), strings.Join(regions, ", "))

		states := lo.CountValuesBy(infos, func(i InstanceInfo) string { return i.State })
		fmt.Fprintf(&b, "\nBy state: %s.", formatCounts(states))
		types := lo.CountValuesBy(infos, func(i InstanceInfo) string { return i.Type })
		fmt.Fprintf(&b, "\nBy type: %s.", formatCounts(types))

		running := lo.Filter(infos, func(i InstanceInfo, _ int) bool {
			return i.State == stateRunning && i.MonthlyOnDemandCost != nil
		})
		monthly := lo.SumBy(running, func(i InstanceInfo) float64 { return *i.MonthlyOnDemandCost })
		fmt.Fprintf(&b, "\nEstimated on-demand cost of %d priced running instances: %s/month.",
			len(running), costs.USDFloat(monthly))
	}
	for _, e := range errs {
		fmt.Fprintf(&b, "\nError: %s", e)
	}
	return b.String()
}

// formatCounts renders counts highest first, ties by name.
func formatCounts(counts map[string]int) string {
	keys := lo.Keys(counts)
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		if k == "" {
			k = "unknown"
		}
		return fmt.Sprintf("%s %d", k, counts[k])
	}), ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
