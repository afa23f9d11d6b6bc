package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/samber/lo"
)

const (
	// noInstanceName is reported for instances without a Name tag.
	noInstanceName = "N/A"
	// DescribeInstances page size bounds when no instance IDs are given.
	minDescribePageSize = 5
	maxDescribePageSize = 1000
)

// EC2API is the minimal interface for EC2 instance operations.
type EC2API interface {
	DescribeInstances(ctx context.Context, input *ec2.DescribeInstancesInput, opts ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// InstanceLister describes EC2 instances in one region.
type InstanceLister struct {
	client  EC2API
	metrics *MetricsFetcher
	region  string
}

// NewInstanceLister creates a lister for EC2 instances. metrics may be nil when CPU
// lookups are not needed.
func NewInstanceLister(client EC2API, metrics *MetricsFetcher, region string) *InstanceLister {
	return &InstanceLister{client: client, metrics: metrics, region: region}
}

// Region returns the region the lister describes.
func (l *InstanceLister) Region() string {
	return l.region
}

// List describes the instances matching q. When q.CPULookBackDays is set, running
// instances are annotated with their average CPU utilization; a metrics failure is
// logged and leaves the annotation empty.
func (l *InstanceLister) List(ctx context.Context, q InstanceQuery) ([]Instance, error) {
	raw, err := l.describe(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list EC2 instances: %w", err)
	}

	instances := lo.Map(raw, func(inst ec2types.Instance, _ int) Instance {
		return l.toInstance(inst)
	})
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].ID < instances[j].ID
	})

	if q.CPULookBackDays > 0 && l.metrics != nil {
		l.annotateCPU(ctx, instances, q.CPULookBackDays)
	}
	return instances, nil
}

func (l *InstanceLister) describe(ctx context.Context, q InstanceQuery) ([]ec2types.Instance, error) {
	input := &ec2.DescribeInstancesInput{
		InstanceIds: q.InstanceIDs,
		Filters: lo.Map(q.Filters, func(f InstanceFilter, _ int) ec2types.Filter {
			return ec2types.Filter{Name: awssdk.String(f.Name), Values: f.Values}
		}),
	}
	// MaxResults cannot be combined with InstanceIds.
	if len(q.InstanceIDs) == 0 && q.MaxResults > 0 {
		input.MaxResults = awssdk.Int32(int32(min(max(q.MaxResults, minDescribePageSize), maxDescribePageSize)))
	}

	var instances []ec2types.Instance
	paginator := ec2.NewDescribeInstancesPaginator(l.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, res := range page.Reservations {
			instances = append(instances, res.Instances...)
		}
		if q.MaxResults > 0 && len(instances) >= q.MaxResults {
			instances = instances[:q.MaxResults]
			break
		}
	}
	return instances, nil
}

func (l *InstanceLister) annotateCPU(ctx context.Context, instances []Instance, lookbackDays int) {
	running := lo.FilterMap(instances, func(inst Instance, _ int) (string, bool) {
		return inst.ID, inst.State == string(ec2types.InstanceStateNameRunning)
	})
	if len(running) == 0 {
		return
	}

	cpu, err := l.metrics.FetchAverage(ctx, "AWS/EC2", "CPUUtilization", "InstanceId", running, lookbackDays)
	if err != nil {
		slog.Warn("Failed to fetch EC2 CPU metrics", "region", l.region, "error", err)
		return
	}
	for i := range instances {
		if v, ok := cpu[instances[i].ID]; ok {
			instances[i].AvgCPUPercent = awssdk.Float64(v)
		}
	}
}

func (l *InstanceLister) toInstance(inst ec2types.Instance) Instance {
	out := Instance{
		ID:       deref(inst.InstanceId),
		Name:     instanceName(inst),
		Type:     string(inst.InstanceType),
		Platform: deref(inst.PlatformDetails),
		Region:   l.region,
	}
	if inst.State != nil {
		out.State = string(inst.State.Name)
	}
	if inst.Placement != nil {
		out.Tenancy = string(inst.Placement.Tenancy)
		out.AvailabilityZone = deref(inst.Placement.AvailabilityZone)
		if r := regionFromZone(out.AvailabilityZone); r != "" {
			out.Region = r
		}
	}
	if inst.LaunchTime != nil {
		out.LaunchTime = inst.LaunchTime.UTC()
	}
	return out
}

func instanceName(inst ec2types.Instance) string {
	for _, tag := range inst.Tags {
		if deref(tag.Key) == "Name" && deref(tag.Value) != "" {
			return deref(tag.Value)
		}
	}
	return noInstanceName
}

// regionFromZone strips the zone letter from a standard availability zone name.
func regionFromZone(zone string) string {
	if len(zone) < 2 {
		return ""
	}
	last := zone[len(zone)-1]
	if last < 'a' || last > 'z' {
		return ""
	}
	region := zone[:len(zone)-1]
	if strings.HasSuffix(region, "-") {
		return ""
	}
	return region
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
