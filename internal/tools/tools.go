// Package tools implements the cost analysis tools exposed over MCP and the CLI.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/chart"
	"github.com/ppiankov/awscostlens/internal/config"
	"github.com/ppiankov/awscostlens/internal/costs"
	"github.com/ppiankov/awscostlens/internal/pricing"
)

// Tool names.
const (
	NameDescribeInstances       = "awsDescribeInstances"
	NameGetCostAndUsage         = "awsGetCostAndUsage"
	NameCostPerServicePerRegion = "awsCostPerServicePerRegion"
	NameCloudWatchGetMetrics    = "awsCloudWatchGetMetrics"
	NameListRecommendations     = "awsCostOptimizationHubListRecommendations"
)

// Result is the envelope every tool returns.
type Result[T any] struct {
	Summary    string      `json:"summary"`
	Datapoints []T         `json:"datapoints"`
	Chart      *chart.Spec `json:"chart,omitempty"`
}

// ArgumentError reports tool input that fails validation.
type ArgumentError struct {
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Message
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
}

func argError(field, format string, args ...any) error {
	return &ArgumentError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CostFetcher runs Cost Explorer queries.
type CostFetcher interface {
	Fetch(ctx context.Context, q awstype.CostQuery) ([]costs.Record, error)
}

// SeriesFetcher retrieves one CloudWatch metric series.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, q awstype.MetricQuery) (*awstype.MetricSeries, error)
}

// InstanceLister lists EC2 instances across regions.
type InstanceLister interface {
	ListAll(ctx context.Context, q awstype.InstanceQuery) (*awstype.InstanceListing, error)
}

// RecommendationLister lists Cost Optimization Hub recommendations.
type RecommendationLister interface {
	List(ctx context.Context) ([]awstype.Recommendation, error)
}

// PriceCatalog answers on-demand EC2 price lookups.
type PriceCatalog interface {
	HourlyEC2(ctx context.Context, instanceType, region string) (float64, bool, error)
}

// Deps are the collaborators the tools run against. Region-bound collaborators are
// built per call so each invocation can target its own region.
type Deps struct {
	Costs           CostFetcher
	Metrics         func(region string) SeriesFetcher
	Instances       func(regions []string) InstanceLister
	Recommendations func(region string) RecommendationLister
	// EnabledRegions resolves the "all" region selector. May be nil.
	EnabledRegions func(ctx context.Context) ([]string, error)
	Prices         PriceCatalog
	Thresholds     config.Thresholds
	// Region is used when a tool call names none.
	Region string
	Now    func() time.Time
}

// NewDeps wires the tools to live AWS clients.
func NewDeps(c *awstype.Client, catalog *pricing.Catalog, th config.Thresholds) *Deps {
	return &Deps{
		Costs: awstype.NewCostFetcher(c.CostExplorer()),
		Metrics: func(region string) SeriesFetcher {
			return awstype.NewMetricsFetcher(c.CloudWatch(region))
		},
		Instances: func(regions []string) InstanceLister {
			lister := awstype.NewMultiRegionLister(awstype.ClientListerFactory(c), regions, 0)
			lister.SetProgressFn(func(p awstype.RegionProgress) {
				slog.Info("Instance listing", "region", p.Region, "status", p.Message)
			})
			return lister
		},
		Recommendations: func(region string) RecommendationLister {
			return awstype.NewRecommendationLister(c.CostOptimizationHub(region))
		},
		EnabledRegions: c.ListEnabledRegions,
		Prices:         catalog,
		Thresholds:     th,
		Region:         c.Region(),
		Now:            time.Now,
	}
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deps) region(r string) string {
	if r != "" {
		return r
	}
	if d.Region != "" {
		return d.Region
	}
	return awstype.GlobalRegion
}

// Handler runs a tool against raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool describes one tool for registration.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// All returns every tool bound to d.
func All(d *Deps) []Tool {
	return []Tool{
		{
			Name:        NameDescribeInstances,
			Description: "Get detailed information about EC2 instances including their configuration, state, uptime, and on-demand pricing.",
			InputSchema: describeInstancesSchema(),
			Handler:     bind(NameDescribeInstances, d.DescribeInstances),
		},
		{
			Name:        NameGetCostAndUsage,
			Description: "Retrieve AWS cost and usage data for analysis. Always use this tool when cost information is needed.",
			InputSchema: costAndUsageSchema(),
			Handler:     bind(NameGetCostAndUsage, d.GetCostAndUsage),
		},
		{
			Name:        NameCostPerServicePerRegion,
			Description: "Summarize AWS amortized cost per service and region over a lookback window, excluding credits and taxes.",
			InputSchema: costPerServicePerRegionSchema(),
			Handler:     bind(NameCostPerServicePerRegion, d.CostPerServicePerRegion),
		},
		{
			Name:        NameCloudWatchGetMetrics,
			Description: "Retrieve CloudWatch metrics for any AWS service with flexible dimensions and time periods. Essential for analyzing performance trends, usage patterns, and operational metrics.",
			InputSchema: cloudWatchMetricsSchema(),
			Handler:     bind(NameCloudWatchGetMetrics, d.CloudWatchGetMetrics),
		},
		{
			Name:        NameListRecommendations,
			Description: "List AWS Cost Optimization Hub recommendations ranked by estimated monthly savings.",
			InputSchema: listRecommendationsSchema(),
			Handler:     bind(NameListRecommendations, d.ListRecommendations),
		},
	}
}

// bind decodes raw arguments into In and runs fn.
func bind[In, Out any](name string, fn func(context.Context, In) (Out, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in In
		if len(bytes.TrimSpace(args)) > 0 && !bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, &ArgumentError{Message: err.Error()}
			}
		}
		slog.Debug("Tool input", "tool", name, "args", string(args))
		return fn(ctx, in)
	}
}
