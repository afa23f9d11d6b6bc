package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/tools"
	"github.com/spf13/cobra"
)

var metricsFlags struct {
	namespace  string
	metricName string
	dimensions []string
	start      string
	end        string
	since      time.Duration
	period     int32
	statistic  string
	unit       string
	chartTitle string
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Summarize a CloudWatch metric series",
	Long: `Retrieve one CloudWatch metric series and report its average, extremes,
standard deviation and trend. Without --start the window covers --since up to now.`,
	Example: `  awscostlens metrics --namespace AWS/EC2 --metric CPUUtilization --dimension InstanceId=i-0abc123
  awscostlens metrics --namespace AWS/Lambda --metric Invocations --statistic Sum --period 86400 --since 720h`,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsFlags.namespace, "namespace", "", "Metric namespace, e.g. AWS/EC2")
	metricsCmd.Flags().StringVar(&metricsFlags.metricName, "metric", "", "Metric name, e.g. CPUUtilization")
	metricsCmd.Flags().StringArrayVar(&metricsFlags.dimensions, "dimension", nil, "Metric dimension as Name=Value (repeatable)")
	metricsCmd.Flags().StringVar(&metricsFlags.start, "start", "", "Start time (RFC 3339 or YYYY-MM-DD)")
	metricsCmd.Flags().StringVar(&metricsFlags.end, "end", "", "End time (RFC 3339 or YYYY-MM-DD, default: now)")
	metricsCmd.Flags().DurationVar(&metricsFlags.since, "since", 24*time.Hour, "Window length when --start is not set")
	metricsCmd.Flags().Int32Var(&metricsFlags.period, "period", 300, "Aggregation period in seconds")
	metricsCmd.Flags().StringVar(&metricsFlags.statistic, "statistic", "Average", "Sum, Average, Maximum, Minimum or SampleCount")
	metricsCmd.Flags().StringVar(&metricsFlags.unit, "unit", "", "Metric unit")
	metricsCmd.Flags().StringVar(&metricsFlags.chartTitle, "chart-title", "", "Chart title")
	_ = metricsCmd.MarkFlagRequired("namespace")
	_ = metricsCmd.MarkFlagRequired("metric")
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	dims, err := parseDimensions(metricsFlags.dimensions)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	in := tools.MetricsInput{
		Namespace:  metricsFlags.namespace,
		MetricName: metricsFlags.metricName,
		Dimensions: dims,
		StartTime:  metricsFlags.start,
		EndTime:    metricsFlags.end,
		Period:     metricsFlags.period,
		Statistic:  metricsFlags.statistic,
		Unit:       metricsFlags.unit,
		Region:     resolveRegion(),
		ChartTitle: metricsFlags.chartTitle,
	}
	if in.EndTime == "" {
		in.EndTime = now.Format(time.RFC3339)
	}
	if in.StartTime == "" {
		in.StartTime = now.Add(-metricsFlags.since).Format(time.RFC3339)
	}

	return runTool(cmd, tools.NameCloudWatchGetMetrics, func(ctx context.Context, d *tools.Deps) (toolOutput, error) {
		res, err := d.CloudWatchGetMetrics(ctx, in)
		if err != nil {
			return toolOutput{}, err
		}
		return toolOutput{Result: res, Summary: res.Summary, Chart: res.Chart}, nil
	})
}

// parseDimensions parses Name=Value pairs.
func parseDimensions(raw []string) ([]aws.MetricDimension, error) {
	dims := make([]aws.MetricDimension, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --dimension %q: expected Name=Value", r)
		}
		dims = append(dims, aws.MetricDimension{Name: name, Value: strings.TrimSpace(value)})
	}
	return dims, nil
}
