package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/chart"
	"github.com/ppiankov/awscostlens/internal/costs"
)

// MetricsInput are the arguments of awsCloudWatchGetMetrics.
type MetricsInput struct {
	Namespace  string                    `json:"namespace"`
	MetricName string                    `json:"metricName"`
	Dimensions []awstype.MetricDimension `json:"dimensions,omitempty"`
	StartTime  string                    `json:"startTime"`
	EndTime    string                    `json:"endTime"`
	// Period is the aggregation period in seconds.
	Period     int32  `json:"period"`
	Statistic  string `json:"statistic"`
	Unit       string `json:"unit,omitempty"`
	Region     string `json:"region,omitempty"`
	ChartTitle string `json:"chartTitle,omitempty"`
}

// CloudWatchGetMetrics retrieves one metric series and summarizes it.
func (d *Deps) CloudWatchGetMetrics(ctx context.Context, in MetricsInput) (*Result[awstype.MetricPoint], error) {
	if in.Namespace == "" {
		return nil, argError("namespace", "is required")
	}
	if in.MetricName == "" {
		return nil, argError("metricName", "is required")
	}
	if !lo.Contains(awstype.Statistics, in.Statistic) {
		return nil, argError("statistic", "must be one of %s", strings.Join(awstype.Statistics, ", "))
	}
	if in.Period <= 0 {
		return nil, argError("period", "must be a positive number of seconds")
	}
	for i, dim := range in.Dimensions {
		if dim.Name == "" || dim.Value == "" {
			return nil, argError(fmt.Sprintf("dimensions[%d]", i), "name and value are required")
		}
	}
	start, err := parseTime(in.StartTime)
	if err != nil {
		return nil, argError("startTime", "%v", err)
	}
	end, err := parseTime(in.EndTime)
	if err != nil {
		return nil, argError("endTime", "%v", err)
	}
	if !end.After(start) {
		return nil, argError("endTime", "must be after startTime")
	}

	region := d.region(in.Region)
	series, err := d.Metrics(region).FetchSeries(ctx, awstype.MetricQuery{
		Namespace:  in.Namespace,
		MetricName: in.MetricName,
		Dimensions: in.Dimensions,
		Start:      start,
		End:        end,
		Period:     in.Period,
		Statistic:  in.Statistic,
		Unit:       in.Unit,
	})
	if err != nil {
		return nil, fmt.Errorf("get CloudWatch metrics: %w", err)
	}
	slog.Debug("Fetched metric series", "region", region, "points", len(series.Points))

	points := series.Points
	if points == nil {
		points = []awstype.MetricPoint{}
	}
	label := series.Label
	if label == "" {
		label = in.MetricName
	}

	spec := chart.Spec{}
	if len(points) > 0 {
		title := in.ChartTitle
		if title == "" {
			title = fmt.Sprintf("%s %s (%s)", in.Namespace, in.MetricName, in.Statistic)
		}
		spec = chart.NewLine(title, in.MetricName, lo.Map(points, func(p awstype.MetricPoint, _ int) chart.Point {
			ts := p.Timestamp.UTC().Format(time.RFC3339)
			return chart.Point{Date: ts, Label: ts, Series: label, Value: p.Value}
		}))
	}

	return &Result[awstype.MetricPoint]{
		Summary:    summarizeSeries(in, label, start, end, points),
		Datapoints: points,
		Chart:      &spec,
	}, nil
}

func summarizeSeries(in MetricsInput, label string, start, end time.Time, points []awstype.MetricPoint) string {
	window := fmt.Sprintf("%s to %s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if len(points) == 0 {
		return fmt.Sprintf("No datapoints found for %s/%s (%s) from %s.", in.Namespace, in.MetricName, in.Statistic, window)
	}

	values := lo.Map(points, func(p awstype.MetricPoint, _ int) float64 { return p.Value })
	maxPoint := lo.MaxBy(points, func(a, b awstype.MetricPoint) bool { return a.Value > b.Value })
	minPoint := lo.MinBy(points, func(a, b awstype.MetricPoint) bool { return a.Value < b.Value })
	avg := lo.Sum(values) / float64(len(values))

	unit := ""
	if in.Unit != "" {
		unit = " " + in.Unit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s/%s, %s) from %s: %d datapoints", label, in.Namespace, in.MetricName, in.Statistic, window, len(points))
	fmt.Fprintf(&b, ", average %s%s", number(avg), unit)
	fmt.Fprintf(&b, ", max %s%s at %s", number(maxPoint.Value), unit, maxPoint.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ", min %s%s at %s", number(minPoint.Value), unit, minPoint.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ", standard deviation %s", number(costs.StandardDeviation(values)))

	trend := costs.TrendOf(values)
	if trend.Direction == costs.TrendStable {
		b.WriteString(", stable.")
	} else {
		fmt.Fprintf(&b, ", trending %s at %.1f%% per period.", trend.Direction, trend.PercentagePerPeriod)
	}
	return b.String()
}

func number(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// parseTime accepts RFC 3339 timestamps and plain dates (midnight UTC).
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(costs.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("must be an ISO 8601 time such as 2024-01-01T00:00:00Z")
}
