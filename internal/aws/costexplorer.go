package aws

import (
	"context"
	"fmt"
	"log/slog"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/ppiankov/awscostlens/internal/costs"
)

// maxCostPages bounds NextPageToken pagination of a single query.
const maxCostPages = 100

// CostExplorerAPI is the minimal interface for Cost Explorer operations needed by the cost fetcher.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, input *costexplorer.GetCostAndUsageInput, opts ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostFetcher runs Cost Explorer queries and normalizes the results into cost records.
type CostFetcher struct {
	client CostExplorerAPI
}

// NewCostFetcher creates a fetcher using the given Cost Explorer client.
func NewCostFetcher(client CostExplorerAPI) *CostFetcher {
	return &CostFetcher{client: client}
}

// ExcludeCreditsAndTaxes filters out record types that are not usage spend.
var ExcludeCreditsAndTaxes = CostFilter{
	Dimension: "RECORD_TYPE",
	Values:    []string{"Credit", "Tax", "Enterprise Discount Program Discount"},
	Exclude:   true,
}

// Fetch runs q, following NextPageToken until exhausted, and returns one record per
// period in chronological order. Groups of a period split across pages are merged.
// Dimension values are taken from the first requested metric.
func (f *CostFetcher) Fetch(ctx context.Context, q CostQuery) ([]costs.Record, error) {
	metrics := q.Metrics
	if len(metrics) == 0 {
		metrics = []string{MetricAmortizedCost}
	}
	primary := metrics[0]

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: awssdk.String(q.Start),
			End:   awssdk.String(q.End),
		},
		Granularity: cetypes.Granularity(q.Granularity),
		Metrics:     metrics,
		Filter:      buildExpression(q.Filters),
	}
	for _, key := range q.GroupBy {
		input.GroupBy = append(input.GroupBy, cetypes.GroupDefinition{
			Type: cetypes.GroupDefinitionTypeDimension,
			Key:  awssdk.String(key),
		})
	}

	var (
		records []costs.Record
		index   = make(map[string]int)
	)
	for page := 1; ; page++ {
		out, err := f.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("get cost and usage: %w", err)
		}

		for _, result := range out.ResultsByTime {
			rec := toRecord(result, primary, len(q.GroupBy) > 0)
			if i, ok := index[rec.Date]; ok {
				for k, v := range rec.Dimensions {
					records[i].Dimensions[k] = v
				}
				continue
			}
			index[rec.Date] = len(records)
			records = append(records, rec)
		}

		slog.Debug("Fetched cost page", "page", page, "periods", len(out.ResultsByTime), "more", out.NextPageToken != nil)
		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		if page >= maxCostPages {
			slog.Warn("Cost query truncated", "pages", page)
			break
		}
		input.NextPageToken = out.NextPageToken
	}

	return records, nil
}

func toRecord(result cetypes.ResultByTime, metric string, grouped bool) costs.Record {
	rec := costs.Record{
		Dimensions: make(map[string]string),
		Estimated:  result.Estimated,
	}
	if result.TimePeriod != nil {
		rec.Date = deref(result.TimePeriod.Start)
	}
	if v, ok := result.Total[MetricAmortizedCost]; ok {
		rec.Total = deref(v.Amount)
	}
	if v, ok := result.Total[MetricUsageQuantity]; ok {
		rec.Usage = deref(v.Amount)
	}

	if !grouped {
		if v, ok := result.Total[metric]; ok && v.Amount != nil {
			rec.Dimensions[TotalKey] = *v.Amount
		}
		return rec
	}

	for _, g := range result.Groups {
		if len(g.Keys) == 0 {
			continue
		}
		v, ok := g.Metrics[metric]
		if !ok || v.Amount == nil {
			continue
		}
		rec.Dimensions[costs.JoinKey(g.Keys...)] = *v.Amount
	}
	return rec
}

func buildExpression(filters []CostFilter) *cetypes.Expression {
	var exprs []cetypes.Expression
	for _, f := range filters {
		if f.Dimension == "" || len(f.Values) == 0 {
			continue
		}
		expr := cetypes.Expression{
			Dimensions: &cetypes.DimensionValues{
				Key:    cetypes.Dimension(f.Dimension),
				Values: f.Values,
			},
		}
		if f.Exclude {
			inner := expr
			expr = cetypes.Expression{Not: &inner}
		}
		exprs = append(exprs, expr)
	}

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return &exprs[0]
	default:
		return &cetypes.Expression{And: exprs}
	}
}
