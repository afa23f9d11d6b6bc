package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/awscostlens/internal/analyzer"
	awstype "github.com/ppiankov/awscostlens/internal/aws"
)

// RecommendationsInput are the arguments of awsCostOptimizationHubListRecommendations.
type RecommendationsInput struct {
	Region     string `json:"region,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// RecommendationsResult adds the savings statistics to the tool envelope.
type RecommendationsResult struct {
	Result[awstype.Recommendation]
	Statistics analyzer.Summary `json:"statistics"`
}

// ListRecommendations returns the recommendations with the highest estimated monthly savings.
// Cost Optimization Hub is served from us-east-1 unless a region is given.
func (d *Deps) ListRecommendations(ctx context.Context, in RecommendationsInput) (*RecommendationsResult, error) {
	if in.MaxResults < 0 {
		return nil, argError("maxResults", "must not be negative")
	}
	limit := in.MaxResults
	if limit == 0 {
		limit = d.Thresholds.MaxRecommendations
	}

	region := in.Region
	if region == "" {
		region = awstype.GlobalRegion
	}
	recs, err := d.Recommendations(region).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	slog.Debug("Fetched recommendations", "region", region, "count", len(recs))

	analysis := analyzer.Analyze(recs, analyzer.AnalyzerConfig{MaxRecommendations: limit})
	return &RecommendationsResult{
		Result: Result[awstype.Recommendation]{
			Summary:    analysis.Summary.Text(),
			Datapoints: analysis.Recommendations,
		},
		Statistics: analysis.Summary,
	}, nil
}
