package aws

import (
	"context"
	"fmt"
	"log/slog"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	cohtypes "github.com/aws/aws-sdk-go-v2/service/costoptimizationhub/types"
	"github.com/samber/lo"
)

const (
	// recommendationPageSize is the page size requested from ListRecommendations.
	recommendationPageSize = 100
	// maxRecommendationPages bounds NextToken pagination.
	maxRecommendationPages = 200
)

// CostOptimizationHubAPI is the minimal interface for Cost Optimization Hub operations.
type CostOptimizationHubAPI interface {
	ListRecommendations(ctx context.Context, input *costoptimizationhub.ListRecommendationsInput, opts ...func(*costoptimizationhub.Options)) (*costoptimizationhub.ListRecommendationsOutput, error)
}

// RecommendationLister retrieves every Cost Optimization Hub recommendation visible to the account.
type RecommendationLister struct {
	client CostOptimizationHubAPI
}

// NewRecommendationLister creates a lister using the given Cost Optimization Hub client.
func NewRecommendationLister(client CostOptimizationHubAPI) *RecommendationLister {
	return &RecommendationLister{client: client}
}

// List fetches all recommendations, following NextToken until exhausted.
func (l *RecommendationLister) List(ctx context.Context) ([]Recommendation, error) {
	input := &costoptimizationhub.ListRecommendationsInput{
		MaxResults: awssdk.Int32(recommendationPageSize),
	}

	var out []Recommendation
	for page := 1; ; page++ {
		resp, err := l.client.ListRecommendations(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list recommendations: %w", err)
		}
		out = append(out, lo.Map(resp.Items, func(item cohtypes.Recommendation, _ int) Recommendation {
			return toRecommendation(item)
		})...)

		slog.Debug("Fetched recommendation page", "page", page, "items", len(resp.Items))
		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		if page >= maxRecommendationPages {
			slog.Warn("Recommendation listing truncated", "pages", page)
			break
		}
		input.NextToken = resp.NextToken
	}
	return out, nil
}

func toRecommendation(item cohtypes.Recommendation) Recommendation {
	return Recommendation{
		ID:                         deref(item.RecommendationId),
		AccountID:                  deref(item.AccountId),
		Region:                     deref(item.Region),
		ResourceID:                 deref(item.ResourceId),
		ResourceARN:                deref(item.ResourceArn),
		CurrentResourceType:        deref(item.CurrentResourceType),
		RecommendedResourceType:    deref(item.RecommendedResourceType),
		CurrentResourceSummary:     deref(item.CurrentResourceSummary),
		RecommendedResourceSummary: deref(item.RecommendedResourceSummary),
		ActionType:                 deref(item.ActionType),
		Source:                     string(item.Source),
		ImplementationEffort:       deref(item.ImplementationEffort),
		RestartNeeded:              awssdk.ToBool(item.RestartNeeded),
		RollbackPossible:           awssdk.ToBool(item.RollbackPossible),
		EstimatedMonthlySavings:    awssdk.ToFloat64(item.EstimatedMonthlySavings),
		EstimatedMonthlyCost:       awssdk.ToFloat64(item.EstimatedMonthlyCost),
		EstimatedSavingsPercentage: awssdk.ToFloat64(item.EstimatedSavingsPercentage),
		CurrencyCode:               deref(item.CurrencyCode),
	}
}
