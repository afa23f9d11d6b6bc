package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/costs"
)

// Analyze ranks recommendations by estimated monthly savings and computes summary
// statistics. Totals cover every recommendation; only the top MaxRecommendations
// are returned. Equal savings keep their input order.
func Analyze(recs []awstype.Recommendation, cfg AnalyzerConfig) *AnalysisResult {
	limit := cfg.MaxRecommendations
	if limit <= 0 {
		limit = DefaultMaxRecommendations
	}

	sorted := make([]awstype.Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EstimatedMonthlySavings > sorted[j].EstimatedMonthlySavings
	})
	top := sorted[:min(limit, len(sorted))]

	summary := Summary{
		TotalRecommendations:       len(sorted),
		TopRecommendationsReturned: len(top),
	}
	if len(sorted) == 0 {
		return &AnalysisResult{Recommendations: []awstype.Recommendation{}, Summary: summary}
	}

	savings := lo.Map(sorted, func(r awstype.Recommendation, _ int) float64 {
		return r.EstimatedMonthlySavings
	})
	summary.TotalEstimatedMonthlySavings = lo.Sum(savings)
	summary.AverageSavingsPerRecommendation = summary.TotalEstimatedMonthlySavings / float64(len(savings))
	summary.HighestSavings = lo.Max(savings)
	summary.LowestSavings = lo.Min(savings)
	if cur, ok := lo.Find(sorted, func(r awstype.Recommendation) bool { return r.CurrencyCode != "" }); ok {
		summary.CurrencyCode = cur.CurrencyCode
	}

	return &AnalysisResult{Recommendations: top, Summary: summary}
}

// Text renders the summary as a short human-readable report.
func (s Summary) Text() string {
	if s.TotalRecommendations == 0 {
		return "No cost optimization recommendations found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d recommendations with total estimated monthly savings of %s.\n",
		s.TotalRecommendations, costs.USDFloat(s.TotalEstimatedMonthlySavings))
	fmt.Fprintf(&b, "Returning top %d by estimated monthly savings.\n", s.TopRecommendationsReturned)
	fmt.Fprintf(&b, "Average savings per recommendation: %s; highest %s; lowest %s.",
		costs.USDFloat(s.AverageSavingsPerRecommendation),
		costs.USDFloat(s.HighestSavings),
		costs.USDFloat(s.LowestSavings))
	return b.String()
}
