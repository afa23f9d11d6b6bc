package analyzer

import (
	awstype "github.com/ppiankov/awscostlens/internal/aws"
)

// DefaultMaxRecommendations is the number of recommendations returned when no limit is given.
const DefaultMaxRecommendations = 50

// Summary holds aggregated statistics about savings recommendations.
type Summary struct {
	TotalRecommendations            int     `json:"totalRecommendations"`
	TopRecommendationsReturned      int     `json:"topRecommendationsReturned"`
	TotalEstimatedMonthlySavings    float64 `json:"totalEstimatedMonthlySavings"`
	AverageSavingsPerRecommendation float64 `json:"averageSavingsPerRecommendation"`
	HighestSavings                  float64 `json:"highestSavings"`
	LowestSavings                   float64 `json:"lowestSavings"`
	CurrencyCode                    string  `json:"currencyCode,omitempty"`
}

// AnalysisResult holds the top recommendations and the summary computed over all of them.
type AnalysisResult struct {
	Recommendations []awstype.Recommendation `json:"recommendations"`
	Summary         Summary                  `json:"summary"`
}

// AnalyzerConfig controls analysis behavior.
type AnalyzerConfig struct {
	MaxRecommendations int
}
