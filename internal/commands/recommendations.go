package commands

import (
	"context"

	"github.com/ppiankov/awscostlens/internal/tools"
	"github.com/spf13/cobra"
)

var recommendationsFlags struct {
	hubRegion  string
	maxResults int
}

var recommendationsCmd = &cobra.Command{
	Use:   "recommendations",
	Short: "List Cost Optimization Hub recommendations by savings",
	Long: `List Cost Optimization Hub recommendations ordered by estimated monthly
savings, with totals across every recommendation.`,
	RunE: runRecommendations,
}

func init() {
	recommendationsCmd.Flags().StringVar(&recommendationsFlags.hubRegion, "hub-region", "", "Cost Optimization Hub region (default: us-east-1)")
	recommendationsCmd.Flags().IntVar(&recommendationsFlags.maxResults, "max-results", 0, "Recommendations to return (default: 50)")
}

func runRecommendations(cmd *cobra.Command, _ []string) error {
	in := tools.RecommendationsInput{
		Region:     recommendationsFlags.hubRegion,
		MaxResults: recommendationsFlags.maxResults,
	}

	return runTool(cmd, tools.NameListRecommendations, func(ctx context.Context, d *tools.Deps) (toolOutput, error) {
		res, err := d.ListRecommendations(ctx, in)
		if err != nil {
			return toolOutput{}, err
		}
		return toolOutput{Result: res, Summary: res.Summary}, nil
	})
}
