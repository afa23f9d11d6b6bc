package commands

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/ppiankov/awscostlens/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over MCP on stdio",
	Long: `Run an MCP server on stdin/stdout exposing awsDescribeInstances,
awsGetCostAndUsage, awsCostPerServicePerRegion, awsCloudWatchGetMetrics and
awsCostOptimizationHubListRecommendations. Logs go to stderr. --timeout bounds
each tool call.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := newDeps(ctx, resolveProfile(), resolveRegion())
	if err != nil {
		return enhanceError("initialize AWS client", err)
	}

	reg, err := mcp.NewToolRegistry(deps, resolveTimeout())
	if err != nil {
		return err
	}
	server, err := mcp.NewServer(version, reg)
	if err != nil {
		return err
	}

	slog.Info("Serving MCP on stdio", "tools", len(reg.Names()), "region", deps.Region)
	return mcp.Serve(ctx, server)
}
