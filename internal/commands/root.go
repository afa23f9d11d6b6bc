package commands

import (
	"log/slog"
	"time"

	"github.com/ppiankov/awscostlens/internal/config"
	"github.com/ppiankov/awscostlens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string
	commit  string
	date    string
	cfg     config.Config
)

var globalFlags struct {
	profile    string
	region     string
	format     string
	outputFile string
	logLevel   string
	timeout    time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "awscostlens",
	Short: "awscostlens - AWS cost and usage analysis tools",
	Long: `awscostlens queries Cost Explorer, CloudWatch, EC2 and Cost Optimization Hub
and reshapes the results into short summaries, datapoints and Vega-Lite charts.

Run 'awscostlens serve' to expose the tools to an agent over MCP, or call
each tool directly from the command line.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose, globalFlags.logLevel)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	pf.StringVar(&globalFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&globalFlags.profile, "profile", "", "AWS profile name")
	pf.StringVar(&globalFlags.region, "region", "", "Default AWS region")
	pf.StringVar(&globalFlags.format, "format", "", "Output format: text, json, chart (default: text)")
	pf.StringVarP(&globalFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	pf.DurationVar(&globalFlags.timeout, "timeout", 0, "Timeout per command or tool call (default: 5m)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(costUsageCmd)
	rootCmd.AddCommand(costByServiceCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(instancesCmd)
	rootCmd.AddCommand(recommendationsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
