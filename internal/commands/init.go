package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	configFileName = ".awscostlens.yaml"
	policyFileName = "awscostlens-policy.json"
)

var initFlags struct {
	force bool
	dir   string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample .awscostlens.yaml config file and an IAM policy JSON file granting the read-only access the tools need.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&initFlags.dir, "dir", ".", "Directory to write the files to")
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	configPath := filepath.Join(initFlags.dir, configFileName)
	policyPath := filepath.Join(initFlags.dir, policyFileName)

	wrote := 0
	for _, f := range []struct{ path, content string }{
		{configPath, sampleConfig},
		{policyPath, sampleIAMPolicy},
	} {
		written, err := writeIfNotExists(out, f.path, f.content, initFlags.force)
		if err != nil {
			return err
		}
		if written {
			wrote++
		}
	}

	if wrote > 0 {
		fmt.Fprintf(out, "Created %s and %s\n", configPath, policyPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  1. Edit %s to set profile, region and thresholds\n", configFileName)
		fmt.Fprintf(out, "  2. Apply %s to your AWS IAM role/user\n", policyFileName)
		fmt.Fprintln(out, "  3. Run: awscostlens cost-by-service, or awscostlens serve for MCP clients")
	}
	return nil
}

func writeIfNotExists(out io.Writer, path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "Skipping %s (already exists, use --force to overwrite)\n", path)
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# awscostlens configuration
# See: https://github.com/ppiankov/awscostlens

# AWS profile (or set AWS_PROFILE env var)
# profile: default

# Default region for CloudWatch and EC2 (Cost Explorer always uses us-east-1)
# region: us-east-1

# Regions for the instances command (default: the default region)
# regions:
#   - us-east-1
#   - eu-west-1

# Output format: text, json or chart
format: text

# Timeout per command or MCP tool call
timeout: 5m

# Default lookback: days for DAILY, months for MONTHLY
daily_look_back: 30
monthly_look_back: 6

# Share of total cost the summary and the chart must account for
summary_threshold: 0.95
chart_threshold: 0.90

# Sub-dimensions listed per dimension in two-level summaries
max_sub_dimensions: 10

# Recommendations returned by default
max_recommendations: 50

# On-demand price sheet cache
# pricing:
#   cache_dir: /var/tmp/awscostlens
#   ttl: 24h
#   file: prices.json
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "AwsCostLensReadOnly",
      "Effect": "Allow",
      "Action": [
        "ce:GetCostAndUsage",
        "cost-optimization-hub:ListRecommendations",
        "cloudwatch:GetMetricData",
        "ec2:DescribeInstances",
        "ec2:DescribeRegions"
      ],
      "Resource": "*"
    }
  ]
}
`
