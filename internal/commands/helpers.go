package commands

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/chart"
	"github.com/ppiankov/awscostlens/internal/pricing"
	"github.com/ppiankov/awscostlens/internal/report"
	"github.com/ppiankov/awscostlens/internal/tools"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	toolName       = "awscostlens"
	defaultTimeout = 5 * time.Minute
)

// enhanceError wraps an error with context and suggestions for common AWS issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case strings.Contains(msg, "NoCredentialProviders"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedAccess"):
		hint = "Insufficient permissions. Apply the IAM policy from 'awscostlens init' to your role/user"
	case strings.Contains(msg, "OptInRequired"):
		hint = "Enable Cost Explorer or Cost Optimization Hub for this account"
	case strings.Contains(msg, "DataUnavailable"):
		hint = "Cost data is not available for the requested period"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "Throttling"):
		hint = "AWS API rate limit hit. Retry with fewer regions or increase timeout"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// computeTargetHash generates a SHA256 hash for the target URI.
func computeTargetHash(profile string, regions []string) string {
	input := fmt.Sprintf("profile:%s,regions:%s", profile, strings.Join(regions, ","))
	h := sha256.Sum256([]byte(input))
	return fmt.Sprintf("sha256:%x", h)
}

func resolveProfile() string {
	if globalFlags.profile != "" {
		return globalFlags.profile
	}
	return cfg.Profile
}

func resolveRegion() string {
	if globalFlags.region != "" {
		return globalFlags.region
	}
	return cfg.Region
}

func resolveFormat() string {
	if globalFlags.format != "" {
		return globalFlags.format
	}
	if cfg.Format != "" {
		return cfg.Format
	}
	return "text"
}

func resolveTimeout() time.Duration {
	if globalFlags.timeout > 0 {
		return globalFlags.timeout
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		return d
	}
	return defaultTimeout
}

// newCatalog builds the price catalog from the pricing config section.
func newCatalog() *pricing.Catalog {
	opts := []pricing.Option{pricing.WithTTL(cfg.PricingTTL())}
	if cfg.Pricing.CacheDir != "" {
		opts = append(opts, pricing.WithStorage(pricing.NewDirStorage(cfg.Pricing.CacheDir)))
	}
	if cfg.Pricing.File != "" {
		opts = append(opts, pricing.WithSource(pricing.FileSource(cfg.Pricing.File)))
	}
	return pricing.NewCatalog(opts...)
}

// newDeps connects the tools to AWS. Replaced in tests.
var newDeps = func(ctx context.Context, profile, region string) (*tools.Deps, error) {
	client, err := aws.NewClient(ctx, profile, region)
	if err != nil {
		return nil, err
	}
	return tools.NewDeps(client, newCatalog(), cfg.Thresholds()), nil
}

// toolOutput is what a command hands to the reporter.
type toolOutput struct {
	Result  any
	Summary string
	Chart   *chart.Spec
	// Regions scoped by the call, for the target hash. Empty uses the default region.
	Regions []string
}

type toolCall func(ctx context.Context, d *tools.Deps) (toolOutput, error)

// runTool resolves the AWS connection, runs one tool and writes its report.
func runTool(cmd *cobra.Command, name string, call toolCall) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), resolveTimeout())
	defer cancel()

	prof := resolveProfile()
	deps, err := newDeps(ctx, prof, resolveRegion())
	if err != nil {
		return enhanceError("initialize AWS client", err)
	}

	out, err := call(ctx, deps)
	if err != nil {
		return enhanceError("run "+name, err)
	}

	regions := out.Regions
	if len(regions) == 0 {
		regions = []string{deps.Region}
	}
	data := report.Data{
		Tool:      toolName,
		Version:   version,
		Timestamp: time.Now().UTC(),
		Command:   name,
		Target: report.Target{
			Type:    "aws-account",
			URIHash: computeTargetHash(prof, regions),
		},
		Summary: out.Summary,
		Result:  out.Result,
		Chart:   out.Chart,
	}

	reporter, closeOutput, err := selectReporter(resolveFormat(), globalFlags.outputFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput()
	return reporter.Generate(data)
}

var formats = []string{"text", "json", "chart"}

// selectReporter picks a reporter for format, writing to outputFile or, when empty, to stdout.
func selectReporter(format, outputFile string, stdout io.Writer) (report.Reporter, func() error, error) {
	if !lo.Contains(formats, format) {
		return nil, nil, fmt.Errorf("unsupported format: %s (use %s)", format, strings.Join(formats, ", "))
	}

	w := stdout
	closeOutput := func() error { return nil }
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		w = f
		closeOutput = f.Close
	}

	switch format {
	case "json":
		return &report.JSONReporter{Writer: w}, closeOutput, nil
	case "chart":
		return &report.ChartReporter{Writer: w}, closeOutput, nil
	default:
		return &report.TextReporter{Writer: w}, closeOutput, nil
	}
}
