package aws

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// GlobalRegion hosts the account-wide billing endpoints (Cost Explorer, Cost Optimization Hub).
const GlobalRegion = "us-east-1"

// Client wraps the AWS SDK configuration for creating service clients.
type Client struct {
	cfg aws.Config
}

// NewClient creates a new AWS client using the specified profile and region.
// If profile is empty, the default credential chain is used.
// If region is empty, the default region from config/env is used.
func NewClient(ctx context.Context, profile, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = GlobalRegion
	}

	return &Client{cfg: cfg}, nil
}

// Config returns the underlying AWS config.
func (c *Client) Config() aws.Config {
	return c.cfg
}

// Region returns the default region.
func (c *Client) Region() string {
	return c.cfg.Region
}

// ConfigForRegion returns a copy of the AWS config with the region overridden.
// An empty region keeps the default.
func (c *Client) ConfigForRegion(region string) aws.Config {
	cfg := c.cfg.Copy()
	if region != "" {
		cfg.Region = region
	}
	return cfg
}

// CostExplorer returns a Cost Explorer client bound to the global billing region.
func (c *Client) CostExplorer() *costexplorer.Client {
	return costexplorer.NewFromConfig(c.ConfigForRegion(GlobalRegion))
}

// CostOptimizationHub returns a Cost Optimization Hub client. An empty region uses GlobalRegion.
func (c *Client) CostOptimizationHub(region string) *costoptimizationhub.Client {
	if region == "" {
		region = GlobalRegion
	}
	return costoptimizationhub.NewFromConfig(c.ConfigForRegion(region))
}

// EC2 returns an EC2 client for region.
func (c *Client) EC2(region string) *ec2.Client {
	return ec2.NewFromConfig(c.ConfigForRegion(region))
}

// CloudWatch returns a CloudWatch client for region.
func (c *Client) CloudWatch(region string) *cloudwatch.Client {
	return cloudwatch.NewFromConfig(c.ConfigForRegion(region))
}

// ListEnabledRegions returns all enabled regions for the account.
func (c *Client) ListEnabledRegions(ctx context.Context) ([]string, error) {
	svc := ec2.NewFromConfig(c.cfg)
	out, err := svc.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != nil {
			regions = append(regions, *r.RegionName)
		}
	}

	slog.Debug("Discovered enabled regions", "count", len(regions))
	return regions, nil
}
