package aws

import "time"

// Cost Explorer metrics requested by the cost tools.
const (
	MetricAmortizedCost = "AmortizedCost"
	MetricUsageQuantity = "UsageQuantity"
)

// TotalKey is the dimension key of an ungrouped cost query.
const TotalKey = "Total"

// CostFilter restricts a cost query to (or excludes) a set of dimension values.
type CostFilter struct {
	Dimension string   `json:"dimension"`
	Values    []string `json:"values"`
	Exclude   bool     `json:"exclude,omitempty"`
}

// CostQuery describes a GetCostAndUsage request. End is exclusive, as Cost Explorer expects.
type CostQuery struct {
	Start       string
	End         string
	Granularity string
	GroupBy     []string
	Filters     []CostFilter
	Metrics     []string
}

// MetricDimension is a CloudWatch metric dimension.
type MetricDimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetricQuery describes a single CloudWatch metric series request.
type MetricQuery struct {
	Namespace  string
	MetricName string
	Dimensions []MetricDimension
	Start      time.Time
	End        time.Time
	Period     int32
	Statistic  string
	Unit       string
}

// MetricPoint is one CloudWatch datapoint.
type MetricPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit,omitempty"`
}

// MetricSeries is a CloudWatch series in ascending time order.
type MetricSeries struct {
	Label  string        `json:"label"`
	Points []MetricPoint `json:"points"`
}

// InstanceFilter is an EC2 DescribeInstances filter.
type InstanceFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// InstanceQuery selects EC2 instances to describe.
type InstanceQuery struct {
	InstanceIDs []string
	Filters     []InstanceFilter
	// MaxResults caps the number of instances returned per region. Zero means no cap.
	MaxResults int
	// CPULookBackDays enables average CPU lookup over the given number of days.
	CPULookBackDays int
}

// Instance is the flattened view of an EC2 instance.
type Instance struct {
	ID               string    `json:"instanceId"`
	Name             string    `json:"instanceName"`
	Type             string    `json:"instanceType"`
	State            string    `json:"state"`
	Platform         string    `json:"platform,omitempty"`
	Tenancy          string    `json:"tenancy,omitempty"`
	Region           string    `json:"region"`
	AvailabilityZone string    `json:"availabilityZone,omitempty"`
	LaunchTime       time.Time `json:"launchTime"`
	AvgCPUPercent    *float64  `json:"avgCpuPercent,omitempty"`
}

// Recommendation is a Cost Optimization Hub recommendation.
type Recommendation struct {
	ID                         string  `json:"id"`
	AccountID                  string  `json:"accountId,omitempty"`
	Region                     string  `json:"region,omitempty"`
	ResourceID                 string  `json:"resourceId,omitempty"`
	ResourceARN                string  `json:"resourceArn,omitempty"`
	CurrentResourceType        string  `json:"currentResourceType,omitempty"`
	RecommendedResourceType    string  `json:"recommendedResourceType,omitempty"`
	CurrentResourceSummary     string  `json:"currentResourceSummary,omitempty"`
	RecommendedResourceSummary string  `json:"recommendedResourceSummary,omitempty"`
	ActionType                 string  `json:"actionType,omitempty"`
	Source                     string  `json:"source,omitempty"`
	ImplementationEffort       string  `json:"implementationEffort,omitempty"`
	RestartNeeded              bool    `json:"restartNeeded"`
	RollbackPossible           bool    `json:"rollbackPossible"`
	EstimatedMonthlySavings    float64 `json:"estimatedMonthlySavings"`
	EstimatedMonthlyCost       float64 `json:"estimatedMonthlyCost"`
	EstimatedSavingsPercentage float64 `json:"estimatedSavingsPercentage"`
	CurrencyCode               string  `json:"currencyCode,omitempty"`
}
