package tools

import (
	awstype "github.com/ppiankov/awscostlens/internal/aws"
)

var granularityEnum = []string{"DAILY", "MONTHLY"}

func stringArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func describeInstancesSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region":      map[string]any{"type": "string", "description": "AWS region where instances are located (e.g. \"us-east-1\")"},
			"regions":     stringArray("Regions to describe; overrides region. [\"all\"] selects every enabled region"),
			"instanceIds": stringArray("Specific instance IDs to describe"),
			"filters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":   map[string]any{"type": "string"},
						"values": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []string{"name", "values"},
				},
				"description": "Filters to apply to the describe operation",
			},
			"maxResults":      map[string]any{"type": "integer", "minimum": 0, "description": "Maximum number of instances per region"},
			"cpuLookBackDays": map[string]any{"type": "integer", "minimum": 0, "maximum": maxCPULookBackDays, "description": "Annotate running instances with average CPU over this many days"},
		},
	}
}

func costAndUsageSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"startDate":   map[string]any{"type": "string", "description": "Start date in YYYY-MM-DD format"},
			"endDate":     map[string]any{"type": "string", "description": "End date in YYYY-MM-DD format (exclusive)"},
			"lookBack":    map[string]any{"type": "integer", "minimum": 0, "description": "Periods to look back when no dates are given (default 30 days or 6 months)"},
			"granularity": map[string]any{"type": "string", "enum": granularityEnum, "description": "Data granularity"},
			"groupBy": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "enum": GroupByDimensions},
				"maxItems":    maxGroupBy,
				"description": "Grouping dimensions, up to 2",
			},
			"filter": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dimension": map[string]any{"type": "string"},
					"values":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"exclude":   map[string]any{"type": "boolean"},
				},
				"required":    []string{"dimension", "values"},
				"description": "Dimension filter to apply",
			},
			"chartTitle": map[string]any{"type": "string", "description": "Title for the chart that will be generated"},
		},
		"required": []string{"granularity"},
	}
}

func costPerServicePerRegionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"granularity": map[string]any{"type": "string", "enum": granularityEnum, "description": "Data granularity (default DAILY)"},
			"lookBack":    map[string]any{"type": "integer", "minimum": 0, "description": "Periods to look back (default 30 days or 6 months)"},
			"chartTitle":  map[string]any{"type": "string", "description": "Title for the chart that will be generated"},
		},
	}
}

func cloudWatchMetricsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"namespace":  map[string]any{"type": "string", "description": "AWS namespace (e.g. \"AWS/Lambda\", \"AWS/EC2\", \"AWS/RDS\")"},
			"metricName": map[string]any{"type": "string", "description": "Metric name (e.g. \"Invocations\", \"Duration\", \"Errors\")"},
			"dimensions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":  map[string]any{"type": "string", "description": "Dimension name (e.g. \"FunctionName\")"},
						"value": map[string]any{"type": "string", "description": "Dimension value"},
					},
					"required": []string{"name", "value"},
				},
				"description": "Dimensions to filter the metric",
			},
			"startTime":  map[string]any{"type": "string", "description": "Start time in ISO format (e.g. \"2024-01-01T00:00:00Z\")"},
			"endTime":    map[string]any{"type": "string", "description": "End time in ISO format (e.g. \"2024-01-31T23:59:59Z\")"},
			"period":     map[string]any{"type": "integer", "minimum": 1, "description": "Period in seconds (300=5min, 3600=1hour, 86400=1day)"},
			"statistic":  map[string]any{"type": "string", "enum": awstype.Statistics, "description": "Statistic to retrieve"},
			"unit":       map[string]any{"type": "string", "description": "Unit to request (e.g. \"Percent\")"},
			"region":     map[string]any{"type": "string", "description": "AWS region (defaults to the configured region)"},
			"chartTitle": map[string]any{"type": "string", "description": "Title for the chart that will be generated"},
		},
		"required": []string{"namespace", "metricName", "startTime", "endTime", "period", "statistic"},
	}
}

func listRecommendationsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region":     map[string]any{"type": "string", "description": "Cost Optimization Hub region (defaults to us-east-1)"},
			"maxResults": map[string]any{"type": "integer", "minimum": 0, "description": "Number of top recommendations to return (default 50)"},
		},
	}
}
