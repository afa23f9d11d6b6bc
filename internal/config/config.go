package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in defaults applied when neither flags nor the config file set a value.
const (
	DefaultDailyLookBack      = 30
	DefaultMonthlyLookBack    = 6
	DefaultSummaryThreshold   = 0.95
	DefaultChartThreshold     = 0.90
	DefaultMaxSubDimensions   = 10
	DefaultMaxRecommendations = 50
	DefaultPricingTTL         = 24 * time.Hour
)

// Config holds awscostlens configuration loaded from .awscostlens.yaml.
type Config struct {
	Profile            string   `yaml:"profile"`
	Region             string   `yaml:"region"`
	Regions            []string `yaml:"regions"`
	Format             string   `yaml:"format"`
	Timeout            string   `yaml:"timeout"`
	DailyLookBack      int      `yaml:"daily_look_back"`
	MonthlyLookBack    int      `yaml:"monthly_look_back"`
	SummaryThreshold   float64  `yaml:"summary_threshold"`
	ChartThreshold     float64  `yaml:"chart_threshold"`
	MaxSubDimensions   int      `yaml:"max_sub_dimensions"`
	MaxRecommendations int      `yaml:"max_recommendations"`
	Pricing            Pricing  `yaml:"pricing"`
}

// Pricing configures the on-demand price catalog cache.
type Pricing struct {
	// CacheDir persists the price sheet between runs. Empty keeps it in memory.
	CacheDir string `yaml:"cache_dir"`
	TTL      string `yaml:"ttl"`
	// File replaces the built-in price sheet.
	File string `yaml:"file"`
}

// Thresholds are the resolved aggregation settings.
type Thresholds struct {
	DailyLookBack      int
	MonthlyLookBack    int
	Summary            float64
	Chart              float64
	MaxSubDimensions   int
	MaxRecommendations int
}

// Thresholds resolves the aggregation settings, replacing unset or out-of-range values with defaults.
func (c Config) Thresholds() Thresholds {
	t := Thresholds{
		DailyLookBack:      c.DailyLookBack,
		MonthlyLookBack:    c.MonthlyLookBack,
		Summary:            c.SummaryThreshold,
		Chart:              c.ChartThreshold,
		MaxSubDimensions:   c.MaxSubDimensions,
		MaxRecommendations: c.MaxRecommendations,
	}
	if t.DailyLookBack <= 0 {
		t.DailyLookBack = DefaultDailyLookBack
	}
	if t.MonthlyLookBack <= 0 {
		t.MonthlyLookBack = DefaultMonthlyLookBack
	}
	if t.Summary <= 0 || t.Summary > 1 {
		t.Summary = DefaultSummaryThreshold
	}
	if t.Chart <= 0 || t.Chart > 1 {
		t.Chart = DefaultChartThreshold
	}
	if t.MaxSubDimensions <= 0 {
		t.MaxSubDimensions = DefaultMaxSubDimensions
	}
	if t.MaxRecommendations <= 0 {
		t.MaxRecommendations = DefaultMaxRecommendations
	}
	return t
}

// TimeoutDuration parses the timeout string as a duration.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// PricingTTL parses the pricing cache TTL, falling back to DefaultPricingTTL.
func (c Config) PricingTTL() time.Duration {
	if c.Pricing.TTL == "" {
		return DefaultPricingTTL
	}
	d, err := time.ParseDuration(c.Pricing.TTL)
	if err != nil || d <= 0 {
		return DefaultPricingTTL
	}
	return d
}

// Load searches for .awscostlens.yaml or .awscostlens.yml in the given directory
// and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".awscostlens.yaml"),
		filepath.Join(dir, ".awscostlens.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
