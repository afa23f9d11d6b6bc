package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// defaultRegionConcurrency bounds concurrent per-region listings.
const defaultRegionConcurrency = 4

// RegionProgress reports listing progress to callers.
type RegionProgress struct {
	Region    string
	Message   string
	Timestamp time.Time
}

// InstanceListing holds the instances found across a set of regions.
type InstanceListing struct {
	Instances      []Instance `json:"instances"`
	Errors         []string   `json:"errors,omitempty"`
	RegionsScanned int        `json:"regions_scanned"`
}

// ListerFactory builds the instance lister for one region.
type ListerFactory func(region string) *InstanceLister

// MultiRegionLister lists EC2 instances across multiple regions concurrently.
type MultiRegionLister struct {
	newLister   ListerFactory
	regions     []string
	concurrency int
	progressFn  func(RegionProgress)
}

// NewMultiRegionLister creates a lister that runs across the specified regions.
func NewMultiRegionLister(newLister ListerFactory, regions []string, concurrency int) *MultiRegionLister {
	if concurrency <= 0 {
		concurrency = defaultRegionConcurrency
	}
	return &MultiRegionLister{
		newLister:   newLister,
		regions:     regions,
		concurrency: concurrency,
	}
}

// ClientListerFactory returns a factory that builds listers from c, with CloudWatch
// metrics for CPU lookups.
func ClientListerFactory(c *Client) ListerFactory {
	return func(region string) *InstanceLister {
		return NewInstanceLister(c.EC2(region), NewMetricsFetcher(c.CloudWatch(region)), region)
	}
}

// SetProgressFn sets a callback for progress updates.
func (m *MultiRegionLister) SetProgressFn(fn func(RegionProgress)) {
	m.progressFn = fn
}

// ListAll lists instances in every configured region. A failing region is recorded in
// Errors without aborting the others; the call fails only when every region failed.
// Instances are ordered by region, then instance ID.
func (m *MultiRegionLister) ListAll(ctx context.Context, q InstanceQuery) (*InstanceListing, error) {
	var (
		mu       sync.Mutex
		combined InstanceListing
		failed   int
		lastErr  error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, region := range m.regions {
		g.Go(func() error {
			slog.Info("Listing instances", "region", region)
			m.report(region, "listing instances")

			instances, err := m.newLister(region).List(ctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				lastErr = err
				combined.Errors = append(combined.Errors, fmt.Sprintf("%s: %v", region, err))
				slog.Warn("Region listing failed", "region", region, "error", err)
				return nil // don't abort other regions
			}
			combined.Instances = append(combined.Instances, instances...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(m.regions) > 0 && failed == len(m.regions) {
		return nil, lastErr
	}

	sort.SliceStable(combined.Instances, func(i, j int) bool {
		a, b := combined.Instances[i], combined.Instances[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.ID < b.ID
	})
	sort.Strings(combined.Errors)
	combined.RegionsScanned = len(m.regions)
	return &combined, nil
}

func (m *MultiRegionLister) report(region, msg string) {
	if m.progressFn == nil {
		return
	}
	m.progressFn(RegionProgress{Region: region, Message: msg, Timestamp: time.Now()})
}
