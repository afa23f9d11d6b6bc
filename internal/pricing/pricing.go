package pricing

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const (
	hoursPerMonth = 730
	// fallbackRegion is used when a type has no price in the requested region.
	fallbackRegion = "us-east-1"
	// DefaultTTL is how long a loaded price sheet stays fresh.
	DefaultTTL = 24 * time.Hour
)

//go:embed data/pricing.json
var embeddedSheet []byte

// Sheet holds hourly on-demand prices keyed by resource type, then instance type, then region.
type Sheet map[string]map[string]map[string]float64

// ParseSheet decodes a JSON price sheet.
func ParseSheet(data []byte) (Sheet, error) {
	var s Sheet
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse pricing data: %w", err)
	}
	if s == nil {
		s = Sheet{}
	}
	return s, nil
}

// lookupHourly returns the hourly on-demand price for a resource type, instance type, and region.
// Returns 0 and false if not found.
func (s Sheet) lookupHourly(resourceType, instanceType, region string) (float64, bool) {
	types, ok := s[resourceType]
	if !ok {
		return 0, false
	}
	regions, ok := types[instanceType]
	if !ok {
		return 0, false
	}
	price, ok := regions[region]
	if !ok {
		price, ok = regions[fallbackRegion]
		if !ok {
			return 0, false
		}
	}
	return price, true
}

// Source produces raw price sheet JSON.
type Source func(ctx context.Context) ([]byte, error)

// EmbeddedSource returns the price sheet compiled into the binary.
func EmbeddedSource() Source {
	return func(context.Context) ([]byte, error) {
		return embeddedSheet, nil
	}
}

// FileSource reads a price sheet from path on every refresh.
func FileSource(path string) Source {
	return func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pricing file %s: %w", path, err)
		}
		return data, nil
	}
}

// Catalog answers on-demand price lookups from a cached price sheet. The sheet is
// loaded lazily from storage, refreshed from the source once older than the TTL, and
// written back to storage. A Catalog is safe for concurrent use.
type Catalog struct {
	source  Source
	storage Storage
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sheet    Sheet
	loadedAt time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSource sets the price sheet source. Defaults to EmbeddedSource.
func WithSource(s Source) Option {
	return func(c *Catalog) { c.source = s }
}

// WithStorage sets the cache storage. Defaults to an in-memory store.
func WithStorage(s Storage) Option {
	return func(c *Catalog) { c.storage = s }
}

// WithTTL sets the freshness window. Non-positive values keep DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// NewCatalog creates a catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		source:  EmbeddedSource(),
		storage: NewMemoryStorage(),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HourlyEC2 returns the hourly on-demand price of an EC2 instance type in region.
// Regions without a price fall back to us-east-1.
func (c *Catalog) HourlyEC2(ctx context.Context, instanceType, region string) (float64, bool, error) {
	sheet, err := c.load(ctx)
	if err != nil {
		return 0, false, err
	}
	price, ok := sheet.lookupHourly("ec2", instanceType, region)
	return price, ok, nil
}

// MonthlyEC2 returns the estimated monthly on-demand cost of an EC2 instance type in region.
func (c *Catalog) MonthlyEC2(ctx context.Context, instanceType, region string) (float64, bool, error) {
	hourly, ok, err := c.HourlyEC2(ctx, instanceType, region)
	if err != nil || !ok {
		return 0, ok, err
	}
	return hourly * hoursPerMonth, true, nil
}

// Invalidate drops the in-memory sheet so the next lookup reloads it.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sheet = nil
	c.loadedAt = time.Time{}
}

func (c *Catalog) load(ctx context.Context) (Sheet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.sheet != nil && c.fresh(c.loadedAt, now) {
		return c.sheet, nil
	}

	stored, found, err := c.storage.Load()
	if err != nil {
		slog.Warn("Failed to read pricing cache", "error", err)
		found = false
	}
	if found && c.fresh(stored.FetchedAt, now) {
		if sheet, err := ParseSheet(stored.Data); err == nil {
			slog.Debug("Loaded pricing data from cache", "fetched_at", stored.FetchedAt)
			c.sheet, c.loadedAt = sheet, stored.FetchedAt
			return sheet, nil
		}
		slog.Warn("Discarding unreadable pricing cache")
	}

	data, err := c.source(ctx)
	if err == nil {
		var sheet Sheet
		if sheet, err = ParseSheet(data); err == nil {
			if saveErr := c.storage.Save(Entry{Data: data, FetchedAt: now}); saveErr != nil {
				slog.Warn("Failed to write pricing cache", "error", saveErr)
			}
			slog.Debug("Refreshed pricing data", "types", len(sheet["ec2"]))
			c.sheet, c.loadedAt = sheet, now
			return sheet, nil
		}
	}

	// serve a stale sheet rather than failing the lookup
	if c.sheet != nil {
		slog.Warn("Using stale pricing data", "error", err)
		return c.sheet, nil
	}
	if found {
		if sheet, parseErr := ParseSheet(stored.Data); parseErr == nil {
			slog.Warn("Using stale cached pricing data", "error", err)
			c.sheet, c.loadedAt = sheet, stored.FetchedAt
			return sheet, nil
		}
	}
	return nil, fmt.Errorf("load pricing data: %w", err)
}

func (c *Catalog) fresh(at, now time.Time) bool {
	return !at.IsZero() && now.Sub(at) < c.ttl
}
