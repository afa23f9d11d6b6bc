package pricing

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func countingSource(data string, calls *int32) Source {
	return func(context.Context) ([]byte, error) {
		atomic.AddInt32(calls, 1)
		return []byte(data), nil
	}
}

const testSheet = `{"ec2":{"t3.large":{"us-east-1":0.0832,"eu-west-1":0.0912}}}`

func TestMonthlyEC2(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name         string
		instanceType string
		region       string
		wantFound    bool
	}{
		{"t3.large us-east-1", "t3.large", "us-east-1", true},
		{"m5.xlarge eu-west-1", "m5.xlarge", "eu-west-1", true},
		{"unknown type", "x99.mega", "us-east-1", false},
		{"known type unknown region falls back to us-east-1", "t3.micro", "af-south-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, found, err := c.MonthlyEC2(context.Background(), tt.instanceType, tt.region)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("expected found=%v, got %v", tt.wantFound, found)
			}
			if tt.wantFound && cost == 0 {
				t.Fatalf("expected non-zero cost for %s in %s", tt.instanceType, tt.region)
			}
			if !tt.wantFound && cost != 0 {
				t.Fatalf("expected zero cost, got %f", cost)
			}
		})
	}
}

func TestMonthlyEC2_Calculation(t *testing.T) {
	// $0.0832/hr * 730 hrs = $60.736
	cost, _, err := NewCatalog().MonthlyEC2(context.Background(), "t3.large", "us-east-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(cost-60.736) > 1e-9 {
		t.Fatalf("expected $60.736, got $%.4f", cost)
	}
}

func TestHourlyEC2_RegionalPrice(t *testing.T) {
	c := NewCatalog(WithSource(func(context.Context) ([]byte, error) { return []byte(testSheet), nil }))
	price, found, err := c.HourlyEC2(context.Background(), "t3.large", "eu-west-1")
	if err != nil || !found {
		t.Fatalf("expected price, got found=%v err=%v", found, err)
	}
	if price != 0.0912 {
		t.Fatalf("expected 0.0912, got %v", price)
	}
}

func TestCatalog_CachesWithinTTL(t *testing.T) {
	clock := &fakeClock{t: epoch}
	var calls int32
	c := NewCatalog(
		WithSource(countingSource(testSheet, &calls)),
		WithClock(clock.now),
		WithTTL(time.Hour),
	)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := c.HourlyEC2(ctx, "t3.large", "us-east-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}

	clock.advance(2 * time.Hour)
	if _, _, err := c.HourlyEC2(ctx, "t3.large", "us-east-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", calls)
	}
}

func TestCatalog_Invalidate(t *testing.T) {
	var calls int32
	storage := NewMemoryStorage()
	c := NewCatalog(WithSource(countingSource(testSheet, &calls)), WithStorage(storage))
	ctx := context.Background()

	_, _, _ = c.HourlyEC2(ctx, "t3.large", "us-east-1")
	c.Invalidate()
	_, _, _ = c.HourlyEC2(ctx, "t3.large", "us-east-1")

	// the second load is served from storage
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}
}

func TestCatalog_LoadsFromDirStorage(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: epoch}
	ctx := context.Background()

	var first int32
	warm := NewCatalog(
		WithSource(countingSource(testSheet, &first)),
		WithStorage(NewDirStorage(dir)),
		WithClock(clock.now),
	)
	if _, _, err := warm.HourlyEC2(ctx, "t3.large", "us-east-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.advance(time.Hour)
	var second int32
	cold := NewCatalog(
		WithSource(countingSource(`{"ec2":{}}`, &second)),
		WithStorage(NewDirStorage(dir)),
		WithClock(clock.now),
	)
	price, found, err := cold.HourlyEC2(ctx, "t3.large", "us-east-1")
	if err != nil || !found || price != 0.0832 {
		t.Fatalf("expected cached 0.0832, got %v found=%v err=%v", price, found, err)
	}
	if second != 0 {
		t.Fatalf("expected no fetch with fresh cache, got %d", second)
	}
}

func TestCatalog_StaleFallbackOnSourceError(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Save(Entry{Data: []byte(testSheet), FetchedAt: epoch.Add(-48 * time.Hour)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	c := NewCatalog(
		WithSource(func(context.Context) ([]byte, error) { return nil, errors.New("offline") }),
		WithStorage(storage),
		WithClock(func() time.Time { return epoch }),
	)

	price, found, err := c.HourlyEC2(context.Background(), "t3.large", "us-east-1")
	if err != nil || !found || price != 0.0832 {
		t.Fatalf("expected stale 0.0832, got %v found=%v err=%v", price, found, err)
	}
}

func TestCatalog_SourceErrorWithoutCache(t *testing.T) {
	c := NewCatalog(WithSource(func(context.Context) ([]byte, error) { return nil, errors.New("offline") }))
	if _, _, err := c.HourlyEC2(context.Background(), "t3.large", "us-east-1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCatalog_InvalidSheet(t *testing.T) {
	c := NewCatalog(WithSource(func(context.Context) ([]byte, error) { return []byte("{"), nil }))
	if _, _, err := c.HourlyEC2(context.Background(), "t3.large", "us-east-1"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDirStorage_MissingFile(t *testing.T) {
	_, found, err := NewDirStorage(t.TempDir()).Load()
	if err != nil || found {
		t.Fatalf("expected not found, got found=%v err=%v", found, err)
	}
}

func TestFileSource(t *testing.T) {
	if _, err := FileSource("/nonexistent/pricing.json")(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
