package costs

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregateNoiseFloor(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{"just below floor", "0.009999", false},
		{"exactly floor", "0.01", true},
		{"zero", "0", false},
		{"negative credit", "-5.00", false},
		{"malformed", "n/a", false},
		{"empty", "", false},
		{"regular", "12.34", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Aggregate([]Record{{Date: "2024-01-01", Dimensions: map[string]string{"EC2": tt.value}}})
			d, ok := agg.Get("EC2")
			if ok != tt.wantOK {
				t.Fatalf("expected present=%v, got %v", tt.wantOK, ok)
			}
			if ok && !d.TotalCost.Equal(dec(tt.value)) {
				t.Fatalf("expected total %s, got %s", tt.value, d.TotalCost)
			}
		})
	}
}

func TestAggregateAccumulates(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Dimensions: map[string]string{"EC2": "10.00", "S3": "0.005", "RDS": "3.10"}},
		{Date: "2024-01-02", Dimensions: map[string]string{"EC2": "12.00"}},
		{Date: "2024-01-03"},
		{Date: "2024-01-04", Dimensions: map[string]string{"RDS": "4.90"}},
	}

	agg := Aggregate(records)
	if agg.Len() != 2 {
		t.Fatalf("expected 2 dimensions, got %d", agg.Len())
	}

	ec2, ok := agg.Get("EC2")
	if !ok {
		t.Fatal("expected EC2")
	}
	if !ec2.TotalCost.Equal(dec("22")) {
		t.Fatalf("expected EC2 total 22, got %s", ec2.TotalCost)
	}
	if len(ec2.DailyCosts) != 2 || ec2.DailyCosts[0].Date != "2024-01-01" || ec2.DailyCosts[1].Date != "2024-01-02" {
		t.Fatalf("unexpected EC2 series: %+v", ec2.DailyCosts)
	}

	rds, _ := agg.Get("RDS")
	if !rds.TotalCost.Equal(dec("8")) {
		t.Fatalf("expected RDS total 8, got %s", rds.TotalCost)
	}
	if _, ok := agg.Get("S3"); ok {
		t.Fatal("S3 is below the noise floor")
	}
	if !agg.Total().Equal(dec("30")) {
		t.Fatalf("expected total 30, got %s", agg.Total())
	}
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Dimensions: map[string]string{"b": "1", "a": "1"}},
		{Date: "2024-01-02", Dimensions: map[string]string{"c": "1", "a": "1"}},
	}
	agg := Aggregate(records)
	var keys []string
	for _, d := range agg.Dimensions {
		keys = append(keys, d.Key)
	}
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	if agg := Aggregate(nil); agg.Len() != 0 || !agg.Total().IsZero() {
		t.Fatalf("expected empty aggregation, got %d dimensions", agg.Len())
	}
}

func TestAggregateParentsAndChildren(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Dimensions: map[string]string{
			"EC2, us-east-1": "5",
			"EC2, eu-west-1": "3",
			"S3, us-east-1":  "1",
		}},
		{Date: "2024-01-02", Dimensions: map[string]string{
			"EC2, us-east-1": "6",
		}},
	}

	parents := aggregateParents(records)
	ec2, ok := parents.Get("EC2")
	if !ok {
		t.Fatal("expected EC2 parent")
	}
	if !ec2.TotalCost.Equal(dec("14")) {
		t.Fatalf("expected EC2 total 14, got %s", ec2.TotalCost)
	}
	if len(ec2.DailyCosts) != 2 || !ec2.DailyCosts[0].Cost.Equal(dec("8")) {
		t.Fatalf("expected one merged entry per date, got %+v", ec2.DailyCosts)
	}

	children := aggregateChildren(records, "EC2")
	if children.Len() != 2 {
		t.Fatalf("expected 2 EC2 regions, got %d", children.Len())
	}
	east, _ := children.Get("us-east-1")
	if !east.TotalCost.Equal(dec("11")) {
		t.Fatalf("expected us-east-1 total 11, got %s", east.TotalCost)
	}
}

func TestSplitKey(t *testing.T) {
	parent, child, ok := SplitKey("Amazon Elastic Compute Cloud - Compute, us-east-1")
	if !ok || parent != "Amazon Elastic Compute Cloud - Compute" || child != "us-east-1" {
		t.Fatalf("unexpected split: %q %q %v", parent, child, ok)
	}
	if _, _, ok := SplitKey("EC2"); ok {
		t.Fatal("expected single-level key")
	}
	if got := JoinKey("EC2", "us-east-1"); got != "EC2, us-east-1" {
		t.Fatalf("expected EC2, us-east-1, got %s", got)
	}
}
