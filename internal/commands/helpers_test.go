package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnhanceError_NoCredentials(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("NoCredentialProviders: no valid providers"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for NoCredentialProviders")
	}
	if !strings.Contains(err.Error(), "AWS_PROFILE") {
		t.Fatal("expected hint to mention AWS_PROFILE")
	}
}

func TestEnhanceError_ExpiredToken(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("ExpiredToken: token has expired"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for ExpiredToken")
	}
}

func TestEnhanceError_AccessDenied(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("AccessDenied: not authorized"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for AccessDenied")
	}
}

func TestEnhanceError_Throttling(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("Throttling: rate exceeded"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for Throttling")
	}
}

func TestEnhanceError_OptInRequired(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("OptInRequiredException: enable Cost Explorer"))
	if !strings.Contains(err.Error(), "Enable Cost Explorer") {
		t.Fatalf("expected opt-in hint, got %v", err)
	}
}

func TestEnhanceError_Wraps(t *testing.T) {
	cause := errors.New("AccessDenied: not authorized")
	err := enhanceError("run tool", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if !strings.Contains(err.Error(), "awscostlens init") {
		t.Fatalf("expected init hint, got %v", err)
	}
}

func TestEnhanceError_GenericError(t *testing.T) {
	err := enhanceError("do something", fmt.Errorf("random error"))
	if strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected no hint for generic error")
	}
	if !strings.Contains(err.Error(), "do something") {
		t.Fatal("expected action in error message")
	}
}

func TestComputeTargetHash(t *testing.T) {
	hash1 := computeTargetHash("prod", []string{"us-east-1", "eu-west-1"})
	hash2 := computeTargetHash("prod", []string{"us-east-1", "eu-west-1"})
	hash3 := computeTargetHash("staging", []string{"us-east-1"})

	if hash1 != hash2 {
		t.Fatal("same input should produce same hash")
	}
	if hash1 == hash3 {
		t.Fatal("different input should produce different hash")
	}
	if !strings.HasPrefix(hash1, "sha256:") {
		t.Fatalf("expected sha256: prefix, got %s", hash1)
	}
}

func TestSelectReporter(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "text", want: "*report.TextReporter"},
		{format: "json", want: "*report.JSONReporter"},
		{format: "chart", want: "*report.ChartReporter"},
		{format: "sarif", wantErr: true},
		{format: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, closeOutput, err := selectReporter(tt.format, "", &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer closeOutput()
			if got := fmt.Sprintf("%T", r); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSelectReporter_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	_, closeOutput, err := selectReporter("text", path, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := closeOutput(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestResolveTimeout(t *testing.T) {
	origFlag, origCfg := globalFlags.timeout, cfg
	t.Cleanup(func() { globalFlags.timeout, cfg = origFlag, origCfg })

	globalFlags.timeout = 0
	cfg.Timeout = ""
	if got := resolveTimeout(); got != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", got)
	}

	cfg.Timeout = "90s"
	if got := resolveTimeout(); got != 90*time.Second {
		t.Fatalf("expected config timeout, got %v", got)
	}

	globalFlags.timeout = time.Minute
	if got := resolveTimeout(); got != time.Minute {
		t.Fatalf("expected flag timeout, got %v", got)
	}
}

func TestParseCostFilter(t *testing.T) {
	tests := []struct {
		in      string
		wantDim string
		wantN   int
		wantErr bool
	}{
		{in: "service=Amazon EC2,Amazon S3", wantDim: "SERVICE", wantN: 2},
		{in: "REGION=us-east-1, ", wantDim: "REGION", wantN: 1},
		{in: "SERVICE", wantErr: true},
		{in: "=x", wantErr: true},
		{in: "SERVICE=", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := parseCostFilter(tt.in, true)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Dimension != tt.wantDim || len(f.Values) != tt.wantN || !f.Exclude {
				t.Fatalf("unexpected filter %+v", f)
			}
		})
	}
}

func TestParseDimensions(t *testing.T) {
	dims, err := parseDimensions([]string{"InstanceId=i-123", "AutoScalingGroupName = web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dims) != 2 || dims[1].Name != "AutoScalingGroupName" || dims[1].Value != "web" {
		t.Fatalf("unexpected dimensions %+v", dims)
	}
	if _, err := parseDimensions([]string{"InstanceId"}); err == nil {
		t.Fatal("expected error for missing value separator")
	}
}

func TestParseInstanceFilters(t *testing.T) {
	filters, err := parseInstanceFilters([]string{"instance-state-name=running,stopped"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filters) != 1 || len(filters[0].Values) != 2 {
		t.Fatalf("unexpected filters %+v", filters)
	}
	if _, err := parseInstanceFilters([]string{"tag:Name="}); err == nil {
		t.Fatal("expected error for empty values")
	}
}
