package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"deadline", fmt.Errorf("get cost and usage: %w", context.DeadlineExceeded), CodeTimeout, true},
		{"canceled", context.Canceled, CodeCanceled, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "no"}, CodeForbidden, false},
		{"wrapped throttling", fmt.Errorf("list recommendations: %w", &smithy.GenericAPIError{Code: "ThrottlingException"}), CodeRateLimited, true},
		{"expired token", &smithy.GenericAPIError{Code: "ExpiredToken"}, CodeUnauthenticated, false},
		{"validation", &smithy.GenericAPIError{Code: "ValidationException"}, CodeInvalidRequest, false},
		{"opt in", &smithy.GenericAPIError{Code: "OptInRequiredException"}, CodeOptInRequired, false},
		{"data unavailable", &smithy.GenericAPIError{Code: "DataUnavailableException"}, CodeUnavailable, false},
		{"unknown api code", &smithy.GenericAPIError{Code: "Weird"}, CodeUpstream, true},
		{"no credentials", errors.New("NoCredentialProviders: no valid providers in chain"), CodeUnauthenticated, false},
		{"plain", errors.New("boom"), CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.err)
			if d.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, d.Code)
			}
			if d.Retryable != tt.retryable {
				t.Fatalf("expected retryable=%v, got %v", tt.retryable, d.Retryable)
			}
			if d.Message != tt.err.Error() {
				t.Fatalf("expected message %q, got %q", tt.err.Error(), d.Message)
			}
			if d.Hint == "" {
				t.Fatal("expected a hint")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if d := Classify(nil); d.Code != "" {
		t.Fatalf("expected empty detail, got %+v", d)
	}
}
