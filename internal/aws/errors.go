package aws

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// Error codes reported by Classify.
const (
	CodeTimeout         = "timeout"
	CodeCanceled        = "canceled"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeRateLimited     = "rate_limited"
	CodeNotFound        = "not_found"
	CodeInvalidRequest  = "invalid_request"
	CodeOptInRequired   = "opt_in_required"
	CodeUnavailable     = "unavailable"
	CodeUpstream        = "upstream_error"
	CodeInternal        = "internal"
)

// ErrorDetail is the machine-readable classification of a failed AWS call.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
}

// Classify maps an error from an AWS call to an ErrorDetail with a remediation hint.
func Classify(err error) ErrorDetail {
	if err == nil {
		return ErrorDetail{}
	}
	msg := err.Error()

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorDetail{Code: CodeTimeout, Message: msg, Hint: "Increase the timeout or narrow the query window.", Retryable: true}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorDetail{Code: CodeCanceled, Message: msg, Hint: "Request was canceled before completion.", Retryable: true}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ExpiredToken", "ExpiredTokenException", "UnrecognizedClientException", "InvalidClientTokenId", "AuthFailure":
			return ErrorDetail{Code: CodeUnauthenticated, Message: msg, Hint: "AWS credentials are invalid or expired. Refresh credentials or run 'aws sso login'.", Retryable: false}
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation", "UnauthorizedAccess":
			return ErrorDetail{Code: CodeForbidden, Message: msg, Hint: "Insufficient permissions. Apply the IAM policy from 'awscostlens init' to your role/user.", Retryable: false}
		case "OptInRequiredException", "OptInRequired":
			return ErrorDetail{Code: CodeOptInRequired, Message: msg, Hint: "Enable Cost Explorer or Cost Optimization Hub for this account.", Retryable: false}
		case "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException", "LimitExceededException":
			return ErrorDetail{Code: CodeRateLimited, Message: msg, Hint: "AWS API rate limit hit. Retry with backoff.", Retryable: true}
		case "ResourceNotFoundException", "NotFoundException", "InvalidInstanceID.NotFound", "InvalidInstanceID.Malformed":
			return ErrorDetail{Code: CodeNotFound, Message: msg, Hint: "Verify resource identifiers and region.", Retryable: false}
		case "ValidationException", "InvalidParameterException", "InvalidParameterValue", "InvalidParameterCombination", "InvalidParameterValueException":
			return ErrorDetail{Code: CodeInvalidRequest, Message: msg, Hint: "Fix request parameters.", Retryable: false}
		case "DataUnavailableException", "BillExpirationException":
			return ErrorDetail{Code: CodeUnavailable, Message: msg, Hint: "Cost data is not available for the requested period.", Retryable: false}
		case "RequestExpired":
			return ErrorDetail{Code: CodeUnauthenticated, Message: msg, Hint: "Request expired. Check system clock synchronization.", Retryable: true}
		case "ServiceUnavailable", "ServiceUnavailableException", "InternalFailure", "InternalServerException":
			return ErrorDetail{Code: CodeUnavailable, Message: msg, Hint: "AWS service unavailable; retry with backoff.", Retryable: true}
		default:
			return ErrorDetail{Code: CodeUpstream, Message: msg, Hint: "AWS API error; verify inputs and retry.", Retryable: true}
		}
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "NoCredentialProviders"), strings.Contains(lower, "failed to retrieve credentials"), strings.Contains(lower, "no valid credential"):
		return ErrorDetail{Code: CodeUnauthenticated, Message: msg, Hint: "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'.", Retryable: false}
	case strings.Contains(lower, "could not find region"), strings.Contains(lower, "missing region"):
		return ErrorDetail{Code: CodeInvalidRequest, Message: msg, Hint: "Set a region with --region, AWS_REGION or the config file.", Retryable: false}
	}

	return ErrorDetail{Code: CodeInternal, Message: msg, Hint: "Check server logs for details.", Retryable: false}
}
