package mcp

import (
	"errors"

	awstype "github.com/ppiankov/awscostlens/internal/aws"
	"github.com/ppiankov/awscostlens/internal/tools"
)

// ErrorDetail is the error object of a failed tool call.
type ErrorDetail = awstype.ErrorDetail

type ErrorEnvelope struct {
	Error   ErrorDetail `json:"error"`
	Details any         `json:"details,omitempty"`
}

func BuildErrorEnvelope(err error, details any) map[string]any {
	envelope := ErrorEnvelope{Error: classifyError(err)}
	out := map[string]any{"error": envelope.Error}
	if details != nil {
		out["details"] = details
	}
	return out
}

func classifyError(err error) ErrorDetail {
	var argErr *tools.ArgumentError
	if errors.As(err, &argErr) {
		return ErrorDetail{
			Code:      awstype.CodeInvalidRequest,
			Message:   argErr.Error(),
			Hint:      "Fix the tool arguments to match the input schema.",
			Retryable: false,
		}
	}
	return awstype.Classify(err)
}
