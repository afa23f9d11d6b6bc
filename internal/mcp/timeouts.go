package mcp

import (
	"context"
	"time"
)

func withToolTimeout(ctx context.Context, registryTimeout time.Duration, spec ToolSpec) (context.Context, context.CancelFunc) {
	timeout := toolTimeout(registryTimeout, spec)
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func toolTimeout(registryTimeout time.Duration, spec ToolSpec) time.Duration {
	if spec.Timeout > 0 {
		return spec.Timeout
	}
	if registryTimeout < 0 {
		return 0
	}
	return registryTimeout
}
