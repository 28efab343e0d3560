package workerutil

import (
	"context"
	"time"
)

// Every calls fn immediately and then once per interval until ctx is
// cancelled. A non-positive interval runs fn once.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	if ctx.Err() != nil {
		return
	}
	fn(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
