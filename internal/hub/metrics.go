package hub

import (
	"context"
	"time"

	"pubsubhub/internal/hub/metrics"
)

// MetricsMiddleware records every publish in registry.
func MetricsMiddleware(registry *metrics.Registry) Middleware {
	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, p Publication) (int, error) {
			start := time.Now()

			delivered, err := next(ctx, p)
			duration := time.Since(start)

			registry.RecordPublish(p.EventType.String(), p.Subscribers, delivered, duration, err)

			return delivered, err
		}
	}
}
