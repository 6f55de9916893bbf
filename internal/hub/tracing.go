package hub

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pubsubhub/internal/hub/tracing"
)

// TracingMiddleware wraps every publish in a "hub.publish" span.
// Register it before MetricsMiddleware so the span covers the metrics layer:
// Tracing -> Metrics -> delivery.
func TracingMiddleware(tracer *tracing.Tracer) Middleware {
	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, p Publication) (int, error) {
			ctx, span := tracer.StartSpan(ctx, "hub.publish")
			defer span.End()

			span.SetAttributes(tracer.PublishAttributes(p.EventType.String(), p.Subscribers)...)

			delivered, err := next(ctx, p)

			span.SetAttributes(attribute.Int("hub.delivered", delivered))

			if err != nil {
				tracer.RecordError(ctx, err)
			} else {
				span.SetStatus(codes.Ok, "")
			}

			span.SetAttributes(tracer.ErrorAttributes(err)...)

			return delivered, err
		}
	}
}
