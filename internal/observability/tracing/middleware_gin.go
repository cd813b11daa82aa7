package tracing

import (
	"context"
	"net/http"
	"strings"
	"time"

	obscontext "github.com/Henok-Haile/crm-dashboard/internal/observability/context"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware opens one server span per request. The span is renamed to
// the matched route once the handlers ran, and tagged with the signed-in
// user when authentication placed one on the request context.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("crm-dashboard/http")
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))

		ids := requestIdentity(ctx)
		ctx = withBaggage(ctx, ids)
		span.SetAttributes(SafeAttributes(ids...)...)

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + method + " " + route)
		span.SetAttributes(SafeAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
		)...)
		if userID := obscontext.UserIDFromContext(c.Request.Context()); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}

		if status >= http.StatusInternalServerError {
			if last := c.Errors.Last(); last != nil {
				span.RecordError(SafeError(last.Err))
			}
			span.SetStatus(codes.Error, "request error")
		}
		span.End()
	}
}

func requestIdentity(ctx context.Context) []attribute.KeyValue {
	var ids []attribute.KeyValue
	if id := obscontext.RequestIDFromContext(ctx); id != "" {
		ids = append(ids, attribute.String("request_id", id))
	}
	if id := obscontext.CorrelationIDFromContext(ctx); id != "" {
		ids = append(ids, attribute.String("correlation_id", id))
	}
	return ids
}

// withBaggage forwards the request identifiers to downstream spans.
func withBaggage(ctx context.Context, ids []attribute.KeyValue) context.Context {
	members := make([]baggage.Member, 0, len(ids))
	for _, kv := range ids {
		m, err := baggage.NewMember(string(kv.Key), kv.Value.AsString())
		if err != nil {
			continue
		}
		members = append(members, m)
	}
	if len(members) == 0 {
		return ctx
	}
	bag, err := baggage.New(members...)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}
