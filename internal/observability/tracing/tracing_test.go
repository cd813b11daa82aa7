package tracing

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	obscontext "github.com/Henok-Haile/crm-dashboard/internal/observability/context"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSafeAttributesKeepsHTTPFieldsOnly(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.method", "GET"),
		attribute.String("customer.email", "a@x.com"),
		attribute.Int("http.status_code", 200),
	)
	assert.Len(t, attrs, 2)
}

func TestSafeErrorTrimsDetails(t *testing.T) {
	err := SafeError(fmt.Errorf("insert customer: %w", errors.New("duplicate a@x.com")))
	assert.EqualError(t, err, "insert customer")
	assert.Nil(t, SafeError(nil))
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), "req-1"))
		c.Next()
	})
	r.Use(GinMiddleware())
	r.GET("/customers/:id", func(c *gin.Context) {
		c.Request = c.Request.WithContext(obscontext.WithUserID(c.Request.Context(), "42"))
		_ = c.Error(fmt.Errorf("load customer: %w", errors.New("row bob@x.com")))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/customers/7", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "HTTP GET /customers/:id", span.Name)
	assert.Equal(t, codes.Error, span.Status.Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "req-1", attrs["request_id"].AsString())
	assert.Equal(t, "42", attrs["user_id"].AsString())
	assert.EqualValues(t, 500, attrs["http.status_code"].AsInt64())

	require.Len(t, span.Events, 1)
	for _, kv := range span.Events[0].Attributes {
		assert.NotContains(t, kv.Value.Emit(), "bob@x.com")
	}
}
