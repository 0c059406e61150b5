package tracing

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSafeAttributes(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/dsrs/:id/commission"),
		attribute.String("dsr_name", "Jane"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorReturnsRoot(t *testing.T) {
	root := errors.New("connection refused")
	wrapped := fmt.Errorf("SELECT * FROM sales WHERE dsr_id = 9: %w", root)

	assert.EqualError(t, SafeError(wrapped), "connection refused")
	assert.Nil(t, SafeError(nil))
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGinMiddlewareTagsReportSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordSpans(t)

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/managers/:id/commission", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PATCH("/api/sales/:id/approval", func(c *gin.Context) { c.Status(http.StatusForbidden) })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/managers/42/commission?period=2024-04", nil))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/sales/7/approval?period=2024-04", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	report := spanAttributes(spans[0])
	assert.Equal(t, "HTTP GET /api/managers/:id/commission", spans[0].Name())
	assert.Equal(t, "42", report[AttrManagerID].AsString())
	assert.Equal(t, "2024-04", report[AttrPeriod].AsString())
	assert.NotContains(t, report, AttrDSRID)

	approval := spanAttributes(spans[1])
	assert.Equal(t, "7", approval[AttrSaleID].AsString())
	assert.NotContains(t, approval, AttrPeriod)
	assert.Equal(t, "Forbidden", approval[AttrErrorType].AsString())
	assert.Equal(t, int64(http.StatusForbidden), approval["http.status_code"].AsInt64())
}

func TestGinMiddlewareUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordSpans(t)

	r := gin.New()
	r.Use(GinMiddleware())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dsrs/1/commission", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttributes(spans[0])
	assert.Equal(t, "unknown", attrs["http.route"].AsString())
	assert.NotContains(t, attrs, AttrDSRID)
}
