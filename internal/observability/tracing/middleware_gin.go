package tracing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/salesops/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttrDSRID        attribute.Key = "salesops.dsr_id"
	AttrTeamLeaderID attribute.Key = "salesops.team_leader_id"
	AttrManagerID    attribute.Key = "salesops.manager_id"
	AttrSaleID       attribute.Key = "salesops.sale_id"
	AttrPeriod       attribute.Key = "salesops.period"
	AttrErrorType    attribute.Key = "salesops.error_type"
)

// routeSubjects maps the first API path segment to the attribute carrying its :id.
var routeSubjects = map[string]attribute.Key{
	"dsrs":         AttrDSRID,
	"team-leaders": AttrTeamLeaderID,
	"managers":     AttrManagerID,
	"sales":        AttrSaleID,
}

// GinMiddleware opens a server span per request and tags it with the hierarchy
// node and period the request is about.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("salesops/http")
	return func(c *gin.Context) {
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+c.Request.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			ctx = withRequestBaggage(ctx, requestID)
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + c.Request.Method + " " + route)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
		}
		attrs = append(attrs, requestAttributes(c, route)...)
		span.SetAttributes(SafeAttributes(attrs...)...)

		switch {
		case status >= http.StatusInternalServerError:
			if lastErr := c.Errors.Last(); lastErr != nil {
				if safeErr := SafeError(lastErr.Err); safeErr != nil {
					span.RecordError(safeErr)
				}
			}
			span.SetStatus(codes.Error, "request error")
		case status >= http.StatusBadRequest:
			span.SetAttributes(AttrErrorType.String(http.StatusText(status)))
		}
	}
}

// requestAttributes reads the subject id and report period from the matched route.
func requestAttributes(c *gin.Context, route string) []attribute.KeyValue {
	var attrs []attribute.KeyValue

	segments := strings.Split(strings.TrimPrefix(route, "/api/"), "/")
	if len(segments) >= 2 && segments[1] == ":id" {
		if key, ok := routeSubjects[segments[0]]; ok {
			if id := strings.TrimSpace(c.Param("id")); id != "" {
				attrs = append(attrs, key.String(id))
			}
		}
	}

	if strings.HasSuffix(route, "/commission") {
		if period := strings.TrimSpace(c.Query("period")); period != "" {
			attrs = append(attrs, AttrPeriod.String(period))
		}
	}
	return attrs
}

func withRequestBaggage(ctx context.Context, requestID string) context.Context {
	member, err := baggage.NewMember("request_id", requestID)
	if err != nil {
		return ctx
	}
	bag, err := baggage.New(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}
