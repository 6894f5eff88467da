package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ecommerce-dashboard/internal/observability"
)

const unmatchedRoute = "unmatched"

// Tracing opens a server span per request and names it after the route
// the mux matched, once the handler has returned.
func Tracing() Middleware {
	tracer := observability.Tracer()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("request.id", observability.GetRequestID(r.Context())),
				),
			)
			defer span.End()

			rec := record(w)
			traced := r.WithContext(ctx)
			next.ServeHTTP(rec, traced)

			if traced.Pattern != "" {
				span.SetName(traced.Pattern)
				span.SetAttributes(attribute.String("http.route", traced.Pattern))
			}
			span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
			if rec.status >= http.StatusBadRequest {
				span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(rec.status))
			}
		})
	}
}

// Metrics counts requests and their latency by route pattern. r.Pattern is
// only filled in by the mux, so this has to wrap the mux directly.
func Metrics(m *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
