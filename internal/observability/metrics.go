// Package observability wires metrics and tracing for the chatbot: an
// OpenTelemetry meter exported through Prometheus, and an OTLP or Zipkin
// span exporter for dispatch traces.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig configures the metrics collector.
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Metrics manages the counters and histograms of the chatbot.
type Metrics struct {
	meter metric.Meter

	intentDispatches metric.Int64Counter
	llmRequests      metric.Int64Counter
	llmTokens        metric.Int64Counter
	httpDuration     metric.Float64Histogram

	provider *sdkmetric.MeterProvider
}

// NewMetrics creates the metrics collector. When disabled it returns an inert
// collector whose methods are no-ops.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if !config.Enabled {
		return &Metrics{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("familyconnect")

	m := &Metrics{meter: meter, provider: provider}

	m.intentDispatches, err = meter.Int64Counter("familyconnect_intent_dispatches_total",
		metric.WithDescription("Queries dispatched, by classified intent"))
	if err != nil {
		return nil, err
	}
	m.llmRequests, err = meter.Int64Counter("familyconnect_llm_requests_total",
		metric.WithDescription("LLM completion requests"))
	if err != nil {
		return nil, err
	}
	m.llmTokens, err = meter.Int64Counter("familyconnect_llm_tokens_total",
		metric.WithDescription("LLM tokens consumed"))
	if err != nil {
		return nil, err
	}
	m.httpDuration, err = meter.Float64Histogram("familyconnect_http_request_seconds",
		metric.WithDescription("HTTP request duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// CountIntent records one dispatch of the given intent.
func (m *Metrics) CountIntent(ctx context.Context, intent string) {
	if m == nil || m.intentDispatches == nil {
		return
	}
	m.intentDispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intent)))
}

// CountLLMRequest records one completion call and its token usage.
func (m *Metrics) CountLLMRequest(ctx context.Context, model string, promptTokens, completionTokens int) {
	if m == nil || m.llmRequests == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("model", model))
	m.llmRequests.Add(ctx, 1, attrs)
	m.llmTokens.Add(ctx, int64(promptTokens), metric.WithAttributes(
		attribute.String("model", model), attribute.String("kind", "prompt")))
	m.llmTokens.Add(ctx, int64(completionTokens), metric.WithAttributes(
		attribute.String("model", model), attribute.String("kind", "completion")))
}

// ObserveHTTPRequest records the duration of one HTTP request.
func (m *Metrics) ObserveHTTPRequest(ctx context.Context, route, method string, status int, seconds float64) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// Shutdown flushes pending metrics.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
