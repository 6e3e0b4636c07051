// Package router classifies free-text queries into intents and dispatches
// them to the matching handler. Classification is a single pass over an
// ordered rule list: rules overlap by content, so their order is a deliberate
// tie-break policy and a tested contract. Do not reorder.
package router

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"familyconnect/internal/logging"
	"familyconnect/internal/observability"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentTranslate   Intent = "translate"
	IntentSummarize   Intent = "summarize"
	IntentBirthday    Intent = "birthday"
	IntentAppointment Intent = "appointment"
	IntentWeather     Intent = "weather"
	IntentMusic       Intent = "music"
	IntentFile        Intent = "file"
	IntentFallback    Intent = "fallback"
)

// Handlers bundles the external collaborators the router dispatches to. Each
// field follows the collaborator contract: weather and the chat handlers trap
// their own service failures into message strings; translate propagates
// transport errors; the router never catches handler errors itself.
type Handlers struct {
	Translate func(ctx context.Context, text string) (string, error)
	Summarize func(ctx context.Context, text string) (string, error)
	Weather   func(ctx context.Context, city string) (string, error)
	Chat      func(ctx context.Context, query string) (string, error)
	FileChat  func(ctx context.Context, query string) (string, error)
	PlayMusic func(ctx context.Context) (string, error)
}

// Result is the outcome of one dispatch.
type Result struct {
	// Intent is the classified intent, always set.
	Intent Intent
	// Reply is the handler's answer. Empty when NoReply is true.
	Reply string
	// NoReply marks the file/document branch, whose handler reply is
	// discarded and the caller gets no payload.
	NoReply bool
}

type rule struct {
	intent Intent
	match  func(query string) bool
	run    func(ctx context.Context, query string) (Result, error)
}

// Router dispatches queries to handlers by intent.
type Router struct {
	handlers Handlers
	rules    []rule
	logger   logging.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

// Option customizes a Router.
type Option func(*Router)

// WithMetrics records per-intent dispatch counters.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(r *Router) { r.metrics = metrics }
}

// WithTracer records a span around each dispatch.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) { r.tracer = tracer }
}

// WithLogger replaces the router logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Router) { r.logger = logging.OrNop(logger) }
}

// New builds a Router over the given handlers.
func New(handlers Handlers, opts ...Option) *Router {
	r := &Router{
		handlers: handlers,
		logger:   logging.NewComponentLogger("IntentRouter"),
		tracer:   noop.NewTracerProvider().Tracer("familyconnect/router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rules = r.buildRules()
	return r
}

// Dispatch classifies query and invokes the matching handler. Unparseable or
// unmatched text never errors: worst case it lands in the fallback chat
// branch. Handler errors propagate to the caller unwrapped.
func (r *Router) Dispatch(ctx context.Context, query string) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "router.Dispatch")
	defer span.End()

	for _, rule := range r.rules {
		if !rule.match(query) {
			continue
		}
		r.logger.Debug("Query classified as %s", rule.intent)
		span.SetAttributes(attribute.String("intent", string(rule.intent)))
		if r.metrics != nil {
			r.metrics.CountIntent(ctx, string(rule.intent))
		}
		return rule.run(ctx, query)
	}

	// Unreachable: the fallback rule matches everything.
	return Result{Intent: IntentFallback}, nil
}

// Classify reports the intent a query would dispatch to, without invoking any
// handler.
func (r *Router) Classify(query string) Intent {
	for _, rule := range r.rules {
		if rule.match(query) {
			return rule.intent
		}
	}
	return IntentFallback
}
