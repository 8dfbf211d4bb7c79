package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sarchlab/devsim/sim"
)

// InstrumentationName is the name of the OpenTelemetry tracer used when no
// tracer is given.
const InstrumentationName = "github.com/sarchlab/devsim/tracing"

// OTelTracer exports the simulation as OpenTelemetry spans. Each step is a
// span. Each transition is a child span of its step, and each message is an
// event on the step span.
type OTelTracer struct {
	mu     sync.Mutex
	ctx    context.Context
	tracer trace.Tracer

	stepCtx  context.Context
	stepSpan trace.Span
}

// NewOTelTracer creates a new OTelTracer. The spans are started under ctx. A
// nil tracer uses the globally registered tracer provider.
func NewOTelTracer(ctx context.Context, tracer trace.Tracer) *OTelTracer {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}

	return &OTelTracer{
		ctx:    ctx,
		tracer: tracer,
	}
}

// StartStep starts the span of a step.
func (t *OTelTracer) StartStep(now sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stepCtx, t.stepSpan = t.tracer.Start(t.ctx, "step",
		trace.WithAttributes(attribute.String("devsim.time", now.String())))
}

// EndStep ends the span of a step.
func (t *OTelTracer) EndStep(_ sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stepSpan == nil {
		return
	}

	t.stepSpan.End()
	t.stepSpan = nil
	t.stepCtx = nil
}

// TraceMsg adds an event to the current step. Messages injected between
// steps get a span of their own.
func (t *OTelTracer) TraceMsg(msg MsgRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	attrs := []attribute.KeyValue{
		attribute.String("devsim.msg.id", msg.ID),
		attribute.String("devsim.time", msg.Time.String()),
		attribute.String("devsim.msg.src", string(msg.Src)),
		attribute.String("devsim.msg.dst", string(msg.Dst)),
		attribute.String("devsim.msg.value", msg.Value.String()),
	}

	span := t.stepSpan
	if span == nil {
		_, span = t.tracer.Start(t.ctx, "msg")
		defer span.End()
	}

	span.AddEvent("msg."+string(msg.Status), trace.WithAttributes(attrs...))

	if msg.Status == MsgDropped {
		span.SetStatus(codes.Error, "message dropped")
	}
}

// TraceTransition records a transition as a child span of the current step.
func (t *OTelTracer) TraceTransition(tr TransitionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent := t.stepCtx
	if parent == nil {
		parent = t.ctx
	}

	_, span := t.tracer.Start(parent, "transition."+string(tr.Kind),
		trace.WithAttributes(
			attribute.String("devsim.model", tr.Model),
			attribute.String("devsim.time", tr.Time.String()),
			attribute.String("devsim.elapsed", tr.Elapsed.String()),
			attribute.String("devsim.phase", tr.Phase.String()),
			attribute.String("devsim.time_advance", tr.TimeAdvance.String()),
			attribute.Int("devsim.num_outputs", tr.NumOutputs),
		))
	span.End()
}
