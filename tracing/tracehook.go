package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/devsim/sim"
)

type hookLister interface {
	Hooks() []sim.Hook
}

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain sim.Hookable, tracer Tracer) {
	if lister, ok := domain.(hookLister); ok {
		for _, hook := range lister.Hooks() {
			hook, ok := hook.(*traceHook)
			if ok && hook.t == tracer {
				panic(fmt.Sprintf("domain already has tracer %s",
					reflect.TypeOf(tracer)))
			}
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook is a hook that converts the scheduler hooks into trace records
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeStep:
		h.t.StartStep(ctx.Now)
	case sim.HookPosAfterStep:
		h.t.EndStep(ctx.Now)
	case sim.HookPosOutput:
		h.traceOutput(ctx)
	case sim.HookPosIntTransition:
		h.traceTransition(ctx, TransitionInternal)
	case sim.HookPosExtTransition:
		h.traceMsg(ctx, MsgRouted)
		h.traceTransition(ctx, TransitionExternal)
	case sim.HookPosMsgInjected:
		h.traceMsg(ctx, MsgInjected)
	case sim.HookPosMsgDropped:
		h.traceMsg(ctx, MsgDropped)
	}
}

func (h *traceHook) traceOutput(ctx sim.HookCtx) {
	detail := ctx.Detail.(sim.TransitionDetail)

	for _, o := range detail.Outputs {
		h.t.TraceMsg(MsgRecord{
			ID:     o.ID,
			Time:   o.Time,
			Src:    o.Port.ID(),
			Value:  o.Value,
			Status: MsgEmitted,
		})
	}

	h.t.TraceTransition(TransitionRecord{
		Time:        ctx.Now,
		Model:       detail.Model.Name(),
		Kind:        TransitionOutput,
		Phase:       detail.Model.Phase(),
		TimeAdvance: detail.Model.TimeAdvance(),
		NumOutputs:  len(detail.Outputs),
	})
}

func (h *traceHook) traceTransition(ctx sim.HookCtx, kind TransitionKind) {
	detail := ctx.Detail.(sim.TransitionDetail)

	h.t.TraceTransition(TransitionRecord{
		Time:        ctx.Now,
		Model:       detail.Model.Name(),
		Kind:        kind,
		Elapsed:     detail.Elapsed,
		Phase:       detail.Model.Phase(),
		TimeAdvance: detail.Model.TimeAdvance(),
	})
}

func (h *traceHook) traceMsg(ctx sim.HookCtx, status MsgStatus) {
	msg := ctx.Item.(sim.ExternalMsg)

	dst := msg.Port.ID()
	if status == MsgDropped {
		dst, _ = ctx.Detail.(sim.PortID)
	}

	h.t.TraceMsg(MsgRecord{
		ID:     msg.ID,
		Time:   msg.Time,
		Src:    msg.Src,
		Dst:    dst,
		Value:  msg.Value,
		Status: status,
	})
}
