package sim

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	// Domain is the hookable object that is raising this hook.
	Domain Hookable

	// Now is the simulated time at which the hook fires.
	Now VTime

	// Pos identifies where the hook is firing from.
	Pos *HookPos

	// Item carries the primary subject (a message or a time).
	Item any

	// Detail holds optional auxiliary data, see TransitionDetail.
	Detail any
}

// TransitionDetail is attached to the hooks that report a model transition.
type TransitionDetail struct {
	Model   AtomicModel
	Elapsed VTime
	Outputs []OutputMsg
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks must be registered before the
	// simulation starts running.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int
}

var (
	// HookPosBeforeStep triggers before a step is processed. Item is the
	// instant of the step.
	HookPosBeforeStep = &HookPos{Name: "BeforeStep"}

	// HookPosAfterStep triggers after a step is processed.
	HookPosAfterStep = &HookPos{Name: "AfterStep"}

	// HookPosOutput triggers after a model's output function. Item is the
	// CollectMsg and Detail carries the produced outputs.
	HookPosOutput = &HookPos{Name: "Output"}

	// HookPosIntTransition triggers after an internal transition. Item is
	// the InternalMsg.
	HookPosIntTransition = &HookPos{Name: "IntTransition"}

	// HookPosExtTransition triggers after an external transition. Item is
	// the ExternalMsg.
	HookPosExtTransition = &HookPos{Name: "ExtTransition"}

	// HookPosMsgInjected triggers when a harness injects a stimulus. Item is
	// the ExternalMsg.
	HookPosMsgInjected = &HookPos{Name: "MsgInjected"}

	// HookPosMsgDropped triggers when a message cannot be routed to any
	// registered input port. Item is the ExternalMsg.
	HookPosMsgDropped = &HookPos{Name: "MsgDropped"}
)

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.hookList = make([]Hook, 0)

	return h
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook register a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hookList = append(h.hookList, hook)
}

// InvokeHook triggers the register Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
