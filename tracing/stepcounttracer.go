package tracing

import (
	"sync"

	"github.com/sarchlab/devsim/sim"
)

// TransitionCount is the number of transitions of each kind of a model.
type TransitionCount struct {
	Output   uint64 `json:"output"`
	Internal uint64 `json:"internal"`
	External uint64 `json:"external"`
}

// StepCountTracer counts the steps of the scheduler and the transitions of
// each model.
type StepCountTracer struct {
	lock        sync.Mutex
	numSteps    uint64
	numDropped  uint64
	modelNames  []string
	transitions map[string]*TransitionCount
}

// NewStepCountTracer creates a new StepCountTracer
func NewStepCountTracer() *StepCountTracer {
	return &StepCountTracer{
		transitions: make(map[string]*TransitionCount),
	}
}

// StartStep does nothing.
func (t *StepCountTracer) StartStep(_ sim.VTime) {
	// Do nothing.
}

// EndStep counts the step.
func (t *StepCountTracer) EndStep(_ sim.VTime) {
	t.lock.Lock()
	t.numSteps++
	t.lock.Unlock()
}

// TraceMsg counts the dropped messages.
func (t *StepCountTracer) TraceMsg(msg MsgRecord) {
	if msg.Status != MsgDropped {
		return
	}

	t.lock.Lock()
	t.numDropped++
	t.lock.Unlock()
}

// TraceTransition counts the transition.
func (t *StepCountTracer) TraceTransition(tr TransitionRecord) {
	t.lock.Lock()
	defer t.lock.Unlock()

	count, ok := t.transitions[tr.Model]
	if !ok {
		count = &TransitionCount{}
		t.transitions[tr.Model] = count
		t.modelNames = append(t.modelNames, tr.Model)
	}

	switch tr.Kind {
	case TransitionOutput:
		count.Output++
	case TransitionInternal:
		count.Internal++
	case TransitionExternal:
		count.External++
	}
}

// NumSteps returns the number of steps processed.
func (t *StepCountTracer) NumSteps() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.numSteps
}

// NumDropped returns the number of messages dropped.
func (t *StepCountTracer) NumDropped() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.numDropped
}

// GetModelNames returns the names of the models that made a transition, in
// the order of their first transition.
func (t *StepCountTracer) GetModelNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.modelNames...)
}

// GetTransitionCount returns the transition counts of a model.
func (t *StepCountTracer) GetTransitionCount(model string) TransitionCount {
	t.lock.Lock()
	defer t.lock.Unlock()

	count, ok := t.transitions[model]
	if !ok {
		return TransitionCount{}
	}

	return *count
}
