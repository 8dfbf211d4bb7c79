// Package tracing turns the hooks of a scheduler into trace records and
// hands them to tracers.
package tracing

import (
	"github.com/sarchlab/devsim/sim"
)

// MsgStatus tells what happened to a traced message.
type MsgStatus string

// The statuses of a traced message.
const (
	MsgEmitted  MsgStatus = "emitted"
	MsgRouted   MsgStatus = "routed"
	MsgInjected MsgStatus = "injected"
	MsgDropped  MsgStatus = "dropped"
)

// TransitionKind tells which function of a model ran.
type TransitionKind string

// The kinds of traced transitions.
const (
	TransitionOutput   TransitionKind = "output"
	TransitionInternal TransitionKind = "internal"
	TransitionExternal TransitionKind = "external"
)

// MsgRecord describes a value that travels between ports.
type MsgRecord struct {
	ID     string
	Time   sim.VTime
	Src    sim.PortID
	Dst    sim.PortID
	Value  sim.Value
	Status MsgStatus
}

// TransitionRecord describes a function call on a model.
type TransitionRecord struct {
	Time        sim.VTime
	Model       string
	Kind        TransitionKind
	Elapsed     sim.VTime
	Phase       sim.Phase
	TimeAdvance sim.VTime
	NumOutputs  int
}

// Tracer can collect trace records from a scheduler.
type Tracer interface {
	StartStep(now sim.VTime)
	EndStep(now sim.VTime)
	TraceMsg(msg MsgRecord)
	TraceTransition(tr TransitionRecord)
}
