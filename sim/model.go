package sim

import "fmt"

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// Phase tells if a model has a self-scheduled event pending.
type Phase int

// Phases of an atomic model. A model that never sets its phase stays
// PhaseUndefined and is refused by the scheduler.
const (
	PhaseUndefined Phase = iota
	Passive
	Active
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case Passive:
		return "passive"
	case Active:
		return "active"
	default:
		return "undefined"
	}
}

// An AtomicModel is the smallest indivisible element of a simulation. It owns
// its state, reacts to messages on its input ports, and schedules its own
// next event through its time advance.
//
// The scheduler calls the methods in a fixed protocol. Init is called once at
// registration. When the time advance elapses, Output is called and then
// InternalTransition, both observing the same state. When a message arrives
// on an input port, ExternalTransition is called with the time elapsed since
// the model's last transition.
type AtomicModel interface {
	Named

	// InputPorts returns the ports that can receive messages.
	InputPorts() []Port

	// OutputPorts returns the ports that the model emits on.
	OutputPorts() []Port

	// Init establishes the initial state and phase.
	Init()

	// Phase returns the current phase.
	Phase() Phase

	// TimeAdvance returns how long the model waits, absent external messages,
	// before its next internal transition. It must not change the state.
	TimeAdvance() VTime

	// ExternalTransition updates the state when a message arrives. Messages
	// on ports that the model does not own must be ignored.
	ExternalTransition(elapsed VTime, msg ExternalMsg)

	// InternalTransition updates the state when the time advance elapses.
	InternalTransition(msg InternalMsg)

	// Output computes the values to emit when the time advance elapses. It
	// must not change the state.
	Output(msg CollectMsg) []Output
}

// A StateReporter is a model that can describe its state to observers.
type StateReporter interface {
	State() any
}

// ModelBase provides the port bookkeeping and the phase and sigma handling
// that most atomic models need. Models embed a *ModelBase and implement the
// transition functions themselves.
type ModelBase struct {
	name    string
	inputs  []Port
	outputs []Port
	names   map[string]bool

	phase Phase
	sigma VTime
}

// NewModelBase creates a new ModelBase.
func NewModelBase(name string) *ModelBase {
	return &ModelBase{
		name:  name,
		names: make(map[string]bool),
		sigma: Infinity,
	}
}

// Name returns the name of the model.
func (b *ModelBase) Name() string {
	return b.name
}

// AddInputPort creates an input port with the given name.
func (b *ModelBase) AddInputPort(name string) Port {
	return b.addPort(name, DirInput)
}

// AddOutputPort creates an output port with the given name.
func (b *ModelBase) AddOutputPort(name string) Port {
	return b.addPort(name, DirOutput)
}

func (b *ModelBase) addPort(name string, dir Direction) Port {
	if name == "" {
		panic("port name must not be empty")
	}

	if b.names[name] {
		panic(fmt.Sprintf("port %s already exist on %s", name, b.name))
	}

	b.names[name] = true
	p := Port{owner: b.name, name: name, dir: dir}

	if dir == DirInput {
		b.inputs = append(b.inputs, p)
	} else {
		b.outputs = append(b.outputs, p)
	}

	return p
}

// InputPorts returns the input ports in creation order.
func (b *ModelBase) InputPorts() []Port {
	return b.inputs
}

// OutputPorts returns the output ports in creation order.
func (b *ModelBase) OutputPorts() []Port {
	return b.outputs
}

// IsInput checks if the given port is one of the model's input ports.
func (b *ModelBase) IsInput(p Port) bool {
	for _, in := range b.inputs {
		if in == p {
			return true
		}
	}

	return false
}

// HoldIn sets the phase and schedules the next internal event sigma ticks
// after the current transition.
func (b *ModelBase) HoldIn(phase Phase, sigma VTime) {
	b.phase = phase
	b.sigma = sigma
}

// Passivate makes the model wait for external messages only.
func (b *ModelBase) Passivate() {
	b.HoldIn(Passive, Infinity)
}

// Elapse shortens the remaining sigma by the time elapsed since the last
// transition. Models call it when they ignore a message, so that the next
// internal event stays where it was.
func (b *ModelBase) Elapse(elapsed VTime) {
	b.sigma = b.sigma.Sub(elapsed)
}

// Phase returns the current phase.
func (b *ModelBase) Phase() Phase {
	return b.phase
}

// TimeAdvance returns the sigma set by the last HoldIn or Passivate.
func (b *ModelBase) TimeAdvance() VTime {
	return b.sigma
}

// phaseMustBeDefined checks that the phase and the time advance agree: a
// passive model waits forever and an active model has a finite deadline.
func phaseMustBeDefined(m AtomicModel) error {
	phase := m.Phase()
	ta := m.TimeAdvance()

	switch {
	case phase == Passive && ta == Infinity:
		return nil
	case phase == Active && ta != Infinity:
		return nil
	default:
		return fmt.Errorf("%w: %s is %s with time advance %s",
			ErrUndefinedPhase, m.Name(), phase, ta)
	}
}
