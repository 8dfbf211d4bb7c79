package sim

import (
	"fmt"
	"sync"
)

// DefaultMaxStepsPerInstant bounds how many steps may happen at the same
// simulated instant before the scheduler reports a zero-time loop.
const DefaultMaxStepsPerInstant = 10000

type modelRecord struct {
	model    AtomicModel
	lastTime VTime
	nextTime VTime
}

type inputRef struct {
	record *modelRecord
	port   Port
}

// A Scheduler drives a set of atomic models along a single simulated
// timeline. It processes one instant at a time: the models whose time
// advance elapses produce their outputs, which are routed through the
// coupling to other models, and then make their internal transitions.
type Scheduler struct {
	*HookableBase

	stateLock sync.RWMutex
	now       VTime
	records   []*modelRecord
	byName    map[string]*modelRecord
	inputs    map[PortID]inputRef

	coupling Coupling
	stimuli  *stimulusQueue
	idGen    IDGenerator

	maxStepsPerInstant int
	stepsAtInstant     int
	started            bool

	stepLock sync.Mutex

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

var _ Engine = (*Scheduler)(nil)

// NewScheduler creates a Scheduler that routes messages through the given
// coupling. A nil coupling routes nothing.
func NewScheduler(coupling Coupling) *Scheduler {
	if coupling == nil {
		coupling = NewStaticCoupling()
	}

	return &Scheduler{
		HookableBase:       NewHookableBase(),
		byName:             make(map[string]*modelRecord),
		inputs:             make(map[PortID]inputRef),
		coupling:           coupling,
		stimuli:            newStimulusQueue(),
		idGen:              NewSequentialIDGenerator(),
		maxStepsPerInstant: DefaultMaxStepsPerInstant,
	}
}

// WithIDGenerator replaces the generator used to stamp message IDs.
func (s *Scheduler) WithIDGenerator(g IDGenerator) *Scheduler {
	s.idGen = g
	return s
}

// WithMaxStepsPerInstant sets the zero-time loop guard. Zero or a negative
// number disables the guard.
func (s *Scheduler) WithMaxStepsPerInstant(n int) *Scheduler {
	s.maxStepsPerInstant = n
	return s
}

// Coupling returns the coupling used for routing.
func (s *Scheduler) Coupling() Coupling {
	return s.coupling
}

// Register initializes a model and adds it to the simulation. The model's
// first event is scheduled relative to the current time. Models that share
// the same next-event time are processed in registration order.
func (s *Scheduler) Register(m AtomicModel) error {
	if m == nil {
		return ErrNilModel
	}

	name := m.Name()
	if err := ValidateName(name); err != nil {
		return err
	}

	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	if _, found := s.byName[name]; found {
		return fmt.Errorf("%w: %s", ErrDuplicatedModel, name)
	}

	for _, p := range m.InputPorts() {
		if p.Owner() != name || p.Direction() != DirInput {
			return fmt.Errorf("%w: %s is not an input of %s",
				ErrUnknownPort, p, name)
		}
	}

	m.Init()

	if err := phaseMustBeDefined(m); err != nil {
		return err
	}

	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	r := &modelRecord{
		model:    m,
		lastTime: s.now,
		nextTime: s.now.Add(m.TimeAdvance()),
	}

	s.records = append(s.records, r)
	s.byName[name] = r

	for _, p := range m.InputPorts() {
		s.inputs[p.ID()] = inputRef{record: r, port: p}
	}

	return nil
}

// Inject delivers a value from outside the simulated network to an input
// port at time t. A stimulus at the current time is delivered immediately;
// a later one is delivered by the step that reaches its time.
func (s *Scheduler) Inject(dst PortID, t VTime, v Value) error {
	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	now := s.readNow()
	if t < now || t == Infinity {
		return fmt.Errorf("%w: %s at %s, now %s", ErrPastStimulus, dst, t, now)
	}

	msg := ExternalMsg{
		MsgMeta: s.meta(t),
		Value:   v,
	}

	ref, found := s.inputs[dst]
	if !found {
		s.drop(msg, dst)
		return fmt.Errorf("%w: %s", ErrUnknownPort, dst)
	}

	msg.Port = ref.port

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    now,
		Pos:    HookPosMsgInjected,
		Item:   msg,
	})

	if t == now {
		s.deliver(ref.record, msg)
		return nil
	}

	s.stimuli.Push(msg)

	return nil
}

// Step processes the next simulated instant. It returns false, without an
// error, if the simulation has reached quiescence.
func (s *Scheduler) Step() (bool, error) {
	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	return s.step()
}

// Run processes steps until the simulation reaches quiescence.
func (s *Scheduler) Run() error {
	return s.RunUntil(Infinity)
}

// RunUntil processes every step that happens strictly before limit.
func (s *Scheduler) RunUntil(limit VTime) error {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	for {
		s.pauseLock.Lock()
		s.stepLock.Lock()

		if s.nextInstant() >= limit {
			s.stepLock.Unlock()
			s.pauseLock.Unlock()

			return nil
		}

		_, err := s.step()

		s.stepLock.Unlock()
		s.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}
}

func (s *Scheduler) step() (bool, error) {
	t := s.nextInstant()
	if t == Infinity {
		return false, nil
	}

	if err := s.advanceClock(t); err != nil {
		return false, err
	}

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    t,
		Pos:    HookPosBeforeStep,
		Item:   t,
	})

	for _, r := range s.imminentModels(t) {
		// An earlier model in this step may have re-armed this one.
		if r.nextTime != t {
			continue
		}

		s.fire(r, t)
	}

	for s.stimuli.NextTime() == t {
		msg := s.stimuli.Pop()
		ref := s.inputs[msg.Port.ID()]
		s.deliver(ref.record, msg)
	}

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    t,
		Pos:    HookPosAfterStep,
		Item:   t,
	})

	return true, nil
}

func (s *Scheduler) nextInstant() VTime {
	t := s.stimuli.NextTime()
	for _, r := range s.records {
		t = MinVTime(t, r.nextTime)
	}

	return t
}

func (s *Scheduler) advanceClock(t VTime) error {
	now := s.readNow()
	if t < now {
		panic(fmt.Sprintf("sim: cannot run step in the past, %s < %s", t, now))
	}

	if s.started && t == now {
		s.stepsAtInstant++
	} else {
		s.stepsAtInstant = 1
	}

	if s.maxStepsPerInstant > 0 && s.stepsAtInstant > s.maxStepsPerInstant {
		return fmt.Errorf("%w: %d steps at %s",
			ErrZeroTimeLoop, s.stepsAtInstant-1, t)
	}

	s.started = true
	s.writeNow(t)

	return nil
}

func (s *Scheduler) imminentModels(t VTime) []*modelRecord {
	imminent := make([]*modelRecord, 0)

	for _, r := range s.records {
		if r.nextTime == t {
			imminent = append(imminent, r)
		}
	}

	return imminent
}

func (s *Scheduler) fire(r *modelRecord, t VTime) {
	collect := CollectMsg{MsgMeta: s.meta(t)}
	outputs := r.model.Output(collect)

	outMsgs := make([]OutputMsg, 0, len(outputs))
	for _, o := range outputs {
		outMsgs = append(outMsgs, OutputMsg{
			MsgMeta: s.meta(t),
			Port:    o.Port,
			Value:   o.Value,
		})
	}

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    t,
		Pos:    HookPosOutput,
		Item:   collect,
		Detail: TransitionDetail{Model: r.model, Outputs: outMsgs},
	})

	for _, o := range outMsgs {
		s.route(r, o)
	}

	elapsed := t.Sub(r.lastTime)
	internal := InternalMsg{MsgMeta: s.meta(t)}
	r.model.InternalTransition(internal)
	s.updateRecord(r, t)

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    t,
		Pos:    HookPosIntTransition,
		Item:   internal,
		Detail: TransitionDetail{Model: r.model, Elapsed: elapsed},
	})
}

func (s *Scheduler) route(r *modelRecord, o OutputMsg) {
	src := o.Port.ID()

	if o.Port.Owner() != r.model.Name() || o.Port.Direction() != DirOutput {
		s.drop(ExternalMsg{MsgMeta: o.MsgMeta, Src: src, Value: o.Value}, src)
		return
	}

	for _, dst := range s.coupling.Destinations(src) {
		msg := ExternalMsg{
			MsgMeta: s.meta(o.Time),
			Src:     src,
			Value:   o.Value,
		}

		ref, found := s.inputs[dst]
		if !found {
			s.drop(msg, dst)
			continue
		}

		msg.Port = ref.port
		s.deliver(ref.record, msg)
	}
}

func (s *Scheduler) deliver(r *modelRecord, msg ExternalMsg) {
	now := s.readNow()
	elapsed := now.Sub(r.lastTime)

	r.model.ExternalTransition(elapsed, msg)
	s.updateRecord(r, now)

	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    now,
		Pos:    HookPosExtTransition,
		Item:   msg,
		Detail: TransitionDetail{Model: r.model, Elapsed: elapsed},
	})
}

func (s *Scheduler) drop(msg ExternalMsg, dst PortID) {
	s.InvokeHook(HookCtx{
		Domain: s,
		Now:    s.readNow(),
		Pos:    HookPosMsgDropped,
		Item:   msg,
		Detail: dst,
	})
}

func (s *Scheduler) updateRecord(r *modelRecord, t VTime) {
	s.stateLock.Lock()
	r.lastTime = t
	r.nextTime = t.Add(r.model.TimeAdvance())
	s.stateLock.Unlock()
}

func (s *Scheduler) meta(t VTime) MsgMeta {
	return MsgMeta{ID: s.idGen.Generate(), Time: t}
}

func (s *Scheduler) readNow() VTime {
	s.stateLock.RLock()
	t := s.now
	s.stateLock.RUnlock()

	return t
}

func (s *Scheduler) writeNow(t VTime) {
	s.stateLock.Lock()
	s.now = t
	s.stateLock.Unlock()
}

// CurrentTime returns the instant of the most recent step.
func (s *Scheduler) CurrentTime() VTime {
	return s.readNow()
}

// NextEventTime returns the time of the next internal event of a model.
func (s *Scheduler) NextEventTime(name string) (VTime, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	r, found := s.byName[name]
	if !found {
		return Infinity, false
	}

	return r.nextTime, true
}

// LastEventTime returns the time of the last transition of a model.
func (s *Scheduler) LastEventTime(name string) (VTime, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	r, found := s.byName[name]
	if !found {
		return Zero, false
	}

	return r.lastTime, true
}

// Model returns the registered model with the given name.
func (s *Scheduler) Model(name string) (AtomicModel, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	r, found := s.byName[name]
	if !found {
		return nil, false
	}

	return r.model, true
}

// Observe calls f with the named model while no step is in progress, so f
// may read the model state while the simulation runs in another goroutine.
// It returns false if the model is not registered. f must not call back into
// the scheduler.
func (s *Scheduler) Observe(name string, f func(m AtomicModel)) bool {
	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	m, found := s.Model(name)
	if !found {
		return false
	}

	f(m)

	return true
}

// Models returns the registered models in registration order.
func (s *Scheduler) Models() []AtomicModel {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	models := make([]AtomicModel, 0, len(s.records))
	for _, r := range s.records {
		models = append(models, r.model)
	}

	return models
}

// InputPort resolves a PortID to a registered input port.
func (s *Scheduler) InputPort(id PortID) (Port, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()

	ref, found := s.inputs[id]

	return ref.port, found
}

// OutputPort resolves a PortID to an output port of a registered model.
func (s *Scheduler) OutputPort(id PortID) (Port, bool) {
	modelName, portName, err := id.Split()
	if err != nil {
		return Port{}, false
	}

	m, found := s.Model(modelName)
	if !found {
		return Port{}, false
	}

	for _, p := range m.OutputPorts() {
		if p.Name() == portName {
			return p, true
		}
	}

	return Port{}, false
}

// PendingStimuli returns the number of injected messages not yet delivered.
func (s *Scheduler) PendingStimuli() int {
	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	return s.stimuli.Len()
}

// Pause prevents the Scheduler from running more steps in Run and RunUntil.
func (s *Scheduler) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue allows the Scheduler to run more steps.
func (s *Scheduler) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// RegisterSimulationEndHandler registers a handler that is called by
// Finished.
func (s *Scheduler) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	s.simulationEndHandlers = append(s.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (s *Scheduler) Finished() {
	now := s.readNow()
	for _, h := range s.simulationEndHandlers {
		h.Handle(now)
	}
}
