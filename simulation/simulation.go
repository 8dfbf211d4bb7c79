// Package simulation assembles a scheduler with the services that record,
// trace, and monitor a run.
package simulation

import (
	"fmt"
	"sync"

	"github.com/sarchlab/devsim/datarecording"
	"github.com/sarchlab/devsim/monitoring"
	"github.com/sarchlab/devsim/sim"
	"github.com/sarchlab/devsim/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id string

	scheduler *sim.Scheduler
	coupling  *sim.StaticCoupling

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	progress     *progressHook
	dbTracer     *tracing.DBTracer
	stepCounter  *tracing.StepCountTracer

	terminated bool
}

// ID returns the ID of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// GetScheduler returns the scheduler used in the simulation.
func (s *Simulation) GetScheduler() *sim.Scheduler {
	return s.scheduler
}

// GetCoupling returns the coupling that routes the outputs of the models.
func (s *Simulation) GetCoupling() *sim.StaticCoupling {
	return s.coupling
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetDBTracer returns the tracer that writes into the data recorder. It is
// nil if recording is disabled.
func (s *Simulation) GetDBTracer() *tracing.DBTracer {
	return s.dbTracer
}

// GetStepCounter returns the tracer that counts steps and transitions.
func (s *Simulation) GetStepCounter() *tracing.StepCountTracer {
	return s.stepCounter
}

// RegisterModel registers a model with the scheduler.
func (s *Simulation) RegisterModel(m sim.AtomicModel) error {
	return s.scheduler.Register(m)
}

// GetModelByName returns the model with the given name.
func (s *Simulation) GetModelByName(name string) sim.AtomicModel {
	m, found := s.scheduler.Model(name)
	if !found {
		panic(fmt.Sprintf("model %s is not registered", name))
	}

	return m
}

// Connect couples an output port to an input port.
func (s *Simulation) Connect(src, dst sim.Port) error {
	return s.coupling.Connect(src, dst)
}

// Run processes the steps before horizon, or runs to quiescence if the
// horizon is Infinity. The simulation end handlers are invoked afterwards.
func (s *Simulation) Run(horizon sim.VTime) error {
	if s.monitor != nil && !horizon.IsInfinite() {
		bar := s.monitor.CreateProgressBar("Simulated Time", uint64(horizon))
		s.progress.setBar(bar)

		defer func() {
			s.progress.setBar(nil)
			s.monitor.CompleteProgressBar(bar)
		}()
	}

	err := s.scheduler.RunUntil(horizon)
	if err != nil {
		return err
	}

	s.scheduler.Finished()

	return nil
}

// Terminate flushes the records and releases the services of the
// simulation. It is safe to call more than once.
func (s *Simulation) Terminate() {
	if s.terminated {
		return
	}

	s.terminated = true

	if s.dataRecorder != nil {
		s.dbTracer.Terminate()
		s.dataRecorder.Close()
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}

// progressHook reports the simulated time to a progress bar.
type progressHook struct {
	lock sync.Mutex
	bar  *monitoring.ProgressBar
}

func (h *progressHook) setBar(bar *monitoring.ProgressBar) {
	h.lock.Lock()
	h.bar = bar
	h.lock.Unlock()
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterStep {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.bar != nil {
		h.bar.SetFinished(uint64(ctx.Now))
	}
}
