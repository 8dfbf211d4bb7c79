package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	Hookable
	TimeTeller

	// Step processes the next simulated instant. It returns false when no
	// model has a finite next event and no stimulus is pending.
	Step() (bool, error)

	// Run processes steps until the simulation reaches quiescence.
	Run() error

	// RunUntil processes the steps that happen strictly before limit.
	RunUntil(limit VTime) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// Models returns the registered models in registration order.
	Models() []AtomicModel

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
