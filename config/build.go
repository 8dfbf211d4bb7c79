package config

import (
	"fmt"

	"github.com/sarchlab/devsim/sim"
)

// A Target is what a scenario is built into.
type Target interface {
	RegisterModel(m sim.AtomicModel) error
	Connect(src, dst sim.Port) error
	GetScheduler() *sim.Scheduler
}

// Build validates the scenario, creates and registers its models, couples
// them, and injects the stimuli. The models are returned in registration
// order.
func Build(s *Scenario, target Target) ([]sim.AtomicModel, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	models, err := registerModels(s, target)
	if err != nil {
		return nil, err
	}

	scheduler := target.GetScheduler()

	for i, c := range s.Couplings {
		src, found := scheduler.OutputPort(c.From)
		if !found {
			return nil, fmt.Errorf("couplings[%d]: %w: %s is not an output",
				i, sim.ErrUnknownPort, c.From)
		}

		dst, found := scheduler.InputPort(c.To)
		if !found {
			return nil, fmt.Errorf("couplings[%d]: %w: %s is not an input",
				i, sim.ErrUnknownPort, c.To)
		}

		if err := target.Connect(src, dst); err != nil {
			return nil, fmt.Errorf("couplings[%d]: %w", i, err)
		}
	}

	for i, st := range s.Stimuli {
		err := scheduler.Inject(st.Port, sim.VTime(st.Time), st.Value.Decimal)
		if err != nil {
			return nil, fmt.Errorf("stimuli[%d]: %w", i, err)
		}
	}

	return models, nil
}

func registerModels(s *Scenario, target Target) ([]sim.AtomicModel, error) {
	var models []sim.AtomicModel

	for i, ms := range s.Models {
		factory, _ := factoryOf(ms.Kind)

		for _, name := range ms.Names() {
			m, err := factory(name, &ms.Params)
			if err != nil {
				return nil, fmt.Errorf("models[%d]: %w", i, err)
			}

			if err := target.RegisterModel(m); err != nil {
				return nil, fmt.Errorf("models[%d]: %w", i, err)
			}

			models = append(models, m)
		}
	}

	return models, nil
}
