// Package config loads simulation scenarios from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/devsim/sim"
)

// ErrInvalidScenario is returned when a scenario is not well-formed.
var ErrInvalidScenario = errors.New("config: invalid scenario")

// Scenario describes the models of a simulation, how they are coupled, and
// the stimuli injected into them.
type Scenario struct {
	// Horizon is the time before which steps are processed. A missing
	// horizon runs the simulation to quiescence.
	Horizon *Time `yaml:"horizon"`

	Models    []ModelSpec    `yaml:"models"`
	Couplings []CouplingSpec `yaml:"couplings"`
	Stimuli   []StimulusSpec `yaml:"stimuli"`
}

// ModelSpec declares a model, or a group of replicas of a model.
type ModelSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// Replicas creates Name[0], Name[1], ... instead of a single model.
	Replicas int `yaml:"replicas"`

	Params yaml.Node `yaml:"params"`
}

// Names returns the names of the models that m declares.
func (m ModelSpec) Names() []string {
	if m.Replicas == 0 {
		return []string{m.Name}
	}

	names := make([]string, 0, m.Replicas)
	for i := 0; i < m.Replicas; i++ {
		names = append(names, sim.BuildNameWithIndex("", m.Name, i))
	}

	return names
}

// CouplingSpec connects an output port to an input port.
type CouplingSpec struct {
	From sim.PortID `yaml:"from"`
	To   sim.PortID `yaml:"to"`
}

// StimulusSpec injects a value into an input port at a given time.
type StimulusSpec struct {
	Time  Time       `yaml:"time"`
	Port  sim.PortID `yaml:"port"`
	Value Number     `yaml:"value"`
}

// Time is a simulated time written as a tick count or "inf".
type Time sim.VTime

// UnmarshalYAML parses the time.
func (t *Time) UnmarshalYAML(node *yaml.Node) error {
	v, err := sim.ParseVTime(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*t = Time(v)

	return nil
}

// Number is a decimal value. It can be written either as a YAML number or a
// string, so that "10.00" keeps its scale.
type Number struct {
	decimal.Decimal
}

// UnmarshalYAML parses the number.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}

	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	n.Decimal = d

	return nil
}

// LoadScenario reads and parses a scenario file. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	return ParseScenario(bytes.NewReader(data))
}

// ParseScenario parses a scenario. Unknown keys are rejected.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var s Scenario

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	return &s, nil
}

// HorizonTime returns the horizon, or Infinity if it is not set.
func (s *Scenario) HorizonTime() sim.VTime {
	if s.Horizon == nil {
		return sim.Infinity
	}

	return sim.VTime(*s.Horizon)
}

// Validate checks the names, kinds, and port references of the scenario.
// It does not check that the ports exist, as that is only known once the
// models are built.
func (s *Scenario) Validate() error {
	if len(s.Models) == 0 {
		return fmt.Errorf("%w: no models", ErrInvalidScenario)
	}

	names := make(map[string]bool)

	for i, m := range s.Models {
		prefix := fmt.Sprintf("models[%d]", i)

		if err := sim.ValidateName(m.Name); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidScenario, prefix, err)
		}

		if !IsKindRegistered(m.Kind) {
			return fmt.Errorf("%w: %s: unknown kind %q; valid: %v",
				ErrInvalidScenario, prefix, m.Kind, Kinds())
		}

		if m.Replicas < 0 {
			return fmt.Errorf("%w: %s: replicas must not be negative, got %d",
				ErrInvalidScenario, prefix, m.Replicas)
		}

		for _, name := range m.Names() {
			if names[name] {
				return fmt.Errorf("%w: %s: duplicated model %q",
					ErrInvalidScenario, prefix, name)
			}

			names[name] = true
		}
	}

	for i, c := range s.Couplings {
		prefix := fmt.Sprintf("couplings[%d]", i)

		if err := portMustReferToModel(c.From, names); err != nil {
			return fmt.Errorf("%w: %s.from: %v", ErrInvalidScenario, prefix, err)
		}

		if err := portMustReferToModel(c.To, names); err != nil {
			return fmt.Errorf("%w: %s.to: %v", ErrInvalidScenario, prefix, err)
		}
	}

	for i, st := range s.Stimuli {
		prefix := fmt.Sprintf("stimuli[%d]", i)

		if sim.VTime(st.Time).IsInfinite() {
			return fmt.Errorf("%w: %s: time must be finite",
				ErrInvalidScenario, prefix)
		}

		if err := portMustReferToModel(st.Port, names); err != nil {
			return fmt.Errorf("%w: %s.port: %v", ErrInvalidScenario, prefix, err)
		}
	}

	return nil
}

func portMustReferToModel(id sim.PortID, names map[string]bool) error {
	model, _, err := id.Split()
	if err != nil {
		return err
	}

	if !names[model] {
		return fmt.Errorf("model %q is not declared", model)
	}

	return nil
}
