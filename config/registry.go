package config

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/devsim/examples/hourclock"
	"github.com/sarchlab/devsim/examples/sawtooth"
	"github.com/sarchlab/devsim/sim"
)

// A ModelFactory creates a model of a kind from its parameters. Params is
// the zero Node if the scenario gives no parameters.
type ModelFactory func(name string, params *yaml.Node) (sim.AtomicModel, error)

var (
	registryLock sync.RWMutex
	registry     = map[string]ModelFactory{
		"sawtooth":  buildSawtooth,
		"hourclock": buildHourClock,
	}
)

// RegisterKind makes a model kind available to scenarios. It panics if the
// kind is already registered.
func RegisterKind(kind string, factory ModelFactory) {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, found := registry[kind]; found {
		panic(fmt.Sprintf("model kind %q already registered", kind))
	}

	registry[kind] = factory
}

// IsKindRegistered returns true if the kind can be used in scenarios.
func IsKindRegistered(kind string) bool {
	registryLock.RLock()
	defer registryLock.RUnlock()

	_, found := registry[kind]

	return found
}

// Kinds returns the registered kinds in alphabetical order.
func Kinds() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	return kinds
}

func factoryOf(kind string) (ModelFactory, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	f, found := registry[kind]

	return f, found
}

// decodeParams decodes the parameters into out, rejecting unknown keys.
func decodeParams(params *yaml.Node, out any) error {
	if params == nil || params.Kind == 0 {
		return nil
	}

	data, err := yaml.Marshal(params)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	return decoder.Decode(out)
}

type sawtoothParams struct {
	WaitForAllInputs bool `yaml:"wait_for_all_inputs"`
}

func buildSawtooth(name string, params *yaml.Node) (sim.AtomicModel, error) {
	p := sawtoothParams{}
	if err := decodeParams(params, &p); err != nil {
		return nil, fmt.Errorf("sawtooth %s: %w", name, err)
	}

	b := sawtooth.MakeBuilder()
	if p.WaitForAllInputs {
		b = b.WithWaitForAllInputs()
	}

	return b.Build(name), nil
}

type hourClockParams struct {
	Period    Time `yaml:"period"`
	StartHour int  `yaml:"start_hour"`
	Count     int  `yaml:"count"`
}

func buildHourClock(name string, params *yaml.Node) (sim.AtomicModel, error) {
	p := hourClockParams{Period: 1}
	if err := decodeParams(params, &p); err != nil {
		return nil, fmt.Errorf("hourclock %s: %w", name, err)
	}

	period := sim.VTime(p.Period)
	if period == 0 || period.IsInfinite() {
		return nil, fmt.Errorf("hourclock %s: period must be finite and "+
			"positive, got %s", name, period)
	}

	if p.StartHour < 0 || p.StartHour >= 24 {
		return nil, fmt.Errorf("hourclock %s: start_hour must be in [0, 24), "+
			"got %d", name, p.StartHour)
	}

	if p.Count < 0 {
		return nil, fmt.Errorf("hourclock %s: count must not be negative, "+
			"got %d", name, p.Count)
	}

	c := hourclock.MakeBuilder().
		WithPeriod(period).
		WithStartHour(p.StartHour).
		WithCount(p.Count).
		Build(name)

	return c, nil
}
