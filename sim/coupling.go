package sim

import "fmt"

// A Coupling defines the routing of output ports to input ports. The
// scheduler only needs to look up where the values emitted on an output port
// go.
type Coupling interface {
	// Destinations returns the input ports coupled to the given output port,
	// in a stable order.
	Destinations(src PortID) []PortID
}

// StaticCoupling is a Coupling whose edges are fixed before the simulation
// runs.
type StaticCoupling struct {
	edges map[PortID][]PortID
	order []PortID
}

// NewStaticCoupling creates an empty StaticCoupling.
func NewStaticCoupling() *StaticCoupling {
	return &StaticCoupling{
		edges: make(map[PortID][]PortID),
	}
}

// Connect couples an output port to an input port of another model.
func (c *StaticCoupling) Connect(src, dst Port) error {
	if src.Direction() != DirOutput {
		return fmt.Errorf("%w: %s is not an output port",
			ErrInvalidCoupling, src)
	}

	if dst.Direction() != DirInput {
		return fmt.Errorf("%w: %s is not an input port",
			ErrInvalidCoupling, dst)
	}

	if src.Owner() == dst.Owner() {
		return fmt.Errorf("%w: %s cannot be coupled to its own model",
			ErrInvalidCoupling, src)
	}

	srcID := src.ID()
	dstID := dst.ID()

	for _, existing := range c.edges[srcID] {
		if existing == dstID {
			return fmt.Errorf("%w: %s is already coupled to %s",
				ErrInvalidCoupling, srcID, dstID)
		}
	}

	if _, found := c.edges[srcID]; !found {
		c.order = append(c.order, srcID)
	}

	c.edges[srcID] = append(c.edges[srcID], dstID)

	return nil
}

// Destinations returns the input ports coupled to src in the order they were
// connected.
func (c *StaticCoupling) Destinations(src PortID) []PortID {
	return c.edges[src]
}

// Sources returns all the output ports that have at least one destination,
// in the order they were first connected.
func (c *StaticCoupling) Sources() []PortID {
	return c.order
}
