package sim

import (
	"fmt"
	"strings"
)

// Direction tells if a port receives or emits messages.
type Direction int

// The directions of a port.
const (
	DirInput Direction = iota
	DirOutput
)

// String returns "in" or "out".
func (d Direction) String() string {
	switch d {
	case DirInput:
		return "in"
	case DirOutput:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// A PortID is the printable identity of a port, "<Model>.<port>". Couplings
// and scenario files refer to ports by PortID.
type PortID string

// MakePortID builds the PortID of the port with the given name on the given
// model.
func MakePortID(model, port string) PortID {
	return PortID(model + "." + port)
}

// Split separates the model name and the port name. Model names may be
// hierarchical, so the split happens at the last dot.
func (id PortID) Split() (model, port string, err error) {
	s := string(id)

	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPortID, s)
	}

	return s[:i], s[i+1:], nil
}

// A Port is a named endpoint that belongs to exactly one model. Ports are
// values; two Ports are equal if they have the same owner, name, and
// direction. Models compare an incoming message's port against their own
// ports to find out which input fired.
type Port struct {
	owner string
	name  string
	dir   Direction
}

// Owner returns the name of the model that owns the port.
func (p Port) Owner() string {
	return p.owner
}

// Name returns the name of the port.
func (p Port) Name() string {
	return p.name
}

// Direction returns if the port is an input or an output.
func (p Port) Direction() Direction {
	return p.dir
}

// ID returns the PortID of the port.
func (p Port) ID() PortID {
	return MakePortID(p.owner, p.name)
}

// IsZero returns true for the zero Port, which belongs to no model.
func (p Port) IsZero() bool {
	return p == Port{}
}

// String returns the PortID as a string.
func (p Port) String() string {
	return string(p.ID())
}
