package sim

import "errors"

// Errors reported by the scheduler and the coupling. Callers should compare
// with errors.Is, as the returned errors wrap these with more context.
var (
	ErrNilModel        = errors.New("sim: model is nil")
	ErrInvalidName     = errors.New("sim: invalid name")
	ErrDuplicatedModel = errors.New("sim: model already registered")
	ErrUndefinedPhase  = errors.New("sim: model has no valid time advance")
	ErrInvalidPortID   = errors.New("sim: invalid port id")
	ErrUnknownPort     = errors.New("sim: unknown port")
	ErrInvalidCoupling = errors.New("sim: invalid coupling")
	ErrPastStimulus    = errors.New("sim: stimulus scheduled in the past")
	ErrZeroTimeLoop    = errors.New("sim: too many steps at the same instant")
)
