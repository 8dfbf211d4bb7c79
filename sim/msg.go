package sim

import "github.com/shopspring/decimal"

// Value is the payload carried by messages. It is a decimal so that
// currency amounts keep exact two-decimal-place semantics. No range is
// enforced on values.
type Value = decimal.Decimal

// A Msg is a piece of information that the scheduler hands to a model.
type Msg interface {
	Meta() MsgMeta
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID   string
	Time VTime
}

// ExternalMsg carries a value that arrives at an input port of a model.
// Src is empty for stimuli injected by a driving harness.
type ExternalMsg struct {
	MsgMeta

	Src   PortID
	Port  Port
	Value Value
}

// Meta returns the meta data of the message.
func (m ExternalMsg) Meta() MsgMeta {
	return m.MsgMeta
}

// InternalMsg signals that the model's own scheduled event fired. It carries
// no payload.
type InternalMsg struct {
	MsgMeta
}

// Meta returns the meta data of the message.
func (m InternalMsg) Meta() MsgMeta {
	return m.MsgMeta
}

// CollectMsg asks a model for its outputs at the time its scheduled event
// fires. It always immediately precedes the InternalMsg of the same event.
type CollectMsg struct {
	MsgMeta
}

// Meta returns the meta data of the message.
func (m CollectMsg) Meta() MsgMeta {
	return m.MsgMeta
}

// Output is a (port, value) pair produced by a model's output function.
type Output struct {
	Port  Port
	Value Value
}

// OutputMsg is an Output that the scheduler has stamped with an ID and the
// time it was produced. Observers receive OutputMsgs through hooks.
type OutputMsg struct {
	MsgMeta

	Port  Port
	Value Value
}

// Meta returns the meta data of the message.
func (m OutputMsg) Meta() MsgMeta {
	return m.MsgMeta
}
