package tracing

import (
	"sync"

	"github.com/sarchlab/devsim/datarecording"
	"github.com/sarchlab/devsim/sim"
)

const (
	msgTableName        = "trace_msgs"
	transitionTableName = "trace_transitions"
)

type msgTableEntry struct {
	ID     string
	Time   uint64
	Src    string
	Dst    string
	Value  string
	Status string
}

type transitionTableEntry struct {
	Time        uint64
	Model       string
	Kind        string
	Elapsed     uint64
	Phase       string
	TimeAdvance string
	NumOutputs  int
}

// DBTracer is a tracer that can store messages and transitions into a
// database through a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime sim.VTime

	numMsgs, numTransitions uint64
}

// NewDBTracer creates a new DBTracer and the tables it writes.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{
		backend: backend,
		endTime: sim.Infinity,
	}

	backend.CreateTable(msgTableName, msgTableEntry{})
	backend.CreateTable(transitionTableName, transitionTableEntry{})

	return t
}

// SetTimeRange limits the records to those with start <= time < end.
func (t *DBTracer) SetTimeRange(start, end sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = start
	t.endTime = end
}

func (t *DBTracer) inRange(now sim.VTime) bool {
	return now >= t.startTime && now < t.endTime
}

// StartStep does nothing.
func (t *DBTracer) StartStep(_ sim.VTime) {
	// Do nothing.
}

// EndStep does nothing.
func (t *DBTracer) EndStep(_ sim.VTime) {
	// Do nothing.
}

// TraceMsg records a message.
func (t *DBTracer) TraceMsg(msg MsgRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inRange(msg.Time) {
		return
	}

	t.backend.InsertData(msgTableName, msgTableEntry{
		ID:     msg.ID,
		Time:   uint64(msg.Time),
		Src:    string(msg.Src),
		Dst:    string(msg.Dst),
		Value:  msg.Value.String(),
		Status: string(msg.Status),
	})
	t.numMsgs++
}

// TraceTransition records a transition.
func (t *DBTracer) TraceTransition(tr TransitionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inRange(tr.Time) {
		return
	}

	t.backend.InsertData(transitionTableName, transitionTableEntry{
		Time:        uint64(tr.Time),
		Model:       tr.Model,
		Kind:        string(tr.Kind),
		Elapsed:     uint64(tr.Elapsed),
		Phase:       tr.Phase.String(),
		TimeAdvance: tr.TimeAdvance.String(),
		NumOutputs:  tr.NumOutputs,
	})
	t.numTransitions++
}

// NumRecords returns how many messages and transitions have been recorded.
func (t *DBTracer) NumRecords() (msgs, transitions uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.numMsgs, t.numTransitions
}

// Terminate flushes the records into the database.
func (t *DBTracer) Terminate() {
	t.backend.Flush()
}
