package sim

import "container/heap"

// A stimulus is an external message waiting for the clock to reach its time.
type stimulus struct {
	msg ExternalMsg
	seq uint64
}

// stimulusQueue orders pending stimuli by time, then by injection order.
type stimulusQueue struct {
	items   stimulusHeap
	nextSeq uint64
}

func newStimulusQueue() *stimulusQueue {
	q := &stimulusQueue{}
	q.items = make([]*stimulus, 0)
	heap.Init(&q.items)

	return q
}

// Push adds a message to the queue.
func (q *stimulusQueue) Push(msg ExternalMsg) {
	heap.Push(&q.items, &stimulus{msg: msg, seq: q.nextSeq})
	q.nextSeq++
}

// Pop removes and returns the earliest message.
func (q *stimulusQueue) Pop() ExternalMsg {
	return heap.Pop(&q.items).(*stimulus).msg
}

// Len returns the number of messages in the queue.
func (q *stimulusQueue) Len() int {
	return q.items.Len()
}

// NextTime returns the time of the earliest message, or Infinity if the queue
// is empty.
func (q *stimulusQueue) NextTime() VTime {
	if q.items.Len() == 0 {
		return Infinity
	}

	return q.items[0].msg.Time
}

type stimulusHeap []*stimulus

func (h stimulusHeap) Len() int {
	return len(h)
}

func (h stimulusHeap) Less(i, j int) bool {
	if h[i].msg.Time != h[j].msg.Time {
		return h[i].msg.Time < h[j].msg.Time
	}

	return h[i].seq < h[j].seq
}

func (h stimulusHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *stimulusHeap) Push(x any) {
	*h = append(*h, x.(*stimulus))
}

func (h *stimulusHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]

	return item
}
