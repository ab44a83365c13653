package sample

import (
	"sync"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/logging"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
)

// BackpressurePolicy controls what happens when a subscriber's buffer is full.
type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyKick
)

// Subscriber receives published Sample snapshots on Out until Closed fires.
type Subscriber struct {
	Out       chan Sample
	Closed    chan struct{}
	closeOnce sync.Once
}

// Close signals the subscriber is closed (idempotent).
func (c *Subscriber) Close() {
	c.closeOnce.Do(func() {
		close(c.Closed)
	})
}

// Hub fans a Sample snapshot out to every subscriber whenever the aggregator
// emits a row. It generalizes the donor's CAN-frame-to-TCP-client broadcast
// hub to in-process Sample subscribers (status displays, secondary sinks),
// keeping the same non-blocking-send-plus-policy shape.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	OutBufSize  int
	Policy      BackpressurePolicy
}

// NewHub creates a Hub with default settings (buffer 64, drop policy).
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{}), OutBufSize: 64, Policy: PolicyDrop}
}

// Subscribe registers and returns a new Subscriber.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{Out: make(chan Sample, h.bufSize()), Closed: make(chan struct{})}
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	cur := len(h.subscribers)
	h.mu.Unlock()
	metrics.SetHubSubscribers(cur)
	return s
}

func (h *Hub) bufSize() int {
	if h.OutBufSize <= 0 {
		return 64
	}
	return h.OutBufSize
}

// Unsubscribe removes a subscriber and closes it (idempotent, safe to call
// multiple times).
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	_, existed := h.subscribers[s]
	if existed {
		delete(h.subscribers, s)
	}
	cur := len(h.subscribers)
	h.mu.Unlock()
	s.Close()
	metrics.SetHubSubscribers(cur)
}

// Publish sends snap to every subscriber, honoring the backpressure policy.
// It never blocks the caller (the Sample Aggregator's emit path) beyond a
// non-blocking channel send per subscriber.
func (h *Hub) Publish(snap Sample) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.Out <- snap:
		default:
			if h.Policy == PolicyKick {
				metrics.IncHubKick()
				s.Close()
				logging.L().Info("hub_subscriber_kicked")
			} else {
				metrics.IncHubDrop()
			}
		}
	}
}
