// Package events implements a typed, multi-producer/multi-consumer event
// bus. It replaces the dynamic-subscription event-emitter pattern common
// in JS-flavored agent frameworks with a closed set of tagged event kinds
// (see kinds.go) delivered over buffered channels, so hot execution paths
// never block on a slow subscriber.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// RetryInfo is the payload for a KindRetry event.
type RetryInfo struct {
	Attempt     int
	MaxAttempts int
}

// Event is the single tagged value flowing through the bus. Only the
// fields relevant to Kind are populated; the rest are zero.
type Event struct {
	Seq     uint64
	Time    time.Time
	Kind    Kind
	RunID   string
	Message string

	TaskID   string
	ToolName string
	Args     map[string]any

	Tokens *coretypes.TokenUsage
	Trio   *coretypes.TrioMessage
	Retry  *RetryInfo

	Err   error
	Final bool

	Data map[string]any
}

// Bus is the publish side used by every component that emits events.
type Bus interface {
	Publish(ctx context.Context, ev Event)
}

// Subscribable additionally exposes subscription for consumers (the
// external monitoring dashboard, tests, or an in-process logger).
type Subscribable interface {
	Bus
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// InProcessBus is the default Bus implementation: an in-memory fan-out
// over buffered per-subscriber channels. Publish never blocks: a
// subscriber whose channel is full silently misses the event rather than
// stalling the publisher, satisfying the spec's non-blocking-publish
// requirement (§5).
type InProcessBus struct {
	runID string
	seq   uint64

	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewInProcessBus creates a bus that stamps every event with runID and a
// monotonically increasing per-run sequence number.
func NewInProcessBus(runID string) *InProcessBus {
	return &InProcessBus{
		runID: runID,
		subs:  make(map[int]chan Event),
	}
}

// Subscribe registers a new consumer with the given channel buffer size.
// The returned unsubscribe func is idempotent.
func (b *InProcessBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			if existing, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(existing)
			}
			b.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Publish stamps the event with sequence/time/runID and fans it out to
// every current subscriber without blocking.
func (b *InProcessBus) Publish(_ context.Context, ev Event) {
	ev.Seq = atomic.AddUint64(&b.seq, 1)
	ev.Time = time.Now()
	ev.RunID = b.runID

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// NopBus discards every event. Useful as a zero-value-safe default so
// components never need a nil check before publishing.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) {}
