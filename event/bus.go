package event

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vfx/core"
)

// Bus is a synchronous typed publish/subscribe dispatcher
//
// Architecture:
//   - Handlers per kind are held in copy-on-write slices
//   - Publish iterates the slice current at call time
//   - Subscribe during dispatch takes effect on the next Publish
//   - Unsubscribe during dispatch skips the entry for the rest of the pass
//   - Each handler runs guarded; a panic is logged and dispatch continues
type Bus struct {
	mu       sync.Mutex
	handlers [kindCount][]*entry
	nextID   uint64
	logger   *log.Logger

	published [kindCount]atomic.Int64
	faults    atomic.Int64
}

type entry struct {
	id      uint64
	fn      func(Payload)
	removed atomic.Bool
}

// Subscription identifies one registered handler
type Subscription struct {
	bus  *Bus
	kind Kind
	id   uint64
}

// NewBus creates a bus, nil logger uses the default logger
func NewBus(logger *log.Logger) *Bus {
	return &Bus{logger: core.Logger(logger)}
}

// Subscribe registers fn for the payload type T
func Subscribe[T Payload](b *Bus, fn func(T)) Subscription {
	var zero T
	kind := zero.Kind()
	return b.subscribe(kind, func(p Payload) {
		if v, ok := p.(T); ok {
			fn(v)
		}
	})
}

// SubscribeKind registers an untyped handler for kind
func (b *Bus) SubscribeKind(kind Kind, fn func(Payload)) Subscription {
	return b.subscribe(kind, fn)
}

func (b *Bus) subscribe(kind Kind, fn func(Payload)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	e := &entry{id: b.nextID, fn: fn}

	old := b.handlers[kind]
	next := make([]*entry, len(old), len(old)+1)
	copy(next, old)
	b.handlers[kind] = append(next, e)

	return Subscription{bus: b, kind: kind, id: e.id}
}

// Unsubscribe removes the handler; safe to call more than once and during dispatch
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	s.bus.unsubscribe(s.kind, s.id)
}

func (b *Bus) unsubscribe(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	old := b.handlers[kind]
	for i, e := range old {
		if e.id != id {
			continue
		}
		e.removed.Store(true)
		next := make([]*entry, 0, len(old)-1)
		next = append(next, old[:i]...)
		next = append(next, old[i+1:]...)
		b.handlers[kind] = next
		return
	}
}

// Publish dispatches p to every handler subscribed to its kind
func (b *Bus) Publish(p Payload) {
	if p == nil {
		return
	}
	kind := p.Kind()
	if kind < 0 || kind >= kindCount {
		return
	}

	b.mu.Lock()
	snapshot := b.handlers[kind]
	b.mu.Unlock()

	b.published[kind].Add(1)

	label := "event " + kind.String()
	for _, e := range snapshot {
		if e.removed.Load() {
			continue
		}
		if r := core.Guard(b.logger, label, func() { e.fn(p) }); r != nil {
			b.faults.Add(1)
		}
	}
}

// HandlerCount returns live handlers for kind
func (b *Bus) HandlerCount(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kind])
}

// Stats holds per-kind publish counts and recovered handler faults
type Stats struct {
	Published map[string]int64 `json:"published"`
	Faults    int64            `json:"faults"`
}

// Stats returns publish counts keyed by topic name, kinds never published are omitted
func (b *Bus) Stats() Stats {
	s := Stats{Published: make(map[string]int64), Faults: b.faults.Load()}
	for k := Kind(0); k < kindCount; k++ {
		if n := b.published[k].Load(); n > 0 {
			s.Published[k.String()] = n
		}
	}
	return s
}
