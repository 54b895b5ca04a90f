package watch

import (
	"sync"

	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// Callback receives the full current collection of a kind, not a diff.
type Callback func(records []entity.Record)

// Bus is the in-process change bus. The store layer publishes the full
// collection of a kind after every committed mutation; bulk operations
// publish exactly once.
type Bus struct {
	mu     sync.Mutex
	subs   map[entity.Kind]map[int]Callback
	nextID int
}

// NewBus creates an empty change bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[entity.Kind]map[int]Callback)}
}

// Subscribe registers a callback for one kind and returns its unsubscribe
// function.
func (b *Bus) Subscribe(kind entity.Kind, cb Callback) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[kind] == nil {
		b.subs[kind] = make(map[int]Callback)
	}
	id := b.nextID
	b.nextID++
	b.subs[kind][id] = cb

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[kind], id)
	}
}

// Publish invokes every subscriber of kind with the new full collection.
// Callbacks run outside the bus lock, on the publishing goroutine, so the
// notification is delivered after the commit that produced it.
func (b *Bus) Publish(kind entity.Kind, records []entity.Record) {
	b.mu.Lock()
	callbacks := make([]Callback, 0, len(b.subs[kind]))
	for _, cb := range b.subs[kind] {
		callbacks = append(callbacks, cb)
	}
	b.mu.Unlock()

	for _, cb := range callbacks {
		cb(records)
	}
}
