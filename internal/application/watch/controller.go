package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
	"github.com/mcharbonnier/wikitally-go/internal/domain/ports"
)

// State of the controller.
type State int

const (
	StateActive State = iota
	StateSuspended
)

// Controller sits between the change bus and downstream consumers
// (aggregation, collection views, the relay fan-out). Under normal operation
// every bus event is forwarded; while suspended, events are recorded (last
// value retained per kind) and withheld, so a bulk load of N commits reaches
// consumers as the single ForceRefresh the loader issues instead of N
// partially-applied intermediate states.
type Controller struct {
	store      ports.EntityRepository
	downstream *Bus

	mu           sync.Mutex
	suspendDepth int
	retained     map[entity.Kind][]entity.Record
}

// NewController wires a controller onto an upstream bus. Every kind is
// intercepted.
func NewController(upstream *Bus, store ports.EntityRepository) *Controller {
	c := &Controller{
		store:      store,
		downstream: NewBus(),
		retained:   make(map[entity.Kind][]entity.Record),
	}
	for _, kind := range entity.AllKinds() {
		k := kind
		upstream.Subscribe(k, func(records []entity.Record) {
			c.handle(k, records)
		})
	}
	return c
}

// Watch registers a downstream callback for one kind and returns its
// unsubscribe function.
func (c *Controller) Watch(kind entity.Kind, cb Callback) func() {
	return c.downstream.Subscribe(kind, cb)
}

// State reports whether events are currently being forwarded.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspendDepth > 0 {
		return StateSuspended
	}
	return StateActive
}

// Suspend stops forwarding. Suspension is reentrant; only the matching
// outermost Resume re-activates forwarding.
func (c *Controller) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspendDepth++
}

// Resume re-activates forwarding. It does not replay the value retained
// during suspension; callers that need a guaranteed post-resume notification
// use ForceRefresh.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspendDepth > 0 {
		c.suspendDepth--
	}
}

// Suspended runs fn between Suspend and Resume. Resume executes on every
// exit path, including panics, so an error mid-bulk can never leave
// consumers frozen.
func (c *Controller) Suspended(ctx context.Context, fn func(ctx context.Context) error) error {
	c.Suspend()
	defer c.Resume()
	return fn(ctx)
}

// ForceRefresh refetches the current collection from the store and forwards
// it unconditionally, suspended or not, whether or not anything changed. If
// the store read fails the value retained from the last withheld event is
// forwarded instead, so consumers still converge on committed state.
func (c *Controller) ForceRefresh(ctx context.Context, kind entity.Kind) error {
	records, err := c.store.List(ctx, kind)
	if err != nil {
		c.mu.Lock()
		fallback, ok := c.retained[kind]
		c.mu.Unlock()
		if !ok {
			return fmt.Errorf("failed to refresh %s: %w", kind, err)
		}
		records = fallback
	}

	c.mu.Lock()
	delete(c.retained, kind)
	c.mu.Unlock()

	c.downstream.Publish(kind, records)
	return nil
}

func (c *Controller) handle(kind entity.Kind, records []entity.Record) {
	c.mu.Lock()
	if c.suspendDepth > 0 {
		c.retained[kind] = records
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.downstream.Publish(kind, records)
}
