package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/domain/entity"
)

// Client is what reader contexts program against. Request performs a typed
// round trip to the owner; Watch delivers full-collection broadcasts.
type Client interface {
	Request(ctx context.Context, op string, payload interface{}, result interface{}) error
	Watch(kind entity.Kind, callback func(records []entity.Record)) func()
	Close() error
}

type pendingCall struct {
	done chan ResponseFrame
}

// GatewayClient talks to a running daemon over its websocket gateway.
type GatewayClient struct {
	conn     *websocket.Conn
	mu       sync.Mutex // guards writes
	pending  map[string]*pendingCall
	pendMu   sync.Mutex
	watchers map[entity.Kind]map[int]func([]entity.Record)
	watchMu  sync.Mutex
	nextID   int
	closed   chan struct{}
	once     sync.Once
}

// Dial connects to the daemon gateway at addr (host:port).
func Dial(ctx context.Context, addr string) (*GatewayClient, error) {
	url := fmt.Sprintf("ws://%s/relay", addr)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial %s: %v", common.ErrOwnerUnreachable, addr, err)
	}

	c := &GatewayClient{
		conn:     conn,
		pending:  map[string]*pendingCall{},
		watchers: map[entity.Kind]map[int]func([]entity.Record){},
		closed:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Request sends one envelope and decodes the response data into result.
// result may be nil for operations whose payload the caller discards.
func (c *GatewayClient) Request(ctx context.Context, op string, payload interface{}, result interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", op, err)
		}
		raw = encoded
	}

	env := Envelope{ID: uuid.New().String(), Op: op, Payload: raw}
	call := &pendingCall{done: make(chan ResponseFrame, 1)}

	c.pendMu.Lock()
	c.pending[env.ID] = call
	c.pendMu.Unlock()
	defer func() {
		c.pendMu.Lock()
		delete(c.pending, env.ID)
		c.pendMu.Unlock()
	}()

	msg, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	c.mu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err = c.conn.WriteMessage(websocket.TextMessage, msg)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: write failed: %v", common.ErrOwnerUnreachable, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return fmt.Errorf("%w: connection closed", common.ErrOwnerUnreachable)
	case resp := <-call.done:
		if !resp.Success {
			return fmt.Errorf("%s failed: %s", op, resp.Error)
		}
		if result != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, result); err != nil {
				return fmt.Errorf("failed to decode %s response: %w", op, err)
			}
		}
		return nil
	}
}

// Watch registers a callback for broadcasts of one kind. The returned
// function removes the registration.
func (c *GatewayClient) Watch(kind entity.Kind, callback func(records []entity.Record)) func() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if c.watchers[kind] == nil {
		c.watchers[kind] = map[int]func([]entity.Record){}
	}
	id := c.nextID
	c.nextID++
	c.watchers[kind][id] = callback

	return func() {
		c.watchMu.Lock()
		defer c.watchMu.Unlock()
		delete(c.watchers[kind], id)
	}
}

func (c *GatewayClient) Close() error {
	c.once.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *GatewayClient) readLoop() {
	defer c.once.Do(func() { close(c.closed) })

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(msg, &f); err != nil {
			continue
		}

		switch {
		case f.Broadcast != "":
			records, err := DecodeRecords(f.Broadcast, f.Entities)
			if err != nil {
				continue
			}
			c.watchMu.Lock()
			callbacks := make([]func([]entity.Record), 0, len(c.watchers[f.Broadcast]))
			for _, cb := range c.watchers[f.Broadcast] {
				callbacks = append(callbacks, cb)
			}
			c.watchMu.Unlock()
			for _, cb := range callbacks {
				cb(records)
			}
		case f.ID != "":
			c.pendMu.Lock()
			call := c.pending[f.ID]
			c.pendMu.Unlock()
			if call == nil {
				continue
			}
			success := f.Success != nil && *f.Success
			call.done <- ResponseFrame{ID: f.ID, Success: success, Data: f.Data, Error: f.Error}
		}
	}
}
