package relay

import "sync"

// Hub fans broadcast frames out to every live reader connection. Sends are
// non-blocking: a reader too slow to drain its buffer misses intermediate
// frames, which is safe because every frame carries the full collection.
type Hub struct {
	mu     sync.Mutex
	conns  map[int]chan []byte
	nextID int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[int]chan []byte)}
}

// Register adds a reader and returns its outbound channel plus the
// unregister function. The channel is closed on unregister.
func (h *Hub) Register() (<-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan []byte, 16)
	h.conns[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.conns[id]; ok {
			delete(h.conns, id)
			close(c)
		}
	}
}

// Broadcast delivers one frame to every registered reader, in the order
// broadcasts are submitted.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.conns {
		select {
		case ch <- msg:
		default:
			// reader is behind; it will converge on the next frame
		}
	}
}
