package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 120 * time.Second
)

// Gateway exposes the owner loop to out-of-process reader contexts over a
// websocket. Each connection gets typed request/response plus the broadcast
// stream, so a reader can maintain a replica without polling.
type Gateway struct {
	owner    *Owner
	log      *logrus.Entry
	upgrader websocket.Upgrader
	limit    rate.Limit
	burst    int
}

// NewGateway creates a gateway with a per-connection token-bucket limit.
func NewGateway(owner *Owner, requestsPerSec float64, burst int, log *logrus.Entry) *Gateway {
	return &Gateway{
		owner: owner,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local daemon
		},
		limit: rate.Limit(requestsPerSec),
		burst: burst,
	}
}

// Handler upgrades connections and serves them until either side closes.
func (g *Gateway) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := g.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		g.serve(conn)
	}
}

func (g *Gateway) serve(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan []byte, 32)
	broadcasts, unregister := g.owner.Hub().Register()
	defer unregister()

	// Writer goroutine: responses and broadcasts share one socket.
	go func() {
		for {
			var msg []byte
			var ok bool
			select {
			case <-ctx.Done():
				return
			case msg, ok = <-out:
			case msg, ok = <-broadcasts:
			}
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				cancel()
				return
			}
		}
	}()

	limiter := rate.NewLimiter(g.limit, g.burst)

	// Reader loop: requests from one connection are handled in arrival
	// order, so a context observes its own writes.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			g.log.WithError(err).Debug("dropping malformed envelope")
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		result, err := g.owner.Submit(ctx, env.Op, env.Payload)
		if err != nil {
			result = Result{Success: false, Error: err.Error()}
		}

		frame, err := json.Marshal(ResponseFrame{
			ID:      env.ID,
			Success: result.Success,
			Data:    result.Data,
			Error:   result.Error,
		})
		if err != nil {
			g.log.WithError(err).Error("failed to encode response frame")
			continue
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return
		}
	}
}
