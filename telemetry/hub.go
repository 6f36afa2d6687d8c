// Package telemetry streams monitoring reports and engine signals to websocket clients
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/system"
)

// ErrClosed is returned when reporting to a closed hub
var ErrClosed = errors.New("telemetry: hub closed")

// Message types
const (
	TypeHello  = "hello"
	TypeReport = "report"
	TypeEvent  = "event"
)

// Message is the JSON frame sent to clients
type Message struct {
	Type   string         `json:"type"`
	Time   time.Time      `json:"time"`
	Client string         `json:"client,omitempty"`
	Kind   string         `json:"kind,omitempty"`
	Event  event.Payload  `json:"event,omitempty"`
	Report *system.Report `json:"report,omitempty"`
}

// Hub fans reports out to every connected client
// Report never blocks: frames go through a bounded queue and are dropped when it is full.
// A client whose write fails is disconnected.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	now      func() time.Time

	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	clients map[uuid.UUID]*websocket.Conn
	closed  bool
	server  *http.Server
	subs    []event.Subscription

	closeOnce sync.Once

	sent    atomic.Int64
	dropped atomic.Int64
}

// NewHub creates a hub and starts its broadcaster
func NewHub(logger *log.Logger) *Hub {
	h := newHub(logger, parameter.TelemetryQueueSize)
	h.start()
	return h
}

func newHub(logger *log.Logger, queueSize int) *Hub {
	return &Hub{
		logger: core.Logger(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		now:     time.Now,
		queue:   make(chan []byte, queueSize),
		done:    make(chan struct{}),
		clients: make(map[uuid.UUID]*websocket.Conn),
	}
}

func (h *Hub) start() {
	h.wg.Add(1)
	core.Go(h.logger, "telemetry broadcaster", func() {
		defer h.wg.Done()
		h.broadcast()
	})
}

// ServeHTTP upgrades the request and registers the client until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("telemetry: upgrade failed: %v", err)
		return
	}

	id := uuid.New()
	hello, _ := json.Marshal(Message{Type: TypeHello, Time: h.now(), Client: id.String()})
	conn.SetWriteDeadline(time.Now().Add(parameter.TelemetryWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		conn.Close()
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[id] = conn
	h.mu.Unlock()

	// Clients only listen; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(id)
			return
		}
	}
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stats returns frames written and frames dropped on a full queue
func (h *Hub) Stats() (sent, dropped int64) {
	return h.sent.Load(), h.dropped.Load()
}

// Report queues a monitoring report, implementing system.ReportSink
// A full queue drops the frame without error so the sink stays enabled
func (h *Hub) Report(r system.Report) error {
	return h.enqueue(Message{Type: TypeReport, Time: r.Time, Report: &r})
}

// Watch streams the engine's quality, performance, memory and theme signals
func (h *Hub) Watch(bus *event.Bus) {
	kinds := []event.Kind{
		event.KindQualityChanged,
		event.KindPerformanceWarning,
		event.KindPerformanceCritical,
		event.KindMemoryWarning,
		event.KindThemeChanged,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range kinds {
		h.subs = append(h.subs, bus.SubscribeKind(k, func(p event.Payload) {
			if err := h.enqueue(Message{Type: TypeEvent, Time: h.now(), Kind: p.Kind().String(), Event: p}); err != nil && !errors.Is(err, ErrClosed) {
				h.logger.Printf("telemetry: %v", err)
			}
		}))
	}
}

func (h *Hub) enqueue(m Message) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Type, err)
	}
	select {
	case h.queue <- data:
	default:
		h.dropped.Add(1)
	}
	return nil
}

func (h *Hub) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case data := <-h.queue:
			h.write(data)
		}
	}
}

func (h *Hub) write(data []byte) {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for id, c := range h.clients {
		ids = append(ids, id)
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for i, c := range conns {
		c.SetWriteDeadline(time.Now().Add(parameter.TelemetryWriteTimeout))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("telemetry: dropping client %s: %v", ids[i], err)
			h.remove(ids[i])
			continue
		}
		h.sent.Add(1)
	}
}

// ListenAndServe binds addr and serves the hub at /ws in the background until ctx ends or Close
// A bind failure is returned immediately
func (h *Hub) ListenAndServe(ctx context.Context, addr string) (net.Addr, error) {
	if addr == "" {
		addr = parameter.TelemetryDefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry: listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ln.Close()
		return nil, ErrClosed
	}
	h.server = srv
	h.mu.Unlock()

	core.Go(h.logger, "telemetry server", func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Printf("telemetry: serve: %v", err)
		}
	})
	core.Go(h.logger, "telemetry shutdown", func() {
		select {
		case <-ctx.Done():
			h.Close()
		case <-h.done:
		}
	})
	return ln.Addr(), nil
}

// Close disconnects every client, stops the server and the broadcaster
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		subs := h.subs
		h.subs = nil
		srv := h.server
		h.mu.Unlock()

		for _, s := range subs {
			s.Unsubscribe()
		}
		close(h.done)
		h.wg.Wait()

		if srv != nil {
			srv.Close()
		}

		h.mu.Lock()
		for id, c := range h.clients {
			c.Close()
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
	return nil
}
