package console

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type message struct {
	plotID string
	data   []byte
}

// Hub fans frames out to the WebSocket clients watching each plot. All
// subscriber bookkeeping happens on the run goroutine.
type Hub struct {
	subscribers map[string]map[*subscriber]bool
	broadcast   chan message
	register    chan *subscriber
	unregister  chan *subscriber
	closePlot   chan string
	done        chan struct{}
}

// subscriber is a middleman between one websocket connection and the hub.
type subscriber struct {
	plotID string
	ws     *websocket.Conn
	send   chan []byte
}

func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*subscriber]bool),
		broadcast:   make(chan message, 16),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		closePlot:   make(chan string),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			for _, subs := range h.subscribers {
				for s := range subs {
					close(s.send)
				}
			}
			h.subscribers = nil
			return
		case s := <-h.register:
			if h.subscribers[s.plotID] == nil {
				h.subscribers[s.plotID] = make(map[*subscriber]bool)
			}
			h.subscribers[s.plotID][s] = true
		case s := <-h.unregister:
			h.remove(s)
		case id := <-h.closePlot:
			for s := range h.subscribers[id] {
				h.remove(s)
			}
		case m := <-h.broadcast:
			for s := range h.subscribers[m.plotID] {
				select {
				case s.send <- m.data:
				default:
					// slow reader
					h.remove(s)
				}
			}
		}
	}
}

func (h *Hub) remove(s *subscriber) {
	subs := h.subscribers[s.plotID]
	if !subs[s] {
		return
	}
	delete(subs, s)
	close(s.send)
	if len(subs) == 0 {
		delete(h.subscribers, s.plotID)
	}
}

// Publish queues data for every subscriber of plotID.
func (h *Hub) Publish(plotID string, data []byte) {
	select {
	case h.broadcast <- message{plotID: plotID, data: data}:
	case <-h.done:
	}
}

// ClosePlot disconnects every subscriber of a deleted plot.
func (h *Hub) ClosePlot(plotID string) {
	select {
	case h.closePlot <- plotID:
	case <-h.done:
	}
}

func (h *Hub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Serve upgrades the request and streams plotID's frames to it, starting
// with initial. It blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, plotID string, initial []byte) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		slog.Warn("websocket upgrade failed", "plot", plotID, "error", err)
		return
	}
	s := &subscriber{plotID: plotID, ws: ws, send: make(chan []byte, 256)}
	s.send <- initial
	select {
	case h.register <- s:
	case <-h.done:
		ws.Close()
		return
	}
	slog.Info("live client connected", "plot", plotID, "remote", r.RemoteAddr)
	go s.writePump()
	s.readPump(h)
	slog.Info("live client disconnected", "plot", plotID, "remote", r.RemoteAddr)
}

// readPump drains the connection so pongs and close frames are processed.
func (s *subscriber) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
		s.ws.Close()
	}()
	s.ws.SetReadLimit(maxMessageSize)
	s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error { s.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) write(mt int, payload []byte) error {
	s.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return s.ws.WriteMessage(mt, payload)
}

// writePump pumps frames from the hub to the websocket connection.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				s.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}
