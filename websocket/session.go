package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Outbound buffer per session
	sendBufferSize = 256
)

// Session is one live device connection belonging to a therapist. It exists
// only at runtime and is never persisted.
type Session struct {
	TherapistID uint

	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// newSession wraps an upgraded connection
func newSession(conn *websocket.Conn, therapistID uint) *Session {
	return &Session{
		TherapistID: therapistID,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
	}
}

// trySend queues data for the write pump without blocking. A full buffer
// means the consumer stopped draining; the caller treats that as a dead
// session.
func (s *Session) trySend(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// close shuts the outbound channel exactly once. The write pump exits when
// the channel drains.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// readPump consumes inbound frames until the connection drops, then removes
// the session from the registry. Inbound traffic is heartbeat only; every
// text frame gets a pong reply so mobile clients can verify liveness.
func (s *Session) readPump(registry *Registry) {
	defer func() {
		registry.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error for therapist %d: %v", s.TherapistID, err)
			}
			return
		}

		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		pong, _ := json.Marshal(map[string]interface{}{
			"type":      "pong",
			"timestamp": time.Now().UTC(),
		})
		s.trySend(pong)
	}
}

// writePump moves queued messages onto the wire and keeps the connection
// alive with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Registry closed the session
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
