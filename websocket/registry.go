package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Registry tracks which therapists currently have a live session. A therapist
// may be connected from several devices at once, so each id maps to a set of
// sessions. Constructed once in main and injected wherever delivery decisions
// are made; all methods are safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// therapist id -> live sessions
	sessions map[uint]map[*Session]bool

	// reverse lookup for unregister
	owners map[*Session]uint
}

// NewRegistry creates an empty connection registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint]map[*Session]bool),
		owners:   make(map[*Session]uint),
	}
}

// Register adds a session to the therapist's session set
func (r *Registry) Register(s *Session, therapistID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[therapistID] == nil {
		r.sessions[therapistID] = make(map[*Session]bool)
	}
	r.sessions[therapistID][s] = true
	r.owners[s] = therapistID

	log.Printf("🔌 Therapist %d session registered (%d active)", therapistID, len(r.sessions[therapistID]))
}

// Unregister removes a session from whatever therapist owns it. When the last
// session goes, the therapist is considered offline and the set entry is
// dropped. Safe to call more than once for the same session.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregisterLocked(s)
}

func (r *Registry) unregisterLocked(s *Session) {
	therapistID, ok := r.owners[s]
	if !ok {
		return
	}
	delete(r.owners, s)

	set := r.sessions[therapistID]
	if set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(r.sessions, therapistID)
			log.Printf("🔌 Therapist %d went offline", therapistID)
		} else {
			log.Printf("🔌 Therapist %d dropped a session, %d remaining", therapistID, len(set))
		}
	}
	s.close()
}

// IsOnline reports whether the therapist has at least one live session
func (r *Registry) IsOnline(therapistID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[therapistID]) > 0
}

// OnlineTherapists returns the ids of all currently connected therapists
func (r *Registry) OnlineTherapists() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// SessionCount returns how many devices the therapist has connected
func (r *Registry) SessionCount(therapistID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[therapistID])
}

// SendToTherapist fans the message out to every session the therapist has.
// Sessions that cannot take the message are unregistered on the spot, so dead
// connections heal themselves out of the registry. Returns true iff at least
// one session accepted the message.
func (r *Registry) SendToTherapist(message *OutboundMessage, therapistID uint) bool {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message for therapist %d: %v", therapistID, err)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.sessions[therapistID]
	if len(set) == 0 {
		log.Printf("⚠️ Therapist %d not connected", therapistID)
		return false
	}

	delivered := 0
	var dead []*Session
	for s := range set {
		if s.trySend(data) {
			delivered++
		} else {
			dead = append(dead, s)
		}
	}
	for _, s := range dead {
		r.unregisterLocked(s)
	}

	if delivered == 0 {
		log.Printf("⚠️ All sessions for therapist %d were dead", therapistID)
		return false
	}
	log.Printf("✅ Message delivered to %d session(s) of therapist %d", delivered, therapistID)
	return true
}

// Broadcast sends the message to the given therapists, or to everyone online
// when ids is nil.
func (r *Registry) Broadcast(message *OutboundMessage, therapistIDs []uint) {
	if therapistIDs == nil {
		therapistIDs = r.OnlineTherapists()
	}

	sent := 0
	for _, id := range therapistIDs {
		if r.SendToTherapist(message, id) {
			sent++
		}
	}
	log.Printf("📢 Broadcast complete: %d/%d therapists reached", sent, len(therapistIDs))
}

// OutboundMessage is the envelope pushed down a live session
type OutboundMessage struct {
	Type         string      `json:"type"`
	Notification interface{} `json:"notification,omitempty"`
	Message      string      `json:"message,omitempty"`
	TherapistID  uint        `json:"therapist_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}
