package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"massage-service-server/database"
	"massage-service-server/models"
	"massage-service-server/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Mobile clients connect from app scheme origins
	},
}

// TherapistHandler upgrades the persistent notification channel. The token
// travels in the query string because mobile WebSocket clients cannot set an
// Authorization header on the handshake.
type TherapistHandler struct {
	registry *Registry
}

// NewTherapistHandler creates the handshake handler bound to a registry
func NewTherapistHandler(registry *Registry) *TherapistHandler {
	return &TherapistHandler{registry: registry}
}

// HandleConnection authenticates and registers a therapist session. Invalid
// or non-therapist identities are closed with a policy-violation code after
// the upgrade, so the client sees a proper close frame instead of a dropped
// TCP connection.
func (h *TherapistHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	therapist, ok := h.authenticate(c.Query("token"))
	if !ok {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			time.Now().Add(writeWait),
		)
		conn.Close()
		return
	}

	session := newSession(conn, therapist.ID)
	h.registry.Register(session, therapist.ID)

	go session.writePump()

	// Confirm the channel before entering the read loop
	welcome := &OutboundMessage{
		Type:        "connected",
		Message:     "WebSocket connection established",
		TherapistID: therapist.ID,
		Timestamp:   time.Now().UTC(),
	}
	if data, err := json.Marshal(welcome); err == nil {
		session.trySend(data)
	}

	session.readPump(h.registry)
}

// authenticate resolves the handshake token to a therapist profile
func (h *TherapistHandler) authenticate(token string) (*models.Therapist, bool) {
	if token == "" {
		log.Printf("🔌 WebSocket handshake without token")
		return nil, false
	}

	claims, err := utils.VerifyToken(token)
	if err != nil {
		log.Printf("🔌 WebSocket token invalid: %v", err)
		return nil, false
	}

	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		log.Printf("🔌 WebSocket user %d not found", claims.UserID)
		return nil, false
	}
	if !user.IsActive || !user.IsTherapist() {
		log.Printf("🔌 WebSocket rejected for user %d: not an active therapist", user.ID)
		return nil, false
	}

	var therapist models.Therapist
	if err := database.DB.Where("user_id = ?", user.ID).First(&therapist).Error; err != nil {
		log.Printf("🔌 Therapist profile not found for user %d", user.ID)
		return nil, false
	}

	return &therapist, true
}
