package handler

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"civicreport/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// originAllowed accepts requests without an Origin header (non-browser clients),
// origins listed in allowed ("*" matches any), and same-origin requests.
func originAllowed(allowed []string, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return originAllowed(h.AllowedOrigins, r) },
	}
}

// serveRealtime upgrades the request and hands the connection to attach.
// When attach fails the socket is closed with "try again later".
func (h *Handler) serveRealtime(c *gin.Context, userID uint, newClient func(*websocket.Conn) chathub.Client,
	attach func(chathub.Client) error) {
	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for user %d: %v", userID, err)
		return
	}

	if err := attach(newClient(conn)); err != nil {
		log.Printf("WARNING: Realtime relay unavailable for user %d: %v", userID, err)
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "realtime relay unavailable")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
	}
}

// ServeWebSocket relays the chat's messages to the caller and accepts new ones.
// Participation is checked before the upgrade so refusals are plain HTTP errors.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	id, ok := h.chatID(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	if _, err := h.Hub.Authorize(c.Request.Context(), id, actor.UserID); err != nil {
		respondError(c, err)
		return
	}

	h.serveRealtime(c, actor.UserID,
		func(conn *websocket.Conn) chathub.Client {
			return chathub.NewWebSocketClient(conn, h.Hub, id, actor.UserID)
		},
		func(client chathub.Client) error { return h.Hub.Attach(c.Request.Context(), client) })
}

// ServeNotificationSocket pushes the caller's new notifications as they are recorded.
func (h *Handler) ServeNotificationSocket(c *gin.Context) {
	actor := actorFrom(c)
	h.serveRealtime(c, actor.UserID,
		func(conn *websocket.Conn) chathub.Client { return chathub.NewListenerClient(conn, actor.UserID) },
		func(client chathub.Client) error { return h.Notifications.Attach(c.Request.Context(), client) })
}
