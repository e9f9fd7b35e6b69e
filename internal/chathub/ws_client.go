package chathub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"civicreport/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 32
)

// inboundMessage is what a websocket peer sends to post in the chat.
type inboundMessage struct {
	Text string `json:"text"`
}

// WebSocketClient implements Client over a gorilla websocket connection.
type WebSocketClient struct {
	UserID uint
	ChatID uint
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.RealtimeEvent

	closeOnce sync.Once
}

var _ Client = (*WebSocketClient)(nil)

// NewWebSocketClient wraps an upgraded connection.
func NewWebSocketClient(conn *websocket.Conn, hub *ManagerService, chatID, userID uint) *WebSocketClient {
	return &WebSocketClient{
		UserID: userID,
		ChatID: chatID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.RealtimeEvent, sendBuffer),
	}
}

// NewListenerClient wraps an upgraded connection that only receives events.
// Anything the peer sends is discarded.
func NewListenerClient(conn *websocket.Conn, userID uint) *WebSocketClient {
	return &WebSocketClient{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.RealtimeEvent, sendBuffer),
	}
}

func (c *WebSocketClient) GetUserID() uint { return c.UserID }

func (c *WebSocketClient) GetChatID() uint { return c.ChatID }

func (c *WebSocketClient) GetSendChannel() chan<- models.RealtimeEvent { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run(ctx context.Context, onDisconnect func()) {
	go c.writePump()
	go c.readPump(ctx, onDisconnect)
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump(ctx context.Context, onDisconnect func()) {
	defer func() {
		onDisconnect()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			return
		}
		if c.Hub == nil {
			// listen-only connection
			continue
		}

		var in inboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			log.Printf("Error decoding JSON from user %d: %v", c.UserID, err)
			c.reply(models.RealtimeEvent{Type: models.EventError, ChatID: c.ChatID, Error: "invalid JSON"})
			continue
		}

		// Stored messages come back to every participant through the relay.
		if _, err := c.Hub.SendMessage(ctx, c.ChatID, c.UserID, in.Text); err != nil {
			c.reply(models.RealtimeEvent{Type: models.EventError, ChatID: c.ChatID, Error: err.Error()})
		}
	}
}

// reply queues an event for this client only, dropping it if the buffer is full.
func (c *WebSocketClient) reply(event models.RealtimeEvent) {
	select {
	case c.Send <- event:
	default:
		log.Printf("WARNING: Send buffer full for user %d, dropping %s event", c.UserID, event.Type)
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				log.Printf("Error writing event to user %d: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
