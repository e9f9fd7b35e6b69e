package models

// Realtime event types published on Redis channels.
const (
	EventChatMessage   = "chat_message"
	EventStatusChanged = "status_changed"
	EventError         = "error"
)

// RealtimeEvent is the JSON envelope published on Redis pub/sub channels
// and relayed to websocket clients.
type RealtimeEvent struct {
	Type         string        `json:"type"`
	ChatID       uint          `json:"chat_id,omitempty"`
	ReportID     uint          `json:"report_id,omitempty"`
	Message      *Message      `json:"message,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	// Error is only set on events sent back to a single websocket client.
	Error string `json:"error,omitempty"`
}
