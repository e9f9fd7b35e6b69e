package chathub

import (
	"context"

	"civicreport/backend/internal/models"
)

// Client is one realtime connection of a user. GetChatID is zero for
// connections that only listen to the user's notifications.
type Client interface {
	GetUserID() uint
	GetChatID() uint

	// GetSendChannel returns the channel the relay writes events to.
	GetSendChannel() chan<- models.RealtimeEvent

	// Run starts the connection pumps. onDisconnect is called once when the peer goes away.
	Run(ctx context.Context, onDisconnect func())
	// Close stops the write side; no event may be sent after Close.
	Close()
}
