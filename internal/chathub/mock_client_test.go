package chathub_test

import (
	"context"
	"sync"

	"civicreport/backend/internal/models"
)

type MockClient struct {
	userID      uint
	chatID      uint
	RecvChannel chan models.RealtimeEvent

	mu           sync.Mutex
	ran          bool
	closed       bool
	onDisconnect func()
}

func newMockClient(userID, chatID uint) *MockClient {
	return &MockClient{
		userID:      userID,
		chatID:      chatID,
		RecvChannel: make(chan models.RealtimeEvent, 10),
	}
}

func (c *MockClient) GetUserID() uint { return c.userID }

func (c *MockClient) GetChatID() uint { return c.chatID }

func (c *MockClient) GetSendChannel() chan<- models.RealtimeEvent { return c.RecvChannel }

func (c *MockClient) Run(_ context.Context, onDisconnect func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ran = true
	c.onDisconnect = onDisconnect
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) Ran() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ran
}
