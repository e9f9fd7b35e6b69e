package chathub

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

// Store adds the realtime side of storage to ChatStore.
type Store interface {
	ChatStore
	Publish(ctx context.Context, channel string, event models.RealtimeEvent) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// ChatChannel is the Redis channel carrying the events of one chat.
func ChatChannel(chatID uint) string {
	return fmt.Sprintf("chat:%d", chatID)
}

// ManagerService handles chat messaging between the two participants of a report chat.
type ManagerService struct {
	Storage Store

	policy *bluemonday.Policy
}

// NewManagerService creates a new chat manager.
func NewManagerService(s Store) *ManagerService {
	return &ManagerService{
		Storage: s,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Authorize loads the chat and checks that userID takes part in it.
func (m *ManagerService) Authorize(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	if chatID == 0 {
		return nil, apperr.Validation("chatId", "must be a positive integer")
	}
	chat, err := m.Storage.FindChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Has(userID) {
		return nil, apperr.Conflict(apperr.CodeForbidden, "user %d is not a participant of chat %d", userID, chatID)
	}
	return chat, nil
}

// SendMessage stores a message from senderID to the other participant and publishes it.
// A failed publish is logged; the message stays stored.
func (m *ManagerService) SendMessage(ctx context.Context, chatID, senderID uint, text string) (*models.Message, error) {
	chat, err := m.Authorize(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	clean := strings.TrimSpace(m.policy.Sanitize(strings.TrimSpace(text)))
	if clean == "" {
		return nil, apperr.Validation("text", "message must not be empty")
	}
	if n := utf8.RuneCountInString(clean); n > config.MaxMessageLength {
		return nil, apperr.Validation("text", "message has %d characters, at most %d allowed", n, config.MaxMessageLength)
	}

	receiverID, _ := chat.Counterpart(senderID)
	msg := &models.Message{
		ChatID:     chat.ID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       clean,
	}
	if err := m.Storage.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	event := models.RealtimeEvent{Type: models.EventChatMessage, ChatID: chat.ID, ReportID: chat.ReportID, Message: msg}
	if err := m.Storage.Publish(ctx, ChatChannel(chat.ID), event); err != nil {
		log.Printf("WARNING: Failed to publish message %d on chat %d: %v", msg.ID, chat.ID, err)
	}
	return msg, nil
}

// ListMessages returns the chat history, oldest first, to one of its participants.
func (m *ManagerService) ListMessages(ctx context.Context, chatID, userID uint) ([]models.Message, error) {
	if _, err := m.Authorize(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return m.Storage.ListMessages(ctx, chatID)
}

// ListChats returns every chat the user takes part in, newest first.
func (m *ManagerService) ListChats(ctx context.Context, userID uint) ([]models.Chat, error) {
	return m.Storage.ListChatsForUser(ctx, userID)
}
