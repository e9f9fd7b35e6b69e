package chathub_test

import (
	"context"

	"civicreport/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of chathub.Store.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) InsertChatIfAbsent(ctx context.Context, chat *models.Chat) (bool, error) {
	args := m.Called(ctx, chat)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ChatExists(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error) {
	args := m.Called(ctx, reportID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) FindChat(ctx context.Context, id uint) (*models.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockStorage) ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStorage) ListMessages(ctx context.Context, chatID uint) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) Publish(ctx context.Context, channel string, event models.RealtimeEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockStorage) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}
