package storage

import (
	"context"
	"encoding/json"

	"civicreport/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Publish publishes an event as JSON on a Redis Pub/Sub channel.
func (s *Service) Publish(ctx context.Context, channel string, event models.RealtimeEvent) error {
	if s.Redis == nil {
		return nil
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.Redis.Publish(ctx, channel, string(msgBytes)).Err()
}

// Subscribe subscribes to a single channel. It returns nil when Redis is not configured.
func (s *Service) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Subscribe(ctx, channel)
}
