package chathub

import (
	"context"
	"encoding/json"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Subscriber opens Redis subscriptions. It returns nil when Redis is not configured.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// Attach subscribes the client to its chat channel and starts relaying events to it.
// The relay lives until the client disconnects.
func (m *ManagerService) Attach(ctx context.Context, c Client) error {
	return Relay(ctx, m.Storage, ChatChannel(c.GetChatID()), c)
}

// Relay forwards the events published on channel to c until c disconnects.
func Relay(ctx context.Context, s Subscriber, channel string, c Client) error {
	sub := s.Subscribe(ctx, channel)
	if sub == nil {
		return apperr.Precondition("realtime relay requires redis")
	}

	relayCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(relayCtx, sub.Channel(), c.GetSendChannel())
	}()
	go func() {
		<-relayCtx.Done()
		if err := sub.Close(); err != nil {
			log.Printf("WARNING: Failed to close subscription to %s: %v", channel, err)
		}
		<-done
		c.Close()
		log.Printf("INFO: User %d left %s relay", c.GetUserID(), channel)
	}()

	log.Printf("INFO: User %d joined %s relay", c.GetUserID(), channel)
	c.Run(relayCtx, cancel)
	return nil
}

// forward decodes Redis payloads into events until in closes or ctx ends.
// Undecodable payloads are skipped.
func forward(ctx context.Context, in <-chan *redis.Message, out chan<- models.RealtimeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var event models.RealtimeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshalling Redis message on %s: %v", msg.Channel, err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
