package chathub

import (
	"context"
	"testing"
	"time"

	"civicreport/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward_DecodesAndSkipsGarbage(t *testing.T) {
	in := make(chan *redis.Message, 3)
	out := make(chan models.RealtimeEvent, 3)

	in <- &redis.Message{Channel: "chat:1", Payload: `{"type":"chat_message","chat_id":1,"message":{"id":5,"text":"hi"}}`}
	in <- &redis.Message{Channel: "chat:1", Payload: `not json`}
	in <- &redis.Message{Channel: "chat:1", Payload: `{"type":"chat_message","chat_id":1}`}
	close(in)

	forward(context.Background(), in, out)

	require.Len(t, out, 2)
	first := <-out
	assert.Equal(t, models.EventChatMessage, first.Type)
	require.NotNil(t, first.Message)
	assert.Equal(t, "hi", first.Message.Text)
}

func TestForward_StopsOnCancel(t *testing.T) {
	in := make(chan *redis.Message)
	out := make(chan models.RealtimeEvent)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		forward(ctx, in, out)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop after cancel")
	}
}
