package notify

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"go-scout-backend/pkg/logger"
)

// Bus carries encoded frames to a room, possibly across API nodes.
type Bus interface {
	Publish(ctx context.Context, room string, frame []byte) error
}

// LocalBus delivers straight to the in-process hub.
type LocalBus struct {
	hub *Hub
}

func NewLocalBus(hub *Hub) *LocalBus {
	return &LocalBus{hub: hub}
}

func (b *LocalBus) Publish(_ context.Context, room string, frame []byte) error {
	b.hub.Broadcast(room, frame)
	return nil
}

// RedisBus publishes frames on Redis channels named after the room and feeds
// every node's hub from a pattern subscription.
type RedisBus struct {
	client *goredis.Client
	hub    *Hub
}

func NewRedisBus(client *goredis.Client, hub *Hub) *RedisBus {
	return &RedisBus{client: client, hub: hub}
}

func (b *RedisBus) Publish(ctx context.Context, room string, frame []byte) error {
	if err := b.client.Publish(ctx, room, frame).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", room, err)
	}
	return nil
}

// Run relays messages from Redis into the hub until ctx is cancelled.
func (b *RedisBus) Run(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, roomPrefix+"*")
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so early publishes are not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	logger.Log.Info("Notification bus subscribed", "pattern", roomPrefix+"*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(msg.Channel, roomPrefix) {
				continue
			}
			b.hub.Broadcast(msg.Channel, []byte(msg.Payload))
		}
	}
}
