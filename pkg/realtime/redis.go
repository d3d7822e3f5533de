package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker publishes changes on a Redis channel and relays every message
// received on it into the local hub, so all instances see all writes.
type RedisBroker struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRedisBroker wires a broker for channel.
func NewRedisBroker(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *RedisBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBroker{client: client, channel: channel, hub: hub, logger: logger}
}

// Publish sends c to every instance, including this one via Run.
func (b *RedisBroker) Publish(ctx context.Context, c Change) error {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", b.channel, err)
	}
	return nil
}

// Run relays channel messages into the hub until ctx is cancelled.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("realtime bridge subscribed", zap.String("channel", b.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				b.logger.Warn("discarding malformed change", zap.Error(err))
				continue
			}
			b.hub.Broadcast(c)
		}
	}
}
