package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channel = "homeroom:changed"

// RedisNotifier broadcasts change events over Redis Pub/Sub so every
// api replica's display clients hear about scheduler writes.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier wraps an existing client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// StudentsChanged publishes one event on the shared channel.
func (n *RedisNotifier) StudentsChanged(ctx context.Context) error {
	evt := Event{ID: uuid.NewString(), At: time.Now().UTC()}
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, channel, raw).Err()
}

// Subscribe streams events from the shared channel until ctx is done.
// Malformed payloads are dropped.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := n.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
