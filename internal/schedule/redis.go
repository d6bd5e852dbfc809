package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	enabledKey     = "homeroom:scheduler:enabled"
	templatePrefix = "homeroom:template:"
	lockPrefix     = "homeroom:applied:"
)

// RedisState implements State on the shared Redis instance. All running
// api and ticker processes see the same flag, templates, and locks.
type RedisState struct {
	client *redis.Client
}

// NewRedisState wraps an existing client.
func NewRedisState(client *redis.Client) *RedisState {
	return &RedisState{client: client}
}

func (s *RedisState) Enabled(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, enabledKey).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read enable flag: %w", err)
	}
	return val != "0", nil
}

func (s *RedisState) SetEnabled(ctx context.Context, enabled bool) error {
	val := "1"
	if !enabled {
		val = "0"
	}
	if err := s.client.Set(ctx, enabledKey, val, 0).Err(); err != nil {
		return fmt.Errorf("write enable flag: %w", err)
	}
	return nil
}

func (s *RedisState) Template(ctx context.Context, day Day, slot string) ([]Directive, error) {
	raw, err := s.client.Get(ctx, templateKey(day, slot)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read template %s/%s: %w", day, slot, err)
	}
	var items []Directive
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode template %s/%s: %w", day, slot, err)
	}
	return items, nil
}

func (s *RedisState) SaveTemplate(ctx context.Context, day Day, slot string, items []Directive) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode template %s/%s: %w", day, slot, err)
	}
	if err := s.client.Set(ctx, templateKey(day, slot), raw, 0).Err(); err != nil {
		return fmt.Errorf("write template %s/%s: %w", day, slot, err)
	}
	return nil
}

func (s *RedisState) AcquireLock(ctx context.Context, date, slot string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(date, slot), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s/%s: %w", date, slot, err)
	}
	return ok, nil
}

func (s *RedisState) ReleaseLock(ctx context.Context, date, slot string) error {
	if err := s.client.Del(ctx, lockKey(date, slot)).Err(); err != nil {
		return fmt.Errorf("release lock %s/%s: %w", date, slot, err)
	}
	return nil
}

func templateKey(day Day, slot string) string {
	return templatePrefix + string(day) + ":" + slot
}

func lockKey(date, slot string) string {
	return lockPrefix + date + ":" + slot
}
