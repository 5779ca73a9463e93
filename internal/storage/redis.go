package storage

import (
	"context"
	"fmt"
	"time"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Publish(ctx context.Context, channel, message string) (int64, error)
	SlotKey(scope, name string) string
	Ping(ctx context.Context) error
}

// RedisSlots stores each slot under its own key; ttl 0 keeps slots forever.
type RedisSlots struct {
	client redisStore
	ttl    time.Duration
}

func NewRedisSlots(client redisStore, ttl time.Duration) (*RedisSlots, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisSlots{client: client, ttl: ttl}, nil
}

func (r *RedisSlots) Get(ctx context.Context, scope, name string) ([]byte, bool, error) {
	if err := validKey(scope, name); err != nil {
		return nil, false, err
	}
	val, found, err := r.client.Get(ctx, r.client.SlotKey(scope, name))
	if err != nil {
		return nil, false, fmt.Errorf("redis get slot %s: %w", name, err)
	}
	if !found {
		return nil, false, nil
	}
	return []byte(val), true, nil
}

func (r *RedisSlots) Set(ctx context.Context, scope, name string, value []byte) error {
	if err := validKey(scope, name); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.client.SlotKey(scope, name), string(value), r.ttl); err != nil {
		return fmt.Errorf("redis set slot %s: %w", name, err)
	}
	return nil
}

func (r *RedisSlots) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// RedisNotifier publishes the session scope of every saved cart on channel.
type RedisNotifier struct {
	client  redisStore
	channel string
}

func NewRedisNotifier(client redisStore, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, scope string) error {
	if _, err := n.client.Publish(ctx, n.channel, scope); err != nil {
		return fmt.Errorf("publish cart change: %w", err)
	}
	return nil
}
