package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.SlotKey("session-1", "ec_cart_v1")
	if err := client.Set(ctx, key, `[{"item_id":"sku_001"}]`, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, found, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || val != `[{"item_id":"sku_001"}]` {
		t.Fatalf("unexpected value found=%v val=%q", found, val)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	_, found, err = client.Get(ctx, key)
	if err != nil {
		t.Fatalf("missing key should not error, got %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone after delete")
	}
}

func TestGetPropagatesBackendError(t *testing.T) {
	mock := newMockCmdable()
	mock.getErr = errors.New("connection reset")
	client := &Client{store: mock}

	if _, _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected backend error")
	}
}

func TestPublish(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}

	n, err := client.Publish(context.Background(), "cart:updated", "session-1")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one receiver, got %d", n)
	}
	if len(mock.published) != 1 || mock.published[0] != "cart:updated=session-1" {
		t.Fatalf("unexpected published messages %v", mock.published)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from zero client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on zero client should be a no-op, got %v", err)
	}
}

func TestSlotKey(t *testing.T) {
	client := &Client{}
	if got := client.SlotKey("abc", "ec_cart_v1"); got != "sf:slot:abc:ec_cart_v1" {
		t.Fatalf("unexpected slot key %s", got)
	}
	if got := client.SlotKey(" ", "ec_cart_v1"); got != "sf:slot:ec_cart_v1" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		DB:          2,
		PoolSize:    7,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 7 || opts.DialTimeout != 3*time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/3", PoolSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 3 || opts.PoolSize != 4 {
		t.Fatalf("unexpected url options %+v", opts)
	}
}

type mockCmdable struct {
	data      map[string]string
	published []string
	getErr    error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	m.published = append(m.published, channel+"="+fmt.Sprint(message))
	return redis.NewIntResult(1, nil)
}
