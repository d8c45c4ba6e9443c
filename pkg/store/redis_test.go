package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStore_Integration(t *testing.T) {
	opts := &redis.Options{
		Addr: "localhost:6379",
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: Redis not available (%v)", err)
	}

	st, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("Failed to create RedisStore: %v", err)
	}

	t.Run("RecordAndCount", func(t *testing.T) {
		key := fmt.Sprintf("it_store_%d", time.Now().UnixNano())
		now := time.Now()

		for i := 0; i < 3; i++ {
			if err := st.Record(ctx, key, now.Add(time.Duration(i)*time.Second)); err != nil {
				t.Fatalf("Record failed: %v", err)
			}
		}

		count, err := st.CountWithin(ctx, key, time.Minute, now.Add(2*time.Second))
		if err != nil {
			t.Fatalf("CountWithin failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 events, got %d", count)
		}
	})

	t.Run("WindowExcludesOldEvents", func(t *testing.T) {
		key := fmt.Sprintf("it_window_%d", time.Now().UnixNano())
		now := time.Now()

		if err := st.Record(ctx, key, now.Add(-30*time.Second)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if err := st.Record(ctx, key, now); err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		count, err := st.CountWithin(ctx, key, 15*time.Second, now)
		if err != nil {
			t.Fatalf("CountWithin failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected only the in-window event, got %d", count)
		}
	})

	t.Run("ConcurrentWritersDoNotCollide", func(t *testing.T) {
		key := fmt.Sprintf("it_concurrent_%d", time.Now().UnixNano())
		now := time.Now()

		// Same timestamp from two writers must yield two distinct members.
		if err := st.Record(ctx, key, now); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if err := st.Record(ctx, key, now); err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		count, err := st.CountWithin(ctx, key, time.Minute, now)
		if err != nil {
			t.Fatalf("CountWithin failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 events for identical timestamps, got %d", count)
		}
	})

	t.Run("KeyCarriesTTL", func(t *testing.T) {
		key := fmt.Sprintf("it_ttl_%d", time.Now().UnixNano())

		if err := st.Record(ctx, key, time.Now()); err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		ttl, err := client.TTL(ctx, key).Result()
		if err != nil {
			t.Fatalf("TTL failed: %v", err)
		}
		if ttl <= 0 {
			t.Errorf("Expected key to expire, TTL=%v", ttl)
		}
	})
}

func TestNewRedisStore_PingFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	defer client.Close()

	if _, err := NewRedisStore(client, WithTimeout(200*time.Millisecond)); err == nil {
		t.Fatal("Expected error for unreachable Redis, got nil")
	}
}
