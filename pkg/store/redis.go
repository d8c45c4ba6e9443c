package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// RedisStore is a distributed event store backed by one Redis sorted set per
// key. The member score is the event timestamp in unix nanoseconds; members
// carry a uuid suffix so concurrent writers never collide on the same
// nanosecond.
//
// Keys expire after the retention period, so identities that stop sending
// requests do not leak memory in Redis.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	timeout   time.Duration
}

type RedisOption func(*RedisStore)

// WithRetention sets how long events are kept. It must be at least the
// longest window ever queried for a key (default 1h).
func WithRetention(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.retention = d
	}
}

// WithTimeout sets the per-operation context timeout for Redis calls
// (default 5s).
func WithTimeout(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.timeout = d
	}
}

// NewRedisStore constructs a RedisStore and verifies connectivity with a
// ping.
func NewRedisStore(client *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	s := &RedisStore{
		client:    client,
		retention: defaultRetention,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Record adds one event under key. The write, the lazy prune of entries
// older than the retention period, and the TTL refresh run in a single
// transactional pipeline.
func (s *RedisStore) Record(ctx context.Context, key string, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	nanos := ts.UnixNano()
	member := strconv.FormatInt(nanos, 10) + "-" + uuid.NewString()

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(nanos), Member: member})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(ts.Add(-s.retention).UnixNano(), 10))
	pipe.Expire(ctx, key, s.retention)
	_, err := pipe.Exec(ctx)
	return err
}

// CountWithin counts events for key in (now-window, now] via ZCOUNT with an
// exclusive lower bound.
func (s *RedisStore) CountWithin(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	min := "(" + strconv.FormatInt(now.Add(-window).UnixNano(), 10)
	max := strconv.FormatInt(now.UnixNano(), 10)
	return s.client.ZCount(ctx, key, min, max).Result()
}
