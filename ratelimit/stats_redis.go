package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore aggregates decisions into Redis hashes shared by every
// instance of the service:
//
//	<prefix>:total             allowed|denied
//	<prefix>:day:<YYYYMMDD>    allowed|denied, expires after ttl
//	<prefix>:route             <METHOD /path>:allowed|denied
type RedisStatsStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "leads:ratelimit",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	dayKey := fmt.Sprintf("%s:day:%s", s.prefix, at.UTC().Format("20060102"))
	pipe.HIncrBy(ctx, dayKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, dayKey, s.ttl)
	}

	if route := strings.TrimSpace(ev.Route); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}
