package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/metaman/internal/platform/logger"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

type redisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, log *logger.Logger, cfg RedisConfig) (Store, func() error, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil, fmt.Errorf("missing redis addr")
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "metaman:idem:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		log:    log.With("service", "RedisIdempotencyStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, rdb.Close, nil
}

func (s *redisStore) key(k string) string { return s.prefix + k }

// Values are "<state>|<fingerprint>|<ref>"; fingerprints and refs are hex
// or uuid strings and never contain "|".
func encode(rec Record) string {
	return string(rec.State) + "|" + rec.Fingerprint + "|" + rec.Ref
}

func decode(raw string) Record {
	parts := strings.SplitN(raw, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return Record{State: State(parts[0]), Fingerprint: parts[1], Ref: parts[2]}
}

func (s *redisStore) Claim(ctx context.Context, key, fingerprint string) (bool, Record, error) {
	rec := Record{State: StatePending, Fingerprint: fingerprint}
	ok, err := s.rdb.SetNX(ctx, s.key(key), encode(rec), s.ttl).Result()
	if err != nil {
		return false, Record{}, fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		return true, rec, nil
	}
	existing, found, err := s.Lookup(ctx, key)
	if err != nil {
		return false, Record{}, err
	}
	if !found {
		// Expired between SETNX and GET; report it as in flight so the client retries.
		return false, Record{State: StatePending, Fingerprint: fingerprint}, nil
	}
	return false, existing, nil
}

func (s *redisStore) Complete(ctx context.Context, key, fingerprint, ref string) error {
	val := encode(Record{State: StateCompleted, Fingerprint: fingerprint, Ref: ref})
	if err := s.rdb.Set(ctx, s.key(key), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		s.log.Warn("release idempotency key failed", "error", err)
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *redisStore) Lookup(ctx context.Context, key string) (Record, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("redis get: %w", err)
	}
	return decode(raw), true, nil
}
