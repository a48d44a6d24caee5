package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/metaman/internal/platform/idempotency"
	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Marking     services.MarkingService
	Idempotency idempotency.Store
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, []func() error, error) {
	log.Info("Wiring services...")
	var closers []func() error

	defaultAuthor, err := cfg.DefaultAuthor()
	if err != nil {
		return Services{}, nil, err
	}

	var store idempotency.Store
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisStore, closeRedis, err := idempotency.NewRedisStore(ctx, log, idempotency.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.IdempotencyTTL,
		})
		if err != nil {
			return Services{}, nil, fmt.Errorf("init idempotency store: %w", err)
		}
		store = redisStore
		closers = append(closers, closeRedis)
	} else {
		log.Warn("REDIS_ADDR not set; idempotency keys are process local")
		store = idempotency.NewMemoryStore(cfg.Redis.IdempotencyTTL)
	}

	return Services{
		Auth:        services.NewAuthService(log, cfg.Auth.JWTSecret),
		Marking:     services.NewMarkingService(db, log, reposet.Marking, defaultAuthor),
		Idempotency: store,
	}, closers, nil
}
