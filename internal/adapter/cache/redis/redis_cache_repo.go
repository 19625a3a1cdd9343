package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/port/cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options are the connection settings for NewRedisClient.
type Options struct {
	Address  string
	Password string
	DB       int
}

type redisCacheRepository struct {
	client redis.Cmdable
	logger *logger.Logger
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, opts Options, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", opts.Address), zap.Error(err))
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Address, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", opts.Address))
	return rdb, nil
}

func NewRedisCacheRepository(client redis.Cmdable, log *logger.Logger) cache.CacheRepository {
	return &redisCacheRepository{
		client: client,
		logger: log.Named("RedisCache"),
	}
}

func (r *redisCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrNotFound
		}
		r.logger.Error("Redis Get operation failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("redisCacheRepository.Get for key '%s': %w", key, err)
	}
	return val, nil
}

func (r *redisCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Redis Set operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redisCacheRepository.Set for key '%s': %w", key, err)
	}
	r.logger.Debug("Redis Set operation successful", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *redisCacheRepository) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		r.logger.Error("Redis Del operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redisCacheRepository.Delete for key '%s': %w", key, err)
	}
	r.logger.Debug("Redis Del operation done", zap.String("key", key), zap.Int64("removed", n))
	return nil
}
