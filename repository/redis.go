package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

const (
	topSellersKey       = "report:top-sellers"
	reportGenerationKey = "report:generation"
)

// RedisRepository serves as an INCR based Sequencer and as the short lived
// cache in front of the top sellers report.
type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) Next(ctx context.Context, name string) (int64, error) {
	return r.client.Incr(ctx, fmt.Sprintf("seq:%s", name)).Result()
}

// LoadTopSellers reports a miss with ok == false and a nil error. The
// generation is returned either way.
func (r *RedisRepository) LoadTopSellers(ctx context.Context) (sellers []models.TopSeller, generation int64, ok bool, err error) {
	var genCmd, dataCmd *redis.StringCmd
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		genCmd = pipe.Get(ctx, reportGenerationKey)
		dataCmd = pipe.Get(ctx, topSellersKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	if generation, err = genCmd.Int64(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}
	data, err := dataCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, generation, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	if err := json.Unmarshal(data, &sellers); err != nil {
		return nil, 0, false, err
	}
	return sellers, generation, true, nil
}

// StoreTopSellers caches sellers unless the reports were invalidated after
// generation was read. A lost race is not an error; the report is simply
// not kept.
func (r *RedisRepository) StoreTopSellers(ctx context.Context, generation int64, sellers []models.TopSeller) error {
	data, err := json.Marshal(sellers)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, reportGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, topSellersKey, data, r.config.CacheTTL)
			return nil
		})
		return err
	}, reportGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateReports drops the cached report and starts a new generation in
// one transaction.
func (r *RedisRepository) InvalidateReports(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, reportGenerationKey)
		pipe.Del(ctx, topSellersKey)
		return nil
	})
	return err
}
