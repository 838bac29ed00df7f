package coupon

import (
	"context"
	"encoding/json"
	"fmt"

	"coupon-insights/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisKey is the hash holding coupon snapshots when none is configured.
const DefaultRedisKey = "coupons"

// RedisSource reads coupons from a Redis hash whose fields are coupon IDs
// and whose values are coupon JSON documents.
type RedisSource struct {
	rdb    *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisSource creates a Source backed by the hash at key.
func NewRedisSource(rdb *redis.Client, key string, logger zerolog.Logger) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{
		rdb:    rdb,
		key:    key,
		logger: logger.With().Str("component", "redis-coupon-source").Str("key", key).Logger(),
	}
}

// GetAll returns every coupon stored in the hash.
func (s *RedisSource) GetAll(ctx context.Context) ([]model.Coupon, error) {
	values, err := s.rdb.HVals(ctx, s.key).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read coupons from redis")
		return nil, fmt.Errorf("failed to read coupons from redis hash %s: %w", s.key, err)
	}

	coupons := make([]model.Coupon, 0, len(values))
	for _, value := range values {
		var c model.Coupon
		if err := json.Unmarshal([]byte(value), &c); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode coupon from redis")
			return nil, fmt.Errorf("failed to decode coupon from redis hash %s: %w", s.key, err)
		}
		coupons = append(coupons, c)
	}

	s.logger.Debug().Int("coupons_loaded", len(coupons)).Msg("coupons read from redis")

	return coupons, nil
}

// Store writes coupons into the hash, replacing entries with the same ID.
func (s *RedisSource) Store(ctx context.Context, coupons []model.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, c := range coupons {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode coupon %s: %w", c.ID, err)
		}
		pipe.HSet(ctx, s.key, c.ID.String(), payload)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Int("count", len(coupons)).Msg("failed to store coupons in redis")
		return fmt.Errorf("failed to store coupons in redis hash %s: %w", s.key, err)
	}

	s.logger.Info().Int("count", len(coupons)).Msg("coupons stored in redis")

	return nil
}
