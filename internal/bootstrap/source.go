// Package bootstrap assembles the configured coupon source for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"coupon-insights/internal/config"
	"coupon-insights/internal/coupon"
	"coupon-insights/internal/database"
	"coupon-insights/internal/model"
	"coupon-insights/internal/repository"

	"github.com/rs/zerolog"
)

// NewSource builds the coupon source selected by cfg.Source. Several kinds are
// combined into one source that reads them concurrently. The returned cleanup
// releases every connection opened here and is safe to call once.
func NewSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Source, func(), error) {
	var (
		sources  []coupon.Source
		closers  []func()
		teardown = func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	)

	for _, kind := range cfg.Source.Kinds() {
		src, closer, err := newSource(ctx, kind, cfg, logger)
		if err != nil {
			teardown()
			return nil, nil, err
		}
		sources = append(sources, src)
		if closer != nil {
			closers = append(closers, closer)
		}
		logger.Info().Str("source", kind).Msg("coupon source ready")
	}

	switch len(sources) {
	case 0:
		return nil, nil, fmt.Errorf("no coupon source configured: %w", model.ErrUnknownSourceKind)
	case 1:
		return sources[0], teardown, nil
	default:
		return coupon.NewCompositeSource(logger, sources...), teardown, nil
	}
}

func newSource(ctx context.Context, kind string, cfg *config.Config, logger zerolog.Logger) (coupon.Source, func(), error) {
	switch kind {
	case config.SourceKindPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise database: %w", err)
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewCouponRepository(pool, logger), pool.Close, nil

	case config.SourceKindFile:
		return coupon.NewSnapshotSource(coupon.NewFileLoader(logger), cfg.Source.Path), nil, nil

	case config.SourceKindS3:
		fileLoader := coupon.NewFileLoader(logger)
		s3Loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			return coupon.NewSnapshotSource(fileLoader, cfg.Source.Path), nil, nil
		}
		loader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
		return coupon.NewSnapshotSource(loader, cfg.Source.Path), nil, nil

	case config.SourceKindRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise redis: %w", err)
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close redis client")
			}
		}
		return coupon.NewRedisSource(client, cfg.Redis.Key, logger), closer, nil

	default:
		return nil, nil, fmt.Errorf("source kind %q: %w", kind, model.ErrUnknownSourceKind)
	}
}
