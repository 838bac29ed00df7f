package database

import (
	"context"
	"fmt"
	"time"

	"coupon-insights/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ApplicationName identifies this service's sessions in pg_stat_activity.
const ApplicationName = "coupon-insights"

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
// It logs the server version and whether the coupon tables already exist.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	log := logger.With().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Logger()

	log.Info().Int("max_connections", cfg.MaxConnections).Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	version, schemaReady, err := inspect(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("server_version", version).
		Bool("schema_ready", schemaReady).
		Msg("database connection pool ready")

	return pool, nil
}

// inspect reports the server version and whether every coupon table exists.
func inspect(ctx context.Context, pool *pgxpool.Pool) (string, bool, error) {
	var (
		version     string
		schemaReady bool
	)
	err := pool.QueryRow(ctx, `
		SELECT current_setting('server_version'),
			to_regclass('coupons') IS NOT NULL
			AND to_regclass('products') IS NOT NULL
			AND to_regclass('coupon_products') IS NOT NULL
	`).Scan(&version, &schemaReady)
	if err != nil {
		return "", false, fmt.Errorf("failed to inspect database: %w", err)
	}
	return version, schemaReady, nil
}
