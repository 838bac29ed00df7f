package main

import (
	"fmt"

	"coupon-insights/internal/coupon"
	"coupon-insights/internal/database"
	"coupon-insights/internal/repository"

	"github.com/spf13/cobra"
)

var populateOpts struct {
	redis bool
}

var populateCmd = &cobra.Command{
	Use:   "populate <snapshot>",
	Short: "Load a snapshot into PostgreSQL, and optionally Redis",
	Args:  cobra.ExactArgs(1),
	RunE:  runPopulate,
}

func init() {
	populateCmd.Flags().BoolVar(&populateOpts.redis, "redis", false, "also store the coupons in the configured Redis hash")
}

func runPopulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	coupons, err := coupon.NewFileLoader(logger).Load(ctx, args[0])
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise database: %w", err)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	repo := repository.NewCouponRepository(pool, logger)
	for i := range coupons {
		if err := repo.Save(ctx, &coupons[i]); err != nil {
			return fmt.Errorf("coupon %s: %w", coupons[i].CouponCode, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d coupons to PostgreSQL\n", len(coupons))

	if !populateOpts.redis {
		return nil
	}

	client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise redis: %w", err)
	}
	defer client.Close()

	if err := coupon.NewRedisSource(client, cfg.Redis.Key, logger).Store(ctx, coupons); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d coupons in redis hash %s\n", len(coupons), cfg.Redis.Key)

	return nil
}
