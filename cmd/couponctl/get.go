package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"coupon-insights/internal/database"
	"coupon-insights/internal/model"
	"coupon-insights/internal/repository"

	"github.com/spf13/cobra"
)

// couponFinder is the lookup half of repository.CouponRepository.
type couponFinder interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

var getCmd = &cobra.Command{
	Use:   "get <coupon-code>",
	Short: "Print one stored coupon as JSON",
	Long: `Looks up a coupon in PostgreSQL by its code, ignoring case, and prints it
with its product codes as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise database: %w", err)
	}
	defer pool.Close()

	return printCoupon(ctx, cmd.OutOrStdout(), repository.NewCouponRepository(pool, logger), args[0])
}

// printCoupon writes the coupon stored under code as indented JSON.
func printCoupon(ctx context.Context, out io.Writer, finder couponFinder, code string) error {
	c, err := finder.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("coupon %q not found", code)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
