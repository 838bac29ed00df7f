package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"coupon-insights/internal/coupon"
	"coupon-insights/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var generateOpts struct {
	out            string
	coupons        int
	codesPerCoupon int
	sharedCodes    int
	sharedRatio    float64
	seed           uint64
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic coupon snapshot",
	Long: `Writes a snapshot of generated coupons. The format follows the file
extension: .json, .yaml or .yml, optionally followed by .gz.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.out, "out", "o", "data/coupons.json.gz", "snapshot file to write")
	f.IntVarP(&generateOpts.coupons, "coupons", "n", 1000, "number of coupons")
	f.IntVarP(&generateOpts.codesPerCoupon, "codes", "k", 5, "product codes per coupon")
	f.IntVar(&generateOpts.sharedCodes, "shared-codes", 50, "size of the shared product code pool")
	f.Float64Var(&generateOpts.sharedRatio, "shared-ratio", 0.8, "probability that a code is drawn from the shared pool")
	f.Uint64Var(&generateOpts.seed, "seed", 1, "random seed")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateOpts.coupons < 0 || generateOpts.codesPerCoupon < 0 {
		return fmt.Errorf("coupons and codes must not be negative")
	}
	if generateOpts.sharedRatio < 0 || generateOpts.sharedRatio > 1 {
		return fmt.Errorf("shared-ratio must be between 0 and 1")
	}

	coupons := generateCoupons(generateOpts.coupons, generateOpts.codesPerCoupon,
		generateOpts.sharedCodes, generateOpts.sharedRatio, generateOpts.seed)

	if dir := filepath.Dir(generateOpts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(generateOpts.out)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := coupon.EncodeSnapshot(f, generateOpts.out, coupons); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d coupons\n", generateOpts.out, len(coupons))
	return nil
}

// generateCoupons builds n coupons with k codes each. Each code comes from a
// pool of shared codes with probability ratio, otherwise it is unique to the
// coupon. Equal seeds give equal output apart from IDs.
func generateCoupons(n, k, shared int, ratio float64, seed uint64) []model.Coupon {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	coupons := make([]model.Coupon, 0, n)
	for i := 0; i < n; i++ {
		codes := make([]string, 0, k)
		for j := 0; j < k; j++ {
			if shared > 0 && rng.Float64() < ratio {
				codes = append(codes, fmt.Sprintf("SHARED%04d", rng.IntN(shared)))
			} else {
				codes = append(codes, fmt.Sprintf("PROD%06d-%02d", i, j))
			}
		}
		coupons = append(coupons, model.Coupon{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("Coupon %d", i+1),
			CouponCode:   fmt.Sprintf("CPN%06d", i+1),
			Price:        float64(rng.IntN(100) + 1),
			MaxUsages:    rng.IntN(10) + 1,
			ProductCodes: codes,
		})
	}
	return coupons
}
