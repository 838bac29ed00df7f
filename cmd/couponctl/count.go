package main

import (
	"encoding/json"
	"fmt"

	"coupon-insights/internal/bootstrap"
	"coupon-insights/internal/coupon"
	"coupon-insights/internal/service"

	"github.com/spf13/cobra"
)

var countOpts struct {
	asJSON bool
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count coupons holding a product code no other coupon holds",
	Long: `Reads every coupon from the source selected by SOURCE_KIND and prints
the number of coupons with at least one product code that appears on no other
coupon. Codes compare case-insensitively.`,
	Args: cobra.NoArgs,
	RunE: runCount,
}

func init() {
	countCmd.Flags().BoolVar(&countOpts.asJSON, "json", false, "print the full report as JSON")
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	source, closeSource, err := bootstrap.NewSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := service.NewReportService(coupon.NewCounter(source, logger), nil, logger)
	report, err := svc.UniqueProductCodes(ctx)
	if err != nil {
		return err
	}

	if countOpts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Count)
	return nil
}
