// Command couponctl seeds coupon stores, looks up stored coupons and runs the
// unique product code count from the command line.
package main

import (
	"fmt"
	"os"

	"coupon-insights/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "couponctl",
	Short:         "Coupon store and report tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(generateCmd, populateCmd, countCmd, getCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the shared environment configuration and builds a logger on stderr.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, config.NewLoggerTo(cfg.Logger, os.Stderr), nil
}
