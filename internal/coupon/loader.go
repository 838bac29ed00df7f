package coupon

import (
	"context"
	"fmt"
	"os"

	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading coupon snapshots from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a coupon snapshot file. See decodeSnapshot for the formats.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Coupon, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon snapshot")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon snapshot")
		return nil, fmt.Errorf("failed to open coupon snapshot %s: %w", filePath, err)
	}
	defer file.Close()

	coupons, err := decodeSnapshot(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon snapshot")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", len(coupons)).
		Msg("coupon snapshot loaded successfully")

	return coupons, nil
}

// snapshotSource adapts a Loader and a fixed path to the Source interface.
type snapshotSource struct {
	loader Loader
	path   string
}

// NewSnapshotSource creates a Source that loads path through loader on
// every call, so changes to the snapshot are picked up by the next count.
func NewSnapshotSource(loader Loader, path string) Source {
	return &snapshotSource{
		loader: loader,
		path:   path,
	}
}

// GetAll loads the snapshot.
func (s *snapshotSource) GetAll(ctx context.Context) ([]model.Coupon, error) {
	return s.loader.Load(ctx, s.path)
}
