package coupon

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"coupon-insights/internal/model"

	"gopkg.in/yaml.v3"
)

// decodeSnapshot decodes a coupon list from r. The format is chosen from
// name: a ".gz" suffix means gzip, then ".yaml"/".yml" selects YAML and
// anything else is read as a JSON array.
func decodeSnapshot(r io.Reader, name string) ([]model.Coupon, error) {
	base := strings.ToLower(path.Base(name))

	if strings.HasSuffix(base, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()

		r = gzipReader
		base = strings.TrimSuffix(base, ".gz")
	}

	var coupons []model.Coupon
	switch path.Ext(base) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&coupons); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML snapshot %s: %w", name, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&coupons); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode JSON snapshot %s: %w", name, err)
		}
	}

	if coupons == nil {
		coupons = []model.Coupon{}
	}

	return coupons, nil
}

// EncodeSnapshot writes coupons to w in the format implied by name, the
// inverse of the format detection used by the loaders.
func EncodeSnapshot(w io.Writer, name string, coupons []model.Coupon) error {
	base := strings.ToLower(path.Base(name))

	if !strings.HasSuffix(base, ".gz") {
		return encodeCoupons(w, name, base, coupons)
	}

	gzipWriter := gzip.NewWriter(w)
	if err := encodeCoupons(gzipWriter, name, strings.TrimSuffix(base, ".gz"), coupons); err != nil {
		gzipWriter.Close()
		return err
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip snapshot %s: %w", name, err)
	}
	return nil
}

func encodeCoupons(w io.Writer, name, base string, coupons []model.Coupon) error {
	switch path.Ext(base) {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(coupons); err != nil {
			return fmt.Errorf("failed to encode YAML snapshot %s: %w", name, err)
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(coupons); err != nil {
			return fmt.Errorf("failed to encode JSON snapshot %s: %w", name, err)
		}
		return nil
	}
}
