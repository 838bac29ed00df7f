package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"coupon-insights/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFinder map[string]*model.Coupon

func (m mapFinder) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return m[strings.ToLower(code)], nil
}

type failingFinder struct{ err error }

func (f failingFinder) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return nil, f.err
}

func TestPrintCoupon(t *testing.T) {
	stored := &model.Coupon{
		ID:           uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Name:         "Spring sale",
		CouponCode:   "spring10",
		Price:        10,
		MaxUsages:    5,
		ProductCodes: []string{"sku-1", "sku-2"},
	}
	finder := mapFinder{"spring10": stored}

	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "Exact code", code: "spring10"},
		{name: "Code in another case", code: "SPRING10"},
		{name: "Missing code", code: "winter", wantErr: `coupon "winter" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := printCoupon(context.Background(), &out, finder, tt.code)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Empty(t, out.String())
				return
			}

			require.NoError(t, err)
			var got model.Coupon
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, *stored, got)
		})
	}
}

func TestPrintCoupon_RepositoryError(t *testing.T) {
	var out bytes.Buffer
	err := printCoupon(context.Background(), &out, failingFinder{err: errors.New("connection reset")}, "spring10")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, out.String())
}

func TestGetCmd_RequiresOneCode(t *testing.T) {
	assert.Error(t, getCmd.Args(getCmd, nil))
	assert.Error(t, getCmd.Args(getCmd, []string{"a", "b"}))
	assert.NoError(t, getCmd.Args(getCmd, []string{"a"}))
}
