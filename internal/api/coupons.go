package api

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type Coupon struct {
	ID                int64      `json:"id"`
	Code              string     `json:"code"`
	Description       string     `json:"description,omitempty"`
	DiscountType      string     `json:"discount_type"`
	DiscountValue     float64    `json:"discount_value"`
	MinOrderAmount    float64    `json:"min_order_amount"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	UsageCount        int        `json:"usage_count"`
	IsActive          bool       `json:"is_active"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

type ApplyCouponResponse struct {
	Valid          bool    `json:"valid"`
	Message        string  `json:"message"`
	DiscountAmount float64 `json:"discount_amount"`
	Coupon         *Coupon `json:"coupon,omitempty"`
}

// ApplyCoupon validates a code against the current order total. Codes are
// case-normalized before the call. The token is optional: guests may apply
// coupons too.
func (c *Client) ApplyCoupon(ctx context.Context, code string, orderTotal float64, token string) (*ApplyCouponResponse, error) {
	req := map[string]any{
		"code":        strings.ToUpper(strings.TrimSpace(code)),
		"order_total": orderTotal,
	}
	var resp ApplyCouponResponse
	if err := c.do(ctx, http.MethodPost, "/coupons/apply", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
