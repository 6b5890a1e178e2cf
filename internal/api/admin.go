package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type CreateProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	ComparePrice  *float64 `json:"compare_price,omitempty"`
	SKU           string   `json:"sku,omitempty"`
	CategoryID    *int64   `json:"category_id,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
}

func (c *Client) AdminCreateProduct(ctx context.Context, token string, req CreateProductRequest) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, "/products/", token, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AdminUpdateProduct(ctx context.Context, token string, id int64, req CreateProductRequest) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), token, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), token, nil, nil)
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

func (c *Client) AdminCreateCategory(ctx context.Context, token string, req CreateCategoryRequest) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/products/categories", token, req, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

type CreateCouponRequest struct {
	Code              string     `json:"code"`
	Description       string     `json:"description,omitempty"`
	DiscountType      string     `json:"discount_type"`
	DiscountValue     float64    `json:"discount_value"`
	MinOrderAmount    float64    `json:"min_order_amount,omitempty"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

func (c *Client) AdminAllCoupons(ctx context.Context, token string) ([]Coupon, error) {
	var coupons []Coupon
	if err := c.do(ctx, http.MethodGet, "/coupons/admin/all", token, nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (c *Client) AdminCreateCoupon(ctx context.Context, token string, req CreateCouponRequest) (*Coupon, error) {
	var coupon Coupon
	if err := c.do(ctx, http.MethodPost, "/coupons/admin", token, req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *Client) AdminDeleteCoupon(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/coupons/admin/%d", id), token, nil, nil)
}
