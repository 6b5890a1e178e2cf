package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// CreateOrderRequest is the assembled submission. Exactly one of the two
// identities must be present: a bearer token on the call, or the guest
// contact fields in the body.
type CreateOrderRequest struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
	Phone           string      `json:"phone"`
	Notes           string      `json:"notes,omitempty"`
	GuestEmail      string      `json:"guest_email,omitempty"`
	GuestName       string      `json:"guest_name,omitempty"`
	CouponCode      string      `json:"coupon_code,omitempty"`
	IdempotencyKey  string      `json:"idempotency_key,omitempty"`
}

type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	ShippingCost    float64     `json:"shipping_cost"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	Phone           string      `json:"phone"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest, token string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders/", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders/", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token string, id int64) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Admin surface.

func (c *Client) AdminAllOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders/admin/all", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, token string, orderID int64, status string) (*Order, error) {
	path := fmt.Sprintf("/orders/%d/status?status=%s", orderID, url.QueryEscape(status))
	var order Order
	if err := c.do(ctx, http.MethodPut, path, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
