package api

import (
	"context"
	"fmt"
	"net/http"
)

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me validates the token against the identity endpoint and returns the
// current user. An *Error with a 401 status means the token is stale.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type Address struct {
	ID           int64  `json:"id,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

func (c *Client) Addresses(ctx context.Context, token string) ([]Address, error) {
	var addrs []Address
	if err := c.do(ctx, http.MethodGet, "/auth/addresses", token, nil, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (c *Client) AddAddress(ctx context.Context, token string, addr Address) (*Address, error) {
	var created Address
	if err := c.do(ctx, http.MethodPost, "/auth/addresses", token, addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteAddress(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/auth/addresses/%d", id), token, nil, nil)
}
