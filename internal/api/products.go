package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ProductImage struct {
	ID       int64  `json:"id,omitempty"`
	ImageURL string `json:"image_url"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Price         float64        `json:"price"`
	ComparePrice  *float64       `json:"compare_price,omitempty"`
	SKU           string         `json:"sku,omitempty"`
	StockQuantity int            `json:"stock_quantity"`
	IsFeatured    bool           `json:"is_featured,omitempty"`
	Category      *Category      `json:"category,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
}

type ProductList struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// ProductQuery mirrors the list endpoint's filter parameters. Zero values
// are omitted from the query string.
type ProductQuery struct {
	Page       int
	PageSize   int
	CategoryID int64
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	IsFeatured *bool
}

// Encode renders the query string, also used as a cache key by callers.
func (q ProductQuery) Encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.IsFeatured != nil {
		v.Set("is_featured", strconv.FormatBool(*q.IsFeatured))
	}
	return v.Encode()
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	path := "/products/"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var list ProductList
	if err := c.do(ctx, http.MethodGet, path, "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", "", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}
