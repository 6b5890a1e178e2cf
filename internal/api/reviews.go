package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Review struct {
	ID                 int64     `json:"id"`
	ProductID          int64     `json:"product_id"`
	UserID             int64     `json:"user_id"`
	UserName           string    `json:"user_name"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title,omitempty"`
	Body               string    `json:"body,omitempty"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	HelpfulCount       int       `json:"helpful_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type ReviewSummary struct {
	ProductID       int64          `json:"product_id"`
	AverageRating   float64        `json:"average_rating"`
	TotalReviews    int            `json:"total_reviews"`
	RatingBreakdown map[string]int `json:"rating_breakdown"`
}

type CreateReviewRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
}

func (c *Client) ProductReviews(ctx context.Context, productID int64) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/product/%d", productID), "", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) ProductReviewSummary(ctx context.Context, productID int64) (*ReviewSummary, error) {
	var summary ReviewSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/product/%d/summary", productID), "", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) CreateReview(ctx context.Context, token string, req CreateReviewRequest) (*Review, error) {
	var review Review
	if err := c.do(ctx, http.MethodPost, "/reviews/", token, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) AdminAllReviews(ctx context.Context, token string) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/reviews/admin/all", token, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) AdminApproveReview(ctx context.Context, token string, reviewID int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/reviews/admin/%d/approve", reviewID), token, nil, nil)
}

func (c *Client) AdminDeleteReview(ctx context.Context, token string, reviewID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/admin/%d", reviewID), token, nil, nil)
}
