package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/cart"
	"github.com/fjod/shopfront/internal/catalog"
	"github.com/fjod/shopfront/internal/checkout"
	"github.com/fjod/shopfront/internal/notify"
	"github.com/fjod/shopfront/internal/session"
)

// Storefront is the customer-facing surface: thin JSON endpoints over the
// session, cart and checkout contexts. All business rules live behind the
// remote API.
type Storefront struct {
	API     *api.Client
	Session *session.Context
	Cart    *cart.Context
	Catalog *catalog.Cache
	Notify  *notify.Queue

	mu   sync.Mutex
	flow *checkout.Flow
}

func (s *Storefront) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/logout", s.logout)
			r.Get("/me", s.me)
			r.Get("/addresses", s.addresses)
			r.Post("/addresses", s.addAddress)
			r.Delete("/addresses/{id}", s.deleteAddress)
		})

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/products/{id}/reviews", s.productReviews)
		r.Get("/products/{id}/reviews/summary", s.reviewSummary)
		r.Post("/reviews", s.createReview)
		r.Get("/categories", s.categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Post("/items", s.addItem)
			r.Put("/items/{product_id}", s.updateQuantity)
			r.Delete("/items/{product_id}", s.removeItem)
			r.Delete("/", s.clearCart)
		})

		r.Get("/wishlist", s.wishlist)
		r.Post("/wishlist/{product_id}/toggle", s.toggleWishlist)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", s.startCheckout)
			r.Get("/", s.checkoutState)
			r.Put("/shipping", s.submitShipping)
			r.Post("/back", s.checkoutBack)
			r.Post("/coupon", s.applyCoupon)
			r.Delete("/coupon", s.removeCoupon)
			r.Post("/submit", s.submitOrder)
		})

		r.Get("/orders", s.orders)
		r.Get("/orders/{id}", s.getOrder)

		r.Get("/notifications", s.notifications)
		r.Delete("/notifications/{id}", s.dismissNotification)
	})
}

// --- auth ---

type credentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Storefront) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := s.Session.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	user, _ := s.Session.User()
	s.Notify.Push(fmt.Sprintf("Welcome back, %s!", user.Email), notify.LevelSuccess)
	respondJSON(w, http.StatusOK, user)
}

type registerDTO struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone,omitempty"`
}

func (s *Storefront) register(w http.ResponseWriter, r *http.Request) {
	var req registerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// confirmation mismatch never leaves the client
	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "validation_error", "passwords do not match")
		return
	}
	user, err := s.API.Register(r.Context(), api.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Storefront) logout(w http.ResponseWriter, r *http.Request) {
	s.Session.Logout(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Storefront) me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.Session.User()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Storefront) addresses(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	addrs, err := s.API.Addresses(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addrs)
}

func (s *Storefront) addAddress(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	var addr api.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	created, err := s.API.AddAddress(r.Context(), token, addr)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Storefront) deleteAddress(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.API.DeleteAddress(r.Context(), token, id); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- catalog ---

func (s *Storefront) listProducts(w http.ResponseWriter, r *http.Request) {
	q := api.ProductQuery{Search: r.URL.Query().Get("search")}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		q.PageSize = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64); err == nil {
		q.CategoryID = v
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("min_price"), 64); err == nil {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("max_price"), 64); err == nil {
		q.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(r.URL.Query().Get("is_featured")); err == nil {
		q.IsFeatured = &v
	}

	list, err := s.Catalog.ListProducts(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Storefront) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Storefront) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.API.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// --- reviews ---

func (s *Storefront) productReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := s.API.ProductReviews(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Storefront) reviewSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	summary, err := s.API.ProductReviewSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Storefront) createReview(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to leave a review")
		return
	}
	var req api.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "validation_error", "rating must be between 1 and 5")
		return
	}
	review, err := s.API.CreateReview(r.Context(), token, req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.Notify.Push("Thanks for your review!", notify.LevelSuccess)
	respondJSON(w, http.StatusCreated, review)
}

// --- cart ---

type cartDTO struct {
	Items         []cart.LineItem `json:"items"`
	Count         int             `json:"count"`
	SubtotalCents int64           `json:"subtotal_cents"`
}

func (s *Storefront) cartResponse() cartDTO {
	return cartDTO{
		Items:         s.Cart.Items(),
		Count:         s.Cart.Count(),
		SubtotalCents: s.Cart.SubtotalCents(),
	}
}

func (s *Storefront) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.cartResponse())
}

type addItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (s *Storefront) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	// snapshot the product as the customer sees it right now
	p, err := s.Catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	snap := cart.Snapshot{
		ProductID:  p.ID,
		Name:       p.Name,
		PriceCents: cart.CentsFromDollars(p.Price),
	}
	if len(p.Images) > 0 {
		snap.ImageURL = p.Images[0].ImageURL
	}
	if err := s.Cart.Add(r.Context(), snap, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	s.Notify.Push(fmt.Sprintf("%q added to cart!", p.Name), notify.LevelSuccess)
	respondJSON(w, http.StatusCreated, s.cartResponse())
}

type updateQuantityDTO struct {
	Quantity int `json:"quantity"`
}

func (s *Storefront) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	var req updateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := s.Cart.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Storefront) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	if err := s.Cart.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Storefront) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.Cart.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

// --- wishlist ---

func (s *Storefront) wishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"product_ids": s.Cart.Wishlist()})
}

func (s *Storefront) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}
	in, err := s.Cart.ToggleWishlist(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if in {
		s.Notify.Push("Added to wishlist", notify.LevelSuccess)
	} else {
		s.Notify.Push("Removed from wishlist", notify.LevelInfo)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"in_wishlist": in})
}

// --- checkout ---

type checkoutDTO struct {
	State       checkout.State        `json:"state"`
	Form        checkout.ShippingForm `json:"form"`
	Coupon      *checkout.Coupon      `json:"coupon,omitempty"`
	Totals      checkout.Totals       `json:"totals"`
	OrderNumber string                `json:"order_number,omitempty"`
}

func (s *Storefront) currentFlow() *checkout.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow
}

func (s *Storefront) flowResponse(f *checkout.Flow) checkoutDTO {
	dto := checkoutDTO{
		State:       f.State(),
		Form:        f.Form(),
		Totals:      f.Totals(),
		OrderNumber: f.OrderNumber(),
	}
	if c, ok := f.Coupon(); ok {
		dto.Coupon = &c
	}
	return dto
}

// startCheckout opens a fresh flow. A completed flow is replaced; an
// empty cart is turned away at the door.
func (s *Storefront) startCheckout(w http.ResponseWriter, r *http.Request) {
	f, err := checkout.NewFlow(s.API, s.Cart, s.Session)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.flow = f
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, s.flowResponse(f))
}

func (s *Storefront) checkoutState(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	respondJSON(w, http.StatusOK, s.flowResponse(f))
}

func (s *Storefront) submitShipping(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	var form checkout.ShippingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := f.SetShipping(form); err != nil {
		writeError(w, err)
		return
	}
	if err := f.ContinueToReview(); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.flowResponse(f))
}

func (s *Storefront) checkoutBack(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	if err := f.BackToShipping(); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.flowResponse(f))
}

type couponDTO struct {
	Code string `json:"code"`
}

func (s *Storefront) applyCoupon(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	var req couponDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "coupon code is required")
		return
	}
	if err := f.ApplyCoupon(r.Context(), req.Code); err != nil {
		writeError(w, err)
		return
	}
	c, _ := f.Coupon()
	s.Notify.Push(fmt.Sprintf("Coupon %s applied!", c.Code), notify.LevelSuccess)
	respondJSON(w, http.StatusOK, s.flowResponse(f))
}

func (s *Storefront) removeCoupon(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	f.RemoveCoupon()
	respondJSON(w, http.StatusOK, s.flowResponse(f))
}

func (s *Storefront) submitOrder(w http.ResponseWriter, r *http.Request) {
	f := s.currentFlow()
	if f == nil {
		respondError(w, http.StatusNotFound, "no_active_checkout", "no checkout in progress")
		return
	}
	orderNumber, err := f.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.Notify.Push(fmt.Sprintf("Order %s placed!", orderNumber), notify.LevelSuccess)
	respondJSON(w, http.StatusCreated, s.flowResponse(f))
}

// --- orders ---

func (s *Storefront) orders(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to see your orders")
		return
	}
	orders, err := s.API.Orders(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Storefront) getOrder(w http.ResponseWriter, r *http.Request) {
	token := s.Session.Token()
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to see your orders")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := s.API.GetOrder(r.Context(), token, id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// --- notifications ---

func (s *Storefront) notifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Notify.Active())
}

func (s *Storefront) dismissNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.Notify.Dismiss(id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// pathID parses a positive integer URL parameter, answering 400 itself
// when the value is unusable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
