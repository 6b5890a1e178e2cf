package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/catalog"
	"github.com/fjod/shopfront/internal/session"
)

// Admin is the back-office surface. Its session context carries a required
// role, so a customer account that authenticates fine is still turned away.
type Admin struct {
	API     *api.Client
	Session *session.Context
	Catalog *catalog.Cache
}

func (a *Admin) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.login)
		r.Post("/auth/logout", a.logout)
		r.Get("/auth/me", a.me)

		r.Group(func(r chi.Router) {
			r.Use(a.requireSession)

			r.Get("/orders", a.orders)
			r.Put("/orders/{id}/status", a.updateOrderStatus)

			r.Post("/products", a.createProduct)
			r.Put("/products/{id}", a.updateProduct)
			r.Delete("/products/{id}", a.deleteProduct)

			r.Post("/categories", a.createCategory)

			r.Get("/coupons", a.coupons)
			r.Post("/coupons", a.createCoupon)
			r.Delete("/coupons/{id}", a.deleteCoupon)

			r.Get("/reviews", a.reviews)
			r.Put("/reviews/{id}/approve", a.approveReview)
			r.Delete("/reviews/{id}", a.deleteReview)
		})
	})
}

// requireSession guards everything past login. The role gate itself lives
// in the session context; here an absent token is simply unauthenticated.
func (a *Admin) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Session.Authenticated() {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Admin) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := a.Session.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	user, _ := a.Session.User()
	respondJSON(w, http.StatusOK, user)
}

func (a *Admin) logout(w http.ResponseWriter, r *http.Request) {
	a.Session.Logout(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (a *Admin) me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.Session.User()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// --- orders ---

func (a *Admin) orders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.API.AdminAllOrders(r.Context(), a.Session.Token())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type orderStatusDTO struct {
	Status string `json:"status"`
}

func (a *Admin) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req orderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}
	order, err := a.API.AdminUpdateOrderStatus(r.Context(), a.Session.Token(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// --- products ---

func (a *Admin) createProduct(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "name and a positive price are required")
		return
	}
	p, err := a.API.AdminCreateProduct(r.Context(), a.Session.Token(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	a.Catalog.Invalidate(p.ID)
	respondJSON(w, http.StatusCreated, p)
}

func (a *Admin) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req api.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	p, err := a.API.AdminUpdateProduct(r.Context(), a.Session.Token(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	a.Catalog.Invalidate(id)
	respondJSON(w, http.StatusOK, p)
}

func (a *Admin) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.API.AdminDeleteProduct(r.Context(), a.Session.Token(), id); err != nil {
		writeError(w, err)
		return
	}
	a.Catalog.Invalidate(id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- categories ---

func (a *Admin) createCategory(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	cat, err := a.API.AdminCreateCategory(r.Context(), a.Session.Token(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}

// --- coupons ---

func (a *Admin) coupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := a.API.AdminAllCoupons(r.Context(), a.Session.Token())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, coupons)
}

func (a *Admin) createCoupon(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" || req.DiscountType == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "code and discount_type are required")
		return
	}
	coupon, err := a.API.AdminCreateCoupon(r.Context(), a.Session.Token(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, coupon)
}

func (a *Admin) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.API.AdminDeleteCoupon(r.Context(), a.Session.Token(), id); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- reviews ---

func (a *Admin) reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := a.API.AdminAllReviews(r.Context(), a.Session.Token())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (a *Admin) approveReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.API.AdminApproveReview(r.Context(), a.Session.Token(), id); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (a *Admin) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.API.AdminDeleteReview(r.Context(), a.Session.Token(), id); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
