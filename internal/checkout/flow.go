package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/cart"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrMissingFields      = errors.New("please fill all required fields")
	ErrGuestEmailRequired = errors.New("email is required for guest checkout")
	ErrGuestNameRequired  = errors.New("name is required for guest checkout")
	ErrSubmitInFlight     = errors.New("order submission already in progress")
)

// CouponRejectedError carries the server's rejection reason for a coupon
// that failed validation. The previously applied coupon, if any, stays
// untouched.
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string {
	return e.Reason
}

// OrderAPI is the slice of the API client the flow submits through.
type OrderAPI interface {
	ApplyCoupon(ctx context.Context, code string, orderTotal float64, token string) (*api.ApplyCouponResponse, error)
	CreateOrder(ctx context.Context, req api.CreateOrderRequest, token string) (*api.Order, error)
}

// Cart is the slice of the cart context the flow reads and, on success,
// clears.
type Cart interface {
	Items() []cart.LineItem
	SubtotalCents() int64
	Clear(ctx context.Context) error
}

// Session exposes the bearer token; "" means guest mode.
type Session interface {
	Token() string
}

type ShippingForm struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Notes        string `json:"notes,omitempty"`
	GuestEmail   string `json:"guest_email,omitempty"`
	GuestName    string `json:"guest_name,omitempty"`
}

type Coupon struct {
	Code          string `json:"code"`
	DiscountCents int64  `json:"discount_cents"`
}

// Flow is one checkout attempt: Shipping -> Review -> Confirmed. A flow
// carries a fixed idempotency key, so however often the user retries a
// failed submission, the server can recognize it as the same order.
type Flow struct {
	mu   sync.Mutex
	api  OrderAPI
	cart Cart
	sess Session

	state          State
	form           ShippingForm
	coupon         *Coupon
	idempotencyKey string
	submitting     bool
	orderNumber    string
}

// NewFlow starts a checkout. Entry is guarded: an empty cart never
// reaches Shipping, the caller must redirect away.
func NewFlow(a OrderAPI, c Cart, s Session) (*Flow, error) {
	if len(c.Items()) == 0 {
		return nil, ErrEmptyCart
	}
	return &Flow{
		api:            a,
		cart:           c,
		sess:           s,
		state:          StateShipping,
		idempotencyKey: uuid.NewString(),
	}, nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetShipping stores the form values. Only legal while in Shipping;
// Review presents the order read-only.
func (f *Flow) SetShipping(form ShippingForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateShipping {
		return ErrInvalidTransition
	}
	f.form = form
	return nil
}

func (f *Flow) Form() ShippingForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// ContinueToReview validates the shipping form and advances. On a
// validation failure the flow stays in Shipping; nothing is partially
// advanced.
func (f *Flow) ContinueToReview() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !CanTransition(f.state, StateReview) {
		return ErrInvalidTransition
	}
	if err := f.validateShippingLocked(); err != nil {
		return err
	}
	f.state = StateReview
	return nil
}

func (f *Flow) validateShippingLocked() error {
	required := []string{
		f.form.FullName,
		f.form.Phone,
		f.form.AddressLine1,
		f.form.City,
		f.form.Country,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	if f.sess.Token() == "" && strings.TrimSpace(f.form.GuestEmail) == "" {
		return ErrGuestEmailRequired
	}
	return nil
}

// BackToShipping returns from Review with the form values retained.
func (f *Flow) BackToShipping() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !CanTransition(f.state, StateShipping) {
		return ErrInvalidTransition
	}
	f.state = StateShipping
	return nil
}

// ApplyCoupon validates a code against the current subtotal. A valid code
// replaces any previously applied coupon; a rejected one leaves it alone
// and surfaces the server's reason.
func (f *Flow) ApplyCoupon(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.state.IsTerminal() || f.submitting {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	subtotal := f.cart.SubtotalCents()
	token := f.sess.Token()
	f.mu.Unlock()

	resp, err := f.api.ApplyCoupon(ctx, code, dollars(subtotal), token)
	if err != nil {
		return err
	}
	if !resp.Valid {
		return &CouponRejectedError{Reason: resp.Message}
	}

	discount := cart.CentsFromDollars(resp.DiscountAmount)
	if discount > subtotal {
		discount = subtotal
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.coupon = &Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(code)),
		DiscountCents: discount,
	}
	return nil
}

func (f *Flow) RemoveCoupon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coupon = nil
}

func (f *Flow) Coupon() (Coupon, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coupon == nil {
		return Coupon{}, false
	}
	return *f.coupon, true
}

// Totals recomputes the order totals from the live cart subtotal and the
// applied discount.
func (f *Flow) Totals() Totals {
	f.mu.Lock()
	var discount int64
	if f.coupon != nil {
		discount = f.coupon.DiscountCents
	}
	f.mu.Unlock()

	return Compute(f.cart.SubtotalCents(), discount)
}

// Submit assembles the order request and issues exactly one creation call
// per user-initiated submit. A second submit while the first is in flight
// is rejected locally. On success the cart is cleared and the flow is
// Confirmed; on failure the flow stays in Review with the cart intact.
func (f *Flow) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != StateReview {
		f.mu.Unlock()
		return "", ErrInvalidTransition
	}
	if f.submitting {
		f.mu.Unlock()
		return "", ErrSubmitInFlight
	}

	token := f.sess.Token()
	if token == "" {
		if strings.TrimSpace(f.form.GuestEmail) == "" {
			f.mu.Unlock()
			return "", ErrGuestEmailRequired
		}
		if strings.TrimSpace(f.form.GuestName) == "" {
			f.mu.Unlock()
			return "", ErrGuestNameRequired
		}
	}

	req := f.buildRequestLocked(token)
	f.submitting = true
	f.mu.Unlock()

	order, err := f.api.CreateOrder(ctx, req, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return "", err
	}

	f.state = StateConfirmed
	f.orderNumber = order.OrderNumber
	if err := f.cart.Clear(ctx); err != nil {
		log.Printf("clear cart after order %s: %v", order.OrderNumber, err)
	}
	return f.orderNumber, nil
}

func (f *Flow) buildRequestLocked(token string) api.CreateOrderRequest {
	items := f.cart.Items()
	req := api.CreateOrderRequest{
		Items:           make([]api.OrderItem, 0, len(items)),
		ShippingAddress: f.shippingAddressLocked(),
		Phone:           f.form.Phone,
		Notes:           f.form.Notes,
		IdempotencyKey:  f.idempotencyKey,
	}
	for _, it := range items {
		req.Items = append(req.Items, api.OrderItem{
			ProductID:   it.Product.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       dollars(it.Product.PriceCents),
		})
	}
	if f.coupon != nil {
		req.CouponCode = f.coupon.Code
	}
	if token == "" {
		req.GuestEmail = f.form.GuestEmail
		req.GuestName = f.form.GuestName
	}
	return req
}

func (f *Flow) shippingAddressLocked() string {
	parts := []string{f.form.FullName, f.form.AddressLine1}
	if f.form.AddressLine2 != "" {
		parts = append(parts, f.form.AddressLine2)
	}
	parts = append(parts, f.form.City, f.form.Country)
	return strings.Join(parts, ", ")
}

// OrderNumber is set once the flow reaches Confirmed.
func (f *Flow) OrderNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderNumber
}

func dollars(cents int64) float64 {
	return float64(cents) / 100
}
