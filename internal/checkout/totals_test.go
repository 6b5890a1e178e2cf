package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_NoCoupon(t *testing.T) {
	// $80.00 subtotal: free shipping, $8.00 tax, $88.00 total
	totals := Compute(8000, 0)

	assert.Equal(t, int64(8000), totals.DiscountedSubtotalCents)
	assert.Equal(t, int64(0), totals.ShippingCents)
	assert.Equal(t, int64(800), totals.TaxCents)
	assert.Equal(t, int64(8800), totals.GrandTotalCents)
}

func TestCompute_WithCoupon(t *testing.T) {
	// $80.00 subtotal, $15.00 off: $65.00 discounted, still free shipping,
	// $6.50 tax, $71.50 total
	totals := Compute(8000, 1500)

	assert.Equal(t, int64(6500), totals.DiscountedSubtotalCents)
	assert.Equal(t, int64(0), totals.ShippingCents)
	assert.Equal(t, int64(650), totals.TaxCents)
	assert.Equal(t, int64(7150), totals.GrandTotalCents)
}

func TestCompute_FreeShippingBoundary(t *testing.T) {
	// $49.99 pays the flat fee, $50.00 ships free
	assert.Equal(t, int64(599), Compute(4999, 0).ShippingCents)
	assert.Equal(t, int64(0), Compute(5000, 0).ShippingCents)
}

func TestCompute_CouponCanDropBelowThreshold(t *testing.T) {
	// discount pulls the order under the threshold, shipping comes back
	totals := Compute(5000, 100)
	assert.Equal(t, int64(4900), totals.DiscountedSubtotalCents)
	assert.Equal(t, int64(599), totals.ShippingCents)
}

func TestCompute_DiscountClampedToSubtotal(t *testing.T) {
	totals := Compute(1000, 5000)

	assert.Equal(t, int64(1000), totals.DiscountCents)
	assert.Equal(t, int64(0), totals.DiscountedSubtotalCents)
	assert.Equal(t, int64(0), totals.TaxCents)
	assert.Equal(t, int64(599), totals.ShippingCents)
	assert.Equal(t, int64(599), totals.GrandTotalCents)
}

func TestCompute_NegativeDiscountIgnored(t *testing.T) {
	assert.Equal(t, Compute(8000, 0), Compute(8000, -100))
}

func TestCompute_TaxRoundsHalfUp(t *testing.T) {
	// 10% of $49.99 is $4.999, charged as $5.00
	assert.Equal(t, int64(500), Compute(4999, 0).TaxCents)
	// 10% of $0.04 is $0.004, charged as $0.00
	assert.Equal(t, int64(0), Compute(4, 0).TaxCents)
}
