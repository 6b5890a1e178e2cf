package checkout

// Pricing constants. All amounts are integer cents.
const (
	TaxRatePercent                   = 10
	FreeShippingThresholdCents int64 = 5000
	FlatShippingFeeCents       int64 = 599
)

type Totals struct {
	SubtotalCents           int64 `json:"subtotal_cents"`
	DiscountCents           int64 `json:"discount_cents"`
	DiscountedSubtotalCents int64 `json:"discounted_subtotal_cents"`
	TaxCents                int64 `json:"tax_cents"`
	ShippingCents           int64 `json:"shipping_cents"`
	GrandTotalCents         int64 `json:"grand_total_cents"`
}

// Compute derives the order totals from the cart subtotal and an applied
// discount. The discount is clamped to the subtotal, tax is charged on
// the discounted amount rounded half-up to the cent, and shipping is
// waived at or above the free-shipping threshold.
func Compute(subtotalCents, discountCents int64) Totals {
	if discountCents < 0 {
		discountCents = 0
	}
	if discountCents > subtotalCents {
		discountCents = subtotalCents
	}
	discounted := subtotalCents - discountCents

	tax := (discounted*TaxRatePercent + 50) / 100

	var shipping int64
	if discounted < FreeShippingThresholdCents {
		shipping = FlatShippingFeeCents
	}

	return Totals{
		SubtotalCents:           subtotalCents,
		DiscountCents:           discountCents,
		DiscountedSubtotalCents: discounted,
		TaxCents:                tax,
		ShippingCents:           shipping,
		GrandTotalCents:         discounted + tax + shipping,
	}
}
