// Package pricing computes authoritative order totals. It is pure: no
// I/O, deterministic for a given policy. All amounts are integer cents,
// so every stage is already rounded to two decimals before summation.
package pricing

import "math"

// Policy holds the checkout pricing constants. There is exactly one
// canonical policy per process, owned by config.
type Policy struct {
	// TaxRate is applied to the items subtotal.
	TaxRate float64
	// FreeShippingMinCents waives the shipping fee when the items
	// subtotal strictly exceeds it.
	FreeShippingMinCents int64
	// FlatShippingCents is charged below the free-shipping threshold.
	FlatShippingCents int64
}

// DefaultPolicy matches the storefront checkout rules: 18% tax, flat
// 10.00 shipping waived on subtotals over 100.00.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:              0.18,
		FreeShippingMinCents: 10000,
		FlatShippingCents:    1000,
	}
}

// Line is a single priced position: an authoritative catalog unit price
// and the ordered quantity. Unit prices must never come from a client.
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// Quote is the full price breakdown for a set of lines.
type Quote struct {
	ItemsCents    int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// Compute prices the given lines under the policy.
func Compute(p Policy, lines []Line) Quote {
	var items int64
	for _, l := range lines {
		items += l.UnitPriceCents * int64(l.Quantity)
	}

	var shipping int64
	if items <= p.FreeShippingMinCents {
		shipping = p.FlatShippingCents
	}

	tax := roundHalfUp(float64(items) * p.TaxRate)

	return Quote{
		ItemsCents:    items,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    items + shipping + tax,
	}
}

// roundHalfUp rounds to the nearest cent, ties away from zero.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
