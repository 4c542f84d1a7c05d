// Package pricing holds the pure rate/weight/tax arithmetic shared by the
// quote endpoint, the cart aggregator, and the checkout flow. No function in
// this package rounds: callers format for display at the HTTP boundary.
package pricing

import (
	"errors"
	"math"
)

var (
	// ErrRateUnavailable means the live rate has not loaded yet (or is
	// nonsense). Conversions are disabled until a rate arrives; zero is
	// never treated as a usable rate.
	ErrRateUnavailable = errors.New("rate unavailable")

	ErrInvalidInput = errors.New("invalid input")
)

// TaxDirection states whether tax is added on top (buyer pays more) or
// deducted from proceeds (seller receives less). It is always supplied by the
// caller, never inferred from the amounts.
type TaxDirection int

const (
	TaxAdded TaxDirection = iota
	TaxDeducted
)

// TaxBreakdown is the result of applying GST to a base amount.
type TaxBreakdown struct {
	Base  float64
	Tax   float64
	Total float64 // Base+Tax for TaxAdded, Base-Tax for TaxDeducted
}

// GramsFromAmount converts a currency amount into grams at the given
// per-gram rate.
func GramsFromAmount(amount, ratePerGram float64) (float64, error) {
	if !usableRate(ratePerGram) {
		return 0, ErrRateUnavailable
	}
	if !usableAmount(amount) {
		return 0, ErrInvalidInput
	}
	return amount / ratePerGram, nil
}

// AmountFromGrams converts grams into a currency amount at the given
// per-gram rate. Inverse of GramsFromAmount up to float64 precision.
func AmountFromGrams(grams, ratePerGram float64) (float64, error) {
	if !usableRate(ratePerGram) {
		return 0, ErrRateUnavailable
	}
	if !usableAmount(grams) {
		return 0, ErrInvalidInput
	}
	return grams * ratePerGram, nil
}

// ApplyTax computes tax at taxRatePercent over amount and combines it per
// the direction.
func ApplyTax(amount, taxRatePercent float64, dir TaxDirection) (TaxBreakdown, error) {
	if !usableAmount(amount) || taxRatePercent < 0 || math.IsNaN(taxRatePercent) {
		return TaxBreakdown{}, ErrInvalidInput
	}
	tax := amount * taxRatePercent / 100
	b := TaxBreakdown{Base: amount, Tax: tax}
	switch dir {
	case TaxDeducted:
		b.Total = amount - tax
	default:
		b.Total = amount + tax
	}
	return b, nil
}

func usableRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

func usableAmount(a float64) bool {
	return a >= 0 && !math.IsNaN(a) && !math.IsInf(a, 0)
}
