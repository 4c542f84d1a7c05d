package cart

import (
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
)

// Summary is the display/submission roll-up of a cart. It is always derived
// from the current line items and never stored, so it cannot drift from them.
type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"` // grand total for a purchase, net proceeds for a sale
	TotalUnits  int     `json:"totalUnits"`
	TotalWeight int     `json:"totalWeightGrams"`
}

// Summarize folds the line items into a summary at the given GST percentage.
// An empty item list yields all-zero figures; rejecting an empty checkout is
// the caller's job.
func Summarize(items []domain.LineItem, taxRatePercent float64, dir pricing.TaxDirection) Summary {
	var sum Summary
	for _, it := range items {
		sum.Subtotal += it.LineTotal()
		sum.TotalUnits += it.Quantity
		sum.TotalWeight += it.Weight()
	}
	// Subtotal is a sum of non-negative line totals, so ApplyTax cannot fail
	// on it with a non-negative rate validated at config load.
	b, err := pricing.ApplyTax(sum.Subtotal, taxRatePercent, dir)
	if err != nil {
		return Summary{}
	}
	sum.Tax = b.Tax
	sum.Total = b.Total
	return sum
}
