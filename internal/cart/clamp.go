package cart

import domain "github.com/ATjewellers01/zold-cart-api/internal/entity"

// ClampQuantity bounds a requested unit count to [0, available].
func ClampQuantity(requested, available int) int {
	if requested < 0 {
		requested = 0
	}
	if available < 0 {
		available = 0
	}
	if requested > available {
		return available
	}
	return requested
}

// ClampAdd is the add-to-cart gate: a denomination with zero availability is
// rejected outright ("not available") rather than silently clamped down to an
// add of zero units.
func ClampAdd(requested, available int) (int, error) {
	if available <= 0 {
		return 0, domain.ErrNotAvailable
	}
	q := ClampQuantity(requested, available)
	if q == 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return q, nil
}

// Warning flags a cart line whose denomination no longer has enough stock.
// Recomputed against fresh availability on every cart read so a denomination
// that drained after being selected surfaces before checkout, not during it.
type Warning struct {
	Denomination int    `json:"denomination"`
	Requested    int    `json:"requested"`
	Available    int    `json:"available"`
	Reason       string `json:"reason"`
}

// StockWarnings compares cart lines against current availability.
func StockWarnings(items []domain.LineItem, available map[int]int) []Warning {
	var out []Warning
	for _, it := range items {
		avail := available[it.Denomination]
		if it.Quantity <= avail {
			continue
		}
		reason := "insufficient stock"
		if avail == 0 {
			reason = "not available"
		}
		out = append(out, Warning{
			Denomination: it.Denomination,
			Requested:    it.Quantity,
			Available:    avail,
			Reason:       reason,
		})
	}
	return out
}
