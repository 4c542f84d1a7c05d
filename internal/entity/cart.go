package domain

import "errors"

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrItemNotFound    = errors.New("item not found")
	ErrNotAvailable    = errors.New("denomination not available")
	ErrEmptyCart       = errors.New("cart is empty")
)

// LineItem is one denomination entry in a cart. UnitPrice is the price
// captured when the denomination first entered the cart; adding the same
// denomination again only bumps Quantity and never rewrites the snapshot.
// A cart holds lines of a single metal; Metal records which one priced them.
type LineItem struct {
	Metal        Metal   `json:"metal,omitempty"`
	Denomination int     `json:"denomination"` // grams, unique key within a cart
	Quantity     int     `json:"quantity"`     // always > 0 while stored
	UnitPrice    float64 `json:"unitPrice"`    // INR per unit at add time
	DisplayName  string  `json:"displayName"`
}

// Weight returns the total grams this line contributes.
func (li LineItem) Weight() int { return li.Denomination * li.Quantity }

// LineTotal returns quantity * unit price.
func (li LineItem) LineTotal() float64 { return float64(li.Quantity) * li.UnitPrice }
