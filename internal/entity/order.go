package domain

import "errors"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusFailed     Status = "FAILED"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Order is a submitted checkout: the cart summary frozen at submission time.
// Monetary figures are INR; weight is grams.
type Order struct {
	ID          string
	UserID      string
	Status      Status
	Metal       Metal
	Subtotal    float64
	Tax         float64
	Total       float64
	TotalUnits  int
	TotalWeight int
	ItemsJSON   string // line items as accepted at checkout
}

func (o *Order) Validate() error {
	if o.Subtotal <= 0 || o.Total <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
