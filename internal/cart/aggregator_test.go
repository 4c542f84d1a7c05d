package cart

import (
	"math"
	"testing"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
)

func TestSummarizeEmptyCart(t *testing.T) {
	sum := Summarize(nil, 3, pricing.TaxAdded)
	if sum != (Summary{}) {
		t.Fatalf("empty cart should be all zeros, got %+v", sum)
	}
}

func TestSummarizePurchase(t *testing.T) {
	items := []domain.LineItem{
		{Denomination: 1, Quantity: 1, UnitPrice: 6245.5},
	}
	sum := Summarize(items, 3, pricing.TaxAdded)
	if math.Abs(sum.Subtotal-6245.5) > 1e-9 {
		t.Fatalf("subtotal = %v", sum.Subtotal)
	}
	if math.Abs(sum.Tax-187.365) > 1e-9 {
		t.Fatalf("tax = %v", sum.Tax)
	}
	if math.Abs(sum.Total-6432.865) > 1e-9 {
		t.Fatalf("total = %v", sum.Total)
	}
	if sum.TotalUnits != 1 || sum.TotalWeight != 1 {
		t.Fatalf("units=%d weight=%d", sum.TotalUnits, sum.TotalWeight)
	}
}

func TestSummarizeUnitsAndWeight(t *testing.T) {
	items := []domain.LineItem{
		{Denomination: 1, Quantity: 3, UnitPrice: 6245.5},
		{Denomination: 5, Quantity: 2, UnitPrice: 31227.5},
		{Denomination: 10, Quantity: 1, UnitPrice: 62455},
	}
	sum := Summarize(items, 3, pricing.TaxAdded)
	if sum.TotalUnits != 6 {
		t.Fatalf("totalUnits = %d, want 6", sum.TotalUnits)
	}
	if sum.TotalWeight != 3+10+10 {
		t.Fatalf("totalWeight = %d, want 23", sum.TotalWeight)
	}
}

func TestSummarizeSaleDeductsTax(t *testing.T) {
	items := []domain.LineItem{{Denomination: 1, Quantity: 2, UnitPrice: 6198.2}}
	sum := Summarize(items, 3, pricing.TaxDeducted)
	gross := 2 * 6198.2
	if math.Abs(sum.Total-(gross-gross*0.03)) > 1e-9 {
		t.Fatalf("net = %v", sum.Total)
	}
}
