package cart

import (
	"errors"
	"testing"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

func TestClampQuantityBounds(t *testing.T) {
	cases := []struct {
		requested, available, want int
	}{
		{5, 2, 2},
		{2, 5, 2},
		{0, 5, 0},
		{-3, 5, 0},
		{5, 0, 0},
		{7, -1, 0},
	}
	for _, c := range cases {
		got := ClampQuantity(c.requested, c.available)
		if got != c.want {
			t.Fatalf("ClampQuantity(%d,%d) = %d, want %d", c.requested, c.available, got, c.want)
		}
		if got < 0 || (c.available >= 0 && got > c.available) {
			t.Fatalf("ClampQuantity(%d,%d) out of bounds: %d", c.requested, c.available, got)
		}
	}
}

func TestClampAdd(t *testing.T) {
	t.Run("zero availability rejects outright", func(t *testing.T) {
		if _, err := ClampAdd(5, 0); !errors.Is(err, domain.ErrNotAvailable) {
			t.Fatalf("expected ErrNotAvailable, got %v", err)
		}
	})

	t.Run("over-ask clamps to stock", func(t *testing.T) {
		q, err := ClampAdd(5, 2)
		if err != nil || q != 2 {
			t.Fatalf("got (%d,%v), want (2,nil)", q, err)
		}
	})

	t.Run("non-positive request rejected", func(t *testing.T) {
		if _, err := ClampAdd(0, 3); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestStockWarnings(t *testing.T) {
	items := []domain.LineItem{
		{Denomination: 1, Quantity: 2},
		{Denomination: 2, Quantity: 1},
		{Denomination: 5, Quantity: 3},
	}
	avail := map[int]int{1: 5, 2: 0, 5: 1}

	warns := StockWarnings(items, avail)
	if len(warns) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warns)
	}
	if warns[0].Denomination != 2 || warns[0].Reason != "not available" {
		t.Fatalf("unexpected first warning: %+v", warns[0])
	}
	if warns[1].Denomination != 5 || warns[1].Available != 1 {
		t.Fatalf("unexpected second warning: %+v", warns[1])
	}
}
