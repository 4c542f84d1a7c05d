package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestConversionRoundTrip(t *testing.T) {
	rates := []float64{1, 6245.5, 6198.2, 73.04, 99999.99}
	amounts := []float64{0.01, 1, 500, 6432.865, 123456.78}

	for _, rate := range rates {
		for _, amount := range amounts {
			grams, err := GramsFromAmount(amount, rate)
			if err != nil {
				t.Fatalf("GramsFromAmount(%v,%v): %v", amount, rate, err)
			}
			back, err := AmountFromGrams(grams, rate)
			if err != nil {
				t.Fatalf("AmountFromGrams(%v,%v): %v", grams, rate, err)
			}
			if math.Abs(back-amount) > 1e-9*amount {
				t.Fatalf("round trip drifted: %v -> %v (rate %v)", amount, back, rate)
			}
		}
	}
}

func TestUnloadedRateDisablesConversion(t *testing.T) {
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := GramsFromAmount(100, rate); !errors.Is(err, ErrRateUnavailable) {
			t.Fatalf("rate %v: expected ErrRateUnavailable, got %v", rate, err)
		}
		if _, err := AmountFromGrams(1, rate); !errors.Is(err, ErrRateUnavailable) {
			t.Fatalf("rate %v: expected ErrRateUnavailable, got %v", rate, err)
		}
	}
}

func TestInvalidAmountsRejected(t *testing.T) {
	for _, a := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if _, err := GramsFromAmount(a, 6245.5); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %v: expected ErrInvalidInput, got %v", a, err)
		}
		if _, err := ApplyTax(a, 3, TaxAdded); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %v: expected ErrInvalidInput, got %v", a, err)
		}
	}
}

func TestApplyTax(t *testing.T) {
	t.Run("purchase adds GST", func(t *testing.T) {
		b, err := ApplyTax(6245.5, 3, TaxAdded)
		if err != nil {
			t.Fatalf("ApplyTax: %v", err)
		}
		if math.Abs(b.Tax-187.365) > 1e-9 {
			t.Fatalf("tax = %v, want 187.365", b.Tax)
		}
		if math.Abs(b.Total-6432.865) > 1e-9 {
			t.Fatalf("total = %v, want 6432.865", b.Total)
		}
	})

	t.Run("sale deducts GST from proceeds", func(t *testing.T) {
		b, err := ApplyTax(1000, 3, TaxDeducted)
		if err != nil {
			t.Fatalf("ApplyTax: %v", err)
		}
		if b.Tax != 30 || b.Total != 970 {
			t.Fatalf("got tax=%v net=%v, want 30/970", b.Tax, b.Total)
		}
	})

	t.Run("zero amount is zero figures, not an error", func(t *testing.T) {
		b, err := ApplyTax(0, 3, TaxAdded)
		if err != nil {
			t.Fatalf("ApplyTax: %v", err)
		}
		if b.Tax != 0 || b.Total != 0 {
			t.Fatalf("expected all-zero breakdown, got %+v", b)
		}
	})
}
