package curve

import (
	"errors"
	"math/big"
	"testing"
)

func testParams() *CurveParams {
	return &CurveParams{
		BasePrice:           big.NewInt(1_000_000),
		GrowthRateBps:       big.NewInt(150),
		GraduationThreshold: big.NewInt(DefaultGraduationThreshold),
		BaseCurrency:        BaseCurrencyUSDC,
		MaxSupply:           big.NewInt(1_000_000_000),
	}
}

func TestPriceAtSupplyZero(t *testing.T) {
	params := testParams()
	price := PriceAtSupply(big.NewInt(0), params)
	if price.Cmp(params.BasePrice) != 0 {
		t.Fatalf("price at supply 0 = %s, want %s", price, params.BasePrice)
	}
}

func TestPriceMonotonic(t *testing.T) {
	params := testParams()
	supplies := []int64{0, 1, 5, 10, 50, 100, 1000, 10_000, 100_000}
	prev := PriceAtSupply(big.NewInt(supplies[0]), params)
	for _, s := range supplies[1:] {
		next := PriceAtSupply(big.NewInt(s), params)
		if next.Cmp(prev) < 0 {
			t.Fatalf("price decreased at supply %d: %s < %s", s, next, prev)
		}
		prev = next
	}
}

func TestPriceCeiling(t *testing.T) {
	params := testParams()
	params.GrowthRateBps = big.NewInt(1000)
	price := PriceAtSupply(big.NewInt(1_000_000), params)
	if price.Cmp(PriceCeiling) != 0 {
		t.Fatalf("expected ceiling %s, got %s", PriceCeiling, price)
	}

	// Once clamped, every later supply reports the same cap.
	again := PriceAtSupply(big.NewInt(2_000_000), params)
	if again.Cmp(PriceCeiling) != 0 {
		t.Fatalf("expected ceiling %s, got %s", PriceCeiling, again)
	}
}

func TestBuyPriceFirstToken(t *testing.T) {
	params := testParams()
	cost, err := BuyPrice(big.NewInt(0), big.NewInt(1), params)
	if err != nil {
		t.Fatal(err)
	}
	if cost.Cmp(big.NewInt(1_000_000)) < 0 || cost.Cmp(big.NewInt(2_000_000)) >= 0 {
		t.Fatalf("first token cost %s outside [1e6, 2e6)", cost)
	}
}

func TestBuyPriceConvexity(t *testing.T) {
	params := testParams()
	small, err := BuyPrice(big.NewInt(0), big.NewInt(10), params)
	if err != nil {
		t.Fatal(err)
	}
	large, err := BuyPrice(big.NewInt(0), big.NewInt(1000), params)
	if err != nil {
		t.Fatal(err)
	}

	scaled := new(big.Int).Mul(small, big.NewInt(100))
	if large.Cmp(scaled) <= 0 {
		t.Fatalf("curve is not convex: cost(1000)=%s, 100*cost(10)=%s", large, scaled)
	}
}

func TestBuyPriceZeroQty(t *testing.T) {
	cost, err := BuyPrice(big.NewInt(100), big.NewInt(0), testParams())
	if err != nil {
		t.Fatal(err)
	}
	if cost.Sign() != 0 {
		t.Fatalf("got %s", cost)
	}
}

func TestBuyPriceMaxSupplyGuard(t *testing.T) {
	params := testParams()
	if _, err := BuyPrice(params.MaxSupply, big.NewInt(1), params); !errors.Is(err, ErrExceedsMaxSupply) {
		t.Fatalf("got %v", err)
	}

	almost := new(big.Int).Sub(params.MaxSupply, big.NewInt(10))
	if _, err := BuyPrice(almost, big.NewInt(11), params); !errors.Is(err, ErrExceedsMaxSupply) {
		t.Fatalf("got %v", err)
	}
}

func TestSellPriceSpread(t *testing.T) {
	params := testParams()
	supply := big.NewInt(1000)
	qty := big.NewInt(100)

	buy, err := BuyPrice(big.NewInt(900), qty, params)
	if err != nil {
		t.Fatal(err)
	}
	sell, err := SellPrice(supply, qty, params)
	if err != nil {
		t.Fatal(err)
	}

	want := new(big.Int).Mul(buy, big.NewInt(99))
	want.Div(want, big.NewInt(100))
	if sell.Cmp(want) != 0 {
		t.Fatalf("sell = %s, want %s (99%% of %s)", sell, want, buy)
	}
	if sell.Cmp(buy) >= 0 {
		t.Fatal("spread must never be zero")
	}
}

func TestSellPriceSupplyBounds(t *testing.T) {
	params := testParams()
	supply := big.NewInt(1000)

	if _, err := SellPrice(supply, big.NewInt(1000), params); err != nil {
		t.Fatalf("selling the full supply failed: %v", err)
	}
	if _, err := SellPrice(supply, big.NewInt(1001), params); !errors.Is(err, ErrInsufficientSupply) {
		t.Fatalf("got %v", err)
	}
}

func TestQuantityForPaymentInversion(t *testing.T) {
	params := testParams()
	supply := big.NewInt(0)
	payment := big.NewInt(10_000_000_000)

	qty, err := QuantityForPayment(supply, payment, params)
	if err != nil {
		t.Fatal(err)
	}
	if qty.Sign() <= 0 {
		t.Fatalf("got %s", qty)
	}

	cost, err := BuyPrice(supply, qty, params)
	if err != nil {
		t.Fatal(err)
	}
	if cost.Cmp(payment) > 0 {
		t.Fatalf("cost %s exceeds payment %s", cost, payment)
	}

	more := new(big.Int).Add(qty, big.NewInt(1))
	cost, err = BuyPrice(supply, more, params)
	if err == nil && cost.Cmp(payment) <= 0 {
		t.Fatalf("qty %s is not maximal, %s still affordable at %s", qty, more, cost)
	}
}

func TestQuantityForPaymentInsufficient(t *testing.T) {
	params := testParams()
	if _, err := QuantityForPayment(big.NewInt(0), big.NewInt(1), params); !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("got %v", err)
	}
}

func TestQuantityForPaymentSoldOut(t *testing.T) {
	params := testParams()
	if _, err := QuantityForPayment(params.MaxSupply, big.NewInt(1_000_000_000), params); !errors.Is(err, ErrExceedsMaxSupply) {
		t.Fatalf("got %v", err)
	}
}
