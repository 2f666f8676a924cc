package math

import (
	"math/big"
	"testing"
)

func TestCheckedAdd(t *testing.T) {
	out, err := CheckedAdd(big.NewInt(1), big.NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if out.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("got %s", out)
	}

	if _, err = CheckedAdd(U128Max, big.NewInt(1)); err == nil {
		t.Fatal("expected overflow")
	}

	out, err = CheckedAdd(U128Max, big.NewInt(0))
	if err != nil {
		t.Fatal(err)
	}
	if out.Cmp(U128Max) != 0 {
		t.Fatalf("got %s", out)
	}
}

func TestCheckedSub(t *testing.T) {
	out, err := CheckedSub(big.NewInt(5), big.NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if out.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("got %s", out)
	}

	if _, err = CheckedSub(big.NewInt(3), big.NewInt(5)); err == nil {
		t.Fatal("expected underflow")
	}
}

func TestCheckedMul(t *testing.T) {
	out, err := CheckedMul(big.NewInt(1000), big.NewInt(1000))
	if err != nil {
		t.Fatal(err)
	}
	if out.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("got %s", out)
	}

	if _, err = CheckedMul(U128Max, big.NewInt(2)); err == nil {
		t.Fatal("expected overflow")
	}
}

func TestDiv(t *testing.T) {
	out, err := Div(big.NewInt(10), big.NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if out.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("got %s", out)
	}

	if _, err = Div(big.NewInt(10), big.NewInt(0)); err == nil {
		t.Fatal("expected division by zero")
	}
}

func TestSaturatingMul(t *testing.T) {
	out := SaturatingMul(big.NewInt(7), big.NewInt(6))
	if out.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("got %s", out)
	}

	out = SaturatingMul(U128Max, big.NewInt(2))
	if out.Cmp(U128Max) != 0 {
		t.Fatalf("expected clamp, got %s", out)
	}
}

func TestIsqrt(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{15, 3},
		{16, 4},
		{1_000_000, 1000},
	}
	for _, c := range cases {
		if got := Isqrt(big.NewInt(c.in)); got.Cmp(big.NewInt(c.want)) != 0 {
			t.Fatalf("Isqrt(%d) = %s, want %d", c.in, got, c.want)
		}
	}

	if got := Isqrt(big.NewInt(-4)); got.Sign() != 0 {
		t.Fatalf("Isqrt(-4) = %s, want 0", got)
	}

	big2 := new(big.Int).Mul(big.NewInt(123456789), big.NewInt(123456789))
	if got := Isqrt(big2); got.Cmp(big.NewInt(123456789)) != 0 {
		t.Fatalf("got %s", got)
	}
}
