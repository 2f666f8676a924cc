package u128

import (
	"math/big"
	"testing"
)

func TestGenUint128FromString(t *testing.T) {
	v := GenUint128FromString("18446744073709551616") // 2^64
	if v.Lo != 0 || v.Hi != 1 {
		t.Fatalf("got lo=%d hi=%d", v.Lo, v.Hi)
	}
	if v.BigInt().String() != "18446744073709551616" {
		t.Fatalf("got %s", v.BigInt())
	}

	max := GenUint128FromString("340282366920938463463374607431768211455")
	if max.Lo != ^uint64(0) || max.Hi != ^uint64(0) {
		t.Fatalf("got lo=%d hi=%d", max.Lo, max.Hi)
	}
}

func TestGenUint128FromStringPanics(t *testing.T) {
	for _, s := range []string{"-1", "340282366920938463463374607431768211456"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for %q", s)
				}
			}()
			GenUint128FromString(s)
		}()
	}
}

func TestFromBig(t *testing.T) {
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	v, err := FromBig(want)
	if err != nil {
		t.Fatal(err)
	}
	if v.BigInt().Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", v.BigInt(), want)
	}

	if _, err := FromBig(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative value")
	}

	over := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, err := FromBig(over); err == nil {
		t.Fatal("expected error for 129-bit value")
	}
}

func TestMustFromBig(t *testing.T) {
	if got := MustFromBig(big.NewInt(42)); got.Lo != 42 || got.Hi != 0 {
		t.Fatalf("got lo=%d hi=%d", got.Lo, got.Hi)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustFromBig(big.NewInt(-1))
}
