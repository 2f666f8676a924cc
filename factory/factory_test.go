package factory

import (
	"errors"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/oyllabs/bonding-curve-go/storage"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	f, err := New(storage.NewMemoryStore(), solana.NewWallet().PublicKey(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func launchParams(name, symbol string) *LaunchParams {
	return &LaunchParams{Name: name, Symbol: symbol}
}

func fee() *big.Int { return big.NewInt(DeploymentFee) }

func TestLaunchTokenDefaults(t *testing.T) {
	f := newTestFactory(t)
	creator := solana.NewWallet().PublicKey()

	rec, cp, err := f.LaunchToken(creator, fee(), launchParams("My Token", "MTK"), 500)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Index != 0 || rec.Name != "My Token" || rec.Symbol != "MTK" {
		t.Fatalf("record %+v", rec)
	}
	if rec.Creator != creator.String() || rec.LaunchBlock != 500 || rec.Graduated {
		t.Fatalf("record %+v", rec)
	}
	if rec.Mint == "" {
		t.Fatal("mint must be derived")
	}

	// Unset numeric fields take the curve defaults.
	if cp.BasePrice.Int64() != 4_000_000 || cp.GrowthRateBps.Int64() != 150 {
		t.Fatalf("params %+v", cp)
	}

	count, err := f.TokenCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count %d", count)
	}

	fees, err := f.CollectedFees()
	if err != nil {
		t.Fatal(err)
	}
	if fees.Cmp(fee()) != 0 {
		t.Fatalf("fees %s", fees)
	}
}

func TestLaunchTokenFee(t *testing.T) {
	f := newTestFactory(t)
	creator := solana.NewWallet().PublicKey()

	_, _, err := f.LaunchToken(creator, big.NewInt(DeploymentFee-1), launchParams("My Token", "MTK"), 500)
	if !errors.Is(err, ErrInsufficientFee) {
		t.Fatalf("got %v", err)
	}
	_, _, err = f.LaunchToken(creator, nil, launchParams("My Token", "MTK"), 500)
	if !errors.Is(err, ErrInsufficientFee) {
		t.Fatalf("got %v", err)
	}
}

func TestLaunchTokenValidation(t *testing.T) {
	f := newTestFactory(t)
	creator := solana.NewWallet().PublicKey()

	cases := []*LaunchParams{
		{Name: "", Symbol: "MTK"},
		{Name: "My Token", Symbol: ""},
		{Name: "My Token", Symbol: "WAYTOOLONGSYM"},
		{Name: "My Token", Symbol: "MTK", BasePrice: big.NewInt(999)},
		{Name: "My Token", Symbol: "MTK", BasePrice: big.NewInt(1_000_000_001)},
		{Name: "My Token", Symbol: "MTK", GrowthRateBps: big.NewInt(9)},
		{Name: "My Token", Symbol: "MTK", GrowthRateBps: big.NewInt(1_001)},
		{Name: "My Token", Symbol: "MTK", MaxSupply: big.NewInt(999_999)},
		{Name: "My Token", Symbol: "MTK", MaxSupply: big.NewInt(100_000_000_001)},
	}
	for i, p := range cases {
		if _, _, err := f.LaunchToken(creator, fee(), p, 500); !errors.Is(err, ErrInvalidLaunchParams) {
			t.Fatalf("case %d: got %v", i, err)
		}
	}

	count, err := f.TokenCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatal("rejected launches must not register")
	}
}

func TestTokenListPagination(t *testing.T) {
	f := newTestFactory(t)
	creator := solana.NewWallet().PublicKey()

	for i := 0; i < 5; i++ {
		if _, _, err := f.LaunchToken(creator, fee(), launchParams("Token", "TKN"), uint64(100+i)); err != nil {
			t.Fatal(err)
		}
	}

	page, err := f.GetTokenList(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Index != 1 || page[1].Index != 2 {
		t.Fatalf("page %+v", page)
	}

	// Past the end.
	page, err = f.GetTokenList(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 0 {
		t.Fatalf("got %d records", len(page))
	}

	// A short tail page.
	page, err = f.GetTokenList(4, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Index != 4 {
		t.Fatalf("page %+v", page)
	}
}

func TestTokensByCreator(t *testing.T) {
	f := newTestFactory(t)
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()

	if _, _, err := f.LaunchToken(alice, fee(), launchParams("Alpha", "ALP"), 100); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.LaunchToken(bob, fee(), launchParams("Beta", "BET"), 101); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.LaunchToken(alice, fee(), launchParams("Gamma", "GAM"), 102); err != nil {
		t.Fatal(err)
	}

	records, err := f.TokensByCreator(alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Name != "Alpha" || records[1].Name != "Gamma" {
		t.Fatalf("records %+v", records)
	}

	records, err = f.TokensByCreator(solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatal("unknown creator must have no tokens")
	}
}

func TestLookupAndMarkGraduated(t *testing.T) {
	f := newTestFactory(t)
	creator := solana.NewWallet().PublicKey()

	rec, _, err := f.LaunchToken(creator, fee(), launchParams("My Token", "MTK"), 100)
	if err != nil {
		t.Fatal(err)
	}
	mint := solana.MustPublicKeyFromBase58(rec.Mint)

	got, err := f.GetToken(mint)
	if err != nil {
		t.Fatal(err)
	}
	if got.Index != rec.Index || got.Graduated {
		t.Fatalf("record %+v", got)
	}

	if err := f.MarkGraduated(mint); err != nil {
		t.Fatal(err)
	}
	got, err = f.GetToken(mint)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Graduated {
		t.Fatal("graduated flag not persisted")
	}

	// Idempotent.
	if err := f.MarkGraduated(mint); err != nil {
		t.Fatal(err)
	}

	if _, err := f.GetToken(solana.NewWallet().PublicKey()); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestDeriveMintDeterministic(t *testing.T) {
	store := storage.NewMemoryStore()
	authority := solana.NewWallet().PublicKey()
	f, err := New(store, authority, nil)
	if err != nil {
		t.Fatal(err)
	}

	a, err := f.DeriveMint(0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.DeriveMint(0)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equals(b) {
		t.Fatal("same index must derive the same mint")
	}
	c, err := f.DeriveMint(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.Equals(c) {
		t.Fatal("different indices must derive different mints")
	}
}
