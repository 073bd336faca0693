package address_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/address"
)

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	a := address.Address{
		Discrimination: address.DiscriminationTest,
		Kind:           address.KindSingle,
		SpendingKey:    pub,
	}
	encoded, err := a.Encode("addr")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := address.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Discrimination != a.Discrimination || decoded.Kind != a.Kind {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, a)
	}
	if string(decoded.SpendingKey) != string(a.SpendingKey) {
		t.Errorf("spending key mismatch after round trip")
	}
}

func TestCheckDiscriminationRejectsMixed(t *testing.T) {
	pub, _, _ := ed25519.GenerateKey(nil)
	prod := address.Address{Discrimination: address.DiscriminationProduction, Kind: address.KindSingle, SpendingKey: pub}
	test := address.Address{Discrimination: address.DiscriminationTest, Kind: address.KindSingle, SpendingKey: pub}

	if err := address.CheckDiscrimination(address.DiscriminationProduction, []address.Address{prod}); err != nil {
		t.Errorf("unexpected error for matching discrimination: %v", err)
	}
	if err := address.CheckDiscrimination(address.DiscriminationProduction, []address.Address{prod, test}); err != address.ErrMixedDiscrimination {
		t.Errorf("expected ErrMixedDiscrimination, got %v", err)
	}
}
