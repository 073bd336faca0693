package crypto_test

import (
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/crypto"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, vk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	msg := []byte("block header bytes")
	sig := sk.Sign(msg)
	if err := vk.Verify(msg, sig); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	sk, vk, _ := crypto.GenerateKeyPair()
	sig := sk.Sign([]byte("original"))
	if err := vk.Verify([]byte("tampered"), sig); err != crypto.ErrBadSignature {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, _, _ := crypto.GenerateKeyPair()
	_, otherVK, _ := crypto.GenerateKeyPair()
	sig := sk.Sign([]byte("msg"))
	if err := otherVK.Verify([]byte("msg"), sig); err != crypto.ErrBadSignature {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}
