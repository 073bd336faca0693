package crypto_test

import (
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/crypto"
)

func TestKESSignVerifyAtEachPeriod(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	sk, vk, err := crypto.GenerateKESKeyPair(3, seed) // 8 periods
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	for period := uint32(0); period < 8; period++ {
		msg := []byte("header for period")
		sig, err := sk.Sign(msg)
		if err != nil {
			t.Fatalf("sign at period %d: %v", period, err)
		}
		if sig.Period != period {
			t.Fatalf("expected period %d, got %d", period, sig.Period)
		}
		if err := vk.Verify(msg, sig); err != nil {
			t.Fatalf("verify at period %d: %v", period, err)
		}
		if err := sk.Update(); err != nil {
			t.Fatalf("update at period %d: %v", period, err)
		}
	}
	if _, err := sk.Sign([]byte("one too many")); err != crypto.ErrKesPeriodExhausted {
		t.Errorf("expected ErrKesPeriodExhausted, got %v", err)
	}
}

// TestKESOldSignatureStillVerifiesAfterUpdate checks that a signature taken
// and retained before Update is called continues to verify afterwards —
// Update only erases the signing key's ability to produce new signatures
// for the old period, it does not invalidate signatures already produced.
func TestKESOldSignatureStillVerifiesAfterUpdate(t *testing.T) {
	var seed [32]byte
	seed[1] = 9
	sk, vk, err := crypto.GenerateKESKeyPair(2, seed)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	msg := []byte("period zero header")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := sk.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := vk.Verify(msg, sig); err != nil {
		t.Errorf("old signature should still verify after Update: %v", err)
	}
}

func TestKESUpdateFailsPastFinalPeriod(t *testing.T) {
	var seed [32]byte
	sk, _, err := crypto.GenerateKESKeyPair(1, seed) // 2 periods: 0, 1
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	if err := sk.Update(); err != nil {
		t.Fatalf("update to period 1: %v", err)
	}
	if err := sk.Update(); err != nil {
		t.Fatalf("update to period 2 (exhausted leaves): %v", err)
	}
	if err := sk.Update(); err != crypto.ErrKesPeriodExhausted {
		t.Errorf("expected ErrKesPeriodExhausted advancing past final period, got %v", err)
	}
}

func TestKESVerifyRejectsWrongKey(t *testing.T) {
	var seedA, seedB [32]byte
	seedA[0], seedB[0] = 1, 2
	skA, _, err := crypto.GenerateKESKeyPair(2, seedA)
	if err != nil {
		t.Fatalf("keygen a: %v", err)
	}
	_, vkB, err := crypto.GenerateKESKeyPair(2, seedB)
	if err != nil {
		t.Fatalf("keygen b: %v", err)
	}
	msg := []byte("header")
	sig, err := skA.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := vkB.Verify(msg, sig); err == nil {
		t.Errorf("expected verification to fail against unrelated verification key")
	}
}
