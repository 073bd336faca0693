package txmodel_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/address"
	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/crypto"
	"github.com/blinklabs-io/praos-ledger/internal/txmodel"
)

func TestBuilderUTXOWitnessRoundTrip(t *testing.T) {
	sk, vk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	toAddr := address.Address{Discrimination: address.DiscriminationTest, Kind: address.KindSingle, SpendingKey: vk.Bytes()}

	var block0Hash common.Hash32
	block0Hash[0] = 1

	stage := txmodel.NewTransaction().
		SetPayload(txmodel.TagTransaction, nil).
		SetIOs(
			[]txmodel.Input{txmodel.NewUTXOInput(common.Hash32{}, 0, 100)},
			[]txmodel.Output{{Address: toAddr, Value: 100}},
		)
	signDataHash := stage.AuthDataForWitness()
	witness := txmodel.NewUTXOWitness(sk, block0Hash, signDataHash)
	tx := stage.SetWitnesses([]txmodel.Witness{witness}).SetAuth(nil)

	if err := txmodel.VerifyUTXOWitness(vk, block0Hash, signDataHash, tx.Witnesses[0]); err != nil {
		t.Fatalf("verify: %v", err)
	}

	inTotal, err := tx.TotalInputValue()
	if err != nil {
		t.Fatalf("total input: %v", err)
	}
	outTotal, err := tx.TotalOutputValue()
	if err != nil {
		t.Fatalf("total output: %v", err)
	}
	if inTotal != outTotal {
		t.Errorf("balanced single-input tx: in=%d out=%d", inTotal, outTotal)
	}
}

func TestVerifyAccountWitnessRejectsWrongCounter(t *testing.T) {
	sk, vk, _ := crypto.GenerateKeyPair()
	var block0Hash, signDataHash common.Hash32

	w := txmodel.NewAccountWitness(sk, block0Hash, signDataHash, 5)
	if err := txmodel.VerifyAccountWitness(vk, block0Hash, signDataHash, 5, w); err != nil {
		t.Fatalf("expected valid witness at matching counter: %v", err)
	}
	if err := txmodel.VerifyAccountWitness(vk, block0Hash, signDataHash, 6, w); err == nil {
		t.Errorf("expected rejection: witness was signed for counter 5, not 6 (replay after counter advance)")
	}
}

func TestMultisigThresholdTwoOfThree(t *testing.T) {
	skA, vkA, _ := crypto.GenerateKeyPair()
	_, vkB, _ := crypto.GenerateKeyPair()
	skC, vkC, _ := crypto.GenerateKeyPair()

	decl := txmodel.MultisigDeclaration{
		Threshold: 2,
		Owners:    []ed25519.PublicKey{ed25519.PublicKey(vkA.Bytes()), ed25519.PublicKey(vkB.Bytes()), ed25519.PublicKey(vkC.Bytes())},
	}
	msg := []byte("stake delegation auth data")

	sigA := skA.Sign(msg)
	sigC := skC.Sign(msg)
	okSigs := []txmodel.IndexedSignature{{Index: 0, Signature: sigA}, {Index: 2, Signature: sigC}}
	if err := txmodel.VerifyMultisig(decl, msg, okSigs); err != nil {
		t.Errorf("2-of-3 with owners 0,2 should verify: %v", err)
	}

	oneSig := []txmodel.IndexedSignature{{Index: 0, Signature: sigA}}
	if err := txmodel.VerifyMultisig(decl, msg, oneSig); err != txmodel.ErrInsufficientOwnerSignatures {
		t.Errorf("single signature should fail threshold, got %v", err)
	}

	mislabeled := []txmodel.IndexedSignature{{Index: 0, Signature: sigA}, {Index: 1, Signature: sigC}}
	if err := txmodel.VerifyMultisig(decl, msg, mislabeled); err == nil {
		t.Errorf("signature by owner C mislabeled as owner B's index should fail")
	}
}
