package txmodel

import (
	"crypto/ed25519"

	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/crypto"
)

// MultisigDeclaration gives the threshold and owner key list a multisig
// witness is checked against (grounded on
// chain-impl-mockchain/src/multisig/mod.rs's declaration-hash rebuild,
// supplemented per SPEC_FULL.md §1).
type MultisigDeclaration struct {
	Threshold uint8
	Owners    []ed25519.PublicKey
}

// Hash rebuilds the declaration hash committed to by a multisig address.
func (d MultisigDeclaration) Hash() common.Hash32 {
	buf := []byte{d.Threshold}
	for _, o := range d.Owners {
		buf = append(buf, o...)
	}
	return common.Blake2b256(buf)
}

// IndexedSignature pairs a signature with the index into the declaration's
// Owners list of the key that produced it.
type IndexedSignature struct {
	Index     uint8
	Signature []byte
}

// VerifyMultisig checks that sigs carries at least d.Threshold valid
// signatures over msg from distinct owners named by their declared index.
// A signature whose index does not match the key that actually produced it
// fails, per spec.md §8 scenario 6.
func VerifyMultisig(d MultisigDeclaration, msg []byte, sigs []IndexedSignature) error {
	seen := make(map[uint8]bool, len(sigs))
	valid := 0
	for _, s := range sigs {
		if int(s.Index) >= len(d.Owners) {
			return ErrBadSignature
		}
		if seen[s.Index] {
			continue
		}
		vk, err := crypto.NewVerificationKey(d.Owners[s.Index])
		if err != nil {
			return err
		}
		if err := vk.Verify(msg, s.Signature); err != nil {
			return ErrBadSignature
		}
		seen[s.Index] = true
		valid++
	}
	if valid < int(d.Threshold) {
		return ErrInsufficientOwnerSignatures
	}
	return nil
}
