package txmodel

import (
	"encoding/binary"

	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/crypto"
)

// WitnessKind distinguishes the three witness shapes spec.md §4.1 names.
type WitnessKind uint8

const (
	WitnessKindUTXO WitnessKind = iota
	WitnessKindAccount
	WitnessKindMultisig
)

// Witness authorizes spending the input at the same index in a
// Transaction's Inputs.
type Witness struct {
	Kind WitnessKind

	// UTXO / Account witnesses.
	Signature []byte

	// Multisig witnesses.
	MultisigSignatures []IndexedSignature
}

// NewUTXOWitness signs signData ("block0_hash ‖ sign_data_hash") with sk.
func NewUTXOWitness(sk crypto.SigningKey, block0Hash common.Hash32, signDataHash common.Hash32) Witness {
	msg := utxoSignedData(block0Hash, signDataHash)
	return Witness{Kind: WitnessKindUTXO, Signature: sk.Sign(msg)}
}

// NewAccountWitness signs signData plus the big-endian spending counter.
func NewAccountWitness(sk crypto.SigningKey, block0Hash common.Hash32, signDataHash common.Hash32, counter uint32) Witness {
	msg := accountSignedData(block0Hash, signDataHash, counter)
	return Witness{Kind: WitnessKindAccount, Signature: sk.Sign(msg)}
}

// NewMultisigWitness wraps the tree-indexed signature list a multisig
// input's declaration demands.
func NewMultisigWitness(sigs []IndexedSignature) Witness {
	return Witness{Kind: WitnessKindMultisig, MultisigSignatures: sigs}
}

func utxoSignedData(block0Hash, signDataHash common.Hash32) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, block0Hash[:]...)
	buf = append(buf, signDataHash[:]...)
	return buf
}

func accountSignedData(block0Hash, signDataHash common.Hash32, counter uint32) []byte {
	buf := make([]byte, 0, 68)
	buf = append(buf, block0Hash[:]...)
	buf = append(buf, signDataHash[:]...)
	var counterBuf [4]byte
	binary.BigEndian.PutUint32(counterBuf[:], counter)
	buf = append(buf, counterBuf[:]...)
	return buf
}

// VerifyUTXOWitness checks a UTXO witness's signature under vk.
func VerifyUTXOWitness(vk crypto.VerificationKey, block0Hash, signDataHash common.Hash32, w Witness) error {
	if w.Kind != WitnessKindUTXO {
		return ErrUnknownWitnessKind
	}
	if err := vk.Verify(utxoSignedData(block0Hash, signDataHash), w.Signature); err != nil {
		return ErrBadSignature
	}
	return nil
}

// VerifyAccountWitness checks an account witness's signature, including the
// spending counter it commits to.
func VerifyAccountWitness(vk crypto.VerificationKey, block0Hash, signDataHash common.Hash32, counter uint32, w Witness) error {
	if w.Kind != WitnessKindAccount {
		return ErrUnknownWitnessKind
	}
	if err := vk.Verify(accountSignedData(block0Hash, signDataHash, counter), w.Signature); err != nil {
		return ErrBadSignature
	}
	return nil
}

// VerifyMultisigWitness checks a multisig witness against its declaration.
func VerifyMultisigWitness(d MultisigDeclaration, block0Hash, signDataHash common.Hash32, w Witness) error {
	if w.Kind != WitnessKindMultisig {
		return ErrUnknownWitnessKind
	}
	return VerifyMultisig(d, utxoSignedData(block0Hash, signDataHash), w.MultisigSignatures)
}
