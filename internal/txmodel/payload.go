package txmodel

import (
	"encoding/binary"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// Tag identifies a fragment's payload type on the wire (spec.md §6.1).
// txmodel defines the tags 0-7 and payload types for the delegation and
// pool certificates (tags 3-6); the remaining fragment kinds (faucet
// declarations, pool updates, update proposals/votes, voting) have no
// payload types in this repository.
type Tag uint8

const (
	TagInitial               Tag = 0
	TagOldUtxoDeclaration     Tag = 1
	TagTransaction            Tag = 2
	TagOwnerStakeDelegation   Tag = 3
	TagStakeDelegation        Tag = 4
	TagPoolRegistration       Tag = 5
	TagPoolRetirement         Tag = 6
	TagPoolUpdate             Tag = 7
)

// PoolID identifies a stake pool: hash(registration) (spec.md §3).
type PoolID = common.Hash28

// StakeDelegationPayload names the delegator account and the pool it is
// delegating to.
type StakeDelegationPayload struct {
	AccountID common.Hash28
	PoolID    PoolID
}

// Bytes serializes the payload for inclusion in a fragment's signed data.
func (p StakeDelegationPayload) Bytes() []byte {
	buf := make([]byte, 0, 56)
	buf = append(buf, p.AccountID[:]...)
	buf = append(buf, p.PoolID[:]...)
	return buf
}

// OwnerStakeDelegationPayload delegates the stake of the input account that
// signs this fragment; it carries no separate payload-auth (spec.md §4.1).
type OwnerStakeDelegationPayload struct {
	PoolID PoolID
}

// Bytes serializes the payload for inclusion in a fragment's signed data.
func (p OwnerStakeDelegationPayload) Bytes() []byte {
	return append([]byte(nil), p.PoolID[:]...)
}

// PoolRegistrationPayload declares a new stake pool.
type PoolRegistrationPayload struct {
	Owners              [][]byte // Ed25519 public keys
	Operators           [][]byte
	ManagementThreshold uint8
	VRFPublicKey        []byte
	KESPublicKey        []byte
}

// Bytes serializes the payload, used both for signed data and as the
// preimage of the pool's identifier (hash(registration), spec.md §3).
func (p PoolRegistrationPayload) Bytes() []byte {
	buf := []byte{p.ManagementThreshold}
	for _, o := range p.Owners {
		buf = append(buf, o...)
	}
	for _, o := range p.Operators {
		buf = append(buf, o...)
	}
	buf = append(buf, p.VRFPublicKey...)
	buf = append(buf, p.KESPublicKey...)
	return buf
}

// PoolRetirementPayload retires a pool at a given epoch.
type PoolRetirementPayload struct {
	PoolID      PoolID
	RetirementAt uint32
}

// Bytes serializes the payload for inclusion in a fragment's signed data.
func (p PoolRetirementPayload) Bytes() []byte {
	buf := append([]byte(nil), p.PoolID[:]...)
	var epochBuf [4]byte
	binary.BigEndian.PutUint32(epochBuf[:], p.RetirementAt)
	return append(buf, epochBuf[:]...)
}

// AccountBindingSignature is the payload-auth a StakeDelegation fragment
// carries: a signature by the delegating account's key over the
// fragment's auth data.
type AccountBindingSignature struct {
	Signature []byte
}

// PoolOwnersSigned is the payload-auth a pool registration/update/
// retirement fragment carries: signatures from >= management_threshold of
// the declared owners, each tagged with its index into the owner list.
type PoolOwnersSigned struct {
	Signatures []IndexedSignature
}
