package ledger

import (
	"crypto/ed25519"

	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/hamt"
)

// DelegationKind is the shape of an account's delegation (spec.md §3).
type DelegationKind uint8

const (
	DelegationNone DelegationKind = iota
	DelegationFull
	DelegationRatio
)

// DelegationRatioEntry is one (pool, weight) pair of a ratio delegation.
type DelegationRatioEntry struct {
	PoolID common.Hash28
	Weight uint8
}

// DelegationType is an account's delegation: none, full to one pool, or
// split by weight across several.
type DelegationType struct {
	Kind  DelegationKind
	Pool  common.Hash28 // valid when Kind == DelegationFull
	Ratio []DelegationRatioEntry
}

// AccountState is the persistent per-account record (spec.md §3). The
// account's identifier is Blake2b224 of VerificationKey (AccountIDFromKey),
// so the id is never stored redundantly inside the value.
type AccountState struct {
	Balance         common.Value
	SpendingCounter uint32
	Delegation      DelegationType
	Tokens          []common.AssetAmount
	VerificationKey ed25519.PublicKey
}

// AccountIDFromKey derives the account identifier the ledger indexes
// accounts by from its owning Ed25519 public key.
func AccountIDFromKey(pub ed25519.PublicKey) common.Hash28 {
	return common.Blake2b224(pub)
}

// AccountMap is the persistent account table (C4), a HAMT from account id
// to AccountState.
type AccountMap struct {
	m *hamt.Map[AccountState]
}

// NewAccountMap returns an empty account table.
func NewAccountMap() AccountMap {
	return AccountMap{m: hamt.New[AccountState]()}
}

// Lookup returns the account state for id, if it exists.
func (a AccountMap) Lookup(id common.Hash28) (AccountState, bool) {
	return a.m.Lookup(id[:])
}

// Credit adds v to id's balance, creating the account (with the given
// owning key) if it does not yet exist.
func (a AccountMap) Credit(id common.Hash28, pub ed25519.PublicKey, v common.Value) (AccountMap, error) {
	acc, ok := a.Lookup(id)
	if !ok {
		acc = AccountState{VerificationKey: pub}
	}
	newBalance, err := acc.Balance.Add(v)
	if err != nil {
		return a, err
	}
	acc.Balance = newBalance
	return AccountMap{m: a.m.Insert(id[:], acc)}, nil
}

// Debit subtracts v from id's balance, checking and incrementing the
// spending counter (spec.md §4.2). The account is destroyed if its balance
// falls to zero and it has no pending delegation.
func (a AccountMap) Debit(id common.Hash28, v common.Value, counter uint32) (AccountMap, error) {
	acc, ok := a.Lookup(id)
	if !ok {
		return a, ErrUnknownAccount
	}
	if acc.SpendingCounter != counter {
		return a, ErrStaleSpendingCounter
	}
	newBalance, err := acc.Balance.Sub(v)
	if err != nil {
		return a, ErrInsufficientFunds
	}
	acc.Balance = newBalance
	acc.SpendingCounter++
	if acc.Balance == 0 && acc.Delegation.Kind == DelegationNone {
		newMap, _ := a.m.Remove(id[:])
		return AccountMap{m: newMap}, nil
	}
	return AccountMap{m: a.m.Insert(id[:], acc)}, nil
}

// SetDelegation updates id's delegation.
func (a AccountMap) SetDelegation(id common.Hash28, d DelegationType) (AccountMap, error) {
	acc, ok := a.Lookup(id)
	if !ok {
		return a, ErrUnknownAccount
	}
	acc.Delegation = d
	return AccountMap{m: a.m.Insert(id[:], acc)}, nil
}

// ForEach visits every account in an unspecified order.
func (a AccountMap) ForEach(fn func(id common.Hash28, acc AccountState) bool) {
	a.m.ForEach(func(key []byte, acc AccountState) bool {
		var id common.Hash28
		copy(id[:], key)
		return fn(id, acc)
	})
}

// Len returns the number of live accounts.
func (a AccountMap) Len() int { return a.m.Len() }
