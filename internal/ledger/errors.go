// Package ledger implements the account/UTXO state machine: C4 (accounts &
// UTXO, backed by internal/hamt), C5 (delegation, pools, rewards), and C6
// (the pure apply_block state transition), grounded on
// chain-impl-mockchain's ledger/account/utxo/rewards modules (spec.md §4.2,
// §4.3, §4.5).
package ledger

import "errors"

// LedgerError enumerates the kinds of rejection apply_block can return
// (spec.md §4.5). Validating functions in this package return these for
// rejections; arithmetic overflow is returned as common.ErrValueOverflow.
// None of them panics.
var (
	ErrInvalidDiscrimination = errors.New("ledger: invalid discrimination")
	ErrFeeUnderflow          = errors.New("ledger: fee underflow")
	ErrNotBalanced           = errors.New("ledger: inputs do not balance outputs plus fee")
	ErrSpentUtxo             = errors.New("ledger: utxo already spent")
	ErrUnknownUtxo           = errors.New("ledger: unknown utxo")
	ErrUnknownAccount        = errors.New("ledger: unknown account")
	ErrInsufficientFunds     = errors.New("ledger: insufficient funds")
	ErrStaleSpendingCounter  = errors.New("ledger: stale spending counter")
	ErrBadWitness            = errors.New("ledger: bad witness")
	ErrBadPayloadAuth        = errors.New("ledger: bad payload auth")
	ErrUnknownPool           = errors.New("ledger: unknown pool")
	ErrPoolAlreadyExists     = errors.New("ledger: pool already exists")
	ErrRetiredPool           = errors.New("ledger: pool is retired")
	ErrEpochSettingsInvalid  = errors.New("ledger: epoch settings invalid")
	ErrBlockTooFarFuture     = errors.New("ledger: block date too far in the future")
	ErrParentMismatch        = errors.New("ledger: parent hash mismatch")
	ErrAlreadyExists         = errors.New("ledger: utxo output index already exists")
	ErrWitnessCountMismatch  = errors.New("ledger: witness count does not match input count")
)
