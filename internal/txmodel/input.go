package txmodel

import (
	"encoding/binary"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// InputKind distinguishes the two input shapes spec.md §4.1 allows.
type InputKind uint8

const (
	InputKindUTXO InputKind = iota
	InputKindAccount
)

// Input is either an account reference or a UTXO pointer. The value is part
// of the input (and so signed over by its witness) so that witnessing can
// commit to the consumed amount without the verifier owning the source
// UTXO ahead of time.
type Input struct {
	Kind  InputKind
	Value common.Value

	// UTXO inputs.
	UTXOTxID common.Hash32
	UTXOIndex uint8

	// Account inputs.
	AccountID       common.Hash28
	SpendingCounter uint32
}

// NewUTXOInput builds a UTXO-spending input.
func NewUTXOInput(txID common.Hash32, index uint8, value common.Value) Input {
	return Input{Kind: InputKindUTXO, UTXOTxID: txID, UTXOIndex: index, Value: value}
}

// NewAccountInput builds an account-debiting input.
func NewAccountInput(accountID common.Hash28, counter uint32, value common.Value) Input {
	return Input{Kind: InputKindAccount, AccountID: accountID, SpendingCounter: counter, Value: value}
}

// bytes serializes the input for inclusion in the transaction's signed data.
func (in Input) bytes() []byte {
	valBytes := in.Value.Bytes()
	switch in.Kind {
	case InputKindUTXO:
		buf := make([]byte, 0, 1+32+1+8)
		buf = append(buf, byte(InputKindUTXO))
		buf = append(buf, in.UTXOTxID[:]...)
		buf = append(buf, in.UTXOIndex)
		buf = append(buf, valBytes[:]...)
		return buf
	default: // InputKindAccount
		buf := make([]byte, 0, 1+28+4+8)
		buf = append(buf, byte(InputKindAccount))
		buf = append(buf, in.AccountID[:]...)
		var counterBuf [4]byte
		binary.BigEndian.PutUint32(counterBuf[:], in.SpendingCounter)
		buf = append(buf, counterBuf[:]...)
		buf = append(buf, valBytes[:]...)
		return buf
	}
}
