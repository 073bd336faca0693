package txmodel

import (
	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// Transaction is a fully-built fragment body: a typed payload, the IOs it
// moves, a witness per input, and (for payload types that need it) a
// payload-auth blob (spec.md §4.1).
type Transaction struct {
	cbor.StructAsArray
	Tag       Tag
	Payload   []byte
	Inputs    []Input
	Outputs   []Output
	Witnesses []Witness
	Auth      []byte
}

// signedData is the byte string every witness and the payload-auth
// ultimately sign over: tag ‖ payload ‖ inputs ‖ outputs. Because the
// fragment tag is part of it, an auth blob produced for one certificate type
// cannot be replayed as another's.
func (tx *Transaction) signedData() []byte {
	buf := []byte{byte(tx.Tag)}
	buf = append(buf, tx.Payload...)
	for _, in := range tx.Inputs {
		buf = append(buf, in.bytes()...)
	}
	for _, out := range tx.Outputs {
		buf = append(buf, out.bytes()...)
	}
	return buf
}

// AuthDataForWitness is the hash each per-input witness signs over
// (together with the chain's block0 hash), fixed once the payload and IOs
// are set (spec.md §4.1: "typestate... impossible to sign a transaction
// whose IOs or payload are not yet fixed").
func (tx *Transaction) AuthDataForWitness() common.Hash32 {
	return common.Blake2b256(tx.signedData())
}

// AuthData is the hash the payload-auth (pool owner signatures, stake
// delegation account binding) signs, computed once inputs/outputs/witnesses
// are all fixed.
func (tx *Transaction) AuthData() common.Hash32 {
	buf := tx.signedData()
	for _, w := range tx.Witnesses {
		buf = append(buf, byte(w.Kind))
		buf = append(buf, w.Signature...)
		for _, s := range w.MultisigSignatures {
			buf = append(buf, s.Index)
			buf = append(buf, s.Signature...)
		}
	}
	return common.Blake2b256(buf)
}

// Encode serializes the transaction to its CBOR wire form.
func (tx *Transaction) Encode() ([]byte, error) {
	return cbor.Encode(tx)
}

// Decode parses a transaction from its CBOR wire form.
func Decode(data []byte) (*Transaction, error) {
	var tx Transaction
	if _, err := cbor.Decode(data, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// TotalInputValue sums the value of every input.
func (tx *Transaction) TotalInputValue() (common.Value, error) {
	var total common.Value
	var err error
	for _, in := range tx.Inputs {
		total, err = total.Add(in.Value)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// TotalOutputValue sums the value of every output.
func (tx *Transaction) TotalOutputValue() (common.Value, error) {
	var total common.Value
	var err error
	for _, out := range tx.Outputs {
		total, err = total.Add(out.Value)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
