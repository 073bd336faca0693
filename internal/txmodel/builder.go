package txmodel

import "github.com/blinklabs-io/praos-ledger/internal/common"

// Builder is a four-stage typestate — SetPayload → SetIOs → SetWitnesses →
// SetAuth — that makes it impossible, by construction, to sign a
// transaction whose IOs or payload are not yet fixed (spec.md §4.1). Each
// stage is its own type; only the methods valid at that stage are in
// scope.

// PayloadStage is the builder's entry point.
type PayloadStage struct{}

// NewTransaction begins building a new fragment body.
func NewTransaction() PayloadStage { return PayloadStage{} }

// SetPayload fixes the fragment's tag and type-specific payload bytes.
func (PayloadStage) SetPayload(tag Tag, payload []byte) IOsStage {
	return IOsStage{tag: tag, payload: payload}
}

// IOsStage follows SetPayload.
type IOsStage struct {
	tag     Tag
	payload []byte
}

// SetIOs fixes the transaction's inputs and outputs.
func (s IOsStage) SetIOs(inputs []Input, outputs []Output) WitnessStage {
	return WitnessStage{tag: s.tag, payload: s.payload, inputs: inputs, outputs: outputs}
}

// WitnessStage follows SetIOs. AuthDataForWitness is available here so
// callers can produce each input's witness before moving on.
type WitnessStage struct {
	tag     Tag
	payload []byte
	inputs  []Input
	outputs []Output
}

// AuthDataForWitness returns the hash every witness at this stage must sign
// (together with the chain's block0 hash).
func (s WitnessStage) AuthDataForWitness() common.Hash32 {
	tx := s.partial()
	return tx.AuthDataForWitness()
}

func (s WitnessStage) partial() *Transaction {
	return &Transaction{Tag: s.tag, Payload: s.payload, Inputs: s.inputs, Outputs: s.outputs}
}

// SetWitnesses fixes the per-input witness list. len(witnesses) must equal
// len(inputs); that invariant is enforced by the ledger's witness check
// (spec.md §4.5 step 3), not here, since a builder may be assembling a
// transaction incrementally.
func (s WitnessStage) SetWitnesses(witnesses []Witness) AuthStage {
	return AuthStage{tag: s.tag, payload: s.payload, inputs: s.inputs, outputs: s.outputs, witnesses: witnesses}
}

// AuthStage follows SetWitnesses.
type AuthStage struct {
	tag       Tag
	payload   []byte
	inputs    []Input
	outputs   []Output
	witnesses []Witness
}

// AuthData returns the hash the payload-auth blob must sign.
func (s AuthStage) AuthData() common.Hash32 {
	tx := s.partial()
	return tx.AuthData()
}

func (s AuthStage) partial() *Transaction {
	return &Transaction{Tag: s.tag, Payload: s.payload, Inputs: s.inputs, Outputs: s.outputs, Witnesses: s.witnesses}
}

// SetAuth fixes the payload-auth blob (possibly empty, for payload types
// that carry none) and completes the transaction.
func (s AuthStage) SetAuth(auth []byte) *Transaction {
	tx := s.partial()
	tx.Auth = auth
	return tx
}
