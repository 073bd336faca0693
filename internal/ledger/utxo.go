package ledger

import (
	"github.com/blinklabs-io/praos-ledger/internal/address"
	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/hamt"
	"github.com/blinklabs-io/praos-ledger/internal/txmodel"
)

// UTXOEntry is a live unspent output: the address it pays and its value.
type UTXOEntry struct {
	Address address.Address
	Value   common.Value
}

// UTXOMap is the persistent table (C4) of tx_id,index -> UTXOEntry: at any
// ledger state, its key set equals (created - spent), with no double-spend
// (spec.md §3).
type UTXOMap struct {
	m *hamt.Map[UTXOEntry]
}

// NewUTXOMap returns an empty UTXO table.
func NewUTXOMap() UTXOMap {
	return UTXOMap{m: hamt.New[UTXOEntry]()}
}

func utxoKey(txID common.Hash32, index uint8) []byte {
	key := make([]byte, 33)
	copy(key, txID[:])
	key[32] = index
	return key
}

// Lookup returns the live entry at (txID, index), if any.
func (u UTXOMap) Lookup(txID common.Hash32, index uint8) (UTXOEntry, bool) {
	return u.m.Lookup(utxoKey(txID, index))
}

// Add inserts every output of outs as a new live UTXO entry keyed by
// (txID, its index in outs). Fails with ErrAlreadyExists (leaving the map
// unchanged) if any index is already occupied.
func (u UTXOMap) Add(txID common.Hash32, outs []txmodel.Output) (UTXOMap, error) {
	for i := range outs {
		if _, exists := u.m.Lookup(utxoKey(txID, uint8(i))); exists {
			return u, ErrAlreadyExists
		}
	}
	m := u.m
	for i, o := range outs {
		m = m.Insert(utxoKey(txID, uint8(i)), UTXOEntry{Address: o.Address, Value: o.Value})
	}
	return UTXOMap{m: m}, nil
}

// Remove spends the entry at (txID, index), returning it.
func (u UTXOMap) Remove(txID common.Hash32, index uint8) (UTXOMap, UTXOEntry, error) {
	key := utxoKey(txID, index)
	entry, ok := u.m.Lookup(key)
	if !ok {
		return u, UTXOEntry{}, ErrUnknownUtxo
	}
	newMap, _ := u.m.Remove(key)
	return UTXOMap{m: newMap}, entry, nil
}

// RemoveMultiple atomically spends every index of txID in indices,
// returning all removed entries in order. If any index is missing, the
// whole call fails and the map is returned unchanged (spec.md §4.2).
func (u UTXOMap) RemoveMultiple(txID common.Hash32, indices []uint8) (UTXOMap, []UTXOEntry, error) {
	entries := make([]UTXOEntry, len(indices))
	for i, idx := range indices {
		e, ok := u.m.Lookup(utxoKey(txID, idx))
		if !ok {
			return u, nil, ErrUnknownUtxo
		}
		entries[i] = e
	}
	m := u.m
	for _, idx := range indices {
		m, _ = m.Remove(utxoKey(txID, idx))
	}
	return UTXOMap{m: m}, entries, nil
}

// Len returns the number of live UTXO entries.
func (u UTXOMap) Len() int { return u.m.Len() }
