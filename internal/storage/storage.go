// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage persists block bodies and chain-state snapshots (spec.md
// §6.4) in Badger, grounded on the teacher's single-DB wrapper
// (internal/storage in blinklabs-io/shai) generalized from address-indexed
// UTxO rows to block/ledger-snapshot rows.
package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/praos-ledger/internal/config"
	"github.com/blinklabs-io/praos-ledger/internal/logging"

	"github.com/dgraph-io/badger/v4"
)

const (
	tipKey          = "tip"
	blockKeyPrefix  = "block_"
	ledgerKeyPrefix = "ledger_"
)

// Storage wraps a single Badger database holding the block store and
// periodic ledger-state snapshots used to resume without replaying from
// genesis.
type Storage struct {
	db *badger.DB
}

var globalStorage = &Storage{}

// Load opens (creating if absent) the Badger database named by the active
// config.
func (s *Storage) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func blockKey(hash []byte) []byte {
	return append([]byte(blockKeyPrefix), hash...)
}

func ledgerKey(hash []byte) []byte {
	return append([]byte(ledgerKeyPrefix), hash...)
}

// PutBlock stores a block's CBOR-encoded bytes keyed by its hash.
func (s *Storage) PutBlock(hash []byte, cborBytes []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blockKey(hash), cborBytes)
	})
}

// GetBlock returns the CBOR-encoded bytes of the block stored under hash.
func (s *Storage) GetBlock(hash []byte) ([]byte, error) {
	var ret []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(hash))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			ret = append([]byte{}, v...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return ret, err
}

// PutLedgerSnapshot stores an encoded Ledger state keyed by the hash of the
// block it was computed after, so a node can resume from the most recent
// snapshot instead of replaying the whole chain (spec.md §6.4).
func (s *Storage) PutLedgerSnapshot(blockHash []byte, encoded []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(ledgerKey(blockHash), encoded)
	})
}

// GetLedgerSnapshot returns the encoded Ledger state stored for blockHash, if
// any.
func (s *Storage) GetLedgerSnapshot(blockHash []byte) ([]byte, error) {
	var ret []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ledgerKey(blockHash))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			ret = append([]byte{}, v...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return ret, err
}

// UpdateTip records the current chain tip: chain length followed by the
// block hash, so a restarting node knows where to resume fork choice from.
func (s *Storage) UpdateTip(chainLength uint64, blockHash []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		val := make([]byte, 8+len(blockHash))
		binary.BigEndian.PutUint64(val, chainLength)
		copy(val[8:], blockHash)
		return txn.Set([]byte(tipKey), val)
	})
}

// GetTip returns the last recorded chain length and tip block hash.
func (s *Storage) GetTip() (uint64, []byte, error) {
	var chainLength uint64
	var hash []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tipKey))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) < 8 {
				return fmt.Errorf("storage: corrupt tip record")
			}
			chainLength = binary.BigEndian.Uint64(v[:8])
			hash = append([]byte{}, v[8:]...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return 0, nil, nil
	}
	return chainLength, hash, err
}

// GetStorage returns the global storage instance.
func GetStorage() *Storage {
	return globalStorage
}

// BadgerLogger adapts the zap-backed logger to Badger's expected interface.
type BadgerLogger struct {
	*logging.Logger
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		Logger: logging.GetLogger(),
	}
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.Logger.Warnf(msg, args...)
}
