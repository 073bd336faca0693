package common

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash28 is a 224-bit hash (Blake2b-224), used for pool and account
// identifiers.
type Hash28 [28]byte

// Hash32 is a 256-bit hash (Blake2b-256 or SHA3-256), used for block and
// transaction identifiers.
type Hash32 [32]byte

func (h Hash28) String() string { return hex.EncodeToString(h[:]) }
func (h Hash32) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns the hash's bytes as a slice.
func (h Hash28) Bytes() []byte { return h[:] }

// Bytes returns the hash's bytes as a slice.
func (h Hash32) Bytes() []byte { return h[:] }

// Hash28FromHex parses a lowercase-hex-encoded 28-byte hash.
func Hash28FromHex(s string) (Hash28, error) {
	var h Hash28
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != 28 {
		return h, errors.New("hash28: expected 28 bytes")
	}
	copy(h[:], b)
	return h, nil
}

// Hash32FromHex parses a lowercase-hex-encoded 32-byte hash.
func Hash32FromHex(s string) (Hash32, error) {
	var h Hash32
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != 32 {
		return h, errors.New("hash32: expected 32 bytes")
	}
	copy(h[:], b)
	return h, nil
}

// Blake2b224 computes the Blake2b-224 digest of data, used for pool and
// account identifiers.
func Blake2b224(data []byte) Hash28 {
	var h Hash28
	sum, err := blake2b.New(28, nil)
	if err != nil {
		// blake2b.New only errors on bad key/size; 28 is always valid.
		panic(err)
	}
	sum.Write(data)
	copy(h[:], sum.Sum(nil))
	return h
}

// Blake2b256 computes the Blake2b-256 digest of data, used for block and
// transaction identifiers.
func Blake2b256(data []byte) Hash32 {
	return Hash32(blake2b.Sum256(data))
}

// SHA3_256 computes the SHA3-256 digest of data.
func SHA3_256(data []byte) Hash32 {
	return Hash32(sha3.Sum256(data))
}
