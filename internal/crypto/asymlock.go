package crypto

import (
	"crypto/rand"
	"errors"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

// Asymlock implements the ECIES-style "lock a payload to a recipient's
// public key" primitive from original_source's chain-crypto/src/asymlock.rs
// (spec.md §1 supplement): encrypt an ephemeral payload so only the holder
// of the matching secret scalar can recover it. Used by encrypted vote
// tally (fragment tag 13).

// AsymLockedBox is a locked payload: an ephemeral public point plus the
// XOR-stream-ciphered payload and an authentication tag.
type AsymLockedBox struct {
	Ephemeral [32]byte
	Ciphertext []byte
	Tag        [32]byte
}

// AsymLock encrypts plaintext to recipient's public key.
func AsymLock(recipient VRFPublicKey, plaintext []byte) (AsymLockedBox, error) {
	var ephSeed [32]byte
	if _, err := rand.Read(ephSeed[:]); err != nil {
		return AsymLockedBox{}, err
	}
	ephScalar, err := edwards25519.NewScalar().SetBytesWithClamping(ephSeed[:])
	if err != nil {
		return AsymLockedBox{}, err
	}
	ephPoint := new(edwards25519.Point).ScalarBaseMult(ephScalar)
	shared := new(edwards25519.Point).ScalarMult(ephScalar, recipient.point)

	stream, tagKey, err := deriveStreamAndTag(shared.Bytes())
	if err != nil {
		return AsymLockedBox{}, err
	}
	ciphertext := xorStream(plaintext, stream)
	tag := authTag(tagKey, ciphertext)

	var box AsymLockedBox
	copy(box.Ephemeral[:], ephPoint.Bytes())
	box.Ciphertext = ciphertext
	box.Tag = tag
	return box, nil
}

// AsymUnlock decrypts a locked box using the recipient's secret scalar.
func AsymUnlock(recipient VRFSecretKey, box AsymLockedBox) ([]byte, error) {
	ephPoint, err := new(edwards25519.Point).SetBytes(box.Ephemeral[:])
	if err != nil {
		return nil, errors.New("asymlock: invalid ephemeral point")
	}
	shared := new(edwards25519.Point).ScalarMult(recipient.scalar, ephPoint)

	stream, tagKey, err := deriveStreamAndTag(shared.Bytes())
	if err != nil {
		return nil, err
	}
	expectedTag := authTag(tagKey, box.Ciphertext)
	if expectedTag != box.Tag {
		return nil, errors.New("asymlock: authentication failed")
	}
	return xorStream(box.Ciphertext, stream), nil
}

func deriveStreamAndTag(sharedSecret []byte) (stream, tagKey []byte, err error) {
	kdf := hkdf.New(blake2b.New256, sharedSecret, nil, []byte("asymlock"))
	out := make([]byte, 64)
	if _, err := kdf.Read(out); err != nil {
		return nil, nil, err
	}
	return out[:32], out[32:], nil
}

func xorStream(data, seed []byte) []byte {
	out := make([]byte, len(data))
	h, _ := blake2b.New256(nil)
	h.Write(seed)
	counter := 0
	var keystream []byte
	for i := range data {
		if i%32 == 0 {
			h.Reset()
			h.Write(seed)
			h.Write([]byte{byte(counter)})
			keystream = h.Sum(nil)
			counter++
		}
		out[i] = data[i] ^ keystream[i%32]
	}
	return out
}

func authTag(key, ciphertext []byte) [32]byte {
	h, _ := blake2b.New256(key)
	h.Write(ciphertext)
	var tag [32]byte
	copy(tag[:], h.Sum(nil))
	return tag
}
