// Package crypto implements the ledger's cryptographic primitives: Ed25519
// signing, the Genesis-Praos VRF, sum-composition KES, and the asymmetric
// lock used by encrypted vote tallying (spec.md §4.2, §4.4, §9).
package crypto

import (
	"crypto/ed25519"
	"errors"
)

// ErrBadSignature is returned when a signature fails to verify.
var ErrBadSignature = errors.New("crypto: bad signature")

// SigningKey wraps an Ed25519 secret key.
type SigningKey struct {
	secret ed25519.PrivateKey
}

// VerificationKey wraps an Ed25519 public key.
type VerificationKey struct {
	public ed25519.PublicKey
}

// GenerateKeyPair creates a new Ed25519 signing/verification key pair.
func GenerateKeyPair() (SigningKey, VerificationKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return SigningKey{}, VerificationKey{}, err
	}
	return SigningKey{secret: priv}, VerificationKey{public: pub}, nil
}

// NewSigningKey wraps a raw Ed25519 private key.
func NewSigningKey(raw []byte) (SigningKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return SigningKey{}, errors.New("crypto: invalid signing key size")
	}
	return SigningKey{secret: ed25519.PrivateKey(raw)}, nil
}

// NewVerificationKey wraps a raw Ed25519 public key.
func NewVerificationKey(raw []byte) (VerificationKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return VerificationKey{}, errors.New("crypto: invalid verification key size")
	}
	return VerificationKey{public: ed25519.PublicKey(raw)}, nil
}

// Public derives the verification key for a signing key.
func (s SigningKey) Public() VerificationKey {
	return VerificationKey{public: s.secret.Public().(ed25519.PublicKey)}
}

// Sign signs msg, returning the raw 64-byte Ed25519 signature.
func (s SigningKey) Sign(msg []byte) []byte {
	return ed25519.Sign(s.secret, msg)
}

// Bytes returns the raw private key bytes.
func (s SigningKey) Bytes() []byte {
	return append([]byte(nil), s.secret...)
}

// Bytes returns the raw public key bytes.
func (v VerificationKey) Bytes() []byte {
	return append([]byte(nil), v.public...)
}

// Verify checks sig against msg under v. Returns ErrBadSignature on mismatch.
func (v VerificationKey) Verify(msg, sig []byte) error {
	if len(v.public) != ed25519.PublicKeySize {
		return errors.New("crypto: invalid verification key")
	}
	if !ed25519.Verify(v.public, msg, sig) {
		return ErrBadSignature
	}
	return nil
}

// Equal reports whether two verification keys hold the same public key.
func (v VerificationKey) Equal(o VerificationKey) bool {
	return ed25519.PublicKey(v.public).Equal(ed25519.PublicKey(o.public))
}
