// Package address implements the ledger's address discrimination and kind
// taxonomy (spec.md §3, §6.2).
package address

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// Discrimination selects the address namespace, preventing cross-chain
// replay between production and test networks.
type Discrimination uint8

const (
	DiscriminationProduction Discrimination = iota
	DiscriminationTest
)

func (d Discrimination) String() string {
	if d == DiscriminationTest {
		return "test"
	}
	return "production"
}

// Kind identifies the address's spending/delegation shape.
type Kind uint8

const (
	KindSingle Kind = iota
	KindGroup
	KindAccount
	KindMultisig
	KindScript
)

// ErrMixedDiscrimination is returned when a transaction mixes addresses of
// different discriminations (spec.md §3).
var ErrMixedDiscrimination = errors.New("address: mixed discrimination")

// Address is a Cardano-family address: a discrimination, a kind, and the
// key material the kind requires.
type Address struct {
	Discrimination Discrimination
	Kind           Kind
	SpendingKey    ed25519.PublicKey
	// DelegationKey is only set for KindGroup addresses.
	DelegationKey ed25519.PublicKey
}

// kindByte packs discrimination (high bit) and kind (low nibble) into the
// first payload byte, per spec.md §6.2.
func (a Address) kindByte() byte {
	b := byte(a.Kind) & 0x0f
	if a.Discrimination == DiscriminationTest {
		b |= 0x80
	}
	return b
}

// Bytes serializes the address to its binary payload: kind byte followed by
// key material.
func (a Address) Bytes() []byte {
	buf := make([]byte, 0, 1+2*ed25519.PublicKeySize)
	buf = append(buf, a.kindByte())
	buf = append(buf, a.SpendingKey...)
	if a.Kind == KindGroup {
		buf = append(buf, a.DelegationKey...)
	}
	return buf
}

// hrp returns the Bech32 human-readable prefix for the address's
// discrimination (spec.md §6.2: "ca" for test, configurable for production).
func (a Address) hrp(productionHRP string) string {
	if a.Discrimination == DiscriminationTest {
		return "ca"
	}
	if productionHRP == "" {
		return "addr"
	}
	return productionHRP
}

// String renders the Bech32 text form using the default production HRP.
func (a Address) String() string {
	s, _ := a.Encode("addr")
	return s
}

// Encode renders the Bech32 text form of the address.
func (a Address) Encode(productionHRP string) (string, error) {
	data, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(a.hrp(productionHRP), data)
}

// Decode parses a Bech32-encoded address.
func Decode(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, err
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, err
	}
	if len(raw) < 1+ed25519.PublicKeySize {
		return Address{}, errors.New("address: payload too short")
	}
	kindByte := raw[0]
	a := Address{
		Kind: Kind(kindByte & 0x0f),
	}
	if kindByte&0x80 != 0 {
		a.Discrimination = DiscriminationTest
	} else {
		a.Discrimination = DiscriminationProduction
	}
	if hrp == "ca" && a.Discrimination != DiscriminationTest {
		return Address{}, fmt.Errorf("address: hrp %q does not match discrimination byte", hrp)
	}
	a.SpendingKey = append(ed25519.PublicKey(nil), raw[1:1+ed25519.PublicKeySize]...)
	if a.Kind == KindGroup {
		rest := raw[1+ed25519.PublicKeySize:]
		if len(rest) < ed25519.PublicKeySize {
			return Address{}, errors.New("address: group address missing delegation key")
		}
		a.DelegationKey = append(ed25519.PublicKey(nil), rest[:ed25519.PublicKeySize]...)
	}
	return a, nil
}

// CheckDiscrimination verifies that every address in addrs matches want,
// returning ErrMixedDiscrimination otherwise (spec.md §3, §4.5 step 1).
func CheckDiscrimination(want Discrimination, addrs []Address) error {
	for _, a := range addrs {
		if a.Discrimination != want {
			return ErrMixedDiscrimination
		}
	}
	return nil
}
