package crypto

import (
	"crypto/ed25519"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// KES implements the sum-composition, forward-secure Key Evolving Signature
// from spec.md §4.4: a binary tree of depth d built from Ed25519 keys,
// indexed by "period" t ∈ [0, 2^d). Signing at period t uses the leaf
// Ed25519 key for that period; Update evolves the secret forward one period
// and erases the consumed leaf key, giving forward security: once advanced
// past period t, a signature for period t can no longer be produced.
//
// Per spec.md §9's second Open Question, this follows the *iterative*
// selection rule (left subtree for t < half, right subtree otherwise) and
// treats the source's "sumrec" duplicate-signing behavior as a test-only
// artifact, not something to reproduce.

// ErrKesPeriodExhausted is returned by Sign/Update once the key has advanced
// past its final period, or by Sign for an already-erased period.
var ErrKesPeriodExhausted = errors.New("kes: period exhausted")

// KESSignature is a signature produced at a specific period, along with the
// sibling public keys needed to verify the Merkle co-path up to the root.
type KESSignature struct {
	Period    uint32
	Signature []byte      // leaf Ed25519 signature
	LeafVK    []byte      // the Ed25519 verification key that produced Signature
	CoPath    [][2][]byte // per-level (left, right) VK-hash pairs, leaf-to-root
}

type kesLeaf struct {
	sk []byte // nil once erased by Update
	vk []byte
}

// KESSigningKey is the mutable, forward-secure secret key for a KES key
// pair at depth d (supporting 2^d periods).
type KESSigningKey struct {
	depth  int
	period uint32
	leaves []kesLeaf
	// nodeVK[level][i] is the public key/hash of the i-th node at that
	// level; level 0 is the leaves, level depth is the root.
	nodeVK [][][]byte
}

// KESVerificationKey is the (stable, non-evolving) public key of a KES pair.
type KESVerificationKey struct {
	depth int
	pk    []byte
}

// hashNode computes hash(pk_left, pk_right) for an internal KES node.
func hashNode(left, right []byte) []byte {
	h, _ := blake2b.New256(nil)
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}

// GenerateKESKeyPair derives a sum-composition KES key of the given depth
// from a 32-byte seed. depth 0 means a single Ed25519 key (one period).
func GenerateKESKeyPair(depth int, seed [32]byte) (*KESSigningKey, KESVerificationKey, error) {
	if depth < 0 {
		return nil, KESVerificationKey{}, errors.New("kes: negative depth")
	}
	numLeaves := 1 << uint(depth)
	leafSeeds := expandSeeds(seed, numLeaves)
	leaves := make([]kesLeaf, numLeaves)
	nodeVK := make([][][]byte, depth+1)
	nodeVK[0] = make([][]byte, numLeaves)
	for i, s := range leafSeeds {
		k, err := NewSigningKeyFromSeed(s)
		if err != nil {
			return nil, KESVerificationKey{}, err
		}
		leaves[i] = kesLeaf{sk: k.Bytes(), vk: k.Public().Bytes()}
		nodeVK[0][i] = leaves[i].vk
	}
	for level := 1; level <= depth; level++ {
		count := numLeaves >> uint(level)
		nodeVK[level] = make([][]byte, count)
		for i := 0; i < count; i++ {
			nodeVK[level][i] = hashNode(nodeVK[level-1][2*i], nodeVK[level-1][2*i+1])
		}
	}
	root := nodeVK[depth][0]
	return &KESSigningKey{depth: depth, leaves: leaves, nodeVK: nodeVK},
		KESVerificationKey{depth: depth, pk: root},
		nil
}

// expandSeeds deterministically derives n child seeds from a root seed via
// a counter-keyed Blake2b expansion.
func expandSeeds(seed [32]byte, n int) [][32]byte {
	out := make([][32]byte, n)
	for i := 0; i < n; i++ {
		h, _ := blake2b.New256(nil)
		h.Write([]byte("kes-leaf"))
		h.Write(seed[:])
		h.Write([]byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)})
		copy(out[i][:], h.Sum(nil))
	}
	return out
}

// Period returns the key's current period.
func (sk *KESSigningKey) Period() uint32 { return sk.period }

// Sign produces a signature at the key's current period. It does not
// advance the key; call Update separately once the block built with this
// signature has been produced (spec.md §4.4: "the update must happen before
// the first sign of the new period").
func (sk *KESSigningKey) Sign(msg []byte) (KESSignature, error) {
	idx := int(sk.period)
	if idx >= len(sk.leaves) {
		return KESSignature{}, ErrKesPeriodExhausted
	}
	leaf := sk.leaves[idx]
	if leaf.sk == nil {
		return KESSignature{}, ErrKesPeriodExhausted
	}
	k, err := NewSigningKey(leaf.sk)
	if err != nil {
		return KESSignature{}, err
	}
	coPath := make([][2][]byte, sk.depth)
	node := idx
	for level := 0; level < sk.depth; level++ {
		siblingBase := node &^ 1
		coPath[level] = [2][]byte{sk.nodeVK[level][siblingBase], sk.nodeVK[level][siblingBase+1]}
		node /= 2
	}
	return KESSignature{
		Period:    sk.period,
		Signature: k.Sign(msg),
		LeafVK:    leaf.vk,
		CoPath:    coPath,
	}, nil
}

// Update advances the key forward by one period, zeroing the consumed leaf
// secret (spec.md §4.4: "old secrets are erased").
func (sk *KESSigningKey) Update() error {
	idx := int(sk.period)
	if idx >= len(sk.leaves) {
		return ErrKesPeriodExhausted
	}
	if sk.leaves[idx].sk != nil {
		for i := range sk.leaves[idx].sk {
			sk.leaves[idx].sk[i] = 0
		}
		sk.leaves[idx].sk = nil
	}
	sk.period++
	return nil
}

// Verify checks a KES signature against the stable verification key and
// the claimed period.
func (vk KESVerificationKey) Verify(msg []byte, sig KESSignature) error {
	leafVerifier, err := NewVerificationKey(sig.LeafVK)
	if err != nil {
		return err
	}
	if err := leafVerifier.Verify(msg, sig.Signature); err != nil {
		return err
	}
	if vk.depth != len(sig.CoPath) {
		return errors.New("kes: co-path depth does not match verification key")
	}
	cur := sig.LeafVK
	node := sig.Period
	for level := 0; level < vk.depth; level++ {
		left, right := sig.CoPath[level][0], sig.CoPath[level][1]
		if node%2 == 0 {
			if string(left) != string(cur) {
				return errors.New("kes: co-path does not match signature at this period")
			}
		} else {
			if string(right) != string(cur) {
				return errors.New("kes: co-path does not match signature at this period")
			}
		}
		cur = hashNode(left, right)
		node /= 2
	}
	if string(cur) != string(vk.pk) {
		return errors.New("kes: signature does not verify against root key")
	}
	return nil
}

// Bytes returns the stable public key bytes.
func (vk KESVerificationKey) Bytes() []byte {
	return append([]byte(nil), vk.pk...)
}

// NewSigningKeyFromSeed derives a deterministic Ed25519 signing key from a
// 32-byte seed (used internally by KES leaf generation).
func NewSigningKeyFromSeed(seed [32]byte) (SigningKey, error) {
	return NewSigningKey(ed25519.NewKeyFromSeed(seed[:]))
}
