package ledger

import (
	"crypto/ed25519"
	"math/big"

	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/hamt"
)

// SplitKind selects between the two reward/tax split mechanics spec.md §4.3
// names for both treasury distribution and pool tax.
type SplitKind uint8

const (
	SplitFixed SplitKind = iota
	SplitRatioLimit
)

// SplitPolicy computes a two-way split of a pot: `a` (treasury's or the
// pool's tax cut) and `b` (the remainder). Ratio arithmetic uses math/big so
// large pots never overflow a machine word, and truncates per spec.md §4.3.
type SplitPolicy struct {
	Kind     SplitKind
	Fixed    common.Value
	RatioNum uint64
	RatioDen uint64
	Cap      *common.Value // only meaningful for SplitRatioLimit
}

// Split returns (a, b) such that a+b == pot.
func (p SplitPolicy) Split(pot common.Value) (a, b common.Value, err error) {
	switch p.Kind {
	case SplitFixed:
		a = p.Fixed
		if a > pot {
			a = pot
		}
	case SplitRatioLimit:
		n := new(big.Int).Mul(new(big.Int).SetUint64(uint64(pot)), new(big.Int).SetUint64(p.RatioNum))
		n.Div(n, new(big.Int).SetUint64(p.RatioDen))
		a = common.Value(n.Uint64())
		if p.Cap != nil && *p.Cap < a {
			a = *p.Cap
		}
		if a > pot {
			a = pot
		}
	}
	b, err = pot.Sub(a)
	return a, b, err
}

// StakePool is a registered block-producing pool (spec.md §3).
type StakePool struct {
	ID                  common.Hash28
	Owners              []ed25519.PublicKey
	Operators           []ed25519.PublicKey
	ManagementThreshold uint8
	VRFPublicKey        []byte
	KESPublicKey        []byte
	RewardsTax          SplitPolicy
	RetirementAt        *uint32
}

// IsRetired reports whether the pool is frozen (neither produces blocks nor
// receives rewards) as of epoch.
func (p StakePool) IsRetired(epoch uint32) bool {
	return p.RetirementAt != nil && *p.RetirementAt <= epoch
}

// PoolRegistry is the persistent table (C5) of pool id -> StakePool.
type PoolRegistry struct {
	m *hamt.Map[StakePool]
}

// NewPoolRegistry returns an empty pool registry.
func NewPoolRegistry() PoolRegistry {
	return PoolRegistry{m: hamt.New[StakePool]()}
}

// Lookup returns the pool registered under id, if any.
func (r PoolRegistry) Lookup(id common.Hash28) (StakePool, bool) {
	return r.m.Lookup(id[:])
}

// Register adds a newly-created pool. Fails with ErrPoolAlreadyExists if id
// is already registered.
func (r PoolRegistry) Register(p StakePool) (PoolRegistry, error) {
	if _, exists := r.m.Lookup(p.ID[:]); exists {
		return r, ErrPoolAlreadyExists
	}
	return PoolRegistry{m: r.m.Insert(p.ID[:], p)}, nil
}

// Update replaces an existing pool's registration in place.
func (r PoolRegistry) Update(p StakePool) (PoolRegistry, error) {
	if _, exists := r.m.Lookup(p.ID[:]); !exists {
		return r, ErrUnknownPool
	}
	return PoolRegistry{m: r.m.Insert(p.ID[:], p)}, nil
}

// Retire marks a pool for retirement at the given epoch.
func (r PoolRegistry) Retire(id common.Hash28, at uint32) (PoolRegistry, error) {
	p, ok := r.m.Lookup(id[:])
	if !ok {
		return r, ErrUnknownPool
	}
	p.RetirementAt = &at
	return PoolRegistry{m: r.m.Insert(id[:], p)}, nil
}

// ForEach visits every registered pool in an unspecified order.
func (r PoolRegistry) ForEach(fn func(id common.Hash28, p StakePool) bool) {
	r.m.ForEach(func(key []byte, p StakePool) bool {
		var id common.Hash28
		copy(id[:], key)
		return fn(id, p)
	})
}
