package ledger

import (
	"errors"
	"math/big"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// fixedScale18 is the 10^18 fixed-point scale spec.md §9's first Open
// Question asks to resolve as a plain decimal literal (the source's
// `Reducing::Halving` used `10^18` written with `^` meaning XOR, a
// evident source typo, not exponentiation): 1_000_000_000_000_000_000.
const fixedScale18 = 1_000_000_000_000_000_000

// ErrReducingEpochRateZero is returned by Contribution when
// ReducingEpochRate is zero (spec.md §4.3: "must be > 0").
var ErrReducingEpochRateZero = errors.New("rewards: reducing_epoch_rate must be > 0")

// ReducingType selects the per-epoch reward contribution schedule.
type ReducingType uint8

const (
	ReducingLinear ReducingType = iota
	ReducingHalving
)

// RewardParams are the chain-wide reward schedule settings (spec.md §4.3).
type RewardParams struct {
	InitialValue      common.Value
	ReducingType      ReducingType
	ReducingRatioNum  uint64
	ReducingRatioDen  uint64
	ReducingEpochRate uint32
}

// Contribution computes the reward pot contribution for epoch, following
// the Linear or Halving schedule. Halving arithmetic uses 128-bit-class
// fixed point (scale 10^18) so the result is byte-identical across
// implementations regardless of native integer width.
func (p RewardParams) Contribution(epoch uint32) (common.Value, error) {
	if p.ReducingEpochRate == 0 {
		return 0, ErrReducingEpochRateZero
	}
	zone := epoch / p.ReducingEpochRate

	switch p.ReducingType {
	case ReducingLinear:
		reduceBy := new(big.Int).Mul(new(big.Int).SetUint64(p.ReducingRatioNum), big.NewInt(int64(zone)))
		reduceBy.Div(reduceBy, new(big.Int).SetUint64(p.ReducingRatioDen))
		c := new(big.Int).SetUint64(uint64(p.InitialValue))
		c.Sub(c, reduceBy)
		if c.Sign() < 0 {
			c.SetInt64(0)
		}
		return common.Value(c.Uint64()), nil

	case ReducingHalving:
		scale := big.NewInt(fixedScale18)
		ratio := new(big.Int).Mul(new(big.Int).SetUint64(p.ReducingRatioNum), scale)
		ratio.Div(ratio, new(big.Int).SetUint64(p.ReducingRatioDen))

		factor := new(big.Int).Set(scale) // 1.0 in fixed point
		for i := uint32(0); i < zone; i++ {
			factor.Mul(factor, ratio)
			factor.Div(factor, scale)
		}
		c := new(big.Int).SetUint64(uint64(p.InitialValue))
		c.Mul(c, factor)
		c.Div(c, scale)
		return common.Value(c.Uint64()), nil

	default:
		return 0, errors.New("rewards: unknown reducing type")
	}
}

// DistributeToDelegators splits poolShare across stakes proportional to
// each delegator's stake (truncated); the truncation residue is returned as
// remainder and stays in the ledger's remaining-rewards pot for the next
// epoch (spec.md §4.3).
func DistributeToDelegators(poolShare common.Value, stakes map[common.Hash28]common.Value, totalStake common.Value) (payouts map[common.Hash28]common.Value, remainder common.Value) {
	payouts = make(map[common.Hash28]common.Value, len(stakes))
	if totalStake == 0 || poolShare == 0 {
		return payouts, poolShare
	}
	var distributed uint64
	for id, stake := range stakes {
		share := new(big.Int).Mul(big.NewInt(int64(poolShare)), new(big.Int).SetUint64(uint64(stake)))
		share.Div(share, new(big.Int).SetUint64(uint64(totalStake)))
		v := share.Uint64()
		payouts[id] = common.Value(v)
		distributed += v
	}
	remainder = poolShare - common.Value(distributed)
	return payouts, remainder
}
