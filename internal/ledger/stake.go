package ledger

import (
	"math/big"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// StakeDistribution is the {unassigned, dangling, pools} triple spec.md
// §4.3 computes at every epoch boundary and feeds into the leader lottery
// (C7).
type StakeDistribution struct {
	Unassigned common.Value
	Dangling   common.Value
	Pools      map[common.Hash28]common.Value
}

// TotalStake returns the sum of every pool's stake (not counting
// unassigned/dangling stake, which never elects a leader).
func (d StakeDistribution) TotalStake() common.Value {
	var total common.Value
	for _, v := range d.Pools {
		total = total.SaturatingAdd(v)
	}
	return total
}

// ComputeStakeDistribution folds every account's balance into the stake it
// contributes: to at most one pool under full delegation, split by weight
// under ratio delegation, or unassigned/dangling otherwise (spec.md §4.3).
func ComputeStakeDistribution(accounts AccountMap, pools PoolRegistry, epoch uint32) StakeDistribution {
	dist := StakeDistribution{Pools: make(map[common.Hash28]common.Value)}

	accounts.ForEach(func(_ common.Hash28, acc AccountState) bool {
		switch acc.Delegation.Kind {
		case DelegationNone:
			dist.Unassigned = dist.Unassigned.SaturatingAdd(acc.Balance)

		case DelegationFull:
			assignStake(&dist, pools, acc.Delegation.Pool, acc.Balance, epoch)

		case DelegationRatio:
			totalWeight := uint32(0)
			for _, e := range acc.Delegation.Ratio {
				totalWeight += uint32(e.Weight)
			}
			if totalWeight == 0 {
				dist.Unassigned = dist.Unassigned.SaturatingAdd(acc.Balance)
				return true
			}
			for _, e := range acc.Delegation.Ratio {
				share := new(big.Int).Mul(big.NewInt(int64(acc.Balance)), big.NewInt(int64(e.Weight)))
				share.Div(share, big.NewInt(int64(totalWeight)))
				assignStake(&dist, pools, e.PoolID, common.Value(share.Uint64()), epoch)
			}
		}
		return true
	})

	return dist
}

func assignStake(dist *StakeDistribution, pools PoolRegistry, poolID common.Hash28, amount common.Value, epoch uint32) {
	pool, ok := pools.Lookup(poolID)
	if !ok || pool.IsRetired(epoch) {
		dist.Dangling = dist.Dangling.SaturatingAdd(amount)
		return
	}
	dist.Pools[poolID] = dist.Pools[poolID].SaturatingAdd(amount)
}
