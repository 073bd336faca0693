package ledger_test

import (
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/ledger"
)

// TestRewardContributionHalvingSchedule checks the exact reference values
// spec.md §8 scenario 5 names for a halving schedule with ratio 1/2 and
// reducing_epoch_rate 1, starting from an initial value of 1e9.
func TestRewardContributionHalvingSchedule(t *testing.T) {
	params := ledger.RewardParams{
		InitialValue:      1_000_000_000,
		ReducingType:      ledger.ReducingHalving,
		ReducingRatioNum:  1,
		ReducingRatioDen:  2,
		ReducingEpochRate: 1,
	}

	cases := []struct {
		epoch uint32
		want  uint64
	}{
		{0, 1_000_000_000},
		{1, 500_000_000},
		{2, 250_000_000},
		{3, 125_000_000},
	}
	for _, c := range cases {
		got, err := params.Contribution(c.epoch)
		if err != nil {
			t.Fatalf("epoch %d: %v", c.epoch, err)
		}
		if uint64(got) != c.want {
			t.Fatalf("epoch %d: got %d, want %d", c.epoch, got, c.want)
		}
	}
}

// TestRewardContributionLinearSchedule checks a linear reducing schedule
// that subtracts a flat amount per reducing zone.
func TestRewardContributionLinearSchedule(t *testing.T) {
	params := ledger.RewardParams{
		InitialValue:      1_000,
		ReducingType:      ledger.ReducingLinear,
		ReducingRatioNum:  100,
		ReducingRatioDen:  1,
		ReducingEpochRate: 1,
	}

	cases := []struct {
		epoch uint32
		want  uint64
	}{
		{0, 1000},
		{1, 900},
		{5, 500},
		{9, 100},
		{10, 0},
		{20, 0}, // clamped at zero, never goes negative
	}
	for _, c := range cases {
		got, err := params.Contribution(c.epoch)
		if err != nil {
			t.Fatalf("epoch %d: %v", c.epoch, err)
		}
		if uint64(got) != c.want {
			t.Fatalf("epoch %d: got %d, want %d", c.epoch, got, c.want)
		}
	}
}

// TestRewardContributionRejectsZeroEpochRate enforces spec.md §4.3's
// "reducing_epoch_rate must be > 0" invariant.
func TestRewardContributionRejectsZeroEpochRate(t *testing.T) {
	params := ledger.RewardParams{InitialValue: 100, ReducingEpochRate: 0}
	if _, err := params.Contribution(0); err != ledger.ErrReducingEpochRateZero {
		t.Fatalf("expected ErrReducingEpochRateZero, got %v", err)
	}
}

// TestDistributeToDelegatorsSplitsProportionally checks that payouts are
// proportional to stake and that truncation residue is returned as
// remainder rather than silently lost.
func TestDistributeToDelegatorsSplitsProportionally(t *testing.T) {
	idA := common.Hash28{1}
	idB := common.Hash28{2}
	stakes := map[common.Hash28]common.Value{
		idA: 300,
		idB: 700,
	}

	payouts, remainder := ledger.DistributeToDelegators(1000, stakes, 1000)
	if payouts[idA] != 300 {
		t.Fatalf("expected 300 for idA, got %d", payouts[idA])
	}
	if payouts[idB] != 700 {
		t.Fatalf("expected 700 for idB, got %d", payouts[idB])
	}
	if remainder != 0 {
		t.Fatalf("expected no remainder on an evenly divisible split, got %d", remainder)
	}

	// An odd total forces truncation; the shortfall must come back as
	// remainder rather than silently vanish.
	oddPayouts, oddRemainder := ledger.DistributeToDelegators(1000, map[common.Hash28]common.Value{idA: 1, idB: 2}, 3)
	total := uint64(oddPayouts[idA]) + uint64(oddPayouts[idB]) + uint64(oddRemainder)
	if total != 1000 {
		t.Fatalf("expected payouts+remainder to equal poolShare (1000), got %d", total)
	}
}
