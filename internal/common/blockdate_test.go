package common_test

import (
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

func TestBlockDateNextRollsOverEpoch(t *testing.T) {
	d := common.BlockDate{Epoch: 1, Slot: 9}
	next := d.Next(10)
	if next.Epoch != 2 || next.Slot != 0 {
		t.Errorf("expected (2,0), got (%d,%d)", next.Epoch, next.Slot)
	}
}

func TestBlockDateNextWithinEpoch(t *testing.T) {
	d := common.BlockDate{Epoch: 1, Slot: 3}
	next := d.Next(10)
	if next.Epoch != 1 || next.Slot != 4 {
		t.Errorf("expected (1,4), got (%d,%d)", next.Epoch, next.Slot)
	}
}

func TestBlockDateCompare(t *testing.T) {
	a := common.BlockDate{Epoch: 1, Slot: 5}
	b := common.BlockDate{Epoch: 1, Slot: 6}
	c := common.BlockDate{Epoch: 2, Slot: 0}
	if a.Compare(b) >= 0 {
		t.Errorf("expected a < b")
	}
	if b.Compare(c) >= 0 {
		t.Errorf("expected b < c")
	}
	if a.Compare(a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestBlockDateStringRoundTrip(t *testing.T) {
	d := common.BlockDate{Epoch: 42, Slot: 7}
	parsed, err := common.ParseBlockDate(d.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, d)
	}
}
