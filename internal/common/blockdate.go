package common

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockDate identifies a slot within the chain's epoch structure
// (spec.md §3). It is totally ordered lexicographically on (Epoch, Slot).
type BlockDate struct {
	Epoch uint32
	Slot  uint32
}

// Compare returns -1, 0, or 1 as d is less than, equal to, or greater than o.
func (d BlockDate) Compare(o BlockDate) int {
	if d.Epoch != o.Epoch {
		if d.Epoch < o.Epoch {
			return -1
		}
		return 1
	}
	switch {
	case d.Slot < o.Slot:
		return -1
	case d.Slot > o.Slot:
		return 1
	default:
		return 0
	}
}

// Next returns the BlockDate that follows d given slotsPerEpoch slots per
// epoch, rolling over to (Epoch+1, 0) when the epoch boundary is crossed.
func (d BlockDate) Next(slotsPerEpoch uint32) BlockDate {
	if d.Slot+1 >= slotsPerEpoch {
		return BlockDate{Epoch: d.Epoch + 1, Slot: 0}
	}
	return BlockDate{Epoch: d.Epoch, Slot: d.Slot + 1}
}

// CrossesEpoch reports whether moving from d to next crosses an epoch
// boundary.
func (d BlockDate) CrossesEpoch(next BlockDate) bool {
	return next.Epoch > d.Epoch
}

// String renders the text form "EPOCH.SLOT".
func (d BlockDate) String() string {
	return fmt.Sprintf("%d.%d", d.Epoch, d.Slot)
}

// ParseBlockDate parses the "EPOCH.SLOT" text form.
func ParseBlockDate(s string) (BlockDate, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return BlockDate{}, fmt.Errorf("blockdate: invalid format %q", s)
	}
	epoch, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return BlockDate{}, fmt.Errorf("blockdate: invalid epoch: %w", err)
	}
	slot, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return BlockDate{}, fmt.Errorf("blockdate: invalid slot: %w", err)
	}
	return BlockDate{Epoch: uint32(epoch), Slot: uint32(slot)}, nil
}
