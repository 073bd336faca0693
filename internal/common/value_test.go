package common_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/common"
)

func TestValueAdd(t *testing.T) {
	sum, err := common.Value(5).Add(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 8 {
		t.Errorf("expected 8, got %d", sum)
	}

	_, err = common.Value(math.MaxUint64).Add(1)
	if err != common.ErrValueOverflow {
		t.Errorf("expected overflow error, got %v", err)
	}
}

func TestValueSub(t *testing.T) {
	diff, err := common.Value(5).Sub(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff != 2 {
		t.Errorf("expected 2, got %d", diff)
	}

	_, err = common.Value(3).Sub(5)
	if err != common.ErrValueOverflow {
		t.Errorf("expected overflow error, got %v", err)
	}
}

func TestValueSplitIn(t *testing.T) {
	res, err := common.Value(10).SplitIn(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var total common.Value
	for _, p := range res.Parts {
		total += p
	}
	total += res.Remainder
	if total != 10 {
		t.Errorf("parts+remainder should equal original value, got %d", total)
	}
	if res.Remainder != 1 {
		t.Errorf("expected remainder 1, got %d", res.Remainder)
	}
}

func TestValueBytesRoundTrip(t *testing.T) {
	v := common.Value(123456789)
	buf := v.Bytes()
	got, err := common.ValueFromBytes(buf[:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != v {
		t.Errorf("round trip mismatch: got %d, want %d", got, v)
	}
}
