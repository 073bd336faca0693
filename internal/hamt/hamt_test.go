package hamt_test

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/hamt"
)

func key(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestInsertLookup(t *testing.T) {
	m := hamt.New[int]()
	m = m.Insert(key("alice"), 100)
	m = m.Insert(key("bob"), 200)

	if v, ok := m.Lookup(key("alice")); !ok || v != 100 {
		t.Fatalf("alice: got (%d, %v)", v, ok)
	}
	if v, ok := m.Lookup(key("bob")); !ok || v != 200 {
		t.Fatalf("bob: got (%d, %v)", v, ok)
	}
	if _, ok := m.Lookup(key("carol")); ok {
		t.Fatalf("carol should not be present")
	}
	if m.Len() != 2 {
		t.Fatalf("expected len 2, got %d", m.Len())
	}
}

func TestInsertIsPersistent(t *testing.T) {
	m1 := hamt.New[int]().Insert(key("alice"), 100)
	m2 := m1.Insert(key("alice"), 999)

	if v, _ := m1.Lookup(key("alice")); v != 100 {
		t.Fatalf("m1 should be unchanged, got %d", v)
	}
	if v, _ := m2.Lookup(key("alice")); v != 999 {
		t.Fatalf("m2 should see the update, got %d", v)
	}
}

func TestRemove(t *testing.T) {
	m := hamt.New[int]().Insert(key("alice"), 100).Insert(key("bob"), 200)
	m2, ok := m.Remove(key("alice"))
	if !ok {
		t.Fatalf("expected removal to succeed")
	}
	if _, ok := m2.Lookup(key("alice")); ok {
		t.Fatalf("alice should be gone from m2")
	}
	if _, ok := m.Lookup(key("alice")); !ok {
		t.Fatalf("alice should still be present in m (persistence)")
	}
	if _, ok := m2.Remove(key("nobody")); ok {
		t.Fatalf("removing an absent key should report ok=false")
	}
}

func TestManyEntriesSurviveStructuralSharing(t *testing.T) {
	m := hamt.New[int]()
	const n = 2000
	for i := 0; i < n; i++ {
		m = m.Insert(key(fmt.Sprintf("account-%d", i)), i)
	}
	if m.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, m.Len())
	}
	for i := 0; i < n; i++ {
		v, ok := m.Lookup(key(fmt.Sprintf("account-%d", i)))
		if !ok || v != i {
			t.Fatalf("account-%d: got (%d, %v)", i, v, ok)
		}
	}
}

func TestForEachVisitsEveryEntry(t *testing.T) {
	m := hamt.New[int]().Insert(key("a"), 1).Insert(key("b"), 2).Insert(key("c"), 3)
	seen := map[int]bool{}
	m.ForEach(func(_ []byte, v int) bool {
		seen[v] = true
		return true
	})
	for _, want := range []int{1, 2, 3} {
		if !seen[want] {
			t.Errorf("ForEach did not visit value %d", want)
		}
	}
}
