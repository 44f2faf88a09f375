package factsdb

import (
	"bitbucket.org/creachadair/stringset"
)

// Atom is a reference to a canonical, immutable string. Two atoms with
// the same content are the same *Atom — callers may compare atoms by
// pointer identity instead of comparing their Value strings.
type Atom struct {
	Value string
	usage uint64
}

// P_FIRST and P_LAST are sentinel atoms that sort strictly below and
// above every atom an AtomPool can ever intern. They exist only to
// build inclusive key ranges for cursors and must never be returned by
// Intern or Find.
//
// Atom content is an arbitrary byte string (spec.md §3), so no string
// value is guaranteed to out-sort every possible atom under byte-wise
// comparison (a longer string sharing a prefix always sorts higher).
// compareAtoms therefore special-cases these two sentinels by pointer
// identity rather than by their Value, which is otherwise unused.
var (
	P_FIRST = &Atom{}
	P_LAST  = &Atom{}
)

// AtomPool interns strings into stable, refcounted Atoms. The zero value
// is not usable; construct one with NewAtomPool.
type AtomPool struct {
	entries map[string]*Atom

	// allocate builds the Atom for a new entry. It is a seam for
	// fault-injection tests: NewAtomPool wires it to allocateAtom, and a
	// test in this package may swap it on a pool instance to simulate the
	// allocation failure NewErrOutOfMemory exists for (the Go runtime
	// itself never returns one — it aborts the process instead).
	allocate func(s string) (*Atom, error)
}

// allocateAtom is AtomPool's default, always-succeeding allocate hook.
func allocateAtom(s string) (*Atom, error) {
	return &Atom{Value: s, usage: 1}, nil
}

// NewAtomPool creates an empty pool. capacityHint is a sizing hint for
// the backing map, not a hard limit.
func NewAtomPool(capacityHint int) *AtomPool {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &AtomPool{
		entries:  make(map[string]*Atom, capacityHint),
		allocate: allocateAtom,
	}
}

// Find returns the canonical atom for s without creating one and without
// touching its usage counter.
func (p *AtomPool) Find(s string) (*Atom, bool) {
	a, ok := p.entries[s]
	return a, ok
}

// Intern returns the canonical atom for s, creating it if absent, and
// always increments its usage counter by one. Creation can fail only if
// the allocate hook has been swapped out (see AtomPool.allocate); in
// normal operation it always succeeds.
func (p *AtomPool) Intern(s string) (*Atom, error) {
	if a, ok := p.entries[s]; ok {
		a.usage++
		return a, nil
	}
	a, err := p.allocate(s)
	if err != nil {
		return nil, err
	}
	p.entries[s] = a
	return a, nil
}

// Unintern decrements the usage counter of the atom holding s, if any,
// and removes it from the pool once the counter reaches zero.
func (p *AtomPool) Unintern(s string) {
	a, ok := p.entries[s]
	if !ok {
		return
	}
	a.usage--
	if a.usage == 0 {
		delete(p.entries, s)
	}
}

// Len reports the number of distinct atoms currently interned.
func (p *AtomPool) Len() int {
	return len(p.entries)
}

// Snapshot returns the set of currently interned atom values, for
// diagnostics and tests. It does not affect usage counters.
func (p *AtomPool) Snapshot() stringset.Set {
	s := stringset.New()
	for v := range p.entries {
		s.Add(v)
	}
	return s
}

// Usage returns the current usage counter of a, for tests and
// diagnostics.
func (a *Atom) Usage() uint64 {
	return a.usage
}

func compareAtoms(a, b *Atom) int {
	if a == b {
		return 0
	}
	if a == P_FIRST || b == P_LAST {
		return -1
	}
	if a == P_LAST || b == P_FIRST {
		return 1
	}
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	default:
		return 0
	}
}
