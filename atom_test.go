package factsdb

import (
	"testing"

	"bitbucket.org/creachadair/stringset"
)

func mustIntern(t *testing.T, p *AtomPool, s string) *Atom {
	t.Helper()
	a, err := p.Intern(s)
	if err != nil {
		t.Fatalf("Intern(%q): %v", s, err)
	}
	return a
}

func TestAtomPoolInternFind(t *testing.T) {
	p := NewAtomPool(0)

	if _, ok := p.Find("alice"); ok {
		t.Fatalf("Find on empty pool found something")
	}

	a := mustIntern(t, p, "alice")
	if a.Value != "alice" {
		t.Fatalf("Value = %q, want alice", a.Value)
	}
	if a.Usage() != 1 {
		t.Fatalf("Usage = %d, want 1", a.Usage())
	}

	found, ok := p.Find("alice")
	if !ok || found != a {
		t.Fatalf("Find did not return the interned atom by identity")
	}
	if found.Usage() != 1 {
		t.Fatalf("Find must not bump usage, got %d", found.Usage())
	}
}

func TestAtomPoolInternIsIdempotentByIdentity(t *testing.T) {
	p := NewAtomPool(0)
	a1 := mustIntern(t, p, "bob")
	a2 := mustIntern(t, p, "bob")
	if a1 != a2 {
		t.Fatalf("two Interns of the same value returned different *Atom")
	}
	if a1.Usage() != 2 {
		t.Fatalf("Usage = %d, want 2", a1.Usage())
	}
}

func TestAtomPoolUninternRemovesAtZero(t *testing.T) {
	p := NewAtomPool(0)
	mustIntern(t, p, "carol")
	mustIntern(t, p, "carol")

	p.Unintern("carol")
	if _, ok := p.Find("carol"); !ok {
		t.Fatalf("atom vanished before usage reached zero")
	}

	p.Unintern("carol")
	if _, ok := p.Find("carol"); ok {
		t.Fatalf("atom survived past zero usage")
	}
	if p.Len() != 0 {
		t.Fatalf("Len = %d, want 0", p.Len())
	}
}

func TestAtomPoolUninternUnknownIsNoop(t *testing.T) {
	p := NewAtomPool(0)
	p.Unintern("nobody-home")
	if p.Len() != 0 {
		t.Fatalf("Len = %d, want 0", p.Len())
	}
}

func TestAtomPoolSnapshot(t *testing.T) {
	p := NewAtomPool(0)
	mustIntern(t, p, "x")
	mustIntern(t, p, "y")

	snap := p.Snapshot()
	want := stringset.New("x", "y")
	if !snap.Equals(want) {
		t.Fatalf("Snapshot = %v, want %v", snap, want)
	}
}

func TestCompareAtoms(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		wantSign int
	}{
		{"equal", "foo", "foo", 0},
		{"less", "bar", "foo", -1},
		{"greater", "foo", "bar", 1},
		{"empty_vs_nonempty", "", "a", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareAtoms(&Atom{Value: tt.a}, &Atom{Value: tt.b})
			switch tt.wantSign {
			case 0:
				if got != 0 {
					t.Fatalf("compareAtoms(%q, %q) = %d, want 0", tt.a, tt.b, got)
				}
			case -1:
				if got >= 0 {
					t.Fatalf("compareAtoms(%q, %q) = %d, want < 0", tt.a, tt.b, got)
				}
			case 1:
				if got <= 0 {
					t.Fatalf("compareAtoms(%q, %q) = %d, want > 0", tt.a, tt.b, got)
				}
			}
		})
	}
}

func TestSentinelAtomsBoundEverything(t *testing.T) {
	p := NewAtomPool(0)
	for _, v := range []string{"", "a", "zzzzzzzz", "\xff\xff"} {
		a := mustIntern(t, p, v)
		if compareAtoms(P_FIRST, a) > 0 {
			t.Fatalf("P_FIRST did not sort <= %q", v)
		}
		if compareAtoms(P_LAST, a) < 0 {
			t.Fatalf("P_LAST did not sort >= %q", v)
		}
	}
}

func TestAtomPoolInternSurfacesAllocateFailure(t *testing.T) {
	p := NewAtomPool(0)
	sentinel := NewErrOutOfMemory("doomed")
	p.allocate = func(s string) (*Atom, error) { return nil, sentinel }

	a, err := p.Intern("doomed")
	if err == nil {
		t.Fatalf("Intern succeeded despite a failing allocate hook")
	}
	if !IsOutOfMemory(err) {
		t.Fatalf("error = %v, want an out-of-memory error", err)
	}
	if a != nil {
		t.Fatalf("Intern returned a non-nil atom alongside an error")
	}

	if _, ok := p.Find("doomed"); ok {
		t.Fatalf("a failed Intern must not leave an entry behind")
	}
	if p.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after a failed Intern", p.Len())
	}
}

func TestAtomPoolInternAllocateFailureDoesNotBlockExistingEntries(t *testing.T) {
	p := NewAtomPool(0)
	mustIntern(t, p, "alice")

	p.allocate = func(s string) (*Atom, error) { return nil, NewErrOutOfMemory(s) }

	// A value already in the pool takes the found branch and never
	// reaches the (now-failing) allocate hook.
	a, err := p.Intern("alice")
	if err != nil {
		t.Fatalf("Intern of an already-present value failed: %v", err)
	}
	if a.Usage() != 2 {
		t.Fatalf("Usage = %d, want 2", a.Usage())
	}
}
