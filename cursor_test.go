package factsdb

import "testing"

func TestCursorEmptyRangeReturnsNilImmediately(t *testing.T) {
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	c := s.Match(NewBindings(), "?s", "?p", "?o")
	if f := c.Next(); f != nil {
		t.Fatalf("Next on empty store = %v, want nil", f)
	}
	if f := c.Next(); f != nil {
		t.Fatalf("Next after exhaustion = %v, want nil (must stay exhausted)", f)
	}
}

func TestCursorWritesThroughBindings(t *testing.T) {
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.AddSPO("alice", "knows", "bob"); err != nil {
		t.Fatalf("AddSPO: %v", err)
	}

	b := NewBindings()
	c := s.Match(b, "alice", "knows", "?who")
	f := c.Next()
	if f == nil {
		t.Fatalf("Next = nil, want a match")
	}

	who, ok := b.Value("?who")
	if !ok || who.Value != "bob" {
		t.Fatalf("binding ?who = %v, want bob", who)
	}

	if c.Next() != nil {
		t.Fatalf("expected exactly one match")
	}
}
