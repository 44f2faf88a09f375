package factsdb

import "github.com/tripledb/factsdb/internal/index"

// Cursor is a stateful iterator over a contiguous, inclusive key range of
// one index. It is a short-lived view: modifying the Store through it
// while iterating is not supported, and abandoning it at any time
// requires no notification to the Store (it holds no locks).
type Cursor struct {
	matches []*Fact
	pos     int

	varS, varP, varO **Atom
}

// init positions the cursor over tree's matching range [start, end]
// (either bound nil means unbounded in that direction) and wires the
// optional output slots that Next populates on every step.
func (c *Cursor) init(tree *index.Index[*Fact], start, end *Fact) {
	if start == nil {
		start = &Fact{S: P_FIRST, P: P_FIRST, O: P_FIRST}
	}
	if end == nil {
		end = &Fact{S: P_LAST, P: P_LAST, O: P_LAST}
	}
	c.matches = tree.AscendRange(start, end)
	c.pos = -1
	c.varS, c.varP, c.varO = nil, nil, nil
}

// Next advances the cursor and returns the next matching Fact, writing
// the matched atoms through any bound variable slots. It returns nil
// once the range is exhausted, and remains exhausted on later calls.
func (c *Cursor) Next() *Fact {
	c.pos++
	if c.pos >= len(c.matches) {
		c.pos = len(c.matches) // pin past the end so repeated calls stay exhausted
		return nil
	}
	f := c.matches[c.pos]
	if c.varS != nil {
		*c.varS = f.S
	}
	if c.varP != nil {
		*c.varP = f.P
	}
	if c.varO != nil {
		*c.varO = f.O
	}
	return f
}
