// Package index wraps github.com/google/btree behind the small ordered,
// comparator-driven set contract the store needs: insert, remove by
// equal key, find, and a bounded ascending walk. The store code never
// imports btree directly, mirroring the pattern of hiding a swappable
// backend behind a narrow interface.
package index

import "github.com/google/btree"

// degree is the btree branching factor. 32 is the value google/btree's
// own documentation recommends for in-memory workloads; there is no
// disk page size to tune it against here.
const degree = 32

// Less compares two values of T, returning true iff a sorts before b.
type Less[T any] func(a, b T) bool

// Index is an ordered set of values of T under a single Less function,
// backed by a google/btree BTreeG. It holds at most one value per
// equivalence class of Less: values that compare equal are not kept side
// by side.
type Index[T any] struct {
	tree *btree.BTreeG[T]
	less Less[T]
}

// New creates an empty Index ordered by less.
func New[T any](less Less[T]) *Index[T] {
	return &Index[T]{
		tree: btree.NewG(degree, less),
		less: less,
	}
}

// Insert adds v to the index, replacing any value already present that
// is equal to v under the index's ordering.
func (ix *Index[T]) Insert(v T) {
	ix.tree.ReplaceOrInsert(v)
}

// Remove deletes the value equal to v under the index's ordering and
// returns it, or the zero value and false if no such value was present.
func (ix *Index[T]) Remove(v T) (T, bool) {
	return ix.tree.Delete(v)
}

// Find returns the value equal to v under the index's ordering, if any.
func (ix *Index[T]) Find(v T) (T, bool) {
	return ix.tree.Get(v)
}

// Len reports the number of values in the index.
func (ix *Index[T]) Len() int {
	return ix.tree.Len()
}

// AscendRange collects, in ascending order, every value v in the index
// such that !less(v, start) && !less(end, v) — i.e. the inclusive range
// [start, end]. It is the one traversal primitive Cursor needs. Only
// google/btree's push-style AscendGreaterOrEqual is available (no
// predecessor/successor node handles, and its AscendRange takes an
// exclusive upper bound, unsuitable for an inclusive end), so this walks
// from start and stops the callback once a value sorts past end —
// materializing the matching slice eagerly rather than returning a lazy,
// abandon-able iterator.
func (ix *Index[T]) AscendRange(start, end T) []T {
	var out []T
	ix.tree.AscendGreaterOrEqual(start, func(v T) bool {
		if ix.less(end, v) {
			return false
		}
		out = append(out, v)
		return true
	})
	return out
}
