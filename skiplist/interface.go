// Package skiplist holds the domain types shared by the canonical indexed
// skip list (skiplist/indexed) and the exploratory draft geometries kept
// alongside it (basic, la, splay, Tlist). The Ordered, Analyable and
// Nodelike interfaces are implemented by the drafts; the canonical core
// shares Index and Comparator only.
package skiplist

// Index is the caller-supplied identity of a live element: a slot id into
// whatever value container the caller owns. The skip list never reads the
// value behind an Index; it only ever compares indices with a Comparator.
type Index = uint32

// Comparator totally orders two indices, returning -1, 0, or +1 the way a
// three-way comparison conventionally does. It commonly dereferences into a
// caller-owned array to compare the values the indices stand for; it must
// stay consistent for the lifetime of any index currently live in a list.
type Comparator func(a, b Index) int

// Ordered is implemented by every draft skip list geometry in this
// repository, so that analyTool and the cmd/ benchmarking tools can drive
// any of them uniformly. The canonical core does not implement it (its
// Insert and Remove return an error and it has no Contains); cmd/bench
// wraps it in an adapter.
type Ordered interface {
	Insert(index Index)
	Remove(index Index)
	Contains(index Index) bool
	Size() int
}

// Analyable adds the introspection a draft needs to be walked by analyTool.
type Analyable interface {
	Ordered
	GetMaxStats() (maxNodes int, maxLevel int)
	GetHead() Nodelike
}

// Nodelike is the per-node view analyTool walks. Only the drafts implement
// it — the CORE has no per-node objects to expose, since its levels are flat
// index arrays rather than linked nodes; it ships its own diagnostics
// printer instead.
type Nodelike interface {
	GetIndex() Index
	GetLevel() int32
	GetNextAt(level int32) Nodelike
}

// Natural orders indices by their own numeric value. It is the Comparator
// every benchmark and workload-driven test in this repository reaches for
// when there is no separate caller-owned value table to dereference into —
// the index simply stands for itself.
func Natural(a, b Index) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
