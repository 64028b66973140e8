// Package indexed implements the canonical skip list: a fixed-capacity,
// multi-layer, probabilistic skip list over externally-owned integer
// indices. There is no per-node heap allocation and no pointer type — every
// link lives in a flat array indexed by the caller-supplied Index, the way
// a fixed-capacity allocator backs a structure with slot ids instead of
// pointers rather than by growing a tree of *Node objects.
package indexed

import (
	"math"
	"math/rand"

	"github.com/hakuto838/indexskip/skiplist"
)

// Index is the caller-supplied identity of a live element.
type Index = skiplist.Index

// Comparator totally orders two indices.
type Comparator = skiplist.Comparator

// noLink is the sentinel stored in the link arrays meaning "no such node".
// int64 lanes are used internally (rather than int32) so MaxUint32-valued
// indices never collide with the sentinel.
const noLink int64 = -1

// SkipList is the fixed-capacity, pointer-packed, multi-layer probabilistic
// skip list of the package doc comment. The zero value is not usable; build
// one with New.
type SkipList struct {
	capacity uint32
	ratio    float64
	compare  Comparator

	levels       int // L: total number of levels, fixed at construction
	currentLevel int // highest level with a nonzero size, <= levels-1

	heads []int64 // length levels
	tails []int64 // length levels
	sizes []int   // length levels

	nexts [][]int64 // levels lanes, each length capacity
	prevs []int64   // length capacity, level 0 only

	cdf []float64 // length levels-1, cdf[i] = ratio^(i+1)

	rand  *rand.Rand
	debug *membership
}

// New builds a SkipList over indices in [0, capacity). ratio must be in the
// open interval (0, 1); it is the per-level promotion probability. compare
// must be non-nil and must stay consistent for the lifetime of any index
// live in the list.
func New(capacity uint32, ratio float64, compare Comparator, opts ...Option) (*SkipList, error) {
	if capacity == 0 {
		return nil, ErrInvalidCapacity
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, ErrInvalidRatio
	}
	if compare == nil {
		return nil, ErrNilComparator
	}

	levels := int(math.Floor(math.Log(float64(capacity))/math.Log(1/ratio))) + 1
	if levels < 1 {
		levels = 1
	}

	cdf := make([]float64, 0)
	if levels > 1 {
		cdf = make([]float64, levels-1)
		p := ratio
		for i := range cdf {
			cdf[i] = p
			p *= ratio
		}
	}

	s := &SkipList{
		capacity: capacity,
		ratio:    ratio,
		compare:  compare,
		levels:   levels,
		heads:    make([]int64, levels),
		tails:    make([]int64, levels),
		sizes:    make([]int, levels),
		nexts:    make([][]int64, levels),
		prevs:    make([]int64, capacity),
		cdf:      cdf,
		rand:     rand.New(rand.NewSource(1)),
	}
	for l := 0; l < levels; l++ {
		s.heads[l] = noLink
		s.tails[l] = noLink
		s.nexts[l] = make([]int64, capacity)
		for i := range s.nexts[l] {
			s.nexts[l][i] = noLink
		}
	}
	for i := range s.prevs {
		s.prevs[i] = noLink
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// randomLevel draws a promotion level in [0, levels-1] by binary-searching a
// uniform draw against the precomputed cdf table: cdf[i] holds the
// probability of being promoted to level i+1 or higher, so the number of leading
// cdf entries strictly greater than the draw is the level reached.
func (s *SkipList) randomLevel() int {
	if len(s.cdf) == 0 {
		return 0
	}
	r := s.rand.Float64()
	lo, hi := 0, len(s.cdf)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.cdf[mid] > r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Size reports the number of live elements, exactly sizes[0].
func (s *SkipList) Size() int {
	return s.sizes[0]
}

// CurrentLevel reports the highest level presently in use.
func (s *SkipList) CurrentLevel() int {
	return s.currentLevel
}

// Head returns the smallest live index, if any.
func (s *SkipList) Head() (Index, bool) {
	if s.heads[0] == noLink {
		return 0, false
	}
	return Index(s.heads[0]), true
}

// Tail returns the largest live index, if any.
func (s *SkipList) Tail() (Index, bool) {
	if s.tails[0] == noLink {
		return 0, false
	}
	return Index(s.tails[0]), true
}

// NextAt returns the successor of index at the given level, if index is
// live at that level and has one.
func (s *SkipList) NextAt(level int, index Index) (Index, bool) {
	if level < 0 || level >= s.levels {
		return 0, false
	}
	n := s.nexts[level][index]
	if n == noLink {
		return 0, false
	}
	return Index(n), true
}

// PrevAt returns the level-0 predecessor of index, if any.
func (s *SkipList) PrevAt(index Index) (Index, bool) {
	p := s.prevs[index]
	if p == noLink {
		return 0, false
	}
	return Index(p), true
}

// Insert adds index to the list. With debug checks enabled, inserting an
// already-live index returns ErrAlreadyLive and leaves the list unchanged;
// otherwise this is a caller contract and is not detected.
func (s *SkipList) Insert(index Index) error {
	if s.debug != nil {
		if index >= Index(s.capacity) {
			return ErrIndexOutOfRange
		}
		if s.debug.contains(index) {
			return ErrAlreadyLive
		}
	}

	insertLevel := s.randomLevel()
	if insertLevel > s.currentLevel {
		s.currentLevel = insertLevel
	}

	idx := int64(index)
	var point int64 = noLink

	for l := s.currentLevel; l >= 0; l-- {
		doInsert := l <= insertLevel
		wasEmpty := s.sizes[l] == 0
		if doInsert {
			s.sizes[l]++
		}

		switch {
		case wasEmpty:
			point = noLink
			if doInsert {
				s.heads[l] = idx
				s.tails[l] = idx
				s.nexts[l][index] = noLink
				if l == 0 {
					s.prevs[index] = noLink
				}
			}

		case s.compare(index, Index(s.heads[l])) < 0:
			point = noLink
			if doInsert {
				oldHead := s.heads[l]
				s.nexts[l][index] = oldHead
				s.heads[l] = idx
				if l == 0 {
					s.prevs[oldHead] = idx
					s.prevs[index] = noLink
				}
			}

		case s.compare(index, Index(s.tails[l])) >= 0:
			point = s.tails[l]
			if doInsert {
				oldTail := s.tails[l]
				s.nexts[l][oldTail] = idx
				s.nexts[l][index] = noLink
				s.tails[l] = idx
				if l == 0 {
					s.prevs[index] = oldTail
				}
			}

		default:
			cursor := point
			if cursor == noLink {
				cursor = s.heads[l]
			}
			for s.compare(index, Index(s.nexts[l][cursor])) >= 0 {
				cursor = s.nexts[l][cursor]
			}
			successor := s.nexts[l][cursor]
			point = cursor
			if doInsert {
				s.nexts[l][cursor] = idx
				s.nexts[l][index] = successor
				if l == 0 {
					s.prevs[index] = cursor
					s.prevs[successor] = idx
				}
			}
		}
	}

	if s.debug != nil {
		s.debug.add(index)
	}
	return nil
}

// Remove deletes index from the list. With debug checks enabled, removing
// an index that is not live returns ErrNotLive and leaves the list
// unchanged; otherwise this is a caller contract and is not detected.
// Absence at any individual level above 0 simply means index was never
// promoted that high and that level is skipped.
func (s *SkipList) Remove(index Index) error {
	if s.debug != nil {
		if index >= Index(s.capacity) {
			return ErrIndexOutOfRange
		}
		if !s.debug.contains(index) {
			return ErrNotLive
		}
	}

	var point int64 = noLink

	for l := s.currentLevel; l >= 0; l-- {
		if s.sizes[l] == 0 {
			continue
		}

		cursor := point
		var pred int64 = noLink
		found := false
		for {
			var candidate int64
			if cursor == noLink {
				candidate = s.heads[l]
			} else {
				candidate = s.nexts[l][cursor]
			}
			if candidate == noLink {
				break
			}
			if Index(candidate) == index {
				pred = cursor
				found = true
				break
			}
			cursor = candidate
		}
		if !found {
			continue
		}

		point = pred
		s.sizes[l]--

		successor := s.nexts[l][index]
		isHead := s.heads[l] == int64(index)
		isTail := s.tails[l] == int64(index)

		if isHead {
			s.heads[l] = successor
		}
		if isTail {
			if pred != noLink {
				s.tails[l] = pred
			} else {
				s.tails[l] = s.heads[l]
			}
		}
		if pred != noLink {
			s.nexts[l][pred] = successor
			if l == 0 && successor != noLink {
				s.prevs[successor] = pred
			}
		} else if l == 0 && successor != noLink {
			s.prevs[successor] = noLink
		}

		if l == s.currentLevel && s.sizes[l] == 0 && l > 0 {
			s.currentLevel--
		}
	}

	if s.debug != nil {
		s.debug.remove(index)
	}
	return nil
}

// Bisect returns the rightmost live index at which predicate is false,
// assuming predicate is monotone (false*, then true*) over the list's
// ascending order. If predicate holds at the head, it returns the head
// (there being no "rightmost false" predecessor). If predicate holds
// nowhere, it returns (0, false).
func (s *SkipList) Bisect(predicate func(Index) bool) (Index, bool) {
	var point int64 = noLink

	for l := s.currentLevel; l >= 0; l-- {
		if s.sizes[l] == 0 {
			continue
		}

		var curr int64
		testHead := point == noLink
		if !testHead {
			curr = point
		} else {
			curr = s.heads[l]
			if predicate(Index(curr)) {
				if l == 0 {
					return Index(s.heads[0]), true
				}
				point = noLink
				continue
			}
		}

		foundHere := false
		for {
			next := s.nexts[l][curr]
			if next == noLink {
				point = curr
				break
			}
			if predicate(Index(next)) {
				point = curr
				foundHere = true
				break
			}
			curr = next
		}
		if l == 0 {
			if foundHere {
				return Index(point), true
			}
			return 0, false
		}
	}
	return 0, false
}

// Search looks for the earliest live index for which match reports 0,
// assuming match is monotone over the list's ascending order (negative,
// then zero*, then positive). It returns (0, false) if no index matches.
func (s *SkipList) Search(match func(Index) int) (Index, bool) {
	var point int64 = noLink
	var equal int64 = noLink

	for l := s.currentLevel; l >= 0; l-- {
		if s.sizes[l] == 0 {
			continue
		}

		var curr int64
		if point != noLink {
			curr = point
		} else {
			head := s.heads[l]
			m := match(Index(head))
			if m < 0 {
				curr = head
			} else {
				point = noLink
				if m == 0 {
					equal = head
				} else {
					equal = noLink
				}
				continue
			}
		}

		for {
			next := s.nexts[l][curr]
			if next == noLink {
				point = curr
				equal = noLink
				break
			}
			m := match(Index(next))
			if m < 0 {
				curr = next
				continue
			}
			point = curr
			if m == 0 {
				equal = next
			} else {
				equal = noLink
			}
			break
		}
	}

	if equal == noLink {
		return 0, false
	}
	return Index(equal), true
}
