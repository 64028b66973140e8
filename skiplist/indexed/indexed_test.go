package indexed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuto838/indexskip/skiplist/indexed"
)

// intCompare builds a Comparator over a caller-owned []int keyed by Index.
func intCompare(values []int) indexed.Comparator {
	return func(a, b indexed.Index) int {
		va, vb := values[a], values[b]
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		default:
			return 0
		}
	}
}

func collect(t *testing.T, s *indexed.SkipList) []indexed.Index {
	t.Helper()
	var out []indexed.Index
	for idx := range s.All() {
		out = append(out, idx)
	}
	return out
}

func TestNewRejectsBadParameters(t *testing.T) {
	compare := intCompare([]int{1})

	_, err := indexed.New(0, 0.5, compare)
	assert.ErrorIs(t, err, indexed.ErrInvalidCapacity)

	_, err = indexed.New(4, 0, compare)
	assert.ErrorIs(t, err, indexed.ErrInvalidRatio)

	_, err = indexed.New(4, 1, compare)
	assert.ErrorIs(t, err, indexed.ErrInvalidRatio)

	_, err = indexed.New(4, 0.5, nil)
	assert.ErrorIs(t, err, indexed.ErrNilComparator)

	s, err := indexed.New(4, 0.5, compare)
	require.NoError(t, err)
	require.NotNil(t, s)
}

// S1 - basic ascending order is maintained regardless of insertion order.
func TestS1AscendingOrderMaintained(t *testing.T) {
	values := []int{50, 10, 40, 20, 30}
	s, err := indexed.New(5, 0.5, intCompare(values))
	require.NoError(t, err)

	for _, idx := range []indexed.Index{0, 1, 2, 3, 4} {
		require.NoError(t, s.Insert(idx))
	}

	got := collect(t, s)
	want := []int{10, 20, 30, 40, 50}
	gotValues := make([]int, len(got))
	for i, idx := range got {
		gotValues[i] = values[idx]
	}
	assert.Equal(t, want, gotValues)
	assert.Equal(t, 5, s.Size())
}

// S2 - removing every element returns the list to empty, and currentLevel
// shrinks back down once the top layer empties.
func TestS2RemoveAllEmptiesList(t *testing.T) {
	values := []int{5, 4, 3, 2, 1, 0}
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values), indexed.WithSeed(7))
	require.NoError(t, err)

	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}
	for i := range values {
		require.NoError(t, s.Remove(indexed.Index(i)))
	}

	assert.Equal(t, 0, s.Size())
	_, ok := s.Head()
	assert.False(t, ok)
	_, ok = s.Tail()
	assert.False(t, ok)
	assert.Equal(t, 0, s.CurrentLevel())
}

// S3 - interleaved insert/remove preserves order and size at every step.
func TestS3InterleavedInsertRemove(t *testing.T) {
	values := []int{30, 10, 20, 40, 0, 50}
	s, err := indexed.New(uint32(len(values)), 0.6, intCompare(values))
	require.NoError(t, err)

	require.NoError(t, s.Insert(0)) // 30
	require.NoError(t, s.Insert(1)) // 10
	require.NoError(t, s.Insert(2)) // 20
	assert.Equal(t, 3, s.Size())

	require.NoError(t, s.Remove(0)) // drop 30
	require.NoError(t, s.Insert(3)) // 40
	require.NoError(t, s.Insert(4)) // 0
	require.NoError(t, s.Insert(5)) // 50

	got := collect(t, s)
	gotValues := make([]int, len(got))
	for i, idx := range got {
		gotValues[i] = values[idx]
	}
	assert.Equal(t, []int{0, 10, 20, 40, 50}, gotValues)
	assert.Equal(t, 5, s.Size())
}

// S4 - bisect over a monotone predicate.
func TestS4Bisect(t *testing.T) {
	values := []int{10, 20, 30, 40, 50}
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	// predicate: value >= 30 -- false for 10,20, true for 30,40,50.
	idx, ok := s.Bisect(func(i indexed.Index) bool { return values[i] >= 30 })
	require.True(t, ok)
	assert.Equal(t, 20, values[idx]) // rightmost false

	// predicate true everywhere -> returns head.
	idx, ok = s.Bisect(func(i indexed.Index) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 10, values[idx])

	// predicate false everywhere -> null.
	_, ok = s.Bisect(func(i indexed.Index) bool { return false })
	assert.False(t, ok)
}

// S5 - search over duplicates returns the earliest matching index.
func TestS5SearchOverDuplicates(t *testing.T) {
	values := []int{1, 2, 2, 2, 4, 6} // A, B, B, B, D, F
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	matchFor := func(target int) func(indexed.Index) int {
		return func(i indexed.Index) int {
			switch {
			case values[i] < target:
				return -1
			case values[i] > target:
				return 1
			default:
				return 0
			}
		}
	}

	idx, ok := s.Search(matchFor(1))
	require.True(t, ok)
	assert.Equal(t, indexed.Index(0), idx)

	idx, ok = s.Search(matchFor(2))
	require.True(t, ok)
	assert.Equal(t, indexed.Index(1), idx, "expected first duplicate")

	idx, ok = s.Search(matchFor(4))
	require.True(t, ok)
	assert.Equal(t, indexed.Index(4), idx)

	idx, ok = s.Search(matchFor(6))
	require.True(t, ok)
	assert.Equal(t, indexed.Index(5), idx)

	_, ok = s.Search(matchFor(99))
	assert.False(t, ok)

	require.NoError(t, s.Remove(0))
	_, ok = s.Search(matchFor(1))
	assert.False(t, ok)
}

// S6 - backwards iteration mirrors forwards iteration.
func TestS6BackwardsMirrorsForwards(t *testing.T) {
	values := []int{3, 1, 4, 1, 5, 9, 2, 6}
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	forward := collect(t, s)

	tail, ok := s.Tail()
	require.True(t, ok)
	var backward []indexed.Index
	for idx := range s.Backwards(tail, -1) {
		backward = append(backward, idx)
	}

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i], backward[len(backward)-1-i])
	}
}

func TestForwardsAndBackwardsRespectLimit(t *testing.T) {
	values := []int{0, 1, 2, 3, 4}
	s, err := indexed.New(5, 0.5, intCompare(values))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	head, _ := s.Head()
	var limited []indexed.Index
	for idx := range s.Forwards(head, 2) {
		limited = append(limited, idx)
	}
	assert.Len(t, limited, 2)

	tail, _ := s.Tail()
	var limitedBack []indexed.Index
	for idx := range s.Backwards(tail, 2) {
		limitedBack = append(limitedBack, idx)
	}
	assert.Len(t, limitedBack, 2)
}

func TestDebugChecksCatchMembershipViolations(t *testing.T) {
	values := []int{1, 2, 3}
	s, err := indexed.New(3, 0.5, intCompare(values), indexed.WithDebugChecks())
	require.NoError(t, err)

	require.NoError(t, s.Insert(0))
	assert.ErrorIs(t, s.Insert(0), indexed.ErrAlreadyLive)

	assert.ErrorIs(t, s.Remove(1), indexed.ErrNotLive)
	require.NoError(t, s.Remove(0))
	assert.ErrorIs(t, s.Remove(0), indexed.ErrNotLive)
}

func TestDebugChecksCatchOutOfRange(t *testing.T) {
	values := []int{1, 2, 3}
	s, err := indexed.New(3, 0.5, intCompare(values), indexed.WithDebugChecks())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Insert(5), indexed.ErrIndexOutOfRange)
}

// Invariant: NextAt/PrevAt agree with forward/backward traversal at level 0.
func TestNextAtPrevAtAgreeWithTraversal(t *testing.T) {
	values := []int{9, 8, 7, 6, 5}
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	head, ok := s.Head()
	require.True(t, ok)
	cur := head
	count := 1
	for {
		next, hasNext := s.NextAt(0, cur)
		if !hasNext {
			break
		}
		prev, hasPrev := s.PrevAt(next)
		require.True(t, hasPrev)
		assert.Equal(t, cur, prev)
		cur = next
		count++
	}
	assert.Equal(t, s.Size(), count)
}

func TestLevelHistogramTotalsMatchSize(t *testing.T) {
	values := make([]int, 200)
	for i := range values {
		values[i] = i
	}
	s, err := indexed.New(uint32(len(values)), 0.5, intCompare(values), indexed.WithSeed(42))
	require.NoError(t, err)
	for i := range values {
		require.NoError(t, s.Insert(indexed.Index(i)))
	}

	hist := s.LevelHistogram()
	require.NotEmpty(t, hist)
	assert.Equal(t, s.Size(), hist[0])
	for i := 1; i < len(hist); i++ {
		assert.LessOrEqual(t, hist[i], hist[i-1])
	}
}
