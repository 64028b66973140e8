package indexed

import "iter"

// All walks every live index in ascending order.
func (s *SkipList) All() iter.Seq[Index] {
	head, ok := s.Head()
	if !ok {
		return func(func(Index) bool) {}
	}
	return s.Forwards(head, -1)
}

// Forwards walks live indices in ascending order starting at start
// (inclusive), following level-0 next links. A negative limit means
// "until the tail is reached"; a nonnegative limit caps the number of
// indices yielded.
func (s *SkipList) Forwards(start Index, limit int) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		if s.sizes[0] == 0 {
			return
		}
		cur := int64(start)
		count := 0
		for cur != noLink {
			if limit >= 0 && count >= limit {
				return
			}
			if !yield(Index(cur)) {
				return
			}
			count++
			if cur == s.tails[0] {
				return
			}
			cur = s.nexts[0][cur]
		}
	}
}

// Backwards walks live indices in descending order starting at start
// (inclusive), following level-0 prev links. A negative limit means "until
// the head is reached"; a nonnegative limit caps the number of indices
// yielded.
func (s *SkipList) Backwards(start Index, limit int) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		if s.sizes[0] == 0 {
			return
		}
		cur := int64(start)
		count := 0
		for cur != noLink {
			if limit >= 0 && count >= limit {
				return
			}
			if !yield(Index(cur)) {
				return
			}
			count++
			if cur == s.heads[0] {
				return
			}
			cur = s.prevs[cur]
		}
	}
}
