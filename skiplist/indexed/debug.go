package indexed

import "github.com/RoaringBitmap/roaring"

// membership is the optional debug-mode oracle tracking which indices are
// currently live, so Insert/Remove can catch double-inserts and removes of
// absent indices instead of quietly corrupting the link arrays.
type membership struct {
	live *roaring.Bitmap
}

func newMembership() *membership {
	return &membership{live: roaring.New()}
}

func (m *membership) contains(index Index) bool {
	return m.live.Contains(uint32(index))
}

func (m *membership) add(index Index) {
	m.live.Add(uint32(index))
}

func (m *membership) remove(index Index) {
	m.live.Remove(uint32(index))
}
