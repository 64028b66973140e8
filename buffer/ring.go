// Package buffer holds the companion circular buffer: a fixed-capacity,
// append-indexed ring that overwrites its oldest slot once full and reuses
// that slot's index for the new value. It has no dependency on
// skiplist/indexed; callers wire the two together themselves.
package buffer

import "iter"

// Ring is a fixed-capacity circular buffer of T. The zero value is not
// usable; build one with New.
type Ring[T any] struct {
	slots []T
	live  []bool
	next  uint32 // next slot id to write
	count int
}

// New builds a Ring holding at most capacity values.
func New[T any](capacity uint32) *Ring[T] {
	return &Ring[T]{
		slots: make([]T, capacity),
		live:  make([]bool, capacity),
	}
}

// Capacity reports the fixed number of slots.
func (r *Ring[T]) Capacity() uint32 {
	return uint32(len(r.slots))
}

// Len reports the number of currently live slots.
func (r *Ring[T]) Len() int {
	return r.count
}

// Append stores v in the next slot, returning that slot's index. Once the
// ring is full, the oldest slot is overwritten and its index is reused.
func (r *Ring[T]) Append(v T) uint32 {
	id := r.next
	r.slots[id] = v
	if !r.live[id] {
		r.live[id] = true
		r.count++
	}
	r.next = (r.next + 1) % uint32(len(r.slots))
	return id
}

// At returns the value stored at index, if that slot is currently live.
func (r *Ring[T]) At(index uint32) (T, bool) {
	if index >= uint32(len(r.slots)) || !r.live[index] {
		var zero T
		return zero, false
	}
	return r.slots[index], true
}

// All walks live slots in logical insertion order, oldest first, wrapping
// around the underlying array.
func (r *Ring[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		if r.count == 0 {
			return
		}
		cap := uint32(len(r.slots))
		// The oldest live slot is r.next when the ring is full (the slot
		// about to be overwritten); when not yet full, it's slot 0.
		start := uint32(0)
		if r.count == int(cap) {
			start = r.next
		}
		for i := 0; i < r.count; i++ {
			id := (start + uint32(i)) % cap
			if !yield(id, r.slots[id]) {
				return
			}
		}
	}
}
