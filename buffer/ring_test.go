package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuto838/indexskip/buffer"
)

func TestAppendReturnsSlotIndex(t *testing.T) {
	r := buffer.New[string](3)
	assert.Equal(t, uint32(3), r.Capacity())

	id0 := r.Append("a")
	id1 := r.Append("b")
	id2 := r.Append("c")

	assert.Equal(t, []uint32{0, 1, 2}, []uint32{id0, id1, id2})
	assert.Equal(t, 3, r.Len())
}

func TestAppendOverwritesOldestAndReusesIndex(t *testing.T) {
	r := buffer.New[string](3)
	r.Append("a")
	r.Append("b")
	r.Append("c")

	id := r.Append("d") // overwrites "a"'s slot
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, 3, r.Len())

	v, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, "d", v)
}

func TestAllWalksOldestFirst(t *testing.T) {
	r := buffer.New[int](3)
	r.Append(1)
	r.Append(2)
	r.Append(3)
	r.Append(4) // overwrites 1

	var values []int
	for _, v := range r.All() {
		values = append(values, v)
	}
	assert.Equal(t, []int{2, 3, 4}, values)
}

func TestAtOnAbsentSlotReturnsFalse(t *testing.T) {
	r := buffer.New[int](4)
	r.Append(10)

	_, ok := r.At(2)
	assert.False(t, ok)

	v, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestAllOnPartiallyFilledRingStartsAtZero(t *testing.T) {
	r := buffer.New[int](5)
	r.Append(100)
	r.Append(200)

	var values []int
	for _, v := range r.All() {
		values = append(values, v)
	}
	assert.Equal(t, []int{100, 200}, values)
}
