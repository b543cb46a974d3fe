package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_InPlaceWithinReservation(t *testing.T) {
	b := New[int](4, ExactFit)

	copy(b.Extend(3), []int{1, 2, 3})
	b.Push(4)

	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Cap())
	assert.Zero(t, b.Grows())
	assert.Equal(t, []int{1, 2, 3, 4}, b.View())
}

func TestBuffer_ExactFitGrowth(t *testing.T) {
	b := New[int](2, ExactFit)
	copy(b.Extend(2), []int{1, 2})

	copy(b.Extend(3), []int{3, 4, 5})
	assert.Equal(t, 5, b.Cap())
	assert.Equal(t, 1, b.Grows())

	b.Push(6)
	assert.Equal(t, 6, b.Cap())
	assert.Equal(t, 2, b.Grows())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.View())
}

func TestBuffer_GeometricGrowth(t *testing.T) {
	b := New[int](2, Geometric)
	for i := range 9 {
		b.Push(i)
	}

	assert.Equal(t, 9, b.Len())
	assert.GreaterOrEqual(t, b.Cap(), 9)
	assert.LessOrEqual(t, b.Grows(), 3)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, b.View())
}

func TestBuffer_SplitBatchAcrossReservation(t *testing.T) {
	b := New[int](3, ExactFit)
	b.Push(0)

	// Two records fit in place, the rest forces a reallocation.
	copy(b.Extend(5), []int{1, 2, 3, 4, 5})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, b.View())
	assert.Equal(t, 6, b.Cap())
}

func TestBuffer_FreezeIsIndependent(t *testing.T) {
	b := New[int](8, ExactFit)
	copy(b.Extend(3), []int{1, 2, 3})

	frozen := b.Freeze()
	require.Len(t, frozen, 3)
	assert.Equal(t, 3, cap(frozen))

	b.View()[0] = 100
	b.Push(4)
	assert.Equal(t, []int{1, 2, 3}, frozen)
}

func TestBuffer_ZeroAndNegative(t *testing.T) {
	b := New[int](-1, ExactFit)
	assert.Zero(t, b.Cap())
	assert.Nil(t, b.Extend(0))
	assert.Nil(t, b.Extend(-2))
	assert.Empty(t, b.Freeze())
}
