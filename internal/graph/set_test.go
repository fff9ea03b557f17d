package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDSet(t *testing.T) {
	a := NewIDSet(1, 2, 3)
	b := NewIDSet(3, 4)

	assert.Equal(t, []uint{1, 2, 3, 4}, a.Union(b).Sorted())
	assert.Equal(t, []uint{3}, a.Intersect(b).Sorted())
	assert.Equal(t, []uint{1, 2}, a.Difference(b).Sorted())
	assert.Equal(t, []uint{2}, a.Difference(b, NewIDSet(1)).Sorted())

	t.Run("Operations do not modify operands", func(t *testing.T) {
		assert.Equal(t, []uint{1, 2, 3}, a.Sorted())
		assert.Equal(t, []uint{3, 4}, b.Sorted())
	})

	t.Run("Empty sets", func(t *testing.T) {
		empty := NewIDSet()
		assert.Empty(t, empty.Sorted())
		assert.NotNil(t, empty.Sorted())
		assert.Zero(t, empty.Intersect(a).Len())
		assert.Equal(t, a.Sorted(), a.Union(empty).Sorted())
		assert.False(t, empty.Has(1))
	})
}
