package internal

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUInt64Set(t *testing.T) {
	s := NewUInt64Set()

	// Test Add and Contains
	s.Add(42)
	s.Add(7)
	s.Add(42) // Add duplicate

	assert.True(t, s.Contains(42))
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(1))

	// Test Len
	assert.Equal(t, 2, s.Len())

	// Test Remove
	s.Remove(42)
	assert.False(t, s.Contains(42))
	assert.Equal(t, 1, s.Len())

	// Test Elements
	s.Add(100)
	elements := s.Elements()
	sort.Slice(elements, func(i, j int) bool { return elements[i] < elements[j] })
	assert.Equal(t, []uint64{7, 100}, elements)
}
