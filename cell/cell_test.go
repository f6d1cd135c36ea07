package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/cell"
)

func TestConstructDestroy(t *testing.T) {
	var c cell.Cell[int]
	require.False(t, c.HasValue())

	c.Construct(5)
	require.True(t, c.HasValue())
	assert.Equal(t, 5, *c.Get())

	c.Destroy()
	require.False(t, c.HasValue())

	// destroy on empty is a no-op, not a panic
	c.Destroy()
	require.False(t, c.HasValue())
}

func TestEmplaceNeverLeavesTwoLive(t *testing.T) {
	var c cell.Cell[string]
	c.Emplace("a")
	c.Emplace("b")
	require.True(t, c.HasValue())
	assert.Equal(t, "b", *c.Get())
}

func TestSteal(t *testing.T) {
	var c cell.Cell[int]
	c.Construct(9)
	got := c.Steal()
	assert.Equal(t, 9, got)
	assert.False(t, c.HasValue())
}
