package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/task"
)

func TestCallableCall(t *testing.T) {
	c := task.NewCallable(func() int { return 42 })
	assert.Equal(t, 42, c.Call())
}

func TestCallableNothrowCallCapturesPanic(t *testing.T) {
	c := task.NewCallable(func() int { panic("bad") })
	res := c.NothrowCall()
	require.True(t, res.HasError())
}

func TestCallableNothrowCallPassesValue(t *testing.T) {
	c := task.NewCallable(func() int { return 9 })
	res := c.NothrowCall()
	require.True(t, res.HasValue())
	assert.Equal(t, 9, res.Value())
}
