package future_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/future"
	"github.com/flowcore/flowcore/result"
)

func TestFromFuncRunThenWait(t *testing.T) {
	task, fut := future.FromFunc(func() int { return 42 })
	task.Run()

	res := fut.Wait()
	require.True(t, res.HasValue())
	assert.Equal(t, 42, res.Value())
}

func TestFromErrFuncPropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	task, fut := future.FromErrFunc(func() (int, error) { return 0, sentinel })
	task.Run()

	res := fut.Wait()
	require.True(t, res.HasError())
	assert.Equal(t, sentinel, res.Error().Get())
}

func TestFromResultFuncPassesThroughResult(t *testing.T) {
	task, fut := future.FromResultFunc(func() result.Result[string, int] {
		return result.Err[string, int](7)
	})
	task.Run()

	res := fut.Wait()
	require.True(t, res.HasError())
	assert.Equal(t, 7, res.Error().Get())
}

func TestRunIsIdempotent(t *testing.T) {
	calls := 0
	task, fut := future.FromFunc(func() int {
		calls++
		return calls
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task.Run()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	res := fut.Wait()
	assert.Equal(t, 1, res.Value())
}

func TestDoneChannelClosesOnRun(t *testing.T) {
	task, fut := future.FromFunc(func() int { return 1 })
	select {
	case <-fut.Done():
		t.Fatal("future should not be done before Run")
	default:
	}

	task.Run()
	<-fut.Done()
}

func TestMultipleWaitersAllUnblock(t *testing.T) {
	task, fut := future.FromFunc(func() int { return 9 })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := fut.Wait()
			assert.Equal(t, 9, res.Value())
		}()
	}
	task.Run()
	wg.Wait()
}
