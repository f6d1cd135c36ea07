package aggregate_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/aggregate"
	"github.com/flowcore/flowcore/result"
)

var errDefault = errors.New("not ready")

func TestFreshAggregatorHasDefaultErrorSlots(t *testing.T) {
	agg := aggregate.New[int, error](3, errDefault)
	assert.False(t, agg.IsAnyReady())
	assert.False(t, agg.IsAllReady())
	for i := 0; i < 3; i++ {
		assert.False(t, agg.IsSlotReady(i))
		v := agg.Value(i)
		require.True(t, v.HasError())
		assert.Equal(t, errDefault, v.Error().Get())
	}
}

func TestEmplaceMarksSlotReady(t *testing.T) {
	agg := aggregate.New[int, error](2, errDefault)
	d0 := agg.DelegateFor(0)

	ok := d0.Emplace(result.Value[int, error](10))
	require.True(t, ok)
	assert.True(t, agg.IsSlotReady(0))
	assert.True(t, agg.IsAnyReady())
	assert.False(t, agg.IsAllReady())
	assert.Equal(t, uint64(1), agg.ValueGot())

	v := agg.Value(0)
	require.True(t, v.HasValue())
	assert.Equal(t, 10, v.Value())
}

func TestEmplaceTwiceOnSameSlotFailsSecondTime(t *testing.T) {
	agg := aggregate.New[int, error](1, errDefault)
	d := agg.DelegateFor(0)

	require.True(t, d.Emplace(result.Value[int, error](1)))
	assert.False(t, d.Emplace(result.Value[int, error](2)))
	assert.Equal(t, 1, agg.Value(0).Value())
}

func TestIsAllReadyOnceEverySlotWritten(t *testing.T) {
	const n = 4
	agg := aggregate.New[int, error](n, errDefault)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agg.DelegateFor(i).Emplace(result.Value[int, error](i))
		}(i)
	}
	wg.Wait()

	assert.True(t, agg.IsAllReady())
	assert.Equal(t, uint64(n), agg.ValueGot())
}

func TestSnapshotReflectsPartialProgress(t *testing.T) {
	agg := aggregate.New[int, error](2, errDefault)
	agg.DelegateFor(0).Emplace(result.Value[int, error](5))

	snap := agg.Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[0].Ready)
	assert.Equal(t, 5, snap[0].Value.Value())
	assert.False(t, snap[1].Ready)
}
