package queue_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/queue"
)

func TestMPMCFullAndEmpty(t *testing.T) {
	q := queue.NewMPMC[int](2)
	require.True(t, q.TryEmplace(1))
	require.True(t, q.TryEmplace(2))
	require.False(t, q.TryEmplace(3))

	v, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	require.True(t, q.TryEmplace(3))
	v, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = q.TryPop()
	assert.False(t, ok)
}

func TestMPMCManyProducersManyConsumers(t *testing.T) {
	const producers = 6
	const consumers = 6
	const perProducer = 2000
	total := producers * perProducer

	q := queue.NewMPMC[int](256)

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(base int) {
			defer pwg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.TryEmplace(base*perProducer + i) {
					// queue momentarily full; retry
				}
			}
		}(p)
	}

	results := make(chan int, total)
	var cwg sync.WaitGroup
	done := make(chan struct{})
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				if v, ok := q.TryPop(); ok {
					results <- v
					continue
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	pwg.Wait()

	// drain remaining, then signal consumers to stop once queue looks empty
	go func() {
		for q.Size() > 0 {
		}
		close(done)
	}()
	cwg.Wait()
	close(results)

	got := make([]int, 0, total)
	for v := range results {
		got = append(got, v)
	}
	require.Len(t, got, total)
	sort.Ints(got)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}
