package queue_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/queue"
)

func TestMPSCMultipleProducersSingleConsumer(t *testing.T) {
	const producers = 8
	const perProducer = 500
	q := queue.NewMPSC[int](1024)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.WaitAndEmplace(base*perProducer + i)
			}
		}(p)
	}

	got := make([]int, 0, producers*perProducer)
	for len(got) < producers*perProducer {
		if v, ok := q.TryPop(); ok {
			got = append(got, v)
		}
	}
	wg.Wait()

	sort.Ints(got)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestMPSCCapacityBound(t *testing.T) {
	q := queue.NewMPSC[int](4)
	for i := 0; i < 4; i++ {
		require.True(t, q.TryEmplace(i))
	}
	require.False(t, q.TryEmplace(99))
}
