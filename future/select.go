package future

import (
	"reflect"

	"github.com/flowcore/flowcore/internal/xrand"
	"github.com/flowcore/flowcore/result"
)

// IndexedResult pairs a Select winner's outcome with its position in the
// slice of Futures passed to Select.
type IndexedResult[T, E any] struct {
	Idx int
	result.Result[T, E]
}

// Select returns a Future that resolves as soon as any one of futs does,
// carrying that Future's outcome and its index. It doesn't wait for, or
// affect, the rest. Select of zero Futures resolves immediately with
// Idx -1 and a zero-value outcome.
//
// The non-blocking first pass polls futs in a random, non-repeating order
// (via internal/xrand) so that whichever Future happens to sit at index 0
// isn't systematically favored when several are already done; the actual
// blocking wait that follows hands off to reflect.Select, which already
// picks uniformly among whichever cases are ready.
func Select[T, E any](futs ...*Future[T, E]) *Future[IndexedResult[T, E], E] {
	out := newFuture[IndexedResult[T, E], E]()

	if len(futs) == 0 {
		out.fulfill(result.Value[IndexedResult[T, E], E](IndexedResult[T, E]{Idx: -1}))
		return out
	}

	go func() {
		var order xrand.Int
		order.Reset(len(futs))

		for idx, ok := order.Get(); ok; idx, ok = order.Get() {
			select {
			case <-futs[idx].Done():
				out.fulfill(result.Value[IndexedResult[T, E], E](IndexedResult[T, E]{Idx: idx, Result: futs[idx].res}))
				return
			default:
			}
		}

		cases := make([]reflect.SelectCase, len(futs))
		for i, f := range futs {
			cases[i] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(f.Done())}
		}
		chosen, _, _ := reflect.Select(cases)
		out.fulfill(result.Value[IndexedResult[T, E], E](IndexedResult[T, E]{Idx: chosen, Result: futs[chosen].res}))
	}()

	return out
}
