package result_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/result"
)

func TestValueErrExclusive(t *testing.T) {
	v := result.Value[int, error](3)
	require.True(t, v.HasValue())
	require.False(t, v.HasError())
	assert.Equal(t, 3, v.Value())

	e := result.Err[int, error](errors.New("boom"))
	require.False(t, e.HasValue())
	require.True(t, e.HasError())
	assert.EqualError(t, e.Error().Get(), "boom")
}

func TestEmplace(t *testing.T) {
	r := result.Value[int, error](1)
	r.EmplaceError(errors.New("nope"))
	require.True(t, r.HasError())

	r.EmplaceValue(42)
	require.True(t, r.HasValue())
	assert.Equal(t, 42, r.Value())
}

func TestSwap(t *testing.T) {
	a := result.Value[int, error](1)
	b := result.Err[int, error](errors.New("x"))
	a.Swap(&b)
	assert.True(t, a.HasError())
	assert.True(t, b.HasValue())
	assert.Equal(t, 1, b.Value())
}

func TestConvert(t *testing.T) {
	r := result.Value[int, error](5)
	out := result.Convert(r, func(i int) string { return "n" }, func(e error) error { return e })
	assert.Equal(t, "n", out.Value())

	r2 := result.Err[int, error](errors.New("e"))
	out2 := result.Convert(r2, func(i int) string { return "n" }, func(e error) string { return "wrapped: " + e.Error() })
	assert.True(t, out2.HasError())
	assert.Equal(t, "wrapped: e", out2.Error().Get())
}

func TestTryCapturesPanic(t *testing.T) {
	r := result.Try(func() int {
		panic("boom")
	})
	require.True(t, r.HasError())
	var pe *result.PanicError
	require.ErrorAs(t, r.Error().Get(), &pe)
	assert.Equal(t, "boom", pe.Value)
}

func TestTryPassesThroughValue(t *testing.T) {
	r := result.Try(func() int { return 7 })
	require.True(t, r.HasValue())
	assert.Equal(t, 7, r.Value())
}

func TestTryErrCapturesReturnedError(t *testing.T) {
	r := result.TryErr(func() (int, error) { return 0, errors.New("bad") })
	require.True(t, r.HasError())
	assert.EqualError(t, r.Error().Get(), "bad")
}
