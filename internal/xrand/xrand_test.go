package xrand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rangeTestCases = []struct {
	name string
	n    int
}{
	{name: "default", n: -1},
	{name: "range 32", n: 32},
	{name: "range 64", n: 64},
	{name: "range 256", n: 256},
	{name: "range 1024", n: 1024},
}

func TestGetNeverRepeatsAndCoversTheWholeRange(t *testing.T) {
	for _, tt := range rangeTestCases {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[int]struct{}{}

			var uri Int
			uri.Reset(tt.n)

			for urn, ok := uri.Get(); ok; urn, ok = uri.Get() {
				_, duplicate := seen[urn]
				require.False(t, duplicate, "Get() returned %v twice", urn)
				seen[urn] = struct{}{}
			}

			want := tt.n
			if want <= 0 {
				want = defRange
			}
			assert.Len(t, seen, want)
		})
	}
}

func TestPutMakesANumberReacquirable(t *testing.T) {
	for _, tt := range rangeTestCases {
		if tt.n <= 0 {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			var uri Int
			uri.Reset(tt.n)

			for i := 0; i < tt.n; i++ {
				assert.False(t, uri.Put(i), "Put() on an untouched number should fail")
			}

			for ok := true; ok; {
				_, ok = uri.Get()
			}

			for i := 0; i < tt.n; i++ {
				assert.True(t, uri.Put(i), "Put() on a consumed number should succeed")
			}

			for i := 0; i < tt.n; i++ {
				assert.False(t, uri.Put(i), "Put() on an already-available number should fail")
			}
		})
	}
}
