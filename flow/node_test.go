package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCalc(tag string, order *[]string) node {
	return node{
		kind: calcKind,
		calc: func(in any) any {
			*order = append(*order, tag)
			return in
		},
		mkSoftErr: func() any { return nil },
	}
}

func TestFuseCombinesConsecutiveCalcNodes(t *testing.T) {
	var order []string
	nodes := []node{makeCalc("a", &order), makeCalc("b", &order), makeCalc("c", &order)}

	fused := fuse(nodes)
	require.Len(t, fused, 1)

	fused[0].calc(nil)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFuseStopsAtControlNodes(t *testing.T) {
	var order []string
	control := node{kind: controlKind, dispatch: func(resume func(any), in any) { resume(in) }}
	nodes := []node{makeCalc("a", &order), control, makeCalc("b", &order)}

	fused := fuse(nodes)
	require.Len(t, fused, 3)
	assert.Equal(t, calcKind, fused[0].kind)
	assert.Equal(t, controlKind, fused[1].kind)
	assert.Equal(t, calcKind, fused[2].kind)
}

func TestFuseCapsRunsAtMaxFusionDepth(t *testing.T) {
	var order []string
	nodes := make([]node, 0, maxFusionDepth+3)
	for i := 0; i < maxFusionDepth+3; i++ {
		nodes = append(nodes, makeCalc("x", &order))
	}

	fused := fuse(nodes)
	require.Len(t, fused, 2)
}
