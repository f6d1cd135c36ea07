package flow

// nodeKind distinguishes the node shapes spec.md §4.7 names: calc nodes,
// which run to completion on the current goroutine, control nodes, whose
// entire job is a hand-off to an Executor, and the terminal end node.
// endKind is its own kind (not calcKind) specifically so fuse never folds
// it into a preceding calc run: the end node is always the runner's
// cancellation checkpoint (see runner.go's "idx != last" hard-cancel
// check), so it must always survive fusion as its own step.
type nodeKind uint8

const (
	calcKind nodeKind = iota
	controlKind
	endKind
)

// node is the type-erased runtime shape every combinator in blueprint.go
// builds. Its generic, type-checked construction happens once, at
// Blueprint-build time, in the combinator functions; after that, a node
// only ever deals in boxed result.Result[_, error] values, exactly like
// task.Wrapper erases its callable.
type node struct {
	kind nodeKind

	// calc runs a calc node: given a boxed result.Result[M, error], it
	// returns a boxed result.Result[O, error].
	calc func(in any) any

	// dispatch runs a control node: it must eventually call resume
	// exactly once with a boxed result.Result[M, error] (M == O here,
	// since via doesn't change the value's type), from whatever
	// goroutine the Executor chooses to run it on.
	dispatch func(resume func(any), in any)

	// mkSoftErr builds a fresh boxed result.Result[M, error] holding the
	// soft-cancellation error, where M is this node's own input type.
	// The runner calls it to replace a node's input when the controller
	// is observed to be soft-canceled just before that node runs.
	mkSoftErr func() any
}

// fuse collapses consecutive calc nodes into a single composed node, up
// to a run of maxFusionDepth, mirroring the original's compile-time
// zip_callables chain (there it fused via operator| up to a
// compiler-specific MAX_ZIP_N; here the depth is a runtime constant
// chosen in SPEC_FULL.md §7). A fused node keeps the first sub-node's
// mkSoftErr, since cancellation substitutes the value flowing into the
// first of the fused steps.
const maxFusionDepth = 8

func fuse(nodes []node) []node {
	out := make([]node, 0, len(nodes))
	i := 0
	for i < len(nodes) {
		if nodes[i].kind != calcKind {
			out = append(out, nodes[i])
			i++
			continue
		}
		composed := nodes[i].calc
		softErr := nodes[i].mkSoftErr
		count := 1
		j := i + 1
		for j < len(nodes) && nodes[j].kind == calcKind && count < maxFusionDepth {
			prev := composed
			next := nodes[j].calc
			composed = func(in any) any { return next(prev(in)) }
			count++
			j++
		}
		out = append(out, node{kind: calcKind, calc: composed, mkSoftErr: softErr})
		i = j
	}
	return out
}
