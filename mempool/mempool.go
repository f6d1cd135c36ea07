// Package mempool implements the small-object, size-classed, fixed-
// capacity pool spec.md §4.10 describes: four power-of-two size classes
// from minBlock to minBlock·8, each pre-allocated in full up front, with
// Allocate falling through to the next larger class when the requested
// class is exhausted.
package mempool

import (
	"github.com/flowcore/flowcore/freelist"
)

// classCount is the number of size classes, one per shift 0..3.
const classCount = 4

type classPool struct {
	blockSize int
	nodes     *freelist.Nodes[[]byte]
	free      *freelist.List
}

func newClassPool(capacity uint32, blockSize int) *classPool {
	nodes := freelist.NewNodes[[]byte](capacity)
	free := freelist.NewEmptyList()
	for i := uint32(0); i < capacity; i++ {
		nodes.Cell(i).Construct(make([]byte, blockSize))
		free.Push(nodes, i)
	}
	return &classPool{blockSize: blockSize, nodes: nodes, free: free}
}

func (c *classPool) allocate() (buf []byte, idx uint32, ok bool) {
	idx, ok = c.free.Pop(c.nodes)
	if !ok {
		return nil, 0, false
	}
	return *c.nodes.Cell(idx).Get(), idx, true
}

func (c *classPool) deallocate(idx uint32) {
	c.free.Push(c.nodes, idx)
}

// Pool is a fixed-capacity arena of four size classes. Construction
// pre-allocates every block in every class; Allocate and Deallocate never
// grow the backing storage afterward.
type Pool struct {
	minBlock int
	classes  [classCount]*classPool
}

// New builds a Pool whose smallest class holds blocks of minBlock bytes
// and whose largest class holds blocks of minBlock*8 bytes. maxBlockCount
// is the class-0 (smallest, most numerous) block count; each successively
// larger class gets half as many blocks, matching the original's fixed
// per-line byte budget, but never fewer than one.
func New(maxBlockCount uint32, minBlock int) *Pool {
	p := &Pool{minBlock: minBlock}
	for i := 0; i < classCount; i++ {
		capacity := maxBlockCount >> uint(i)
		if capacity == 0 {
			capacity = 1
		}
		p.classes[i] = newClassPool(capacity, minBlock<<uint(i))
	}
	return p
}

func (p *Pool) match(n int) int {
	for i := 0; i < classCount; i++ {
		if n <= p.minBlock<<uint(i) {
			return i
		}
	}
	return classCount
}

// Block is a handle to an allocated buffer. Data is sized to the
// request, not the class's full block size; the class's actual capacity
// is recovered from Cap() if a caller needs to grow back into it.
type Block struct {
	pool  *Pool
	class int
	idx   uint32
	Data  []byte
}

// Cap returns the full size of the underlying block, which may exceed
// len(Data) when Allocate fell through to a larger class.
func (b *Block) Cap() int { return b.pool.classes[b.class].blockSize }

// Allocate returns a Block sized at least n, or nil if every class from
// match(n) upward is currently exhausted. Allocate never panics and never
// grows the pool; exhaustion is reported, not retried.
func (p *Pool) Allocate(n int) *Block {
	start := p.match(n)
	for class := start; class < classCount; class++ {
		if buf, idx, ok := p.classes[class].allocate(); ok {
			return &Block{pool: p, class: class, idx: idx, Data: buf[:n]}
		}
	}
	return nil
}

// Deallocate returns b's block to its class's free list. It is a no-op
// for a nil Block.
func (p *Pool) Deallocate(b *Block) {
	if b == nil {
		return
	}
	b.pool.classes[b.class].deallocate(b.idx)
}
