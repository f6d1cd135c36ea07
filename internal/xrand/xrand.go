// Package xrand picks unique random indices within a fixed range without
// repeats, used by fan-in combinators (future.Select) that need to poll a
// slice of waitables in a fair, non-index-0-biased order before falling
// back to a real blocking multi-way wait.
package xrand

import (
	"math/rand"
)

var defRandSrc = rand.Intn

const defRange = 10

const blockSize = 32

type blockType = uint32

// Int returns unique random numbers within [0, Range()), tracking which
// numbers it already returned in a small bitset so none repeats until
// Reset. The zero value picks from [0, 10).
type Int struct {
	r  int
	m  blockType
	em []blockType
}

// Reset sets the range of the Int generator and clears everything it's
// returned so far. A range <= 0 falls back to the default range (10).
func (uri *Int) Reset(r int) {
	if r <= 0 {
		r = defRange
	}

	uri.r = r
	uri.m = 0
	uri.em = nil

	l := r / blockSize
	if int(r%blockSize) == 0 {
		l = l - 1
	}
	if l != 0 {
		uri.em = make([]blockType, l)
	}
}

// Range returns the current exclusive upper bound on picks, starting at 0.
func (uri *Int) Range() int {
	if uri.r > 0 {
		return uri.r
	}
	return defRange
}

func (uri *Int) has(n int) (bn int, mb, tm, mm blockType) {
	bn = n / blockSize

	mb = uri.m
	if bn > 0 {
		mb = uri.em[bn-1]
	}

	sv := n % blockSize
	tm = blockType(1 << sv)
	mm = mb & tm
	return
}

// Get returns a number not yet returned since the last Reset, and ok as
// true. ok is false once every number in the range has been returned.
func (uri *Int) Get() (urn int, ok bool) {
	grn := defRandSrc(uri.Range())

	bn, mb, tm, mm := uri.has(grn)

	if mm == 0 {
		if bn > 0 {
			uri.em[bn-1] = mb | tm
		} else {
			uri.m = mb | tm
		}
		urn = grn
		return urn, true
	}

	return uri.getSlow()
}

func (uri *Int) getSlow() (urn int, ok bool) {
	for j := 0; j < blockSize; j++ {
		tm := blockType(1 << j)
		mm := uri.m & tm
		if mm != 0 {
			continue
		}
		uri.m = uri.m | tm
		urn = j
		if urn < uri.Range() {
			return urn, true
		}
		return 0, false
	}

	for i, m := range uri.em {
		if m == 0 {
			uri.em[i] = 1
			urn = i * blockSize
			urn += blockSize
			return urn, true
		}

		for j := 0; j < blockSize; j++ {
			tm := blockType(1 << j)
			mm := m & tm
			if mm != 0 {
				continue
			}
			uri.em[i] = m | tm
			urn = i*blockSize + j
			urn += blockSize
			if urn < uri.Range() {
				return urn, true
			}
			return 0, false
		}
	}

	return 0, false
}

// Put makes num available to be returned by Get again.
func (uri *Int) Put(num int) (ok bool) {
	if num < 0 || num >= uri.Range() {
		return false
	}

	bn, mb, tm, mm := uri.has(num)

	if mm == 0 {
		return false
	}

	if bn > 0 {
		uri.em[bn-1] = mb &^ tm
	} else {
		uri.m = mb &^ tm
	}

	return true
}
