package exptree

import "math/bits"

// Eytzinger index mapping (C1): bidirectional conversion between the linear
// (sorted) position of a key and its Eytzinger position inside an array laid
// out so that a binary search over it reads breadth-first from index 0.
//
// eytzingerLeft, eytzingerRight and eytzingerParent describe the implicit
// tree shape; eytzingerFromLinear and eytzingerToLinear convert between the
// two position spaces for an arbitrary node count n, including trees whose
// bottom layer is incomplete.

func eytzingerLeft(e int) int {
	return 2*e + 1
}

func eytzingerRight(e int) int {
	return 2*e + 2
}

func eytzingerParent(e int) int {
	return (e - 1) / 2
}

// log2Floor returns floor(log2(x)) for x >= 1.
func log2Floor(x int) int {
	return bits.Len(uint(x)) - 1
}

// eytzingerSubtreeSize returns the number of valid indices (< n) in the
// subtree rooted at e, for a heap-shaped array of n elements. It runs in
// O(1) arithmetic by locating e's layer, the tree's complete-layer count H,
// and the spill L into the (possibly incomplete) bottom layer.
func eytzingerSubtreeSize(e, n int) int {
	if e >= n {
		return 0
	}
	d := log2Floor(e + 1)          // depth of e, root at depth 0
	h := log2Floor(n + 1)          // number of complete layers (0..h-1 are full)
	l := n - (1<<h - 1)            // nodes spilling into layer h, 0 <= l < 2^h
	full := 1<<(h-d) - 1           // size of a perfect subtree rooted at depth d
	slots := 1 << (h - d)          // number of layer-h descendant slots under e
	start := (e - (1<<d - 1)) * slots
	extra := l - start
	if extra < 0 {
		extra = 0
	}
	if extra > slots {
		extra = slots
	}
	return full + extra
}

// eytzingerToLinear converts Eytzinger index e to its linear (sorted) rank
// among n elements.
func eytzingerToLinear(e, n int) int {
	rank := eytzingerSubtreeSize(eytzingerLeft(e), n)
	for cur := e; cur > 0; {
		parent := eytzingerParent(cur)
		if cur == eytzingerRight(parent) {
			rank += 1 + eytzingerSubtreeSize(eytzingerLeft(parent), n)
		}
		cur = parent
	}
	return rank
}

// eytzingerFromLinear converts linear (sorted) rank i to its Eytzinger index
// among n elements. Behaviour is undefined (may panic or return garbage) for
// i >= n; callers must check bounds themselves.
func eytzingerFromLinear(i, n int) int {
	e, offset := 0, i
	for {
		leftSize := eytzingerSubtreeSize(eytzingerLeft(e), n)
		switch {
		case offset == leftSize:
			return e
		case offset < leftSize:
			e = eytzingerLeft(e)
		default:
			offset -= leftSize + 1
			e = eytzingerRight(e)
		}
	}
}
