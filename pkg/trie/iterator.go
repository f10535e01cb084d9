package trie

import "container/heap"

// leafHeap is a min-heap of cursors ordered by (rank, address), giving
// the best-first traversal its non-decreasing-rank guarantee: the
// frontier always exposes the globally lowest-ranked unvisited node
// across every open sibling group.
type leafHeap []cursor

func (h leafHeap) Len() int { return len(h) }

func (h leafHeap) Less(i, j int) bool {
	ri, rj := h[i].cur.Rank(), h[j].cur.Rank()
	if ri != rj {
		return ri < rj
	}
	return h[i].cur.address() < h[j].cur.address()
}

func (h leafHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *leafHeap) Push(x any) { *h = append(*h, x.(cursor)) }

func (h *leafHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// leafIterator yields leaves of a sibling group (and everything under
// it) in non-decreasing rank order (leaves with equal scores share a
// rank and come out by address), without materialising the
// whole subtree up front. It mirrors the priority-queue-of-cursors
// construction: each heap entry is the next unvisited sibling in some
// still-open group, and descending into an internal node replaces it
// with its own first child while pushing its remaining siblings back.
type leafIterator struct {
	buf      []byte
	frontier leafHeap
}

func newLeafIterator(buf []byte, start cursor) *leafIterator {
	it := &leafIterator{buf: buf}
	if start.Valid() {
		heap.Push(&it.frontier, start)
		it.advanceToLeaf()
	}
	return it
}

// Valid reports whether Node is safe to call.
func (it *leafIterator) Valid() bool { return len(it.frontier) > 0 }

// Node returns the current leaf. Only valid while Valid() is true.
func (it *leafIterator) Node() node { return it.frontier[0].cur }

// Next advances to the next leaf in rank order.
func (it *leafIterator) Next() {
	top := heap.Pop(&it.frontier).(cursor)
	if nxt := top.Next(); nxt.Valid() {
		heap.Push(&it.frontier, nxt)
	}
	it.advanceToLeaf()
}

// advanceToLeaf repeatedly expands the heap's top entry until it is a
// leaf, so Node() never observes an internal node.
func (it *leafIterator) advanceToLeaf() {
	for it.Valid() && !it.frontier[0].cur.isLeaf() {
		top := heap.Pop(&it.frontier).(cursor)
		it.pushLeftmostPath(top)
	}
}

// pushLeftmostPath descends from cur along first children only, pushing
// each node's remaining siblings onto the frontier as it goes, until it
// reaches a leaf, which it also pushes. Every node this skips past had
// its sibling pushed instead, so no leaf is lost.
func (it *leafIterator) pushLeftmostPath(cur cursor) {
	for {
		if cur.cur.isLeaf() {
			heap.Push(&it.frontier, cur)
			return
		}

		if tail := cur.Next(); tail.Valid() {
			heap.Push(&it.frontier, tail)
		}

		cur = childrenOf(it.buf, cur.cur)
	}
}
