package matcher

import "container/heap"

// boundedHeap is a min-heap, ordered so the worst-ranked entry (per the
// tie-break tuple) sits at the root. It is used to maintain the top-N
// results a worker has seen without retaining every scored item: once
// the heap is at capacity, a new candidate only displaces the root if it
// ranks better, giving early-reject a rising floor as scanning proceeds.
type boundedHeap struct {
	items []MatchResult
	cap   int
}

func newBoundedHeap(capacity int) *boundedHeap {
	h := &boundedHeap{cap: capacity}
	heap.Init(h)
	return h
}

func (h *boundedHeap) Len() int { return len(h.items) }

// Less reports h.items[i] as "smaller" (heap root candidate) exactly
// when it ranks worse than h.items[j] under the configured tie-break,
// i.e. the worst entry bubbles to the root.
func (h *boundedHeap) Less(i, j int) bool { return less(h.items[j], h.items[i]) }

func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap) Push(x any) { h.items = append(h.items, x.(MatchResult)) }

func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// Offer adds r to the heap, bounded by capacity (0 means unbounded): if
// the heap is already full, r is dropped unless it ranks better than the
// current worst entry, which it then replaces.
func (h *boundedHeap) Offer(r MatchResult) {
	if h.cap <= 0 || h.Len() < h.cap {
		heap.Push(h, r)
		return
	}
	if less(r, h.items[0]) {
		h.items[0] = r
		heap.Fix(h, 0)
	}
}

// Floor returns the worst-ranked result currently retained, and whether
// the heap is at capacity (so a floor value is meaningful for
// early-reject).
func (h *boundedHeap) Floor() (MatchResult, bool) {
	if h.cap <= 0 || h.Len() < h.cap {
		return MatchResult{}, false
	}
	return h.items[0], true
}

// Drain returns all retained results, unsorted, and resets the heap.
func (h *boundedHeap) Drain() []MatchResult {
	out := h.items
	h.items = nil
	return out
}
