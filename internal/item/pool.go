package item

import (
	"sync"
	"sync/atomic"
)

// chunkSize is the size of each segment in the pool's segmented vector.
// Once a chunk is published into the directory it is never reallocated,
// so a reader holding a chunk pointer can index it without synchronizing
// against the writer, provided it never reads past its own acquire-loaded
// length snapshot.
const chunkSize = 1024

type chunk struct {
	items [chunkSize]Item
}

// Pool is an append-only, ordered sequence of Items. Exactly one writer
// (the Reader) calls Append; any number of readers (Matcher workers, the
// Model) call Len and Get concurrently without blocking the writer.
//
// Indices are dense, start at 0, and match insertion order — this is the
// pool's central invariant and the reason downstream tie-breaks on index
// are meaningful.
type Pool struct {
	growMu sync.Mutex // serializes directory growth; never held during a Get

	dir    atomic.Pointer[[]*chunk] // published directory of chunk pointers
	length atomic.Int64             // release-stored after an item is fully written
	epoch  atomic.Uint64
}

// New creates an empty pool at epoch 0.
func New() *Pool {
	p := &Pool{}
	empty := make([]*chunk, 0)
	p.dir.Store(&empty)
	return p
}

// Epoch returns the current reader-epoch. It changes only on Reset.
func (p *Pool) Epoch() uint64 {
	return p.epoch.Load()
}

// Len returns a snapshot of the number of appended items (an acquire-load
// of the atomic length). A Matcher run takes one such snapshot at its
// start and never scores indices beyond it; new items are picked up by a
// subsequent resume, not the in-flight run.
func (p *Pool) Len() int {
	return int(p.length.Load())
}

// Append adds one item to the pool and returns a pointer to it. O(1)
// amortized: it only grows the chunk directory when crossing a chunk
// boundary, and readers never observe a directory growth because the
// directory is swapped via an atomic pointer store rather than mutated
// in place.
func (p *Pool) Append(raw, display, match, preview string, segments []Segment) *Item {
	idx := int(p.length.Load())
	chunkIdx := idx / chunkSize
	offset := idx % chunkSize

	c := p.chunkAt(chunkIdx, true)
	c.items[offset] = Item{
		Index:    idx,
		Raw:      raw,
		Display:  display,
		Segments: segments,
		Match:    match,
		Preview:  preview,
		Epoch:    p.epoch.Load(),
	}
	// Release-store: any reader that acquire-loads a length > idx is
	// guaranteed to see the item write above.
	p.length.Store(int64(idx + 1))
	return &c.items[offset]
}

// chunkAt returns the chunk holding chunkIdx, creating and publishing it
// if grow is true and it does not yet exist. Growth is rare (once per
// chunkSize appends) and serialized by growMu; the read path below it
// never takes a lock.
func (p *Pool) chunkAt(chunkIdx int, grow bool) *chunk {
	dir := *p.dir.Load()
	if chunkIdx < len(dir) {
		return dir[chunkIdx]
	}
	if !grow {
		return nil
	}

	p.growMu.Lock()
	defer p.growMu.Unlock()

	dir = *p.dir.Load()
	if chunkIdx < len(dir) {
		return dir[chunkIdx]
	}
	next := make([]*chunk, chunkIdx+1)
	copy(next, dir)
	for i := len(dir); i <= chunkIdx; i++ {
		next[i] = &chunk{}
	}
	p.dir.Store(&next)
	return next[chunkIdx]
}

// Get returns the item at idx. The caller must have already observed idx
// as in-bounds via a prior Len() (or a snapshot length passed down from
// the matcher coordinator). Lock-free: it loads the published directory
// pointer and indexes directly into the target chunk's fixed array.
func (p *Pool) Get(idx int) *Item {
	chunkIdx := idx / chunkSize
	offset := idx % chunkSize
	c := p.chunkAt(chunkIdx, false)
	return &c.items[offset]
}

// Reset clears the pool and begins a new epoch. Any Item references or
// epoch-tagged work captured before Reset must be treated as stale by
// downstream consumers that compare epochs.
func (p *Pool) Reset() {
	p.growMu.Lock()
	defer p.growMu.Unlock()
	empty := make([]*chunk, 0)
	p.dir.Store(&empty)
	p.length.Store(0)
	p.epoch.Add(1)
}
