// Package matcher runs the configured Engine over the item pool: a
// worker-pool fan-out that partitions the scored index range across
// goroutines, maintains a bounded top-N per worker, merges into a single
// ordered ranked view, and cooperatively cancels on query-epoch changes
// so a keystroke never has to wait for a stale scan to finish.
package matcher

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/gofzy/internal/engine"
	"github.com/Aman-CERP/gofzy/internal/item"
)

// errStale is returned by a worker, and passed on by Run and Resume,
// when its captured query-epoch was superseded mid-scan.
var errStale = errors.New("matcher: query epoch superseded")

// Progress reports scan advancement for status-line rendering. It is
// published on a bounded channel at no more than progressHz to avoid
// flooding the UI loop with updates it cannot render anyway.
type Progress struct {
	Scanned int
	Matched int
}

const progressHz = 30

// overfetchFactor bounds how many extra candidates each worker retains
// beyond the requested limit, so that merging per-worker heaps (which
// may each independently hold a locally-strong item the global top-N
// would otherwise have discarded) still converges on the true top-N.
// Mirrors the 2x over-fetch a plain worker-chunked top-K matcher uses.
const overfetchFactor = 2

// minChunk is the smallest slice of the index range handed to one
// worker; below this, splitting further only adds goroutine overhead.
const minChunk = 256

// Matcher owns the scoring session for one pool. It is not safe for
// concurrent Run/Resume calls against each other (the Model serializes
// them, since only one matching generation is ever "current"), but Run
// and Resume may be called concurrently with Pool.Append from the
// Reader.
type Matcher struct {
	pool    *item.Pool
	workers int

	mu      sync.Mutex
	session session
}

type session struct {
	valid       bool
	readerEpoch uint64
	queryEpoch  uint64
	scannedTo   int
	retained    []MatchResult
	limit       int
}

// New creates a Matcher over pool using workers goroutines (0 defaults
// to runtime.NumCPU()).
func New(pool *item.Pool, workers int) *Matcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Matcher{pool: pool, workers: workers}
}

// Run starts a fresh scan of the pool's current length under eng,
// tagged with readerEpoch/queryEpoch. It abandons any prior session:
// callers bump the query-epoch before calling Run so in-flight workers
// from a superseded call observe epochAlive() returning false and exit
// early. Workers additionally bail as soon as m.pool.Epoch() no longer
// matches readerEpoch, so a concurrent Pool.Reset (--watch rescan)
// stops the scan before it can index past the pool's new, shorter
// directory. The progress channel is closed when the scan completes or
// is abandoned.
func (m *Matcher) Run(ctx context.Context, eng engine.Engine, readerEpoch, queryEpoch uint64, epochAlive func() bool, limit int) (RankedView, <-chan Progress, error) {
	length := m.pool.Len()
	progress := make(chan Progress, 1)

	poolAlive := func() bool { return epochAlive() && m.pool.Epoch() == readerEpoch }
	results, err := m.scan(ctx, eng, 0, length, poolAlive, limit, progress)
	if err != nil {
		close(progress)
		return RankedView{}, progress, err
	}

	m.mu.Lock()
	m.session = session{
		valid:       true,
		readerEpoch: readerEpoch,
		queryEpoch:  queryEpoch,
		scannedTo:   length,
		retained:    results,
		limit:       limit,
	}
	m.mu.Unlock()

	view := newRankedView(readerEpoch, queryEpoch, topN(results, limit))
	close(progress)
	return view, progress, nil
}

// Resume extends the current session to newLen, scoring only
// [scannedTo, newLen) and merging into the retained result set from the
// prior Run/Resume call. It must be called with the same
// (readerEpoch, queryEpoch) the session was started under; a mismatch
// means the caller should call Run instead (a new query or a reader
// reset invalidates resumability). On a mismatch, or with no session,
// it returns an empty view tagged with the given epochs.
func (m *Matcher) Resume(ctx context.Context, eng engine.Engine, readerEpoch, queryEpoch uint64, epochAlive func() bool, newLen int) (RankedView, <-chan Progress, error) {
	m.mu.Lock()
	s := m.session
	m.mu.Unlock()

	progress := make(chan Progress, 1)

	if s.valid && s.readerEpoch != readerEpoch {
		// The pool was reset under a new reader-epoch since this session
		// was built: s.retained holds indices into a directory that no
		// longer exists at that shape. Serving them under the new epoch's
		// label would hand the caller Pool.Get indices it can't resolve.
		close(progress)
		return RankedView{ReaderEpoch: readerEpoch, QueryEpoch: queryEpoch}, progress, nil
	}

	if !s.valid || s.queryEpoch != queryEpoch {
		// The retained results belong to another query-epoch (or there
		// are none), so nothing can be served under this one's label.
		close(progress)
		return RankedView{ReaderEpoch: readerEpoch, QueryEpoch: queryEpoch}, progress, nil
	}

	if newLen <= s.scannedTo {
		close(progress)
		view := newRankedView(readerEpoch, queryEpoch, topN(s.retained, s.limit))
		return view, progress, nil
	}

	poolAlive := func() bool { return epochAlive() && m.pool.Epoch() == readerEpoch }
	fresh, err := m.scan(ctx, eng, s.scannedTo, newLen, poolAlive, s.limit, progress)
	if err != nil {
		close(progress)
		return RankedView{}, progress, err
	}

	merged := append(append([]MatchResult{}, s.retained...), fresh...)
	merged = topN(merged, s.limit)

	m.mu.Lock()
	m.session = session{
		valid:       true,
		readerEpoch: readerEpoch,
		queryEpoch:  queryEpoch,
		scannedTo:   newLen,
		retained:    merged,
		limit:       s.limit,
	}
	m.mu.Unlock()

	view := newRankedView(readerEpoch, queryEpoch, append([]MatchResult{}, merged...))
	close(progress)
	return view, progress, nil
}

// Invalidate discards the current session, forcing the next call to be
// a Run starting from index 0. Called on reader reset (new reader-epoch)
// since stale-epoch items must not contribute to a future resume.
func (m *Matcher) Invalidate() {
	m.mu.Lock()
	m.session = session{}
	m.mu.Unlock()
}

// scan partitions [start, end) across m.workers goroutines via an
// errgroup, each maintaining a bounded top-N heap and checking
// epochAlive between items so a superseded run stops within one item's
// scoring time.
func (m *Matcher) scan(ctx context.Context, eng engine.Engine, start, end int, epochAlive func() bool, limit int, progress chan<- Progress) ([]MatchResult, error) {
	total := end - start
	if total <= 0 {
		return nil, nil
	}

	chunks := m.workers
	chunkSize := (total + chunks - 1) / chunks
	if chunkSize < minChunk {
		chunkSize = minChunk
	}

	var scanned, matched atomic.Int64
	ticker := time.NewTicker(time.Second / progressHz)
	defer ticker.Stop()
	stop := make(chan struct{})
	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		for {
			select {
			case <-ticker.C:
				select {
				case progress <- Progress{Scanned: int(scanned.Load()), Matched: int(matched.Load())}:
				default:
				}
			case <-stop:
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var collected []MatchResult
	workerLimit := 0
	if limit > 0 {
		workerLimit = limit * overfetchFactor
	}

	for lo := start; lo < end; lo += chunkSize {
		hi := lo + chunkSize
		if hi > end {
			hi = end
		}
		lo, hi := lo, hi
		g.Go(func() error {
			heap := newBoundedHeap(workerLimit)
			for idx := lo; idx < hi; idx++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if !epochAlive() {
					return errStale
				}

				it := m.pool.Get(idx)
				r, ok := eng.Score(it.Match)
				scanned.Add(1)
				if ok {
					matched.Add(1)
					heap.Offer(newMatchResult(idx, r.Score, r.Positions, it.Len()))
				}
			}

			mu.Lock()
			collected = append(collected, heap.Drain()...)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	close(stop)
	<-tickDone

	if err != nil {
		if errors.Is(err, errStale) {
			return nil, errStale
		}
		return nil, err
	}
	return collected, nil
}

// topN returns the best-ranked limit results from results (or all of
// them if limit <= 0), in no particular order; newRankedView sorts.
func topN(results []MatchResult, limit int) []MatchResult {
	if limit <= 0 || len(results) <= limit {
		out := append([]MatchResult{}, results...)
		return out
	}
	h := newBoundedHeap(limit)
	for _, r := range results {
		h.Offer(r)
	}
	return h.Drain()
}
