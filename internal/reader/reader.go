// Package reader streams records from a producer into the shared item
// pool. It decodes records by a configured delimiter, tolerates split
// records across read boundaries, optionally parses ANSI SGR sequences
// into render segments, and coalesces pool appends into batches the way
// the watcher package coalesces file events: by count or by a timer,
// whichever comes first.
package reader

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Aman-CERP/gofzy/internal/item"
	"github.com/Aman-CERP/gofzy/internal/query"
)

// Batch size/time coalescing thresholds, matching the cadence the spec
// calls out: at most K items or T milliseconds, whichever comes first.
const (
	batchMaxItems = 1024
	batchWindow   = 30 * time.Millisecond
)

// Options configures one Reader run.
type Options struct {
	Delimiter byte // '\n' or 0x00
	ANSI      bool // parse SGR sequences into segments
	NoStrip   bool // retain raw ANSI bytes in Display when ANSI is false
	Field     query.FieldRestriction
}

// Status is published on the Reader's status channel as records arrive
// and when the stream ends.
type Status struct {
	Read int // total records appended so far
	Done bool
	Err  error
}

// Reader is the single producer: exactly one goroutine calls Run per
// reader-epoch. Pool.Append is the only pool mutation it performs, and
// it notifies the Matcher once per coalesced batch rather than once per
// record.
type Reader struct {
	pool *item.Pool
	opts Options

	mu       sync.Mutex
	epoch    uint64
	notify   func(newLen int)
	statusCh chan Status
}

// New creates a Reader over pool. notify is called once per flushed
// batch with the pool's new length, letting the Matcher resume scoring
// only the newly appended range.
func New(pool *item.Pool, opts Options, notify func(newLen int)) *Reader {
	if notify == nil {
		notify = func(int) {}
	}
	return &Reader{
		pool:     pool,
		opts:     opts,
		notify:   notify,
		statusCh: make(chan Status, 1),
	}
}

// Status returns the channel Run publishes Status updates on. It is
// closed when Run returns.
func (r *Reader) Status() <-chan Status { return r.statusCh }

// Epoch returns the reader-epoch this Reader is currently running under.
func (r *Reader) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Run reads src until EOF, ctx cancellation, or a read error, appending
// decoded records into the pool in coalesced batches. It bumps the
// reader-epoch once at the start (a fresh epoch per Run call — callers
// reset the pool before calling Run again for the same session).
func (r *Reader) Run(ctx context.Context, src io.Reader) error {
	r.mu.Lock()
	r.epoch++
	r.mu.Unlock()
	defer close(r.statusCh)

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(splitOnDelimiter(r.opts.Delimiter))

	var batchCount int
	flushTimer := time.NewTimer(batchWindow)
	if !flushTimer.Stop() {
		<-flushTimer.C
	}
	defer flushTimer.Stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		defer close(scanErr)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- sc.Err()
	}()

	flush := func() {
		if batchCount == 0 {
			return
		}
		batchCount = 0
		r.publish()
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			r.dropPendingStatus()
			select {
			case r.statusCh <- Status{Read: r.pool.Len(), Done: true, Err: ctx.Err()}:
			default:
			}
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				flush()
				err := <-scanErr
				r.dropPendingStatus()
				select {
				case r.statusCh <- Status{Read: r.pool.Len(), Done: true, Err: err}:
				default:
				}
				return err
			}
			display, segments := decodeANSI(line, r.opts.ANSI, r.opts.NoStrip)
			matchText := extractField(display, r.opts.Field)
			r.pool.Append(line, display, matchText, line, segments)
			batchCount++

			if batchCount >= batchMaxItems {
				flush()
				if !flushTimer.Stop() {
					select {
					case <-flushTimer.C:
					default:
					}
				}
			} else if batchCount == 1 {
				flushTimer.Reset(batchWindow)
			}

		case <-flushTimer.C:
			flush()
		}
	}
}

// dropPendingStatus discards a progress update still buffered on the
// status channel, so the final Done status that follows always fits.
func (r *Reader) dropPendingStatus() {
	select {
	case <-r.statusCh:
	default:
	}
}

// publish notifies the caller of the new pool length and emits a
// non-blocking status update, mirroring the watcher Debouncer's
// drop-rather-than-block policy on a full channel.
func (r *Reader) publish() {
	length := r.pool.Len()
	r.notify(length)
	select {
	case r.statusCh <- Status{Read: length}:
	default:
		slog.Debug("reader status channel full, dropping update", slog.Int("read", length))
	}
}
