package preview

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/Aman-CERP/gofzy/internal/errors"
)

// Debounce window between a focus change and spawning its preview
// subprocess (half the watcher's 200ms default window), so rapid
// cursor movement does not spawn a process per keystroke.
const debounceWindow = 100 * time.Millisecond

// defaultMaxBytes bounds the captured preview output; beyond this the
// subprocess is killed rather than left to keep producing unread output.
const defaultMaxBytes = 1 << 20 // 1 MiB

// Output is one update to the preview pane.
type Output struct {
	Epoch    uint64
	Text     string
	Done     bool
	Err      error
	ExitCode int
}

// Previewer owns at most one live preview subprocess at a time. Each
// focus change bumps the epoch and schedules a debounced restart; an
// in-flight subprocess from a superseded epoch is killed rather than
// drained.
type Previewer struct {
	template string
	maxBytes int

	mu      sync.Mutex
	epoch   uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	outputs chan Output

	cb *errors.CircuitBreaker
}

// New creates a Previewer that runs template (see Expand) through the
// shell on each scheduled focus change. Repeated subprocess failures trip
// a circuit breaker so a broken preview command doesn't get re-spawned on
// every cursor move.
func New(template string) *Previewer {
	return &Previewer{
		template: template,
		maxBytes: defaultMaxBytes,
		outputs:  make(chan Output, 16),
		cb:       errors.NewCircuitBreaker("preview"),
	}
}

// Output returns the channel Previewer publishes Output updates on.
func (p *Previewer) Output() <-chan Output { return p.outputs }

// Trigger schedules a preview run for ctx after the debounce window,
// cancelling any previously scheduled or in-flight run. Calling Trigger
// again before the window elapses resets the timer, the same
// coalesce-by-timer-reset idiom the watcher Debouncer uses for
// filesystem events.
func (p *Previewer) Trigger(ctx Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.epoch++
	epoch := p.epoch
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(debounceWindow, func() {
		p.run(epoch, ctx)
	})
}

// Stop cancels any scheduled or in-flight preview run and closes the
// output channel. Safe to call once.
func (p *Previewer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
	close(p.outputs)
}

func (p *Previewer) run(epoch uint64, pctx Context) {
	p.mu.Lock()
	if epoch != p.epoch {
		p.mu.Unlock()
		return
	}
	cmdCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	command := Expand(p.template, pctx)
	if command == "" {
		return
	}

	if !p.cb.Allow() {
		p.publish(Output{Epoch: epoch, Done: true, Err: errors.New(errors.ErrCodePreviewFailed,
			"preview command disabled after repeated failures", nil)})
		return
	}

	cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
	f, err := pty.Start(cmd)
	if err != nil {
		p.cb.RecordFailure()
		p.publish(Output{Epoch: epoch, Err: errors.Wrap(errors.ErrCodePreviewFailed, err), Done: true})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	killed := false
	chunk := make([]byte, 32*1024)
	for {
		if p.stale(epoch) {
			_ = cmd.Process.Kill()
			return
		}
		n, readErr := f.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if buf.Len() > p.maxBytes {
				buf.Truncate(p.maxBytes)
				killed = true
				_ = cmd.Process.Kill()
			}
			p.publish(Output{Epoch: epoch, Text: buf.String()})
		}
		if readErr != nil {
			if readErr != io.EOF {
				slog.Debug("preview pty read ended", slog.Any("err", readErr))
			}
			break
		}
	}

	err = cmd.Wait()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	if killed {
		err = nil // truncation is a deliberate cap, not a failure
	}
	finalErr := commandErr(err, cmdCtx)
	if finalErr != nil {
		p.cb.RecordFailure()
		finalErr = errors.Wrap(errors.ErrCodePreviewFailed, finalErr)
	} else {
		p.cb.RecordSuccess()
	}
	p.publish(Output{Epoch: epoch, Text: buf.String(), Done: true, Err: finalErr, ExitCode: exitCode})
}

func commandErr(err error, ctx context.Context) error {
	if ctx.Err() != nil {
		return nil // superseded by a newer focus change, not a real failure
	}
	return err
}

func (p *Previewer) stale(epoch uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return epoch != p.epoch
}

func (p *Previewer) publish(o Output) {
	select {
	case p.outputs <- o:
	default:
		slog.Debug("previewer output channel full, dropping update", slog.Uint64("epoch", o.Epoch))
	}
}
