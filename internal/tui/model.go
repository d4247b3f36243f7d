// Package tui implements the interactive finder's event loop: a
// bubbletea Model that multiplexes terminal input, reader progress,
// matcher publications, and previewer output into one single-threaded
// state machine, the same role the teacher's indexingModel plays for
// indexing progress, generalized to a full fuzzy-finder coordinator.
package tui

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/gofzy/internal/action"
	"github.com/Aman-CERP/gofzy/internal/engine"
	"github.com/Aman-CERP/gofzy/internal/item"
	"github.com/Aman-CERP/gofzy/internal/matcher"
	"github.com/Aman-CERP/gofzy/internal/preview"
	"github.com/Aman-CERP/gofzy/internal/query"
	"github.com/Aman-CERP/gofzy/internal/reader"
	"github.com/Aman-CERP/gofzy/internal/selection"
	"github.com/Aman-CERP/gofzy/internal/telemetry"
	"github.com/Aman-CERP/gofzy/internal/ui"
)

// State names the Model's top-level mode.
type State int

const (
	// StateLoading is held until the first ranked view is published.
	StateLoading State = iota
	// StateFilter is the default mode: typed runes edit the query.
	StateFilter
	// StateInteractive suspends query editing so single-key navigation
	// bindings can use plain letters (entered and left via
	// toggle-interactive).
	StateInteractive
	// StateExiting has been reached by accept/abort; Model.View renders
	// nothing further and the Program is about to quit.
	StateExiting
)

// frameTick is the period of the 120 Hz frame tick. Update only re-arms
// the tick on each frameTickMsg; it keeps no dirty flag and recomputes
// no render state on the tick.
const frameTick = time.Second / 120

// Options configures one finder session end to end.
type Options struct {
	Producer       io.Reader
	Delimiter      byte
	ANSI           bool
	NoStripANSI    bool
	Field          query.FieldRestriction
	DefaultMode    query.Mode
	CasePolicy     query.CasePolicy
	Normalize      bool
	Multi          bool
	PreviewCommand string
	PreviewDelim   string
	Workers        int
	Bindings       map[string]string
	PreSelect      selection.PreSelect
	Limit          int
	PrintQuery     bool
	PrintCmd       bool
	NoColor        bool
	Stats          bool
}

// Result is what Run returns once the Model reaches StateExiting.
type Result struct {
	Selected []string
	Query    string
	Command  string
	Aborted  bool
	Err      error
}

// Model is the bubbletea Model driving one finder session.
type Model struct {
	opts Options

	pool    *item.Pool
	rdr     *reader.Reader
	mtc     *matcher.Matcher
	factory *engine.Factory
	qEpoch  query.Epoch
	sel     *selection.Selection
	prev    *preview.Previewer
	keys    *action.KeyMap
	styles  ui.Styles
	metrics *telemetry.QueryMetrics

	// readerCancel stops the currently-running Reader goroutine, and
	// readerStopped is closed once that goroutine has actually returned.
	// Rescan cancels and waits on these before resetting the pool: Pool.Append
	// has exactly one writer per reader-epoch, and two Readers racing on
	// the same Pool violates that invariant, so the old Reader must be
	// fully stopped (not just signalled) before the new one starts.
	readerCancel  context.CancelFunc
	readerStopped chan struct{}

	program atomic.Pointer[tea.Program]

	state     State
	queryText []rune
	queryPos  int
	caseMode  query.CasePolicy
	regexMode bool

	view       matcher.RankedView
	readerDone bool
	readerErr  error
	readerRead int
	scanned    int
	matched    int

	// rebuildPending is set by a rescanMsg and forces the next
	// readerLenMsg/readerStatusMsg to call runQuery (a fresh Run) instead
	// of resumeQuery, since Rescan's pool.Reset bumped the reader-epoch
	// and Resume has no prior session valid under it.
	rebuildPending bool

	previewText    string
	previewErr     error
	previewVisible bool
	sortDisabled   bool

	width, height int
	dirty         bool
	status        string
	statusErr     bool

	result Result
}

// New builds the Model and starts the Reader in the background against
// ctx. The caller constructs a tea.Program from the returned Model and
// assigns it back via AttachProgram before calling Program.Run, so
// background goroutines (reader status, matcher progress, preview
// output) can deliver messages via Program.Send the way the teacher's
// TUIRenderer does for indexing events.
func New(ctx context.Context, opts Options) (*Model, error) {
	keys, err := action.NewKeyMap(mergeBindings(opts.Bindings))
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	pool := item.New()
	m := &Model{
		opts:           opts,
		pool:           pool,
		mtc:            matcher.New(pool, opts.Workers),
		factory:        engine.NewFactory(opts.Normalize),
		sel:            selection.New(),
		keys:           keys,
		styles:         ui.GetStyles(opts.NoColor || ui.DetectNoColor()),
		state:          StateLoading,
		caseMode:       opts.CasePolicy,
		previewVisible: opts.PreviewCommand != "",
		width:          80,
		height:         24,
	}
	if opts.PreviewCommand != "" {
		m.prev = preview.New(opts.PreviewCommand)
	}
	if opts.Stats {
		m.metrics = telemetry.NewQueryMetrics(nil)
	}
	m.sel.SetPreSelect(opts.PreSelect)

	m.rdr = reader.New(pool, reader.Options{
		Delimiter: orDefault(opts.Delimiter, '\n'),
		ANSI:      opts.ANSI,
		NoStrip:   opts.NoStripANSI,
		Field:     opts.Field,
	}, func(int) {
		m.send(readerLenMsg{})
	})

	readerCtx, cancel := context.WithCancel(ctx)
	m.readerCancel = cancel
	stopped := make(chan struct{})
	m.readerStopped = stopped
	go func() {
		defer close(stopped)
		_ = m.rdr.Run(readerCtx, opts.Producer)
	}()
	go forwardReaderStatus(m)
	if m.prev != nil {
		go forwardPreviewOutput(m)
	}

	return m, nil
}

func orDefault(b, def byte) byte {
	if b == 0 {
		return def
	}
	return b
}

func mergeBindings(custom map[string]string) map[string]string {
	merged := make(map[string]string, len(action.DefaultBindings)+len(custom))
	for k, v := range action.DefaultBindings {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}

// AttachProgram lets background goroutines (reader/matcher/preview
// forwarders) deliver messages once the tea.Program exists.
func (m *Model) AttachProgram(p *tea.Program) { m.program.Store(p) }

// send delivers msg to the attached Program if one exists yet, the way
// the teacher's TUIRenderer sends progress/error/complete messages from
// background goroutines into its bubbletea program.
func (m *Model) send(msg tea.Msg) {
	if p := m.program.Load(); p != nil {
		p.Send(msg)
	}
}

// Result returns the session's terminal outcome. Valid only after the
// Program has returned from Run.
func (m *Model) Result() Result { return m.result }

// TelemetrySnapshot returns the session's accumulated query metrics, or
// nil if the session was not started with Options.Stats set.
func (m *Model) TelemetrySnapshot() *telemetry.QueryMetricsSnapshot {
	if m.metrics == nil {
		return nil
	}
	return m.metrics.Snapshot()
}

// Rescan resets the pool and restarts the Reader against a fresh
// producer, for --watch mode's "re-run the walker on filesystem
// change" behavior. The pool's epoch bump makes the in-flight matcher
// session stale, so the next readerLenMsg drives a full rebuild rather
// than an incremental resume, the same path a from-scratch load takes.
// The prior Reader goroutine is cancelled and waited out before the
// pool is reset, so it has actually stopped calling Pool.Append before
// the new Reader starts appending into the reset pool under the
// bumped epoch — cancelling the context only signals the stop, it
// doesn't wait for it.
func (m *Model) Rescan(ctx context.Context, producer io.Reader) {
	if m.readerCancel != nil {
		m.readerCancel()
		<-m.readerStopped
	}
	m.pool.Reset()
	m.sel.Clear()
	m.rdr = reader.New(m.pool, reader.Options{
		Delimiter: orDefault(m.opts.Delimiter, '\n'),
		ANSI:      m.opts.ANSI,
		NoStrip:   m.opts.NoStripANSI,
		Field:     m.opts.Field,
	}, func(int) {
		m.send(readerLenMsg{})
	})
	readerCtx, cancel := context.WithCancel(ctx)
	m.readerCancel = cancel
	stopped := make(chan struct{})
	m.readerStopped = stopped
	go forwardReaderStatus(m)
	go func() {
		defer close(stopped)
		_ = m.rdr.Run(readerCtx, producer)
	}()
	m.send(rescanMsg{})
}

// Dispatch implements control.Dispatcher: a chain accepted from the
// control socket is forwarded onto the Program like any other
// background event, so it applies inside the normal Update call rather
// than racing the event loop from the control server's own goroutine.
func (m *Model) Dispatch(chain []action.Action) {
	m.send(remoteChainMsg(chain))
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameTick, func(t time.Time) tea.Msg { return frameTickMsg(t) })
}
