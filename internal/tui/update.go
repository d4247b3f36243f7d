package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/gofzy/internal/action"
	"github.com/Aman-CERP/gofzy/internal/errors"
	"github.com/Aman-CERP/gofzy/internal/matcher"
	"github.com/Aman-CERP/gofzy/internal/preview"
	"github.com/Aman-CERP/gofzy/internal/query"
	"github.com/Aman-CERP/gofzy/internal/telemetry"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case readerLenMsg:
		if m.state == StateLoading || m.rebuildPending {
			m.rebuildPending = false
			return m, m.runQuery()
		}
		return m, m.resumeQuery()

	case rescanMsg:
		m.readerDone = false
		m.readerRead = 0
		m.readerErr = nil
		m.rebuildPending = true
		m.dirty = true
		return m, nil

	case readerStatusMsg:
		m.readerRead = msg.Read
		m.readerDone = msg.Done
		m.readerErr = msg.Err
		m.dirty = true
		if m.readerDone && (m.state == StateLoading || m.rebuildPending) {
			m.rebuildPending = false
			return m, m.runQuery()
		}
		return m, nil

	case matchViewMsg:
		m.view = matcher.RankedView(msg)
		m.sel.ApplyPreSelect(m.poolIter)
		if m.sel.Cursor() >= m.view.Len() {
			m.sel.SetCursor(0, m.view.Len())
		}
		if m.state == StateLoading {
			m.state = StateFilter
		}
		m.dirty = true
		m.triggerPreview()
		return m, nil

	case matchProgressMsg:
		m.scanned, m.matched = msg.Scanned, msg.Matched
		m.dirty = true
		return m, nil

	case matchErrMsg:
		m.status = msg.err.Error()
		m.statusErr = true
		m.dirty = true
		return m, nil

	case previewOutputMsg:
		m.previewText = msg.Text
		m.previewErr = msg.Err
		m.dirty = true
		return m, nil

	case remoteChainMsg:
		return m.dispatchChain(msg)

	case frameTickMsg:
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if chain, ok := m.keys.Resolve(msg.String()); ok {
		return m.dispatchChain(chain)
	}
	if m.state != StateInteractive && msg.Type == tea.KeyRunes {
		m.insertText(string(msg.Runes))
		return m, m.runQuery()
	}
	return m, nil
}

// dispatchChain applies every action in chain atomically against the
// Model's state, matching the single-threaded coordinator the spec
// requires (the whole bubbletea Update call already runs with no other
// handler interleaved).
func (m *Model) dispatchChain(chain []action.Action) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, a := range chain {
		cmd := m.applyAction(a)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.state == StateExiting {
			break
		}
	}
	if m.state == StateExiting {
		return m, tea.Quit
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyAction(a action.Action) tea.Cmd {
	switch a.Kind {
	case action.KindInsert:
		m.insertText(a.Arg)
		return m.runQuery()
	case action.KindDeleteChar:
		m.deleteBackward()
		return m.runQuery()
	case action.KindDeleteCharForward:
		m.deleteForward()
		return m.runQuery()
	case action.KindKillWord:
		m.killWordBackward()
		return m.runQuery()
	case action.KindKillLine:
		m.queryText = m.queryText[:m.queryPos]
		return m.runQuery()
	case action.KindBeginningOfLine:
		m.queryPos = 0
	case action.KindEndOfLine:
		m.queryPos = len(m.queryText)
	case action.KindYank:
		// No kill-ring is maintained; yank is a no-op until a kill
		// action populates one.
	case action.KindBackwardWord:
		m.queryPos = wordBoundaryBackward(m.queryText, m.queryPos)
	case action.KindForwardWord:
		m.queryPos = wordBoundaryForward(m.queryText, m.queryPos)
	case action.KindClearQuery:
		m.queryText = nil
		m.queryPos = 0
		return m.runQuery()

	case action.KindUp:
		m.sel.Move(-1, m.view.Len())
		m.triggerPreview()
	case action.KindDown:
		m.sel.Move(1, m.view.Len())
		m.triggerPreview()
	case action.KindPageUp:
		m.sel.Move(-m.pageSize(), m.view.Len())
		m.triggerPreview()
	case action.KindPageDown:
		m.sel.Move(m.pageSize(), m.view.Len())
		m.triggerPreview()
	case action.KindHalfPageUp:
		m.sel.Move(-m.pageSize()/2, m.view.Len())
		m.triggerPreview()
	case action.KindHalfPageDown:
		m.sel.Move(m.pageSize()/2, m.view.Len())
		m.triggerPreview()
	case action.KindFirst:
		m.sel.SetCursor(0, m.view.Len())
		m.triggerPreview()
	case action.KindLast:
		m.sel.SetCursor(m.view.Len()-1, m.view.Len())
		m.triggerPreview()

	case action.KindToggle:
		if idx, ok := m.focusIndex(); ok {
			m.sel.Toggle(idx)
		}
	case action.KindToggleAll:
		m.toggleAll()
	case action.KindSelectAll:
		m.sel.SelectAll(m.viewIndices())
	case action.KindDeselectAll:
		m.sel.Clear()
	case action.KindToggleIn:
		if idx, ok := m.focusIndex(); ok && !m.sel.IsSelected(idx) {
			m.sel.Select(idx)
		}
	case action.KindToggleOut:
		if idx, ok := m.focusIndex(); ok && m.sel.IsSelected(idx) {
			m.sel.Deselect(idx)
		}

	case action.KindAccept:
		m.accept()
	case action.KindAcceptNonEmpty:
		if m.sel.Count() > 0 || m.view.Len() > 0 {
			m.accept()
		}
	case action.KindAbort:
		m.abort()
	case action.KindIfNonMatched:
		if m.view.Len() == 0 {
			return m.dispatchChainCmd(a.Chain)
		}
	case action.KindIfQueryEmpty:
		if len(m.queryText) == 0 {
			return m.dispatchChainCmd(a.Chain)
		}

	case action.KindTogglePreview:
		m.previewVisible = !m.previewVisible
	case action.KindToggleInteractive:
		if m.state == StateInteractive {
			m.state = StateFilter
		} else {
			m.state = StateInteractive
		}
	case action.KindRefreshPreview:
		m.triggerPreview()
	case action.KindToggleSort:
		m.sortDisabled = !m.sortDisabled
	case action.KindToggleRegex:
		m.regexMode = !m.regexMode
		return m.runQuery()
	case action.KindToggleCase:
		m.caseMode = nextCasePolicy(m.caseMode)
		return m.runQuery()
	case action.KindSetQuery:
		m.queryText = []rune(a.Arg)
		m.queryPos = len(m.queryText)
		return m.runQuery()
	}
	m.dirty = true
	return nil
}

func (m *Model) dispatchChainCmd(chain []action.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, a := range chain {
		if cmd := m.applyAction(a); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func nextCasePolicy(c query.CasePolicy) query.CasePolicy {
	switch c {
	case query.CaseSmart:
		return query.CaseRespect
	case query.CaseRespect:
		return query.CaseIgnore
	default:
		return query.CaseSmart
	}
}

func (m *Model) insertText(s string) {
	if s == "" {
		return
	}
	runes := []rune(s)
	out := make([]rune, 0, len(m.queryText)+len(runes))
	out = append(out, m.queryText[:m.queryPos]...)
	out = append(out, runes...)
	out = append(out, m.queryText[m.queryPos:]...)
	m.queryText = out
	m.queryPos += len(runes)
}

func (m *Model) deleteBackward() {
	if m.queryPos == 0 {
		return
	}
	m.queryText = append(m.queryText[:m.queryPos-1], m.queryText[m.queryPos:]...)
	m.queryPos--
}

func (m *Model) deleteForward() {
	if m.queryPos >= len(m.queryText) {
		return
	}
	m.queryText = append(m.queryText[:m.queryPos], m.queryText[m.queryPos+1:]...)
}

func (m *Model) killWordBackward() {
	start := wordBoundaryBackward(m.queryText, m.queryPos)
	m.queryText = append(append([]rune{}, m.queryText[:start]...), m.queryText[m.queryPos:]...)
	m.queryPos = start
}

func wordBoundaryBackward(text []rune, pos int) int {
	i := pos
	for i > 0 && text[i-1] == ' ' {
		i--
	}
	for i > 0 && text[i-1] != ' ' {
		i--
	}
	return i
}

func wordBoundaryForward(text []rune, pos int) int {
	i := pos
	for i < len(text) && text[i] == ' ' {
		i++
	}
	for i < len(text) && text[i] != ' ' {
		i++
	}
	return i
}

func (m *Model) pageSize() int {
	h := m.height - 4
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) focusIndex() (int, bool) {
	cursor := m.sel.Cursor()
	if cursor < 0 || cursor >= m.view.Len() {
		return 0, false
	}
	return m.view.Results[cursor].Index, true
}

func (m *Model) viewIndices() []int {
	out := make([]int, m.view.Len())
	for i, r := range m.view.Results {
		out[i] = r.Index
	}
	return out
}

func (m *Model) toggleAll() {
	for _, idx := range m.viewIndices() {
		m.sel.Toggle(idx)
	}
}

func (m *Model) poolIter(yield func(int, string) bool) {
	n := m.pool.Len()
	for i := 0; i < n; i++ {
		it := m.pool.Get(i)
		if !yield(it.Index, it.Raw) {
			return
		}
	}
}

func (m *Model) currentQuery() query.Query {
	mode := m.opts.DefaultMode
	if m.regexMode {
		mode = query.ModeRegex
	}
	return query.Query{
		Text:      string(m.queryText),
		Mode:      mode,
		Case:      m.caseMode,
		Normalize: m.opts.Normalize,
		Field:     m.opts.Field,
		RegexMode: m.regexMode,
	}
}

// runQuery starts a fresh scan under a new query-epoch, abandoning any
// in-flight scan from the previous epoch.
func (m *Model) runQuery() tea.Cmd {
	q := m.currentQuery()
	return func() tea.Msg {
		start := time.Now()
		eng, err := m.factory.Build(q)
		if err != nil {
			return matchErrMsg{errors.Wrap(errors.ErrCodeInvalidQuery, err)}
		}
		epoch := m.qEpoch.Next()
		alive := func() bool { return !m.qEpoch.Stale(epoch) }
		view, progress, err := m.mtc.Run(context.Background(), eng, m.pool.Epoch(), epoch, alive, m.opts.Limit)
		go forwardMatchProgress(m, progress)
		if err != nil {
			return matchErrMsg{errors.Wrap(errors.ErrCodeMatchFailed, err)}
		}
		m.recordQueryMetrics(q, start, len(view.Results))
		return matchViewMsg(view)
	}
}

// resumeQuery extends the current session over newly appended items
// without rescoring the prefix already scanned.
func (m *Model) resumeQuery() tea.Cmd {
	q := m.currentQuery()
	return func() tea.Msg {
		start := time.Now()
		eng, err := m.factory.Build(q)
		if err != nil {
			return matchErrMsg{errors.Wrap(errors.ErrCodeInvalidQuery, err)}
		}
		epoch := m.qEpoch.Current()
		alive := func() bool { return !m.qEpoch.Stale(epoch) }
		view, progress, err := m.mtc.Resume(context.Background(), eng, m.pool.Epoch(), epoch, alive, m.pool.Len())
		go forwardMatchProgress(m, progress)
		if err != nil {
			return matchErrMsg{errors.Wrap(errors.ErrCodeMatchFailed, err)}
		}
		m.recordQueryMetrics(q, start, len(view.Results))
		return matchViewMsg(view)
	}
}

// recordQueryMetrics captures one matcher run's algorithm, latency and
// result count, a no-op unless the session was started with --stats.
func (m *Model) recordQueryMetrics(q query.Query, start time.Time, resultCount int) {
	if m.metrics == nil {
		return
	}
	algo := telemetry.AlgorithmFuzzy
	switch q.Mode {
	case query.ModeExact:
		algo = telemetry.AlgorithmExact
	case query.ModeRegex:
		algo = telemetry.AlgorithmRegex
	}
	m.metrics.Record(telemetry.QueryEvent{
		Query:       q.Text,
		Algorithm:   algo,
		ResultCount: resultCount,
		Latency:     time.Since(start),
		Timestamp:   start,
	})
}

func (m *Model) triggerPreview() {
	if m.prev == nil {
		return
	}
	idx, ok := m.focusIndex()
	if !ok {
		return
	}
	focus := m.pool.Get(idx)
	selected := make([]string, 0, m.sel.Count())
	for _, si := range m.sel.Indices() {
		selected = append(selected, m.pool.Get(si).Preview)
	}
	m.prev.Trigger(preview.Context{
		Focus:     focus.Preview,
		Query:     string(m.queryText),
		Selected:  selected,
		Index:     idx,
		Delimiter: m.opts.PreviewDelim,
	})
}

func (m *Model) accept() {
	indices := m.sel.Indices()
	if len(indices) == 0 {
		if idx, ok := m.focusIndex(); ok {
			indices = []int{idx}
		}
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = m.pool.Get(idx).Raw
	}
	m.result = Result{Selected: out, Query: string(m.queryText)}
	m.state = StateExiting
}

func (m *Model) abort() {
	m.result = Result{Aborted: true, Query: string(m.queryText)}
	m.state = StateExiting
}
