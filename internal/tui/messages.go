package tui

import (
	"time"

	"github.com/Aman-CERP/gofzy/internal/action"
	"github.com/Aman-CERP/gofzy/internal/matcher"
	"github.com/Aman-CERP/gofzy/internal/preview"
	"github.com/Aman-CERP/gofzy/internal/reader"
)

type frameTickMsg time.Time

// readerLenMsg signals the pool grew; Update reacts by resuming the
// matcher over the newly appended range.
type readerLenMsg struct{}

type readerStatusMsg reader.Status

type matchViewMsg matcher.RankedView

type matchProgressMsg matcher.Progress

type matchErrMsg struct{ err error }

type previewOutputMsg preview.Output

// remoteChainMsg carries one action chain accepted by the control
// socket into the Model's own event loop, so a remote client's chain
// applies with the same atomicity as a local keypress.
type remoteChainMsg []action.Action

// rescanMsg signals that the watcher observed a filesystem change and
// the Reader has been restarted over a fresh producer against a reset
// pool. Rescan has already cleared the selection; Update marks a
// rebuild pending so the next matcher run starts a fresh session.
type rescanMsg struct{}

// forwardReaderStatus relays Reader.Status() onto the Program the
// teacher's TUIRenderer way: a background goroutine calling
// Program.Send for each update, since bubbletea commands can only
// return one message per invocation and Status is a long-lived stream.
func forwardReaderStatus(m *Model) {
	for s := range m.rdr.Status() {
		m.send(readerStatusMsg(s))
	}
}

func forwardPreviewOutput(m *Model) {
	if m.prev == nil {
		return
	}
	for o := range m.prev.Output() {
		m.send(previewOutputMsg(o))
	}
}

// forwardMatchProgress relays a single Run/Resume call's progress
// channel. Each matcher generation gets its own forwarder goroutine,
// started by runQuery/resumeQuery once the blocking call has returned
// its view and progress channel.
func forwardMatchProgress(m *Model, progress <-chan matcher.Progress) {
	for p := range progress {
		m.send(matchProgressMsg(p))
	}
}
