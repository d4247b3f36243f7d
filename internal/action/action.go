// Package action defines the finder's action vocabulary: the named,
// chainable operations key bindings and the control socket both resolve
// to. A binding spec or control-socket line is parsed into an ordered
// chain of Actions and dispatched atomically against the Model's state.
package action

// Kind names one action in the vocabulary. String values match the
// token the key-binding and control-socket grammars use verbatim.
type Kind string

const (
	// Query edits
	KindInsert            Kind = "insert"
	KindDeleteChar        Kind = "delete-char"
	KindDeleteCharForward Kind = "delete-char-forward"
	KindKillWord          Kind = "kill-word"
	KindKillLine          Kind = "kill-line"
	KindBeginningOfLine   Kind = "beginning-of-line"
	KindEndOfLine         Kind = "end-of-line"
	KindYank              Kind = "yank"
	KindBackwardWord      Kind = "backward-word"
	KindForwardWord       Kind = "forward-word"
	KindClearQuery        Kind = "clear-query"

	// Navigation
	KindUp           Kind = "up"
	KindDown         Kind = "down"
	KindPageUp       Kind = "page-up"
	KindPageDown     Kind = "page-down"
	KindHalfPageUp   Kind = "half-page-up"
	KindHalfPageDown Kind = "half-page-down"
	KindFirst        Kind = "first"
	KindLast         Kind = "last"

	// Selection
	KindToggle      Kind = "toggle"
	KindToggleAll   Kind = "toggle-all"
	KindSelectAll   Kind = "select-all"
	KindDeselectAll Kind = "deselect-all"
	KindToggleIn    Kind = "toggle-in"
	KindToggleOut   Kind = "toggle-out"

	// Submission
	KindAccept         Kind = "accept"
	KindAcceptNonEmpty Kind = "accept-non-empty"
	KindAbort          Kind = "abort"
	KindIfNonMatched   Kind = "if-non-matched"
	KindIfQueryEmpty   Kind = "if-query-empty"

	// UI
	KindTogglePreview     Kind = "toggle-preview"
	KindPreviewUp         Kind = "preview-up"
	KindPreviewDown       Kind = "preview-down"
	KindPreviewPage       Kind = "preview-page"
	KindToggleInteractive Kind = "toggle-interactive"
	KindRefreshPreview    Kind = "refresh-preview"
	KindReload            Kind = "reload"
	KindSetQuery          Kind = "set-query"
	KindExecute           Kind = "execute"
	KindExecuteSilent     Kind = "execute-silent"

	// Mode
	KindToggleSort  Kind = "toggle-sort"
	KindToggleRegex Kind = "toggle-regex"
	KindToggleCase  Kind = "toggle-case"
)

// chainArgKinds and stringArgKinds name every action whose grammar takes
// a parenthesized argument, distinguishing chain-argument actions
// (if-non-matched, if-query-empty) from string-argument actions (reload,
// set-query, execute, execute-silent, insert).
var chainArgKinds = map[Kind]bool{
	KindIfNonMatched: true,
	KindIfQueryEmpty: true,
}

var stringArgKinds = map[Kind]bool{
	KindReload:        true,
	KindSetQuery:      true,
	KindExecute:       true,
	KindExecuteSilent: true,
	KindInsert:        true, // insert(x) inserts literal text x; bare insert uses the typed rune
}

// Action is one resolved step in a chain. Arg holds the raw string
// argument for string-argument kinds; Chain holds the parsed nested
// chain for chain-argument kinds (if-non-matched, if-query-empty).
type Action struct {
	Kind  Kind
	Arg   string
	Chain []Action
}
