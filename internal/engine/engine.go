// Package engine implements the match algorithms: fuzzy, exact, regex,
// AND/OR composites over them, and a disabled engine for the empty
// query. Every variant satisfies the single-method Engine interface so
// the matcher's hot path never branches on algorithm kind.
package engine

// Result is what an Engine produces for one item's match text: a score
// (higher is better) and the character positions that should be
// highlighted in the rendered line.
type Result struct {
	Score     int32
	Positions []int
}

// Engine scores one item's match text against whatever query state it
// was built from. A false second return means the item does not match
// and must be dropped from the ranked view.
type Engine interface {
	Score(text string) (Result, bool)
}

// Func adapts a plain function to the Engine interface, used by tests.
type Func func(text string) (Result, bool)

func (f Func) Score(text string) (Result, bool) { return f(text) }
