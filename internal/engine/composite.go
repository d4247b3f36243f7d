package engine

// AndEngine requires every term to match; its score is the sum of the
// terms' scores and its positions are the union of theirs. Any term
// failing fails the whole composite, mirroring a logical AND of the
// space-separated terms the factory split the query into.
type AndEngine struct {
	Terms []Engine
}

func (e *AndEngine) Score(text string) (Result, bool) {
	var total int32
	var positions []int
	for _, term := range e.Terms {
		r, ok := term.Score(text)
		if !ok {
			return Result{}, false
		}
		total += r.Score
		positions = append(positions, r.Positions...)
	}
	return Result{Score: total, Positions: positions}, true
}

// OrEngine matches if any alternative matches, taking the
// highest-scoring alternative's result. Built from the `|`-separated
// alternatives within a single term.
type OrEngine struct {
	Alternatives []Engine
}

func (e *OrEngine) Score(text string) (Result, bool) {
	var best Result
	matched := false
	for _, alt := range e.Alternatives {
		r, ok := alt.Score(text)
		if !ok {
			continue
		}
		if !matched || r.Score > best.Score {
			best = r
			matched = true
		}
	}
	return best, matched
}

// NegatedEngine inverts a term (the `!` prefix): it "matches" only when
// the wrapped engine does not, contributing no score or positions so a
// negated term never influences ranking, only eligibility.
type NegatedEngine struct {
	Inner Engine
}

func (e *NegatedEngine) Score(text string) (Result, bool) {
	_, ok := e.Inner.Score(text)
	if ok {
		return Result{}, false
	}
	return Result{}, true
}
