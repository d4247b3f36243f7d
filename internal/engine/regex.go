package engine

import "regexp"

// regexScore is the constant score regex matches carry; regex mode has
// no notion of "better" match, only match/no-match.
const regexScore = 500

// RegexEngine compiles its pattern once per query generation and scores
// the span of the first non-empty match.
type RegexEngine struct {
	re *regexp.Regexp
}

// NewRegexEngine compiles pattern. A compile failure is reported by
// returning a nil engine and the error; the factory's Build passes that
// error on to its caller rather than substituting another engine.
func NewRegexEngine(pattern string, caseSensitive bool) (*RegexEngine, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexEngine{re: re}, nil
}

func (e *RegexEngine) Score(text string) (Result, bool) {
	loc := e.re.FindStringIndex(text)
	if loc == nil || loc[0] == loc[1] {
		return Result{}, false
	}

	start := len([]rune(text[:loc[0]]))
	end := len([]rune(text[:loc[1]]))
	positions := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		positions = append(positions, i)
	}
	return Result{Score: regexScore, Positions: positions}, true
}
