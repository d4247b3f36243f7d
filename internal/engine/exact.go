package engine

import "strings"

// exactBaseScore is the constant ceiling exact matches score from;
// unanchored matches lose points for distance from the configured
// anchor, anchored matches (^, $) score it flat since there is only one
// valid position.
const exactBaseScore = 1000

// ExactAnchor controls where a substring match is required or scored
// from. AnchorNone scores every occurrence by distance to the start of
// text (the default, unprefixed exact term and the `'` prefix).
// AnchorStart/AnchorEnd require the match to begin at index 0 or end at
// the last rune respectively (the `^`/`$` prefixes).
type ExactAnchor int

const (
	AnchorNone ExactAnchor = iota
	AnchorStart
	AnchorEnd
)

// ExactEngine scores a literal substring match. For AnchorNone the score
// is exactBaseScore minus the distance of the match start from the start
// of text; anchored matches score exactBaseScore. Positions are the
// contiguous matched run.
type ExactEngine struct {
	pattern       string
	caseSensitive bool
	anchor        ExactAnchor
}

func NewExactEngine(pattern string, caseSensitive bool, anchor ExactAnchor) *ExactEngine {
	p := pattern
	if !caseSensitive {
		p = strings.ToLower(p)
	}
	return &ExactEngine{pattern: p, caseSensitive: caseSensitive, anchor: anchor}
}

func (e *ExactEngine) Score(text string) (Result, bool) {
	if e.pattern == "" {
		return Result{}, true
	}

	cmp := text
	if !e.caseSensitive {
		cmp = strings.ToLower(cmp)
	}
	runeLen := len([]rune(e.pattern))
	totalRunes := len([]rune(cmp))

	var runeStart int
	switch e.anchor {
	case AnchorStart:
		if !strings.HasPrefix(cmp, e.pattern) {
			return Result{}, false
		}
		runeStart = 0
	case AnchorEnd:
		if !strings.HasSuffix(cmp, e.pattern) {
			return Result{}, false
		}
		runeStart = totalRunes - runeLen
	default:
		idx := strings.Index(cmp, e.pattern)
		if idx < 0 {
			return Result{}, false
		}
		runeStart = len([]rune(cmp[:idx]))
	}

	score := int32(exactBaseScore)
	if e.anchor == AnchorNone {
		score -= int32(runeStart)
	}

	positions := make([]int, runeLen)
	for i := range positions {
		positions[i] = runeStart + i
	}
	return Result{Score: score, Positions: positions}, true
}
