package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyEngine_Score_RequiresOrderedSubsequence(t *testing.T) {
	// Given: a fuzzy engine for "fbr"
	e := NewFuzzyEngine("fbr", true, false)

	// When/Then: "foo/bar.go" contains f, b, r in order
	r, ok := e.Score("foo/bar.go")
	require.True(t, ok)
	assert.Greater(t, r.Score, int32(0))

	// When/Then: "rab/oof.go" does not have f before b then r in order
	// for the pattern fbr (its only f comes after b and r)
	_, ok = e.Score("rab/oof.go")
	assert.False(t, ok)
}

func TestFuzzyEngine_Score_RewardsWordBoundaryStart(t *testing.T) {
	// Given: a query matching the start of a path segment in one case
	// and a mid-word occurrence in another
	e := NewFuzzyEngine("bar", true, false)

	boundary, ok := e.Score("foo/bar")
	require.True(t, ok)

	midword, ok := e.Score("foobarbaz")
	require.True(t, ok)

	// Then: the boundary-starting match scores higher
	assert.Greater(t, boundary.Score, midword.Score)
}

func TestFuzzyEngine_Score_CaseInsensitiveWhenConfigured(t *testing.T) {
	e := NewFuzzyEngine("ABC", false, false)

	r, ok := e.Score("xabcx")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, r.Positions)
}

func TestFuzzyEngine_Score_EmptyPatternMatchesEverything(t *testing.T) {
	e := NewFuzzyEngine("", true, false)

	r, ok := e.Score("anything")
	require.True(t, ok)
	assert.Equal(t, int32(0), r.Score)
}

func TestFuzzyEngine_Score_NoMatchWhenHaystackShorterThanPattern(t *testing.T) {
	e := NewFuzzyEngine("abcdef", true, false)

	_, ok := e.Score("ab")
	assert.False(t, ok)
}

func TestFuzzyEngine_Score_NormalizeFoldsDiacritics(t *testing.T) {
	e := NewFuzzyEngine("cafe", true, true)

	r, ok := e.Score("café")
	require.True(t, ok)
	assert.Len(t, r.Positions, 4)
}
