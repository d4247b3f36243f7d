package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactEngine_Score_UnanchoredFindsSubstring(t *testing.T) {
	e := NewExactEngine("bar", true, AnchorNone)

	r, ok := e.Score("foobarbaz")
	require.True(t, ok)
	assert.Equal(t, []int{3, 4, 5}, r.Positions)
}

func TestExactEngine_Score_AnchorStartRequiresPrefix(t *testing.T) {
	e := NewExactEngine("foo", true, AnchorStart)

	_, ok := e.Score("foobar")
	assert.True(t, ok)

	_, ok = e.Score("xfoobar")
	assert.False(t, ok)
}

func TestExactEngine_Score_AnchorEndRequiresSuffix(t *testing.T) {
	e := NewExactEngine("baz", true, AnchorEnd)

	_, ok := e.Score("foobaz")
	assert.True(t, ok)

	_, ok = e.Score("bazfoo")
	assert.False(t, ok)
}

func TestExactEngine_Score_CloserToStartScoresHigher(t *testing.T) {
	e := NewExactEngine("x", true, AnchorNone)

	early, ok := e.Score("xabc")
	require.True(t, ok)
	late, ok := e.Score("abcx")
	require.True(t, ok)

	assert.Greater(t, early.Score, late.Score)
}
