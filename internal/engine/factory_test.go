package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/gofzy/internal/query"
)

func TestFactory_Build_EmptyQueryProducesDisabledEngine(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "   ", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.(DisabledEngine)
	assert.True(t, ok)
}

func TestFactory_Build_PlainFuzzyQuery(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "abc", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("xaxbxcx")
	assert.True(t, ok)
}

func TestFactory_Build_MultiTermIsAnAndOfFuzzyTerms(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "foo bar", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("foobar.go")
	assert.True(t, ok)

	_, ok = e.Score("foo-only.go")
	assert.False(t, ok)
}

func TestFactory_Build_SingleQuotePrefixForcesExactTerm(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "'foo", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	// "fgoo" is a fuzzy match for "foo" but not an exact substring
	_, ok := e.Score("fgoo")
	assert.False(t, ok)

	_, ok = e.Score("xfoox")
	assert.True(t, ok)
}

func TestFactory_Build_CaretPrefixAnchorsAtStart(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "^foo", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("foobar")
	assert.True(t, ok)
	_, ok = e.Score("xfoobar")
	assert.False(t, ok)
}

func TestFactory_Build_DollarSuffixAnchorsAtEnd(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "bar$", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("foobar")
	assert.True(t, ok)
	_, ok = e.Score("barfoo")
	assert.False(t, ok)
}

func TestFactory_Build_BangPrefixNegatesTerm(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "!bar", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("foobaz")
	assert.True(t, ok)
	_, ok = e.Score("foobar")
	assert.False(t, ok)
}

func TestFactory_Build_PipeWithinTermIsOr(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "'foo|'baz", Mode: query.ModeFuzzy})
	require.NoError(t, err)

	_, ok := e.Score("has foo in it")
	assert.True(t, ok)
	_, ok = e.Score("has baz in it")
	assert.True(t, ok)
	_, ok = e.Score("has neither")
	assert.False(t, ok)
}

func TestFactory_Build_RegexModeCompilesPattern(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: `\d+`, Mode: query.ModeRegex})
	require.NoError(t, err)

	_, ok := e.Score("item-42")
	assert.True(t, ok)
}

func TestFactory_Build_RegexModeInvalidPatternReturnsError(t *testing.T) {
	f := NewFactory(false)

	_, err := f.Build(query.Query{Text: `(unclosed`, Mode: query.ModeRegex})
	assert.Error(t, err)
}

func TestFactory_Build_ExactModeWholeTextIsOneSubstring(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "foo bar", Mode: query.ModeExact})
	require.NoError(t, err)

	_, ok := e.Score("xxfoo barxx")
	assert.True(t, ok)
	_, ok = e.Score("foo-bar")
	assert.False(t, ok)
}

func TestFactory_Build_SmartCaseRespectsUppercaseInPattern(t *testing.T) {
	f := NewFactory(false)

	e, err := f.Build(query.Query{Text: "Foo", Mode: query.ModeFuzzy, Case: query.CaseSmart})
	require.NoError(t, err)

	_, ok := e.Score("foo")
	assert.False(t, ok)
	_, ok = e.Score("Foo")
	assert.True(t, ok)
}
