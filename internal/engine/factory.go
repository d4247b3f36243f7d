package engine

import (
	"strings"

	"github.com/Aman-CERP/gofzy/internal/query"
)

// Factory builds an Engine tree from query text according to the
// configured default algorithm, case policy, and normalization setting.
// It is stateless and safe for concurrent use: each call to Build is
// independent and only reads its arguments.
type Factory struct {
	Normalize bool
}

// NewFactory returns a factory that folds diacritics when normalize is
// true.
func NewFactory(normalize bool) *Factory {
	return &Factory{Normalize: normalize}
}

// Build parses q.Text into an engine tree. An empty (after trimming)
// query text always produces the disabled engine, regardless of q.Mode.
// A regex compile error is returned to the caller rather than silently
// downgrading, so the caller can surface it on the status line per the
// error-handling design; the factory itself never falls back silently.
func (f *Factory) Build(q query.Query) (Engine, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" || q.Mode == query.ModeDisabled {
		return DisabledEngine{}, nil
	}

	caseSensitive := resolveCaseSensitive(q.Text, q.Case)

	if q.Mode == query.ModeRegex || q.RegexMode {
		return NewRegexEngine(text, caseSensitive)
	}
	if q.Mode == query.ModeExact {
		return NewExactEngine(text, caseSensitive, AnchorNone), nil
	}

	// Fuzzy mode additionally supports the extended AND/OR/anchor/negate
	// grammar: space-separated terms are AND'd, each term's `|`-separated
	// alternatives are OR'd, and a leading `'`/`^`/trailing `$`/leading
	// `!` select a sub-engine or negate it.
	return f.buildExtended(text, caseSensitive)
}

func (f *Factory) buildExtended(text string, caseSensitive bool) (Engine, error) {
	// Terms are split on whitespace only; the `'` prefix below is a
	// per-term marker, not a quote character that groups words, so no
	// shell-style quoting is applied here.
	tokens := strings.Fields(text)

	and := &AndEngine{Terms: make([]Engine, 0, len(tokens))}
	for _, tok := range tokens {
		term, err := f.buildTerm(tok, caseSensitive)
		if err != nil {
			return nil, err
		}
		and.Terms = append(and.Terms, term)
	}
	if len(and.Terms) == 1 {
		return and.Terms[0], nil
	}
	return and, nil
}

func (f *Factory) buildTerm(tok string, caseSensitive bool) (Engine, error) {
	negate := strings.HasPrefix(tok, "!")
	if negate {
		tok = tok[1:]
	}

	alts := strings.Split(tok, "|")
	engines := make([]Engine, 0, len(alts))
	for _, alt := range alts {
		if alt == "" {
			continue
		}
		eng, err := f.buildAtom(alt, caseSensitive)
		if err != nil {
			return nil, err
		}
		engines = append(engines, eng)
	}

	var result Engine
	switch len(engines) {
	case 0:
		result = DisabledEngine{}
	case 1:
		result = engines[0]
	default:
		result = &OrEngine{Alternatives: engines}
	}

	if negate {
		result = &NegatedEngine{Inner: result}
	}
	return result, nil
}

// buildAtom builds the engine for one `|`-alternative, honoring its
// `'`/`^`/`$` prefix or suffix.
func (f *Factory) buildAtom(atom string, caseSensitive bool) (Engine, error) {
	switch {
	case strings.HasPrefix(atom, "'"):
		return NewExactEngine(atom[1:], caseSensitive, AnchorNone), nil
	case strings.HasPrefix(atom, "^"):
		return NewExactEngine(atom[1:], caseSensitive, AnchorStart), nil
	case strings.HasSuffix(atom, "$") && len(atom) > 1:
		return NewExactEngine(atom[:len(atom)-1], caseSensitive, AnchorEnd), nil
	default:
		return NewFuzzyEngine(atom, caseSensitive, f.Normalize), nil
	}
}
