package action

import (
	"fmt"
	"strings"
)

// ParseChain parses a '+'-separated binding spec such as
// "down+toggle+down" or `execute(open {})+abort` into an ordered
// Action chain. A '+' inside a parenthesized argument does not split
// the chain: it belongs to the argument (or, for if-non-matched and
// if-query-empty, to the nested chain).
func ParseChain(spec string) ([]Action, error) {
	tokens, err := splitTopLevel(spec, '+')
	if err != nil {
		return nil, err
	}
	chain := make([]Action, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		a, err := parseOne(tok)
		if err != nil {
			return nil, err
		}
		chain = append(chain, a)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("action: empty chain in %q", spec)
	}
	return chain, nil
}

func parseOne(tok string) (Action, error) {
	name, arg, hasArg, err := splitNameArg(tok)
	if err != nil {
		return Action{}, err
	}
	kind := Kind(name)

	switch {
	case chainArgKinds[kind]:
		if !hasArg {
			return Action{}, fmt.Errorf("action: %s requires a (chain) argument", name)
		}
		nested, err := ParseChain(arg)
		if err != nil {
			return Action{}, fmt.Errorf("action: %s: %w", name, err)
		}
		return Action{Kind: kind, Chain: nested}, nil

	case stringArgKinds[kind]:
		return Action{Kind: kind, Arg: arg}, nil

	default:
		if hasArg {
			return Action{}, fmt.Errorf("action: %s does not take an argument", name)
		}
		if !known(kind) {
			return Action{}, fmt.Errorf("action: unknown action %q", name)
		}
		return Action{Kind: kind}, nil
	}
}

// splitNameArg splits "name(arg)" into ("name", "arg", true) or a bare
// "name" into ("name", "", false).
func splitNameArg(tok string) (name, arg string, hasArg bool, err error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 {
		return tok, "", false, nil
	}
	if !strings.HasSuffix(tok, ")") {
		return "", "", false, fmt.Errorf("action: unterminated argument in %q", tok)
	}
	return tok[:open], tok[open+1 : len(tok)-1], true, nil
}

// splitTopLevel splits s on sep, ignoring occurrences of sep that are
// nested inside parentheses.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("action: unbalanced ')' in %q", s)
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("action: unbalanced '(' in %q", s)
	}
	parts = append(parts, s[start:])
	return parts, nil
}

func known(k Kind) bool {
	_, ok := allKinds[k]
	return ok
}

var allKinds = func() map[Kind]bool {
	ks := []Kind{
		KindInsert, KindDeleteChar, KindDeleteCharForward, KindKillWord, KindKillLine,
		KindBeginningOfLine, KindEndOfLine, KindYank, KindBackwardWord, KindForwardWord, KindClearQuery,
		KindUp, KindDown, KindPageUp, KindPageDown, KindHalfPageUp, KindHalfPageDown, KindFirst, KindLast,
		KindToggle, KindToggleAll, KindSelectAll, KindDeselectAll, KindToggleIn, KindToggleOut,
		KindAccept, KindAcceptNonEmpty, KindAbort, KindIfNonMatched, KindIfQueryEmpty,
		KindTogglePreview, KindPreviewUp, KindPreviewDown, KindPreviewPage, KindToggleInteractive,
		KindRefreshPreview, KindReload, KindSetQuery, KindExecute, KindExecuteSilent,
		KindToggleSort, KindToggleRegex, KindToggleCase,
	}
	m := make(map[Kind]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}()
