package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Aman-CERP/gofzy/internal/query"
)

// diacriticFolder strips combining marks after decomposing to NFD, so
// "café" and "cafe" compare equal. Positions reported to the caller are
// always translated back against the original (un-folded) text; folding
// only changes what is compared, never what is displayed.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics returns s with common Latin combining marks removed.
// On transform error (malformed input) it falls back to s unchanged
// rather than failing the match.
func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// resolveCaseSensitive implements the smart-case policy: CaseSmart is
// case-sensitive only when the pattern itself contains an uppercase rune.
func resolveCaseSensitive(pattern string, policy query.CasePolicy) bool {
	switch policy {
	case query.CaseRespect:
		return true
	case query.CaseIgnore:
		return false
	default: // CaseSmart
		return strings.IndexFunc(pattern, unicode.IsUpper) >= 0
	}
}
