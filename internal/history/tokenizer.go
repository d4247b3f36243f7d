package history

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRegex matches alphanumeric runs (including underscores for the
// initial split, before camelCase/snake_case splitting).
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// Tokenize splits a past selection's text into lowercase search terms.
// Selections are typically file paths or shell command lines, which
// share identifier conventions with source code (camelCase, snake_case,
// path segments separated by punctuation the regex above already treats
// as a boundary), so the same splitting rules apply unchanged.
func Tokenize(text string) []string {
	var tokens []string

	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, t := range splitIdentifier(word) {
			lower := strings.ToLower(t)
			if len(lower) >= 2 {
				tokens = append(tokens, lower)
			}
		}
	}

	return tokens
}

// splitIdentifier splits camelCase and snake_case identifiers.
func splitIdentifier(token string) []string {
	if strings.Contains(token, "_") {
		var result []string
		for _, part := range strings.Split(token, "_") {
			if part != "" {
				result = append(result, splitCamelCase(part)...)
			}
		}
		return result
	}
	return splitCamelCase(token)
}

// splitCamelCase splits camelCase and PascalCase identifiers, treating
// runs of uppercase letters as acronyms:
//
//	"getUserById" -> ["get", "User", "By", "Id"]
//	"HTTPHandler" -> ["HTTP", "Handler"]
func splitCamelCase(s string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevIsLower := unicode.IsLower(runes[i-1])
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevIsLower || nextIsLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// buildStopWordSet converts a stop word list into a lookup set.
func buildStopWordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// defaultStopWords filters shell-command filler words that carry no
// discriminating signal for "which past selection did the user mean."
var defaultStopWords = []string{"sudo", "the", "a", "an", "to", "of", "and"}
