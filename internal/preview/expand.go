// Package preview manages the single live preview subprocess for the
// finder's focused item: it debounces focus-change churn the way the
// watcher package debounces filesystem events, expands the preview
// command template against the focused item (and the multi-selection),
// and streams the subprocess's output into a bounded buffer.
package preview

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Context carries everything a preview command template may reference.
type Context struct {
	Focus     string   // focused item's Preview text
	Query     string   // current query text
	Selected  []string // Preview text of every selected item, in stable-index order
	Index     int      // focused item's stable index
	Delimiter string   // field delimiter for {k}/{a..b}, empty = whitespace runs
}

// Expand substitutes {}, {q}, {+}, {n}, {k}, and {a..b} placeholders in
// template against ctx, shell-quoting each substituted value
// independently so a field containing spaces or shell metacharacters
// cannot break out of its placeholder.
func Expand(template string, ctx Context) string {
	var out strings.Builder
	for i := 0; i < len(template); {
		if template[i] != '{' {
			out.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			out.WriteString(template[i:])
			break
		}
		end += i
		placeholder := template[i+1 : end]
		out.WriteString(resolvePlaceholder(placeholder, ctx))
		i = end + 1
	}
	return out.String()
}

func resolvePlaceholder(placeholder string, ctx Context) string {
	switch {
	case placeholder == "":
		return quoteOne(ctx.Focus)
	case placeholder == "q":
		return quoteOne(ctx.Query)
	case placeholder == "+":
		if len(ctx.Selected) == 0 {
			return quoteOne(ctx.Focus)
		}
		return quoteAll(ctx.Selected)
	case placeholder == "n":
		return strconv.Itoa(ctx.Index)
	default:
		return expandFieldPlaceholder(placeholder, ctx)
	}
}

// expandFieldPlaceholder handles {k} and {a..b} against ctx.Focus split
// on ctx.Delimiter, falling back to returning the placeholder text
// unexpanded (wrapped in braces) when it names neither a field nor a
// range, matching the teacher's "surface, don't crash" error posture.
func expandFieldPlaceholder(placeholder string, ctx Context) string {
	fields := splitFields(ctx.Focus, ctx.Delimiter)

	if idx := strings.Index(placeholder, ".."); idx >= 0 {
		startStr, endStr := placeholder[:idx], placeholder[idx+2:]
		start, err1 := strconv.Atoi(startStr)
		end := len(fields)
		var err2 error
		if endStr != "" {
			end, err2 = strconv.Atoi(endStr)
		}
		if err1 != nil || err2 != nil {
			return "{" + placeholder + "}"
		}
		start = clampFieldIndex(start, len(fields))
		end = clampFieldIndex(end, len(fields))
		if start > end || len(fields) == 0 {
			return ""
		}
		return quoteOne(strings.Join(fields[start-1:end], sepFor(ctx.Delimiter)))
	}

	n, err := strconv.Atoi(placeholder)
	if err != nil {
		return "{" + placeholder + "}"
	}
	n = clampFieldIndex(n, len(fields))
	if len(fields) == 0 {
		return ""
	}
	return quoteOne(fields[n-1])
}

func splitFields(text, delimiter string) []string {
	if delimiter == "" {
		return strings.Fields(text)
	}
	return strings.Split(text, delimiter)
}

func sepFor(delimiter string) string {
	if delimiter == "" {
		return " "
	}
	return delimiter
}

func clampFieldIndex(n, total int) int {
	if n < 0 {
		n = total + n + 1
	}
	if n < 1 {
		n = 1
	}
	if total > 0 && n > total {
		n = total
	}
	return n
}

func quoteOne(s string) string {
	return shellquote.Join(s)
}

func quoteAll(items []string) string {
	return shellquote.Join(items...)
}
