package reader

import (
	"strconv"
	"strings"

	"github.com/Aman-CERP/gofzy/internal/query"
)

// extractField narrows text to the fields named by restriction, joined
// back together with a single space (or with Delimiter when one is set)
// — mirroring --nth: the restriction
// changes what is matched, never what is displayed or previewed.
func extractField(text string, restriction query.FieldRestriction) string {
	if len(restriction.Ranges) == 0 {
		return text
	}

	var fields []string
	if restriction.Delimiter == "" {
		fields = strings.Fields(text)
	} else {
		fields = strings.Split(text, restriction.Delimiter)
	}
	if len(fields) == 0 {
		return text
	}

	var out []string
	for _, rg := range restriction.Ranges {
		start, end := rg.Start, rg.End
		if end == 0 {
			end = len(fields)
		}
		start = clampField(start, len(fields))
		end = clampField(end, len(fields))
		if start > end {
			continue
		}
		out = append(out, fields[start-1:end]...)
	}
	if restriction.Delimiter == "" {
		return strings.Join(out, " ")
	}
	return strings.Join(out, restriction.Delimiter)
}

// clampField clamps a 1-based field index into [1, n], treating negative
// indices as counting back from the last field (-1 is the last field),
// the way --nth's N.. ranges are documented to behave.
func clampField(n, total int) int {
	if n < 0 {
		n = total + n + 1
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	return n
}

// ParseFieldSpec parses a comma-separated --nth spec such as "1,3..5,-1"
// into a FieldRestriction's Ranges, for the cmd layer that turns CLI
// flags into a query.FieldRestriction.
func ParseFieldSpec(spec string) []query.FieldRange {
	return parseFieldSpec(spec)
}

// parseFieldSpec parses a comma-separated --nth spec such as "1,3..5,-1"
// into a FieldRestriction's Ranges.
func parseFieldSpec(spec string) []query.FieldRange {
	var ranges []query.FieldRange
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if idx := strings.Index(tok, ".."); idx >= 0 {
			startStr, endStr := tok[:idx], tok[idx+2:]
			start, _ := strconv.Atoi(startStr)
			end := 0
			if endStr != "" {
				end, _ = strconv.Atoi(endStr)
			}
			ranges = append(ranges, query.FieldRange{Start: start, End: end})
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		ranges = append(ranges, query.FieldRange{Start: n, End: n})
	}
	return ranges
}
