package reader

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Aman-CERP/gofzy/internal/item"
)

// decodeANSI turns one raw record into its display text and, when
// parseSegments is true, the list of (text, attrs) runs the renderer
// needs to reproduce the record's original styling. When parseSegments
// is false, escapes are stripped unless noStrip keeps them verbatim in
// Display (matching is always against plain text regardless).
func decodeANSI(line string, parseSegments, noStrip bool) (string, []item.Segment) {
	if !parseSegments {
		if noStrip {
			return line, nil
		}
		return ansi.Strip(line), nil
	}
	return parseSGRSegments(line)
}

// parseSGRSegments walks line byte-by-byte, tracking the active SGR
// attribute state across CSI "m" sequences and accumulating plain-text
// runs between them into Segments. Non-SGR CSI sequences are dropped
// without emitting a segment break; other escape sequences (OSC
// included) are not recognised and stay in the text as literal bytes.
func parseSGRSegments(line string) (string, []item.Segment) {
	var display strings.Builder
	var segments []item.Segment
	attrs := item.DefaultAttrs()
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		segments = append(segments, item.Segment{Text: run.String(), Attrs: attrs})
		run.Reset()
	}

	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] == 0x1b && i+1 < len(b) && b[i+1] == '[' {
			j := i + 2
			for j < len(b) && !isCSIFinal(b[j]) {
				j++
			}
			if j < len(b) && b[j] == 'm' {
				params := string(b[i+2 : j])
				next := applySGR(attrs, params)
				if next != attrs {
					flush()
					attrs = next
				}
				i = j + 1
				continue
			}
			if j < len(b) {
				// Non-SGR CSI sequence (cursor motion, etc.): drop it,
				// it carries no text for the finder to render.
				i = j + 1
				continue
			}
			// Unterminated sequence at end of line: stop parsing it as
			// a sequence and fall through to treat byte literally.
		}
		r, size := decodeRune(b[i:])
		run.WriteString(string(r))
		display.WriteString(string(r))
		i += size
	}
	flush()
	return display.String(), segments
}

func isCSIFinal(b byte) bool { return b >= 0x40 && b <= 0x7e }

// decodeRune decodes one UTF-8 rune (or one raw byte if invalid),
// keeping matching byte-safe the way the spec requires for malformed
// input.
func decodeRune(b []byte) (rune, int) {
	for size := 1; size <= 4 && size <= len(b); size++ {
		s := string(b[:size])
		if r := []rune(s); len(r) == 1 && r[0] != '�' {
			return r[0], size
		}
	}
	return rune(b[0]), 1
}

// applySGR folds the ;-separated SGR parameter codes in params into
// base, returning the updated attribute set. Unknown codes are ignored.
func applySGR(base item.Attrs, params string) item.Attrs {
	if params == "" {
		params = "0"
	}
	codes := strings.Split(params, ";")
	for idx := 0; idx < len(codes); idx++ {
		n, err := strconv.Atoi(codes[idx])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			base = item.DefaultAttrs()
		case n == 1:
			base.Bold = true
		case n == 3:
			base.Italic = true
		case n == 4:
			base.Underline = true
		case n == 7:
			base.Reverse = true
		case n == 22:
			base.Bold = false
		case n == 23:
			base.Italic = false
		case n == 24:
			base.Underline = false
		case n == 27:
			base.Reverse = false
		case n >= 30 && n <= 37:
			base.FG = n - 30
		case n == 39:
			base.FG = -1
		case n >= 40 && n <= 47:
			base.BG = n - 40
		case n == 49:
			base.BG = -1
		case n >= 90 && n <= 97:
			base.FG = n - 90 + 8
		case n >= 100 && n <= 107:
			base.BG = n - 100 + 8
		case n == 38 && idx+2 < len(codes) && codes[idx+1] == "5":
			if v, err := strconv.Atoi(codes[idx+2]); err == nil {
				base.FG = v
			}
			idx += 2
		case n == 48 && idx+2 < len(codes) && codes[idx+1] == "5":
			if v, err := strconv.Atoi(codes[idx+2]); err == nil {
				base.BG = v
			}
			idx += 2
		}
	}
	return base
}
