// Package item defines the record type ingested from a producer and the
// append-only pool that owns it.
package item

// Segment is a run of display text sharing one set of ANSI attributes.
// Segments are produced by the reader's ANSI parser and drive rendering
// only; matching always operates on the plain-text form.
type Segment struct {
	Text  string
	Attrs Attrs
}

// Attrs captures the subset of SGR attributes the renderer understands.
type Attrs struct {
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
	FG        int // -1 = default
	BG        int // -1 = default
}

// DefaultAttrs returns the zero-value (no styling) attribute set.
func DefaultAttrs() Attrs {
	return Attrs{FG: -1, BG: -1}
}

// Item is one record ingested from the producer. It is immutable after
// publication: the pool is the sole writer, every other component holds a
// read-only reference whose lifetime never outlives the pool.
type Item struct {
	// Index is the stable, monotonically increasing, zero-based rank this
	// item was appended at. It never changes.
	Index int

	// Raw is the unmodified input line with only the record delimiter
	// stripped.
	Raw string

	// Display is Raw with ANSI escapes stripped (or retained verbatim when
	// no-strip-ansi is set); it is what the renderer shows absent a
	// segment list.
	Display string

	// Segments is the parsed ANSI attribute runs for Display, or nil if
	// ANSI parsing was disabled or the line carried no escapes.
	Segments []Segment

	// Match is the text the engine scores against. It equals Display
	// unless a field restriction (--nth) narrows it.
	Match string

	// Preview is the text used for preview command field expansion. The
	// reader sets it to Raw; no field restriction is applied to it.
	Preview string

	// Epoch is the reader-epoch this item was appended under. Stale
	// references (an Item captured before a pool Reset) carry an old
	// epoch and must be discarded by any consumer that checks epochs.
	Epoch uint64
}

// Len returns the number of characters (runes) in the match text. Cheap
// helper used by tie-break computation in the matcher.
func (it *Item) Len() int {
	n := 0
	for range it.Match {
		n++
	}
	return n
}
