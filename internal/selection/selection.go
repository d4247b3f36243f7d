// Package selection tracks cursor position and the multi-selected set
// of items. The set is keyed by stable item index, not by position in
// the current ranked view, so a view reorder (new keystroke, new
// matches) never silently drops a selection.
package selection

import (
	"regexp"
	"sort"
)

// PreSelect describes the startup pre-selection rules: any item whose
// raw text matches Pattern, whose stable index is below N, or whose
// stable index appears in List is selected the first time a ranked view
// is published.
type PreSelect struct {
	Pattern *regexp.Regexp
	N       int
	List    map[int]struct{}
}

// Selection holds one finder session's cursor and selected-item state.
type Selection struct {
	cursor     int
	selected   map[int]struct{}
	preApplied bool
	preSelect  PreSelect
}

// New returns an empty selection with the cursor at the top row.
func New() *Selection {
	return &Selection{selected: make(map[int]struct{})}
}

// SetPreSelect configures the startup pre-selection rule. Must be
// called before the first ApplyPreSelect.
func (s *Selection) SetPreSelect(p PreSelect) {
	s.preSelect = p
}

// ApplyPreSelect runs the configured pre-selection rule against every
// (stableIndex, rawText) pair in the pool, selecting matches. It is a
// no-op on every call after the first, regardless of how many times the
// ranked view has since been republished.
func (s *Selection) ApplyPreSelect(items func(yield func(stableIndex int, raw string) bool)) {
	if s.preApplied {
		return
	}
	s.preApplied = true

	items(func(idx int, raw string) bool {
		if s.preSelect.Pattern != nil && s.preSelect.Pattern.MatchString(raw) {
			s.Select(idx)
		}
		if s.preSelect.N > 0 && idx < s.preSelect.N {
			s.Select(idx)
		}
		if _, ok := s.preSelect.List[idx]; ok {
			s.Select(idx)
		}
		return true
	})
}

// Cursor returns the current cursor row (a position within the ranked
// view, not a stable item index).
func (s *Selection) Cursor() int { return s.cursor }

// SetCursor clamps row into [0, max(0, viewLen-1)] and moves the cursor
// there.
func (s *Selection) SetCursor(row, viewLen int) {
	if viewLen <= 0 {
		s.cursor = 0
		return
	}
	if row < 0 {
		row = 0
	}
	if row >= viewLen {
		row = viewLen - 1
	}
	s.cursor = row
}

// Move shifts the cursor by delta rows, clamped to the view bounds.
func (s *Selection) Move(delta, viewLen int) {
	s.SetCursor(s.cursor+delta, viewLen)
}

// MoveCycle shifts the cursor by delta rows, wrapping around the view
// bounds instead of clamping, for configurations with cycle navigation
// enabled.
func (s *Selection) MoveCycle(delta, viewLen int) {
	if viewLen <= 0 {
		s.cursor = 0
		return
	}
	next := (s.cursor + delta) % viewLen
	if next < 0 {
		next += viewLen
	}
	s.cursor = next
}

// SelectAll selects every stable index currently present in the ranked
// view.
func (s *Selection) SelectAll(stableIndices []int) {
	for _, idx := range stableIndices {
		s.Select(idx)
	}
}

// Toggle flips whether stableIndex is selected. Idempotent: toggling
// twice in a row returns to the original state.
func (s *Selection) Toggle(stableIndex int) {
	if _, ok := s.selected[stableIndex]; ok {
		delete(s.selected, stableIndex)
		return
	}
	s.selected[stableIndex] = struct{}{}
}

// Select marks stableIndex selected (a no-op if already selected).
func (s *Selection) Select(stableIndex int) {
	s.selected[stableIndex] = struct{}{}
}

// Deselect unmarks stableIndex (a no-op if not selected).
func (s *Selection) Deselect(stableIndex int) {
	delete(s.selected, stableIndex)
}

// IsSelected reports whether stableIndex is currently selected.
func (s *Selection) IsSelected(stableIndex int) bool {
	_, ok := s.selected[stableIndex]
	return ok
}

// Count returns the number of selected items.
func (s *Selection) Count() int { return len(s.selected) }

// Clear empties the selected set without moving the cursor.
func (s *Selection) Clear() {
	s.selected = make(map[int]struct{})
}

// Indices returns the selected stable indices in ascending order, the
// order submission and preview field expansion (`{+}`) use.
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.selected))
	for idx := range s.selected {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
