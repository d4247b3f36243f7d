package tui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	if m.state == StateExiting {
		return ""
	}
	if m.state == StateLoading {
		return m.renderLoading()
	}

	var b strings.Builder
	b.WriteString(m.renderQueryLine())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	listHeight := m.height - 3
	if m.previewVisible && m.prev != nil {
		listHeight = listHeight * 6 / 10
	}
	if listHeight < 1 {
		listHeight = 1
	}
	b.WriteString(m.renderList(listHeight))

	if m.previewVisible && m.prev != nil {
		b.WriteString("\n")
		b.WriteString(m.renderPreview(m.height - 3 - listHeight))
	}
	return b.String()
}

func (m *Model) renderLoading() string {
	return fmt.Sprintf("%s  loading... %d read\n", m.styles.Active.Render("›"), m.readerRead)
}

func (m *Model) renderQueryLine() string {
	prompt := "> "
	if m.state == StateInteractive {
		prompt = ": "
	}
	return m.styles.Query.Render(prompt + string(m.queryText))
}

func (m *Model) renderStatusLine() string {
	if m.statusErr && m.status != "" {
		return m.styles.Error.Render(m.status)
	}
	caseLabel := m.caseMode.String()
	mode := "fuzzy"
	if m.regexMode {
		mode = "regex"
	}
	line := fmt.Sprintf("%d/%d  case:%s  mode:%s", m.view.Len(), m.readerRead, caseLabel, mode)
	if m.sel.Count() > 0 {
		line += fmt.Sprintf("  (%d selected)", m.sel.Count())
	}
	if !m.readerDone {
		line += "  [reading]"
	}
	return m.styles.StatusBar.Render(line)
}

func (m *Model) renderList(height int) string {
	cursor := m.sel.Cursor()
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > m.view.Len() {
		end = m.view.Len()
	}

	var lines []string
	for row := start; row < end; row++ {
		lines = append(lines, m.renderRow(row, row == cursor))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(row int, focused bool) string {
	r := m.view.Results[row]
	it := m.pool.Get(r.Index)

	marker := "  "
	if m.sel.IsSelected(r.Index) {
		marker = m.styles.Selected.Render("> ")
	}

	text := m.highlightPositions(it.Display, r.Positions)
	line := marker + text
	if focused {
		return m.styles.Cursor.Render(line)
	}
	return line
}

// highlightPositions wraps the runes at positions (rune indices from
// scoring the Match text, which equals Display unless --nth narrows it)
// with the match-highlight style.
func (m *Model) highlightPositions(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(m.styles.MatchHighlight.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) renderPreview(height int) string {
	if height < 1 {
		height = 1
	}
	text := m.previewText
	if m.previewErr != nil {
		text = m.previewErr.Error()
	}
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return m.styles.PreviewBorder.Render(strings.Join(lines, "\n"))
}
