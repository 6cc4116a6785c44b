package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lanefield/memostack/pkg/memo"
)

// View renders the entire TUI interface.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.buildTabBar())

	switch m.activeTab {
	case tabHot:
		sections = append(sections, m.buildInputBox(), m.buildHotHeader())
		sections = append(sections, m.buildMemoList())
		if spot := m.buildSpotlight(); spot != "" {
			sections = append(sections, spot)
		}
	case tabCold, tabDone:
		if bar := m.buildSearchBar(); bar != "" {
			sections = append(sections, bar)
		}
		sections = append(sections, m.buildMemoList())
	default:
		sections = append(sections, m.buildMemoList())
	}

	if toast := m.buildToast(); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, m.buildStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildTabBar renders the four tabs with their memo counts.
func (m *model) buildTabBar() string {
	var tabs []string
	for t := tabHot; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s (%d)", int(t)+1, t.label(), m.mgr.Count(t.status()))
		if t == m.activeTab {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// buildInputBox renders the new-memo input on the hot tab.
func (m *model) buildInputBox() string {
	style := inputBoxBlurredStyle
	if m.focus == focusInput || m.focus == focusDelay {
		style = inputBoxStyle
	}
	box := style.Width(m.width - 4).Render(m.input.View())
	if m.focus == focusDelay {
		box = lipgloss.JoinVertical(lipgloss.Left, box, delayedStyle.Render(m.delay.View()))
	}
	return box
}

// buildHotHeader shows how full the hot stack is.
func (m *model) buildHotHeader() string {
	return sectionStyle.Render(fmt.Sprintf("  Hot stack: %d/%d", m.mgr.HotCount(), m.mgr.HotCapacity()))
}

// buildSearchBar renders the filter box on the cold and done tabs.
func (m *model) buildSearchBar() string {
	if m.focus == focusSearch {
		return searchStyle.Render(m.search.View())
	}
	if q := m.queries[m.activeTab]; q != "" {
		return searchStyle.Render(fmt.Sprintf("/ %s (esc to clear)", q))
	}
	return ""
}

// buildMemoList renders the active tab's memos, scrolled so the selection
// stays visible.
func (m *model) buildMemoList() string {
	memos := m.visibleMemos()
	if len(memos) == 0 {
		return metaStyle.Render(m.emptyMessage())
	}

	selected := m.selected[m.activeTab]
	if selected >= len(memos) {
		selected = len(memos) - 1
	}

	start, end := m.listWindow(len(memos), selected)

	var rows []string
	if start > 0 {
		rows = append(rows, metaStyle.Render(fmt.Sprintf("... %d more above", start)))
	}
	now := time.Now()
	for i := start; i < end; i++ {
		rows = append(rows, m.buildMemoRow(memos[i], i == selected && m.focus == focusList, now))
	}
	if end < len(memos) {
		rows = append(rows, metaStyle.Render(fmt.Sprintf("... %d more below", len(memos)-end)))
	}

	return strings.Join(rows, "\n")
}

func (m *model) emptyMessage() string {
	if m.queries[m.activeTab] != "" {
		return "No memos match the search."
	}
	switch m.activeTab {
	case tabCold:
		return "Nothing in cold storage."
	case tabDone:
		return "Nothing finished yet."
	case tabDelayed:
		return "No delayed memos."
	default:
		return "No hot memos. Type above and press Ctrl+S."
	}
}

// listWindow picks the slice of rows to draw so the selection is always
// inside the viewport.
func (m *model) listWindow(total, selected int) (int, int) {
	visible := m.listHeight()
	if visible <= 0 || total <= visible {
		return 0, total
	}
	start := selected - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > total {
		start = total - visible
	}
	return start, start + visible
}

// listHeight estimates how many memo rows fit below the chrome.
func (m *model) listHeight() int {
	used := 4 // tab bar, status bar, padding
	if m.activeTab == tabHot {
		used += 7 // input box, hot header, spotlight
	} else {
		used += 1 // search bar
	}
	h := m.height - used
	if h < 3 {
		h = 3
	}
	return h
}

// buildMemoRow renders one memo: marker, title, metadata and, when the
// memo is expanded, its body.
func (m *model) buildMemoRow(mm *memo.Memo, selected bool, now time.Time) string {
	marker := "  "
	if mm.HasBody() {
		marker = "▸ "
		if mm.Expanded {
			marker = "▾ "
		}
	}

	style := titleStyle
	if selected {
		style = selectedTitleStyle
	}
	prefix := "  "
	if selected {
		prefix = "> "
	}

	title := style.Render(truncate(mm.Title, m.width-10))
	row := prefix + marker + title + "  " + metaStyle.UnsetPaddingLeft().Render(m.rowMeta(mm, now))

	if mm.Expanded && mm.HasBody() {
		row += "\n" + bodyStyle.Render(mm.Body)
	}
	return row
}

// rowMeta renders the per-tab metadata column.
func (m *model) rowMeta(mm *memo.Memo, now time.Time) string {
	switch mm.Status {
	case memo.StatusDone:
		if mm.DoneAt != nil {
			return formatTimestamp(*mm.DoneAt)
		}
		return formatTimestamp(mm.CreatedAt)
	case memo.StatusDelayed:
		remaining := formatRemaining(mm.PromoteAt(), now)
		if remaining == "ready" {
			return readyStyle.Render("ready")
		}
		return delayedStyle.Render("in " + remaining)
	default:
		return formatTimestamp(mm.CreatedAt)
	}
}

// buildSpotlight renders the rotating cold memo panel on the hot tab.
func (m *model) buildSpotlight() string {
	if m.spotlight == nil {
		return ""
	}
	header := sectionStyle.Render("Cold spotlight") + "  " +
		statusBarStyle.Render("s: promote  S: expand")
	body := titleStyle.Render(truncate(m.spotlight.Title, m.width-10))
	if m.spotlight.Expanded && m.spotlight.HasBody() {
		body += "\n" + m.spotlight.Body
	}
	return spotlightBoxStyle.Width(m.width - 4).Render(header + "\n" + body)
}

// buildToast renders the transient feedback box, if one is active.
func (m *model) buildToast() string {
	if !m.toast.active || time.Now().After(m.toast.showUntil) {
		return ""
	}
	if m.toast.isError {
		return toastErrorStyle.Render(m.toast.message)
	}
	return toastStyle.Render(m.toast.message)
}

// buildStatusBar renders the key hints for the current focus and tab.
func (m *model) buildStatusBar() string {
	var hints string
	switch m.focus {
	case focusInput:
		hints = "Ctrl+S save • Ctrl+D delay • Tab indent • Esc list • Ctrl+C quit"
	case focusDelay:
		hints = "HH:MM then Enter • Esc cancel"
	case focusSearch:
		hints = "Type to filter • Enter keep • Esc clear"
	default:
		switch m.activeTab {
		case tabHot:
			hints = "i input • j/k move • Shift+↑ up • K top • Space expand • c cold • d done • e edit • y copy • x delete • Tab next • q quit"
		case tabCold:
			hints = "/ search • h hot • d done • e edit • y copy • x delete • Tab next • q quit"
		case tabDone:
			hints = "/ search • h hot • c cold • e edit • y copy • x delete • Tab next • q quit"
		default:
			hints = "h promote • c cold • e edit • y copy • x delete • Tab next • q quit"
		}
	}
	return statusBarStyle.Render(hints)
}
