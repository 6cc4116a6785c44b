package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lanefield/memostack/pkg/memo"
)

// Update is the main Bubble Tea event handler.
//
// Uses a pointer receiver so mutations survive across messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case tickMsg:
		m.refreshSpotlight(time.Time(msg))
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.input.SetWidth(msg.Width - 6)
	m.search.Width = msg.Width - 10
	m.ready = true
	return m, nil
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of focus.
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Any key other than a repeated delete press cancels the pending
	// delete confirmation.
	if m.pendingDeleteID != "" && msg.String() != "x" {
		m.pendingDeleteID = ""
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg)
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusDelay:
		return m.handleDelayKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleInputKey processes keys while the memo input is focused.
func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil

	case "ctrl+s":
		return m.submitMemo()

	case "ctrl+d":
		if strings.TrimSpace(m.input.Value()) == "" {
			m.showToast("Nothing to delay: the memo input is empty", true)
			return m, nil
		}
		m.focus = focusDelay
		m.input.Blur()
		m.delay.SetValue("")
		m.delay.Focus()
		return m, nil

	case "tab":
		// Tab indents inside the input instead of changing focus.
		m.input.InsertString(strings.Repeat(" ", m.cfg.TabSpaces))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitMemo creates a hot memo from the input text.
func (m *model) submitMemo() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	mm, err := m.mgr.Add(text)
	if err != nil {
		m.showToast(fmt.Sprintf("Could not add memo: %v", err), true)
		return m, nil
	}
	m.logger.Debugf("added memo %s", mm.ID)
	m.input.Reset()
	m.selected[tabHot] = 0
	m.showToast(fmt.Sprintf("Added %q to hot", mm.Title), false)
	return m, nil
}

// handleDelayKey processes the HH:MM delay prompt.
func (m *model) handleDelayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusInput
		m.delay.Blur()
		m.input.Focus()
		return m, nil

	case "enter":
		minutes, ok := parseDelay(m.delay.Value())
		if !ok || minutes == 0 {
			m.showToast("Delay must be HH:MM, at least one minute", true)
			return m, nil
		}
		mm, err := m.mgr.AddDelayed(m.input.Value(), minutes)
		if err != nil {
			m.showToast(fmt.Sprintf("Could not add memo: %v", err), true)
			return m, nil
		}
		m.logger.Debugf("added delayed memo %s (%dm)", mm.ID, minutes)
		m.input.Reset()
		m.delay.Blur()
		m.focus = focusInput
		m.input.Focus()
		m.showToast(fmt.Sprintf("Delayed %q for %s", mm.Title, formatMinutes(minutes)), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.delay, cmd = m.delay.Update(msg)
	return m, cmd
}

// handleSearchKey processes keys while the search box is focused.
func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Esc clears the filter entirely.
		m.queries[m.activeTab] = ""
		m.search.SetValue("")
		m.search.Blur()
		m.focus = focusList
		m.clampSelection()
		return m, nil

	case "enter":
		m.search.Blur()
		m.focus = focusList
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.queries[m.activeTab] = m.search.Value()
	m.clampSelection()
	return m, cmd
}

// handleListKey processes keys while the memo list has focus.
func (m *model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		m.clampSelection()
		return m, nil

	case "1", "2", "3", "4":
		m.activeTab = tab(int(msg.String()[0] - '1'))
		m.clampSelection()
		return m, nil

	case "i", "a":
		m.activeTab = tabHot
		m.focus = focusInput
		m.input.Focus()
		return m, nil

	case "/":
		if m.activeTab == tabCold || m.activeTab == tabDone {
			m.focus = focusSearch
			m.search.SetValue(m.queries[m.activeTab])
			m.search.Focus()
		}
		return m, nil

	case "up", "k":
		if m.selected[m.activeTab] > 0 {
			m.selected[m.activeTab]--
		}
		return m, nil

	case "down", "j":
		if m.selected[m.activeTab] < len(m.visibleMemos())-1 {
			m.selected[m.activeTab]++
		}
		return m, nil

	case "enter", " ":
		return m.toggleSelected()

	case "shift+up":
		return m.shiftSelectedUp()

	case "K":
		return m.moveSelectedToTop()

	case "c":
		return m.moveSelected(memo.StatusCold)

	case "h":
		return m.moveSelected(memo.StatusHot)

	case "d":
		return m.moveSelected(memo.StatusDone)

	case "e":
		return m.editSelected()

	case "y":
		return m.copySelected()

	case "x":
		return m.deleteSelected()

	case "s":
		return m.promoteSpotlight()

	case "S":
		return m.toggleSpotlight()
	}

	return m, nil
}

func (m *model) toggleSelected() (tea.Model, tea.Cmd) {
	sel := m.selectedMemo()
	if sel == nil || !sel.HasBody() {
		return m, nil
	}
	if err := m.mgr.ToggleExpanded(sel.ID); err != nil {
		m.showToast(err.Error(), true)
	}
	return m, nil
}

func (m *model) shiftSelectedUp() (tea.Model, tea.Cmd) {
	if m.activeTab != tabHot {
		return m, nil
	}
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}
	if err := m.mgr.ShiftUp(sel.ID); err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}
	if m.selected[tabHot] > 0 {
		m.selected[tabHot]--
	}
	return m, nil
}

func (m *model) moveSelectedToTop() (tea.Model, tea.Cmd) {
	if m.activeTab != tabHot {
		return m, nil
	}
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}
	if err := m.mgr.MoveToTop(sel.ID); err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}
	m.selected[tabHot] = 0
	return m, nil
}

// moveSelected transitions the selected memo to the given status.
func (m *model) moveSelected(target memo.Status) (tea.Model, tea.Cmd) {
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}
	if sel.Status == target {
		return m, nil
	}

	var err error
	switch target {
	case memo.StatusCold:
		err = m.mgr.MoveToCold(sel.ID)
	case memo.StatusDone:
		err = m.mgr.MoveToDone(sel.ID)
	case memo.StatusHot:
		err = m.mgr.MoveToHot(sel.ID)
	}
	if err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}

	m.logger.Debugf("moved memo %s to %s", sel.ID, target)
	m.clampSelection()
	m.showToast(fmt.Sprintf("Moved %q to %s", sel.Title, target), false)
	return m, nil
}

// editSelected deletes the memo and loads its text back into the input.
func (m *model) editSelected() (tea.Model, tea.Cmd) {
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}
	text, err := m.mgr.Replace(sel.ID)
	if err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}
	m.input.SetValue(text)
	m.activeTab = tabHot
	m.focus = focusInput
	m.input.Focus()
	m.clampSelection()
	return m, nil
}

func (m *model) copySelected() (tea.Model, tea.Cmd) {
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}
	if err := clipboard.WriteAll(sel.FullText()); err != nil {
		m.showToast(fmt.Sprintf("Clipboard unavailable: %v", err), true)
		return m, nil
	}
	m.showToast(fmt.Sprintf("Copied %q", sel.Title), false)
	return m, nil
}

// deleteSelected permanently deletes the selected memo; requires a second
// press of x to confirm.
func (m *model) deleteSelected() (tea.Model, tea.Cmd) {
	sel := m.selectedMemo()
	if sel == nil {
		return m, nil
	}

	if m.pendingDeleteID != sel.ID {
		m.pendingDeleteID = sel.ID
		m.showToast(fmt.Sprintf("Press x again to permanently delete %q", sel.Title), true)
		return m, nil
	}

	m.pendingDeleteID = ""
	if err := m.mgr.Delete(sel.ID); err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}
	m.logger.Debugf("deleted memo %s", sel.ID)
	m.clampSelection()
	m.showToast(fmt.Sprintf("Deleted %q", sel.Title), false)
	return m, nil
}

func (m *model) promoteSpotlight() (tea.Model, tea.Cmd) {
	if m.activeTab != tabHot || m.spotlight == nil {
		return m, nil
	}
	spot := m.spotlight
	if err := m.mgr.MoveToHot(spot.ID); err != nil {
		m.showToast(err.Error(), true)
		return m, nil
	}
	m.spotlight = nil
	m.showToast(fmt.Sprintf("Promoted %q to hot", spot.Title), false)
	return m, nil
}

func (m *model) toggleSpotlight() (tea.Model, tea.Cmd) {
	if m.activeTab != tabHot || m.spotlight == nil || !m.spotlight.HasBody() {
		return m, nil
	}
	if err := m.mgr.ToggleExpanded(m.spotlight.ID); err != nil {
		m.showToast(err.Error(), true)
	}
	return m, nil
}
