package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lanefield/memostack/pkg/config"
	"github.com/lanefield/memostack/pkg/logging"
	"github.com/lanefield/memostack/pkg/memo"
)

// tab identifies one of the four memo views.
type tab int

const (
	tabHot tab = iota
	tabCold
	tabDone
	tabDelayed
	tabCount
)

func (t tab) status() memo.Status {
	switch t {
	case tabCold:
		return memo.StatusCold
	case tabDone:
		return memo.StatusDone
	case tabDelayed:
		return memo.StatusDelayed
	default:
		return memo.StatusHot
	}
}

func (t tab) label() string {
	switch t {
	case tabCold:
		return "Cold"
	case tabDone:
		return "Done"
	case tabDelayed:
		return "Delayed"
	default:
		return "Hot"
	}
}

// focusArea tracks which component receives keyboard input.
type focusArea int

const (
	focusList focusArea = iota
	focusInput
	focusSearch
	focusDelay
)

// tickMsg drives the spotlight rotation, delayed countdowns and toast
// expiry. Sent once per second.
type tickMsg time.Time

// toastNotification is a temporary feedback message rendered above the
// status bar.
type toastNotification struct {
	active    bool
	message   string
	isError   bool
	showUntil time.Time
}

// model is the Bubble Tea state for the whole application.
type model struct {
	cfg    *config.Config
	mgr    *memo.Manager
	logger *logging.Logger

	// Components
	input  textarea.Model  // new memo input, hot tab
	search textinput.Model // cold/done search box
	delay  textinput.Model // HH:MM delay prompt

	// UI state
	activeTab tab
	focus     focusArea
	selected  [tabCount]int    // per-tab selection index
	queries   [tabCount]string // per-tab search query (cold/done only)
	toast     toastNotification

	// Cold spotlight
	spotlight     *memo.Memo
	lastSpotlight time.Time

	// Two-press delete confirmation
	pendingDeleteID string

	// Window dimensions
	width  int
	height int
	ready  bool
}

func newModel(mgr *memo.Manager, cfg *config.Config, logger *logging.Logger) model {
	input := textarea.New()
	input.Placeholder = "Capture a memo... (first line becomes the title)"
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.Focus()

	search := textinput.New()
	search.Placeholder = "search..."
	search.Prompt = "/ "

	delay := textinput.New()
	delay.Placeholder = "HH:MM"
	delay.Prompt = "Delay: "
	delay.CharLimit = 5

	return model{
		cfg:    cfg,
		mgr:    mgr,
		logger: logger,
		input:  input,
		search: search,
		delay:  delay,
		focus:  focusInput,
	}
}

// Init starts the cursor blink and the once-per-second tick.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// showToast displays transient feedback above the status bar.
func (m *model) showToast(message string, isError bool) {
	m.toast = toastNotification{
		active:    true,
		message:   message,
		isError:   isError,
		showUntil: time.Now().Add(3 * time.Second),
	}
}

// visibleMemos returns the memos shown on the active tab, with the tab's
// search query applied.
func (m *model) visibleMemos() []*memo.Memo {
	return m.mgr.Search(m.activeTab.status(), m.queries[m.activeTab])
}

// selectedMemo returns the currently selected memo, or nil when the tab
// is empty.
func (m *model) selectedMemo() *memo.Memo {
	memos := m.visibleMemos()
	if len(memos) == 0 {
		return nil
	}
	i := m.selected[m.activeTab]
	if i >= len(memos) {
		i = len(memos) - 1
	}
	if i < 0 {
		i = 0
	}
	return memos[i]
}

// clampSelection keeps the selection index valid after the list changes.
func (m *model) clampSelection() {
	n := len(m.visibleMemos())
	i := &m.selected[m.activeTab]
	if *i >= n {
		*i = n - 1
	}
	if *i < 0 {
		*i = 0
	}
}

// refreshSpotlight rotates the cold spotlight when the configured interval
// has elapsed. Rotation is held while the current spotlight is expanded if
// the config says so, and the spotlight is dropped the moment its memo
// stops being cold.
func (m *model) refreshSpotlight(now time.Time) {
	if m.cfg.ColdSpotlightIntervalSeconds <= 0 {
		m.spotlight = nil
		return
	}

	// Deleted memos keep their stale status, so resolve by ID too.
	if m.spotlight != nil {
		cur, err := m.mgr.Get(m.spotlight.ID)
		if err != nil || cur.Status != memo.StatusCold {
			m.spotlight = nil
		}
	}

	interval := time.Duration(m.cfg.ColdSpotlightIntervalSeconds) * time.Second
	if !m.lastSpotlight.IsZero() && now.Sub(m.lastSpotlight) < interval {
		return
	}
	if m.cfg.PauseSpotlightWhenExpanded && m.spotlight != nil && m.spotlight.Expanded {
		return
	}

	m.spotlight = m.mgr.Spotlight()
	m.lastSpotlight = now
}
