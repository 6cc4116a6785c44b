// Package memo implements the core memo model for memostack: short notes
// whose first line is the title, with a bounded "hot" working set and an
// unbounded cold archive.
package memo

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status describes which working set a memo currently belongs to.
type Status string

const (
	// StatusHot marks a memo in the active working set.
	StatusHot Status = "hot"

	// StatusCold marks an archived memo. Cold memos are never auto-deleted.
	StatusCold Status = "cold"

	// StatusDone marks a completed memo.
	StatusDone Status = "done"

	// StatusDelayed marks a memo parked until its delay elapses.
	StatusDelayed Status = "delayed"
)

// ParseStatus converts a stored status string into a Status.
// Unknown values fall back to StatusHot so a memo never becomes unreachable.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusHot, StatusCold, StatusDone, StatusDelayed:
		return Status(s)
	default:
		return StatusHot
	}
}

// ErrEmptyText is returned when memo text is empty or whitespace only.
var ErrEmptyText = errors.New("memo: text cannot be empty")

// ErrNotFound is returned when an operation references an unknown memo ID.
var ErrNotFound = errors.New("memo: not found")

// Memo is a single captured note. Title is always the first line of the
// original input text; Body holds the remaining lines.
type Memo struct {
	ID           string
	Title        string
	Body         string
	Status       Status
	CreatedAt    time.Time
	DoneAt       *time.Time // set when moved to done, cleared on return to hot
	DelayMinutes int        // 0 means no delay

	// Expanded is view state only and is never persisted.
	Expanded bool
}

// Split separates raw input text into a title and body. The title is the
// trimmed first line; the body is the trimmed remainder, empty for
// single-line input. CRLF line endings are normalized first.
func Split(text string) (title, body string) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
	}
	return text, ""
}

// New creates a hot memo from raw input text.
func New(text string) (*Memo, error) {
	title, body := Split(text)
	if title == "" {
		return nil, ErrEmptyText
	}

	return &Memo{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Status:    StatusHot,
		CreatedAt: time.Now(),
	}, nil
}

// NewDelayed creates a memo that stays out of the hot stack until
// delayMinutes have elapsed from creation.
func NewDelayed(text string, delayMinutes int) (*Memo, error) {
	m, err := New(text)
	if err != nil {
		return nil, err
	}
	if delayMinutes < 0 {
		delayMinutes = 0
	}
	m.Status = StatusDelayed
	m.DelayMinutes = delayMinutes
	return m, nil
}

// FullText reconstructs the original input text from title and body.
func (m *Memo) FullText() string {
	if m.Body == "" {
		return m.Title
	}
	return m.Title + "\n" + m.Body
}

// HasBody reports whether the memo has collapsible detail to show.
func (m *Memo) HasBody() bool {
	return m.Body != ""
}

// Matches reports whether the memo's title or body contains the query,
// case-insensitively. An empty query matches everything.
func (m *Memo) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Title), query) ||
		strings.Contains(strings.ToLower(m.Body), query)
}

// PromoteAt returns the time at which a delayed memo becomes due.
func (m *Memo) PromoteAt() time.Time {
	return m.CreatedAt.Add(time.Duration(m.DelayMinutes) * time.Minute)
}

// Due reports whether a delayed memo is ready to be promoted at now.
// Non-delayed memos are never due.
func (m *Memo) Due(now time.Time) bool {
	return m.Status == StatusDelayed && !now.Before(m.PromoteAt())
}
