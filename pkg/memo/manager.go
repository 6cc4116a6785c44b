package memo

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Store persists memo mutations. The Manager calls it after every state
// change; implementations are expected to be durable (see pkg/storage).
type Store interface {
	InsertMemo(m *Memo) error
	UpdateMemo(m *Memo) error
	DeleteMemo(id string) error
	SaveStack(ids []string) error
}

// Manager owns all memos and the hot stack, and enforces the hot capacity
// rule. All operations are safe for concurrent use. A nil store disables
// persistence, which is convenient for tests.
type Manager struct {
	mu    sync.RWMutex
	memos map[string]*Memo
	stack *Stack
	store Store
}

// NewManager creates an empty manager with the given hot capacity.
func NewManager(store Store, capacity int) *Manager {
	return &Manager{
		memos: make(map[string]*Memo),
		stack: NewStack(capacity),
		store: store,
	}
}

// Restore seeds the manager from persisted state. Stack entries that do not
// reference hot memos are dropped, and hot memos missing from the stack are
// appended at the bottom so none become unreachable. The reconciled order
// is written back to the store.
func (mgr *Manager) Restore(memos []*Memo, stackOrder []string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	mgr.memos = make(map[string]*Memo, len(memos))
	for _, m := range memos {
		mgr.memos[m.ID] = m
	}

	mgr.stack.ids = append(mgr.stack.ids[:0], stackOrder...)
	mgr.stack.Reconcile(func(id string) bool {
		m, ok := mgr.memos[id]
		return ok && m.Status == StatusHot
	})
	for _, m := range mgr.memos {
		if m.Status == StatusHot && !mgr.stack.Contains(m.ID) {
			mgr.stack.ids = append(mgr.stack.ids, m.ID)
		}
	}

	// Capacity may have shrunk since the state was written.
	for mgr.stack.Len() > mgr.stack.Capacity() {
		bottom := mgr.stack.ids[mgr.stack.Len()-1]
		mgr.stack.Remove(bottom)
		if err := mgr.demoteLocked(bottom); err != nil {
			return err
		}
	}

	return mgr.saveStackLocked()
}

// Add creates a hot memo from raw text and pushes it onto the stack,
// demoting the bottom memo to cold on overflow.
func (mgr *Manager) Add(text string) (*Memo, error) {
	m, err := New(text)
	if err != nil {
		return nil, err
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if err := mgr.insertLocked(m); err != nil {
		return nil, err
	}
	if err := mgr.pushLocked(m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// AddDelayed creates a delayed memo. Delayed memos stay off the hot stack
// until the user promotes them.
func (mgr *Manager) AddDelayed(text string, delayMinutes int) (*Memo, error) {
	m, err := NewDelayed(text, delayMinutes)
	if err != nil {
		return nil, err
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if err := mgr.insertLocked(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get retrieves a memo by ID.
func (mgr *Manager) Get(id string) (*Memo, error) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	m, ok := mgr.memos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, nil
}

// Update re-splits text into title and body for an existing memo. Status,
// creation time and stack position are preserved.
func (mgr *Manager) Update(id, text string) (*Memo, error) {
	title, body := Split(text)
	if title == "" {
		return nil, ErrEmptyText
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.Title = title
	m.Body = body
	if err := mgr.persistUpdateLocked(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete permanently removes a memo from the store and the hot stack.
func (mgr *Manager) Delete(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if _, ok := mgr.memos[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(mgr.memos, id)
	mgr.stack.Remove(id)

	if mgr.store != nil {
		if err := mgr.store.DeleteMemo(id); err != nil {
			return fmt.Errorf("delete memo: %w", err)
		}
	}
	return mgr.saveStackLocked()
}

// MoveToCold archives a memo. Title and body are untouched.
func (mgr *Manager) MoveToCold(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.Status = StatusCold
	mgr.stack.Remove(id)
	if err := mgr.persistUpdateLocked(m); err != nil {
		return err
	}
	return mgr.saveStackLocked()
}

// MoveToDone completes a memo, stamping DoneAt.
func (mgr *Manager) MoveToDone(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	now := time.Now()
	m.Status = StatusDone
	m.DoneAt = &now
	mgr.stack.Remove(id)
	if err := mgr.persistUpdateLocked(m); err != nil {
		return err
	}
	return mgr.saveStackLocked()
}

// MoveToHot returns a memo to the top of the hot stack, clearing any done
// stamp and demoting the bottom memo on overflow.
func (mgr *Manager) MoveToHot(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.Status = StatusHot
	m.DoneAt = nil
	m.DelayMinutes = 0
	if err := mgr.persistUpdateLocked(m); err != nil {
		return err
	}
	return mgr.pushLocked(id)
}

// ShiftUp moves a hot memo one position toward the top of the stack.
func (mgr *Manager) ShiftUp(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if _, ok := mgr.memos[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if mgr.stack.ShiftUp(id) {
		return mgr.saveStackLocked()
	}
	return nil
}

// MoveToTop moves a hot memo to the top of the stack.
func (mgr *Manager) MoveToTop(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if _, ok := mgr.memos[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if mgr.stack.MoveToTop(id) {
		return mgr.saveStackLocked()
	}
	return nil
}

// Replace deletes a memo and returns its full text so the view can load it
// back into the input for editing.
func (mgr *Manager) Replace(id string) (string, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	text := m.FullText()

	delete(mgr.memos, id)
	mgr.stack.Remove(id)
	if mgr.store != nil {
		if err := mgr.store.DeleteMemo(id); err != nil {
			return "", fmt.Errorf("delete memo: %w", err)
		}
	}
	if err := mgr.saveStackLocked(); err != nil {
		return "", err
	}
	return text, nil
}

// ToggleExpanded flips a memo's expand/collapse view state. Never persisted.
func (mgr *Manager) ToggleExpanded(id string) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.memos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.Expanded = !m.Expanded
	return nil
}

// List returns memos with the given status in display order: hot follows
// the stack, cold is newest first, done is ordered by completion time,
// delayed by soonest promotion.
func (mgr *Manager) List(status Status) []*Memo {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	if status == StatusHot {
		out := make([]*Memo, 0, mgr.stack.Len())
		for _, id := range mgr.stack.ids {
			if m, ok := mgr.memos[id]; ok {
				out = append(out, m)
			}
		}
		return out
	}

	var out []*Memo
	for _, m := range mgr.memos {
		if m.Status == status {
			out = append(out, m)
		}
	}

	switch status {
	case StatusDone:
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i].DoneAt, out[j].DoneAt
			switch {
			case a != nil && b != nil:
				return a.After(*b)
			case a != nil:
				return true
			case b != nil:
				return false
			default:
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
		})
	case StatusDelayed:
		sort.Slice(out, func(i, j int) bool {
			return out[i].PromoteAt().Before(out[j].PromoteAt())
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// All returns every memo regardless of status. Order is unspecified.
func (mgr *Manager) All() []*Memo {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	out := make([]*Memo, 0, len(mgr.memos))
	for _, m := range mgr.memos {
		out = append(out, m)
	}
	return out
}

// Search filters List(status) by a case-insensitive substring match over
// title and body.
func (mgr *Manager) Search(status Status, query string) []*Memo {
	all := mgr.List(status)
	if query == "" {
		return all
	}
	out := all[:0]
	for _, m := range all {
		if m.Matches(query) {
			out = append(out, m)
		}
	}
	return out
}

// Spotlight returns a random cold memo for periodic resurfacing, or nil
// when no cold memos exist.
func (mgr *Manager) Spotlight() *Memo {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	var cold []*Memo
	for _, m := range mgr.memos {
		if m.Status == StatusCold {
			cold = append(cold, m)
		}
	}
	if len(cold) == 0 {
		return nil
	}
	return cold[rand.Intn(len(cold))]
}

// Due returns delayed memos whose delay has elapsed at now, ordered by
// promotion time. Promotion itself remains a user action.
func (mgr *Manager) Due(now time.Time) []*Memo {
	var out []*Memo
	for _, m := range mgr.List(StatusDelayed) {
		if m.Due(now) {
			out = append(out, m)
		}
	}
	return out
}

// HotCount returns the current hot stack size.
func (mgr *Manager) HotCount() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.stack.Len()
}

// HotCapacity returns the configured hot stack capacity.
func (mgr *Manager) HotCapacity() int {
	return mgr.stack.Capacity()
}

// Count returns the number of memos with the given status.
func (mgr *Manager) Count(status Status) int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	n := 0
	for _, m := range mgr.memos {
		if m.Status == status {
			n++
		}
	}
	return n
}

// insertLocked adds a memo to the map and store. Caller holds mu.
func (mgr *Manager) insertLocked(m *Memo) error {
	mgr.memos[m.ID] = m
	if mgr.store != nil {
		if err := mgr.store.InsertMemo(m); err != nil {
			delete(mgr.memos, m.ID)
			return fmt.Errorf("insert memo: %w", err)
		}
	}
	return nil
}

// pushLocked puts id on top of the stack, demoting any evicted memo to
// cold, then persists the stack order. Caller holds mu.
func (mgr *Manager) pushLocked(id string) error {
	if evicted, ok := mgr.stack.Push(id); ok {
		if err := mgr.demoteLocked(evicted); err != nil {
			return err
		}
	}
	return mgr.saveStackLocked()
}

// demoteLocked moves a memo to cold without touching the stack. Caller
// holds mu and has already removed the id from the stack.
func (mgr *Manager) demoteLocked(id string) error {
	m, ok := mgr.memos[id]
	if !ok {
		return nil
	}
	m.Status = StatusCold
	return mgr.persistUpdateLocked(m)
}

func (mgr *Manager) persistUpdateLocked(m *Memo) error {
	if mgr.store == nil {
		return nil
	}
	if err := mgr.store.UpdateMemo(m); err != nil {
		return fmt.Errorf("update memo: %w", err)
	}
	return nil
}

func (mgr *Manager) saveStackLocked() error {
	if mgr.store == nil {
		return nil
	}
	if err := mgr.store.SaveStack(mgr.stack.IDs()); err != nil {
		return fmt.Errorf("save stack: %w", err)
	}
	return nil
}
