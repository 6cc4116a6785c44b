package memo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore captures persistence calls so tests can assert the manager
// keeps the store in sync with its in-memory state.
type recordingStore struct {
	inserted  []string
	updated   []string
	deleted   []string
	lastStack []string
	failNext  error
}

func (s *recordingStore) InsertMemo(m *Memo) error {
	if err := s.takeErr(); err != nil {
		return err
	}
	s.inserted = append(s.inserted, m.ID)
	return nil
}

func (s *recordingStore) UpdateMemo(m *Memo) error {
	if err := s.takeErr(); err != nil {
		return err
	}
	s.updated = append(s.updated, m.ID)
	return nil
}

func (s *recordingStore) DeleteMemo(id string) error {
	if err := s.takeErr(); err != nil {
		return err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *recordingStore) SaveStack(ids []string) error {
	if err := s.takeErr(); err != nil {
		return err
	}
	s.lastStack = ids
	return nil
}

func (s *recordingStore) takeErr() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func TestManagerAdd(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Buy milk\nAlso eggs and bread")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", m.Title)
	assert.Equal(t, "Also eggs and bread", m.Body)
	assert.Equal(t, StatusHot, m.Status)
	assert.Equal(t, 1, mgr.HotCount())

	_, err = mgr.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestManagerHotCapacity(t *testing.T) {
	mgr := NewManager(nil, 3)

	var ids []string
	for i := 0; i < 6; i++ {
		m, err := mgr.Add(fmt.Sprintf("memo %d", i))
		require.NoError(t, err)
		ids = append(ids, m.ID)
		assert.LessOrEqual(t, mgr.HotCount(), 3, "hot set must never exceed capacity")
	}

	// The three newest stay hot, in stack order.
	hot := mgr.List(StatusHot)
	require.Len(t, hot, 3)
	assert.Equal(t, "memo 5", hot[0].Title)
	assert.Equal(t, "memo 3", hot[2].Title)

	// The demoted memos became cold, not deleted.
	for _, id := range ids[:3] {
		m, err := mgr.Get(id)
		require.NoError(t, err)
		assert.Equal(t, StatusCold, m.Status)
	}
	assert.Equal(t, 3, mgr.Count(StatusCold))
}

func TestManagerMovePreservesContent(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Buy milk\nAlso eggs and bread")
	require.NoError(t, err)

	require.NoError(t, mgr.MoveToCold(m.ID))
	require.NoError(t, mgr.MoveToHot(m.ID))

	got, err := mgr.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "Also eggs and bread", got.Body)
	assert.Equal(t, StatusHot, got.Status)
}

func TestManagerMoveToDone(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Ship the release")
	require.NoError(t, err)

	require.NoError(t, mgr.MoveToDone(m.ID))
	got, _ := mgr.Get(m.ID)
	require.NotNil(t, got.DoneAt)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 0, mgr.HotCount())

	// Returning to hot clears the done stamp.
	require.NoError(t, mgr.MoveToHot(m.ID))
	got, _ = mgr.Get(m.ID)
	assert.Nil(t, got.DoneAt)
	assert.Equal(t, StatusHot, got.Status)
}

func TestManagerDelete(t *testing.T) {
	store := &recordingStore{}
	mgr := NewManager(store, 7)

	m, err := mgr.Add("Temporary thought")
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(m.ID))
	_, err = mgr.Get(m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, mgr.List(StatusHot))
	assert.Empty(t, mgr.List(StatusCold))
	assert.Equal(t, []string{m.ID}, store.deleted)

	assert.ErrorIs(t, mgr.Delete(m.ID), ErrNotFound)
}

func TestManagerNotFound(t *testing.T) {
	mgr := NewManager(nil, 7)

	_, err := mgr.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, mgr.MoveToCold("missing"), ErrNotFound)
	assert.ErrorIs(t, mgr.MoveToHot("missing"), ErrNotFound)
	assert.ErrorIs(t, mgr.MoveToDone("missing"), ErrNotFound)
	assert.ErrorIs(t, mgr.ShiftUp("missing"), ErrNotFound)
	assert.ErrorIs(t, mgr.ToggleExpanded("missing"), ErrNotFound)
	_, err = mgr.Update("missing", "new text")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = mgr.Replace("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerUpdate(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Old title\nold body")
	require.NoError(t, err)
	created := m.CreatedAt

	got, err := mgr.Update(m.ID, "New title\nnew body")
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "new body", got.Body)
	assert.Equal(t, StatusHot, got.Status)
	assert.True(t, got.CreatedAt.Equal(created))

	_, err = mgr.Update(m.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestManagerReplace(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Draft email\nto the landlord")
	require.NoError(t, err)

	text, err := mgr.Replace(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft email\nto the landlord", text)

	_, err = mgr.Get(m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerReorder(t *testing.T) {
	mgr := NewManager(nil, 7)

	a, _ := mgr.Add("a")
	b, _ := mgr.Add("b")
	c, _ := mgr.Add("c") // stack: c b a

	require.NoError(t, mgr.ShiftUp(a.ID)) // c a b
	hot := mgr.List(StatusHot)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{hot[0].ID, hot[1].ID, hot[2].ID})

	require.NoError(t, mgr.MoveToTop(b.ID)) // b c a
	hot = mgr.List(StatusHot)
	assert.Equal(t, b.ID, hot[0].ID)
}

func TestManagerSearch(t *testing.T) {
	mgr := NewManager(nil, 2)

	_, err := mgr.Add("Grocery run\nmilk, eggs")
	require.NoError(t, err)
	_, err = mgr.Add("Call plumber")
	require.NoError(t, err)
	_, err = mgr.Add("Fix the gate latch") // demotes "Grocery run" to cold
	require.NoError(t, err)

	cold := mgr.Search(StatusCold, "MILK")
	require.Len(t, cold, 1)
	assert.Equal(t, "Grocery run", cold[0].Title)

	assert.Empty(t, mgr.Search(StatusCold, "plumber"))
	assert.Len(t, mgr.Search(StatusCold, ""), 1)
}

func TestManagerSpotlight(t *testing.T) {
	mgr := NewManager(nil, 1)

	assert.Nil(t, mgr.Spotlight(), "no cold memos yet")

	_, err := mgr.Add("first")
	require.NoError(t, err)
	_, err = mgr.Add("second") // demotes "first"
	require.NoError(t, err)

	spot := mgr.Spotlight()
	require.NotNil(t, spot)
	assert.Equal(t, "first", spot.Title)
}

func TestManagerDue(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.AddDelayed("Delayed chore", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, mgr.HotCount(), "delayed memos stay off the stack")

	assert.Empty(t, mgr.Due(m.CreatedAt))
	due := mgr.Due(m.CreatedAt.Add(31 * time.Minute))
	require.Len(t, due, 1)
	assert.Equal(t, m.ID, due[0].ID)

	// Promotion clears the delay.
	require.NoError(t, mgr.MoveToHot(m.ID))
	got, _ := mgr.Get(m.ID)
	assert.Equal(t, 0, got.DelayMinutes)
	assert.Equal(t, 1, mgr.HotCount())
}

func TestManagerRestore(t *testing.T) {
	store := &recordingStore{}
	mgr := NewManager(store, 3)

	now := time.Now()
	memos := []*Memo{
		{ID: "h1", Title: "one", Status: StatusHot, CreatedAt: now},
		{ID: "h2", Title: "two", Status: StatusHot, CreatedAt: now},
		{ID: "c1", Title: "cold", Status: StatusCold, CreatedAt: now},
	}

	// Stack references a deleted memo and misses h2; both get reconciled.
	require.NoError(t, mgr.Restore(memos, []string{"h1", "gone", "c1"}))

	hot := mgr.List(StatusHot)
	require.Len(t, hot, 2)
	assert.Equal(t, "h1", hot[0].ID)
	assert.Equal(t, "h2", hot[1].ID)
	assert.Equal(t, []string{"h1", "h2"}, store.lastStack)
}

func TestManagerRestoreShrunkCapacity(t *testing.T) {
	mgr := NewManager(nil, 2)

	now := time.Now()
	memos := []*Memo{
		{ID: "a", Title: "a", Status: StatusHot, CreatedAt: now},
		{ID: "b", Title: "b", Status: StatusHot, CreatedAt: now},
		{ID: "c", Title: "c", Status: StatusHot, CreatedAt: now},
	}
	require.NoError(t, mgr.Restore(memos, []string{"a", "b", "c"}))

	assert.Equal(t, 2, mgr.HotCount())
	demoted, err := mgr.Get("c")
	require.NoError(t, err)
	assert.Equal(t, StatusCold, demoted.Status)
}

func TestManagerStorePropagatesErrors(t *testing.T) {
	store := &recordingStore{}
	mgr := NewManager(store, 7)

	store.failNext = errors.New("disk full")
	_, err := mgr.Add("doomed")
	require.Error(t, err)

	// Failed insert must not leave a phantom memo behind.
	assert.Empty(t, mgr.List(StatusHot))
}

func TestManagerToggleExpanded(t *testing.T) {
	mgr := NewManager(nil, 7)

	m, err := mgr.Add("Title\nbody")
	require.NoError(t, err)
	assert.False(t, m.Expanded)

	require.NoError(t, mgr.ToggleExpanded(m.ID))
	got, _ := mgr.Get(m.ID)
	assert.True(t, got.Expanded)

	require.NoError(t, mgr.ToggleExpanded(m.ID))
	got, _ = mgr.Get(m.ID)
	assert.False(t, got.Expanded)
}
