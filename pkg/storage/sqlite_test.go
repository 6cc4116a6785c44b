package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lanefield/memostack/pkg/logging"
	"github.com/lanefield/memostack/pkg/memo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logging.SetDirectory(t.TempDir())
	t.Cleanup(func() { logging.SetDirectory("") })

	s, err := Open(filepath.Join(t.TempDir(), "memos.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	memos, stack, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(memos) != 0 {
		t.Errorf("expected empty store, got %d memos", len(memos))
	}
	if len(stack) != 0 {
		t.Errorf("expected empty stack, got %v", stack)
	}
}

func TestInsertAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	doneAt := time.Now().Add(-time.Hour)
	want := &memo.Memo{
		ID:           "m1",
		Title:        "Buy milk",
		Body:         "Also eggs and bread",
		Status:       memo.StatusDone,
		CreatedAt:    time.Now().Add(-2 * time.Hour),
		DoneAt:       &doneAt,
		DelayMinutes: 0,
	}
	if err := s.InsertMemo(want); err != nil {
		t.Fatalf("InsertMemo failed: %v", err)
	}

	memos, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(memos) != 1 {
		t.Fatalf("expected 1 memo, got %d", len(memos))
	}

	got := memos[0]
	if got.Title != want.Title || got.Body != want.Body {
		t.Errorf("content mismatch: got %q/%q", got.Title, got.Body)
	}
	if got.Status != memo.StatusDone {
		t.Errorf("Status = %q, want done", got.Status)
	}
	if got.DoneAt == nil || !got.DoneAt.Equal(doneAt) {
		t.Errorf("DoneAt mismatch: got %v, want %v", got.DoneAt, doneAt)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestUpdateMemo(t *testing.T) {
	s := openTestStore(t)

	m := &memo.Memo{ID: "m1", Title: "old", Status: memo.StatusHot, CreatedAt: time.Now()}
	if err := s.InsertMemo(m); err != nil {
		t.Fatalf("InsertMemo failed: %v", err)
	}

	m.Title = "new"
	m.Status = memo.StatusCold
	if err := s.UpdateMemo(m); err != nil {
		t.Fatalf("UpdateMemo failed: %v", err)
	}

	memos, _, _ := s.Load()
	if memos[0].Title != "new" || memos[0].Status != memo.StatusCold {
		t.Errorf("update not persisted: %+v", memos[0])
	}
}

func TestUpdateUnknownMemo(t *testing.T) {
	s := openTestStore(t)

	m := &memo.Memo{ID: "ghost", Title: "x", Status: memo.StatusHot, CreatedAt: time.Now()}
	if err := s.UpdateMemo(m); !errors.Is(err, memo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMemo(t *testing.T) {
	s := openTestStore(t)

	m := &memo.Memo{ID: "m1", Title: "bye", Status: memo.StatusHot, CreatedAt: time.Now()}
	if err := s.InsertMemo(m); err != nil {
		t.Fatalf("InsertMemo failed: %v", err)
	}
	if err := s.DeleteMemo("m1"); err != nil {
		t.Fatalf("DeleteMemo failed: %v", err)
	}

	memos, _, _ := s.Load()
	if len(memos) != 0 {
		t.Errorf("memo not deleted: %v", memos)
	}
}

func TestSaveStackRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := []string{"c", "b", "a"}
	if err := s.SaveStack(want); err != nil {
		t.Fatalf("SaveStack failed: %v", err)
	}

	_, stack, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stack) != 3 || stack[0] != "c" || stack[2] != "a" {
		t.Errorf("stack = %v, want %v", stack, want)
	}

	// Nil saves as an empty array, not a JSON null.
	if err := s.SaveStack(nil); err != nil {
		t.Fatalf("SaveStack(nil) failed: %v", err)
	}
	_, stack, _ = s.Load()
	if len(stack) != 0 {
		t.Errorf("stack = %v, want empty", stack)
	}
}

func TestLoadCorruptStackDegrades(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.db.Exec(`UPDATE hot_stack SET stack_json = 'not json' WHERE id = 1`); err != nil {
		t.Fatalf("corrupting stack failed: %v", err)
	}

	_, stack, err := s.Load()
	if err != nil {
		t.Fatalf("Load should tolerate corrupt stack json: %v", err)
	}
	if len(stack) != 0 {
		t.Errorf("expected empty stack, got %v", stack)
	}
}

func TestReopenPersists(t *testing.T) {
	logging.SetDirectory(t.TempDir())
	t.Cleanup(func() { logging.SetDirectory("") })

	path := filepath.Join(t.TempDir(), "memos.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m := &memo.Memo{ID: "m1", Title: "survives restarts", Status: memo.StatusHot, CreatedAt: time.Now()}
	if err := s.InsertMemo(m); err != nil {
		t.Fatalf("InsertMemo failed: %v", err)
	}
	if err := s.SaveStack([]string{"m1"}); err != nil {
		t.Fatalf("SaveStack failed: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	memos, stack, err := s2.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(memos) != 1 || memos[0].Title != "survives restarts" {
		t.Errorf("memos = %+v", memos)
	}
	if len(stack) != 1 || stack[0] != "m1" {
		t.Errorf("stack = %v", stack)
	}
}
