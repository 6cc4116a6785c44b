package memo

// Stack is the ordered hot working set, top first. It holds memo IDs only;
// the Manager owns the memos themselves. Capacity is enforced on Push: when
// the stack grows past capacity the bottom entry is evicted and returned so
// the caller can demote it to cold.
type Stack struct {
	ids      []string
	capacity int
}

// NewStack creates an empty stack. Capacity is clamped to at least 1.
func NewStack(capacity int) *Stack {
	if capacity < 1 {
		capacity = 1
	}
	return &Stack{capacity: capacity}
}

// Capacity returns the configured maximum size.
func (s *Stack) Capacity() int { return s.capacity }

// Len returns the current number of entries.
func (s *Stack) Len() int { return len(s.ids) }

// IDs returns a copy of the stack order, top first.
func (s *Stack) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether id is on the stack.
func (s *Stack) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *Stack) indexOf(id string) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Push inserts id at the top. If the stack exceeds capacity the bottom
// entry is evicted and returned with ok=true.
func (s *Stack) Push(id string) (evicted string, ok bool) {
	s.Remove(id)
	s.ids = append([]string{id}, s.ids...)
	if len(s.ids) > s.capacity {
		evicted = s.ids[len(s.ids)-1]
		s.ids = s.ids[:len(s.ids)-1]
		return evicted, true
	}
	return "", false
}

// Remove deletes id from the stack if present.
func (s *Stack) Remove(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	}
}

// ShiftUp swaps id with the entry above it. Returns false when the id is
// absent or already on top.
func (s *Stack) ShiftUp(id string) bool {
	i := s.indexOf(id)
	if i <= 0 {
		return false
	}
	s.ids[i-1], s.ids[i] = s.ids[i], s.ids[i-1]
	return true
}

// MoveToTop re-inserts id at the top of the stack.
func (s *Stack) MoveToTop(id string) bool {
	if i := s.indexOf(id); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		s.ids = append([]string{id}, s.ids...)
		return true
	}
	return false
}

// Reconcile drops entries the keep predicate rejects, preserving order.
// Used after load to discard IDs that no longer reference hot memos.
func (s *Stack) Reconcile(keep func(id string) bool) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if keep(id) {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}
