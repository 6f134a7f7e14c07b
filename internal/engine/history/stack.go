package history

import (
	"iter"
	"time"
)

// entry wraps a command with metadata.
type entry struct {
	command   Command
	timestamp time.Time
}

// stack is a LIFO of history entries. The top is the most recent push.
type stack struct {
	entries []*entry
}

func (s *stack) push(e *entry) {
	s.entries = append(s.entries, e)
}

func (s *stack) pop() (*entry, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	e := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return e, true
}

func (s *stack) peek() (*entry, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *stack) len() int {
	return len(s.entries)
}

func (s *stack) clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// bottomUp yields entries from the oldest push to the newest.
func (s *stack) bottomUp() iter.Seq[*entry] {
	return func(yield func(*entry) bool) {
		for _, e := range s.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// topDown yields entries from the newest push to the oldest.
func (s *stack) topDown() iter.Seq[*entry] {
	return func(yield func(*entry) bool) {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if !yield(s.entries[i]) {
				return
			}
		}
	}
}
