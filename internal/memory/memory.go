// Package memory holds per-thread conversation history.
//
// Each thread keeps an ordered, size-bounded log of role-tagged messages.
// When a thread exceeds its limit the oldest messages are dropped (plain
// truncation, not LRU). Nothing survives a process restart.
package memory

import (
	"sync"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultMaxHistory is the per-thread message limit used when the
// configured value is zero or negative.
const DefaultMaxHistory = 10

// Message is a single conversation turn. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store maps thread IDs to bounded message logs.
// Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	maxHistory int
	threads    map[string][]Message
}

// NewStore creates a store keeping at most maxHistory messages per thread.
func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Store{
		maxHistory: maxHistory,
		threads:    make(map[string][]Message),
	}
}

// MaxHistory returns the per-thread message limit.
func (s *Store) MaxHistory() int {
	return s.maxHistory
}

// Append adds a message to the thread, evicting the oldest entries when the
// thread would exceed the limit.
func (s *Store) Append(threadID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.threads[threadID], Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if overflow := len(msgs) - s.maxHistory; overflow > 0 {
		// Copy instead of reslicing so evicted entries can be collected.
		trimmed := make([]Message, s.maxHistory)
		copy(trimmed, msgs[overflow:])
		msgs = trimmed
	}
	s.threads[threadID] = msgs
}

// History returns a copy of the thread's messages in append order.
// Unknown threads yield an empty slice.
func (s *Store) History(threadID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.threads[threadID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of messages currently held for the thread.
func (s *Store) Len(threadID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads[threadID])
}

// Clear removes the thread and reports whether it existed.
func (s *Store) Clear(threadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.threads[threadID]
	delete(s.threads, threadID)
	return ok
}

// Threads returns the IDs of all threads with at least one message.
func (s *Store) Threads() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	return ids
}
