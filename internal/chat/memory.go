package chat

import (
	"sync"

	"github.com/google/uuid"

	"shopchat/pkg/chattypes"
)

// DefaultHistorySize is the default conversation memory cap in turns,
// roughly five user/assistant exchanges.
const DefaultHistorySize = 10

// Memory is an ordered, size-bounded log of conversation turns used to seed
// future requests with recent context. Eviction is FIFO: once the cap is
// exceeded the oldest turns are discarded, never reordered. All methods are
// safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	capacity int
	turns    []chattypes.Turn
}

// NewMemory creates an empty memory with the given cap. Non-positive caps
// fall back to DefaultHistorySize.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &Memory{capacity: capacity}
}

// Append records one completed exchange: the user turn followed by the
// assistant turn, then evicts from the front until the cap holds.
func (m *Memory) Append(userText, assistantText string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, chattypes.UserTurn(userText), chattypes.AssistantTurn(assistantText, nil))
	if excess := len(m.turns) - m.capacity; excess > 0 {
		m.turns = append([]chattypes.Turn(nil), m.turns[excess:]...)
	}
}

// Snapshot returns a copy of the current turns, oldest first. The copy is
// safe to read while other goroutines append.
func (m *Memory) Snapshot() []chattypes.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]chattypes.Turn, len(m.turns))
	copy(snapshot, m.turns)
	return snapshot
}

// Len returns the current number of stored turns.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// SessionStore maps session identifiers to their conversation memories so
// concurrent sessions never observe each other's context. Memories are
// created on first use and live for the process lifetime.
type SessionStore struct {
	mu       sync.RWMutex
	capacity int
	sessions map[string]*Memory
}

// NewSessionStore creates an empty store whose memories use the given cap.
func NewSessionStore(capacity int) *SessionStore {
	return &SessionStore{
		capacity: capacity,
		sessions: make(map[string]*Memory),
	}
}

// Get returns the memory for a session, creating it when absent.
func (s *SessionStore) Get(sessionID string) *Memory {
	s.mu.RLock()
	memory, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return memory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if memory, ok := s.sessions[sessionID]; ok {
		return memory
	}
	memory = NewMemory(s.capacity)
	s.sessions[sessionID] = memory
	return memory
}

// NewSessionID generates a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
