package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Sessions are stored encoded so
// callers never share state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   clock.Clock
}

// NewMemoryStore creates a store whose sessions expire ttl after their last
// write. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session: id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictLocked()
	if _, ok := m.entries[s.ID]; ok {
		return errors.Errorf("session: %s already exists", s.ID)
	}
	return m.putLocked(s)
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.liveLocked(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return decode(ent.data)
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.liveLocked(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s, err := decode(ent.data)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.ID = id
	s.Version++
	s.UpdatedAt = m.clock.Now()
	if err := m.putLocked(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.liveLocked(id); !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	return len(m.entries)
}

func (m *MemoryStore) putLocked(s *Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	ent := memoryEntry{data: b}
	if m.ttl > 0 {
		ent.expiresAt = m.clock.Now().Add(m.ttl)
	}
	m.entries[s.ID] = ent
	return nil
}

func (m *MemoryStore) liveLocked(id string) (memoryEntry, bool) {
	ent, ok := m.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if m.expired(ent) {
		delete(m.entries, id)
		return memoryEntry{}, false
	}
	return ent, true
}

func (m *MemoryStore) evictLocked() {
	for id, ent := range m.entries {
		if m.expired(ent) {
			delete(m.entries, id)
		}
	}
}

func (m *MemoryStore) expired(ent memoryEntry) bool {
	return !ent.expiresAt.IsZero() && !m.clock.Now().Before(ent.expiresAt)
}
