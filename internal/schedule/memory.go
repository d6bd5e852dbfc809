package schedule

import (
	"context"
	"sync"
	"time"
)

// MemoryState is a channel-free in-process State for dev and testing.
type MemoryState struct {
	mu        sync.Mutex
	enabled   *bool
	templates map[string][]Directive
	locks     map[string]time.Time // key -> expiry
}

// NewMemoryState creates an empty state with the flag unset (enabled).
func NewMemoryState() *MemoryState {
	return &MemoryState{
		templates: make(map[string][]Directive),
		locks:     make(map[string]time.Time),
	}
}

func (s *MemoryState) Enabled(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled == nil {
		return true, nil
	}
	return *s.enabled, nil
}

func (s *MemoryState) SetEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = &enabled
	return nil
}

func (s *MemoryState) Template(ctx context.Context, day Day, slot string) ([]Directive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.templates[templateKey(day, slot)]
	out := make([]Directive, len(items))
	copy(out, items)
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *MemoryState) SaveTemplate(ctx context.Context, day Day, slot string, items []Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Directive, len(items))
	copy(cp, items)
	s.templates[templateKey(day, slot)] = cp
	return nil
}

func (s *MemoryState) AcquireLock(ctx context.Context, date, slot string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := lockKey(date, slot)
	if exp, ok := s.locks[key]; ok && time.Now().Before(exp) {
		return false, nil
	}
	s.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (s *MemoryState) ReleaseLock(ctx context.Context, date, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, lockKey(date, slot))
	return nil
}
