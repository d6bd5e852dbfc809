package student

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a map-backed Store for dev and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Student
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Student)}
}

func (m *Memory) List(ctx context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]Student, 0, len(m.records))
	for _, st := range m.records {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *Memory) Create(ctx context.Context, st Student) (Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[st.ID]; ok {
		return Student{}, ErrExists
	}
	if st.Status == "" {
		st.Status = StatusPresent
	}
	st.UpdatedAt = time.Now().UTC()
	m.records[st.ID] = st
	return st, nil
}

func (m *Memory) Update(ctx context.Context, st Student) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[st.ID]; !ok {
		return false, nil
	}
	st.UpdatedAt = time.Now().UTC()
	m.records[st.ID] = st
	return true, nil
}

func (m *Memory) SetStatus(ctx context.Context, id, status, reason string) (bool, error) {
	return m.patch(id, func(st *Student) {
		st.Status = status
		st.Reason = reason
	})
}

func (m *Memory) Report(ctx context.Context, id, status, reason string) (bool, error) {
	return m.patch(id, func(st *Student) {
		st.Status = status
		st.Reason = reason
		st.Approved = false
	})
}

func (m *Memory) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	return m.patch(id, func(st *Student) {
		st.Approved = approved
	})
}

func (m *Memory) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *Memory) patch(id string, fn func(*Student)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.records[id]
	if !ok {
		return false, nil
	}
	fn(&st)
	st.UpdatedAt = time.Now().UTC()
	m.records[id] = st
	return true, nil
}
