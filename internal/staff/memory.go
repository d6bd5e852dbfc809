package staff

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Memory is a map-backed Store for dev and tests.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]memoryAccount
}

type memoryAccount struct {
	staff Staff
	hash  []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]memoryAccount)}
}

func (m *Memory) Create(ctx context.Context, username, password, name string) (Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Staff{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[username]; ok {
		return Staff{}, ErrExists
	}
	st := Staff{ID: uuid.NewString(), Username: username, Name: name, CreatedAt: time.Now().UTC()}
	m.accounts[username] = memoryAccount{staff: st, hash: hash}
	return st, nil
}

func (m *Memory) Authenticate(ctx context.Context, username, password string) (*Staff, error) {
	m.mu.RLock()
	acc, ok := m.accounts[username]
	m.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	st := acc.staff
	return &st, nil
}

func (m *Memory) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, err := m.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.accounts[username]
	acc.hash = hash
	m.accounts[username] = acc
	return nil
}
