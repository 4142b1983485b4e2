// Package memstore is a process-local account.Storage for development and tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/svc/account"
)

// Store keeps users in maps guarded by a single mutex.
type Store struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*account.User
	byEmail map[string]uuid.UUID
	byPhone map[string]uuid.UUID
	order   []uuid.UUID
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byID:    make(map[uuid.UUID]*account.User),
		byEmail: make(map[string]uuid.UUID),
		byPhone: make(map[string]uuid.UUID),
	}
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, account.ErrNotFound)
	}
	return clone(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *Store) GetUserByPhone(_ context.Context, phone string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPhone[phone]
	if !ok || phone == "" {
		return nil, fmt.Errorf("phone lookup: %w", account.ErrNotFound)
	}
	return clone(s.byID[id]), nil
}

// CreateUser inserts user, enforcing unique email and phone number.
// A zero ID is replaced with a new one.
func (s *Store) CreateUser(_ context.Context, user *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := s.byEmail[key]; taken {
		return account.ErrDuplicateEmail
	}
	if user.PhoneNumber != "" {
		if _, taken := s.byPhone[user.PhoneNumber]; taken {
			return account.ErrDuplicatePhone
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	s.byID[user.ID] = clone(user)
	s.byEmail[key] = user.ID
	if user.PhoneNumber != "" {
		s.byPhone[user.PhoneNumber] = user.ID
	}
	s.order = append(s.order, user.ID)
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, account.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

// ListUsers returns users in insertion order.
func (s *Store) ListUsers(_ context.Context) ([]*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*account.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, clone(s.byID[id]))
	}
	return users, nil
}

// Len reports the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset drops every user.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.byID)
	clear(s.byEmail)
	clear(s.byPhone)
	s.order = slices.Delete(s.order, 0, len(s.order))
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clone(u *account.User) *account.User {
	cp := *u
	return &cp
}
