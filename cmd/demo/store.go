package main

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// user is a demo account. Real hosts would back this with a database.
type user struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Provider       string
}

// memoryUserStore is a process-local account table for the demo.
type memoryUserStore struct {
	mu    sync.RWMutex
	users map[string]user
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]user)}
}

func (s *memoryUserStore) get(email string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	return u, ok
}

func (s *memoryUserStore) put(u user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.Email] = u
}

// upsertFromOAuth maps Google ID token claims to session data, creating the
// account on first sign-in.
func (s *memoryUserStore) upsertFromOAuth(_ context.Context, claims map[string]any) (map[string]any, error) {
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	s.mu.Lock()
	u, ok := s.users[email]
	if !ok {
		u = user{ID: uuid.NewString(), Email: email, Name: name, Provider: "google"}
		s.users[email] = u
	}
	s.mu.Unlock()

	return map[string]any{"user_id": u.ID, "email": u.Email, "name": u.Name}, nil
}
