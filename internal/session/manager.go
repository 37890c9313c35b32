package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-gateway/internal/domain"
)

// ErrNoSession is returned by Invalidate when the slot holds no record.
var ErrNoSession = errors.New("no session stored")

// Manager reads and mutates the session record kept under one store key.
type Manager struct {
	store Store
	key   string
}

// NewManager binds a store slot. An empty key falls back to domain.DefaultSessionKey.
func NewManager(store Store, key string) *Manager {
	if key == "" {
		key = domain.DefaultSessionKey
	}
	return &Manager{store: store, key: key}
}

// Key returns the store key the manager operates on.
func (m *Manager) Key() string { return m.key }

// Current returns the stored session, or nil when none exists.
func (m *Manager) Current(_ context.Context) (*domain.Session, error) {
	raw, found, err := m.store.Read(m.key)
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", m.key, err)
	}
	if !found || raw == "" || raw == "null" {
		return nil, nil
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", m.key, err)
	}
	return &s, nil
}

// Save overwrites the stored session.
func (m *Manager) Save(_ context.Context, s domain.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Write(m.key, string(payload)); err != nil {
		return fmt.Errorf("write session %q: %w", m.key, err)
	}
	return nil
}

// Invalidate flips isValidSession to false and writes the record back.
// Concurrent callers may interleave; every writer stores false.
func (m *Manager) Invalidate(ctx context.Context) error {
	s, err := m.Current(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoSession
	}
	s.IsValidSession = false
	return m.Save(ctx, *s)
}
