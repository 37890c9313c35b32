package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-gateway/internal/domain"
)

func TestManagerCurrentEmpty(t *testing.T) {
	m := NewManager(NewMemoryStore(), "")
	if m.Key() != "user" {
		t.Fatalf("expected default key user, got %q", m.Key())
	}
	s, err := m.Current(context.Background())
	if err != nil || s != nil {
		t.Fatalf("expected no session, got %#v err=%v", s, err)
	}
}

func TestManagerSaveAndCurrent(t *testing.T) {
	m := NewManager(NewMemoryStore(), "user")
	if err := m.Save(context.Background(), domain.NewSession("tok")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s, err := m.Current(context.Background())
	if err != nil || s == nil {
		t.Fatalf("Current: %#v err=%v", s, err)
	}
	if s.Token != "tok" || !s.IsValidSession {
		t.Fatalf("unexpected session: %#v", s)
	}
}

func TestManagerCurrentCorruptRecord(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Write("user", "{not json")
	m := NewManager(store, "user")
	if _, err := m.Current(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestManagerInvalidateKeepsOtherFields(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Write("user", `{"token":"tok","isValidSession":true,"email":"a@b.c"}`)
	m := NewManager(store, "user")

	if err := m.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	raw, _, _ := store.Read("user")
	if !strings.Contains(raw, `"isValidSession":false`) || !strings.Contains(raw, `"email":"a@b.c"`) {
		t.Fatalf("unexpected record after invalidate: %s", raw)
	}
}

func TestManagerInvalidateWithoutSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), "user")
	if err := m.Invalidate(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestManagerConcurrentInvalidateConverges(t *testing.T) {
	m := NewManager(NewMemoryStore(), "user")
	if err := m.Save(context.Background(), domain.NewSession("tok")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Invalidate(context.Background())
		}()
	}
	wg.Wait()

	s, err := m.Current(context.Background())
	if err != nil || s == nil {
		t.Fatalf("Current: %#v err=%v", s, err)
	}
	if s.IsValidSession {
		t.Fatalf("expected session to end invalid")
	}
	if s.Token != "tok" {
		t.Fatalf("token changed: %q", s.Token)
	}
}
