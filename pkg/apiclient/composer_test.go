package apiclient

import (
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/samvad-gateway/internal/domain"
	"github.com/samvad-hq/samvad-gateway/pkg/routes"
)

type fakeSessions struct {
	session     *domain.Session
	err         error
	invalidated int
}

func (f *fakeSessions) Current(context.Context) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil {
		return nil, nil
	}
	cp := *f.session
	return &cp, nil
}

func (f *fakeSessions) Invalidate(context.Context) error {
	f.invalidated++
	if f.session != nil {
		f.session.IsValidSession = false
	}
	return nil
}

func TestComposeHeadersAddsBearerToken(t *testing.T) {
	s := domain.NewSession("abc")
	c := NewComposer(&fakeSessions{session: &s}, nil)

	headers, err := c.ComposeHeaders(context.Background(), "https://api.example.com/me")
	if err != nil {
		t.Fatalf("ComposeHeaders: %v", err)
	}
	if headers["authorization"] != "Bearer abc" {
		t.Fatalf("unexpected authorization header %q", headers["authorization"])
	}
	if headers["Content-Type"] != "application/json" || headers["Accept"] != "application/json" {
		t.Fatalf("default headers missing: %#v", headers)
	}
}

func TestComposeHeadersWithoutSession(t *testing.T) {
	c := NewComposer(&fakeSessions{}, nil)

	headers, err := c.ComposeHeaders(context.Background(), "https://api.example.com/me")
	if err != nil {
		t.Fatalf("ComposeHeaders: %v", err)
	}
	if _, ok := headers["authorization"]; ok {
		t.Fatalf("authorization must be absent without a session")
	}
}

func TestComposeHeadersSkipsExemptRoutes(t *testing.T) {
	s := domain.NewSession("abc")
	sessions := &fakeSessions{session: &s}
	c := NewComposer(sessions, routes.Exact("https://api.example.com/login"))

	headers, err := c.ComposeHeaders(context.Background(), "https://api.example.com/login")
	if err != nil {
		t.Fatalf("ComposeHeaders: %v", err)
	}
	if _, ok := headers["authorization"]; ok {
		t.Fatalf("authorization must be absent for exempt routes")
	}

	// Exempt routes never consult the store, so a broken store is irrelevant.
	sessions.err = errors.New("store down")
	if _, err := c.ComposeHeaders(context.Background(), "https://api.example.com/login"); err != nil {
		t.Fatalf("exempt route consulted the store: %v", err)
	}
}

func TestComposeHeadersIgnoresEmptyToken(t *testing.T) {
	s := domain.Session{IsValidSession: true}
	c := NewComposer(&fakeSessions{session: &s}, nil)

	headers, _ := c.ComposeHeaders(context.Background(), "/x")
	if _, ok := headers["authorization"]; ok {
		t.Fatalf("authorization must be absent for an empty token")
	}
}

func TestComposeHeadersDoesNotLeakBetweenCalls(t *testing.T) {
	s := domain.NewSession("abc")
	sessions := &fakeSessions{session: &s}
	c := NewComposer(sessions, nil)

	if _, err := c.ComposeHeaders(context.Background(), "/a"); err != nil {
		t.Fatalf("ComposeHeaders: %v", err)
	}
	sessions.session = nil

	headers, _ := c.ComposeHeaders(context.Background(), "/b")
	if _, ok := headers["authorization"]; ok {
		t.Fatalf("authorization leaked from a previous call")
	}
	if _, ok := DefaultHeaders()["authorization"]; ok {
		t.Fatalf("defaults were mutated")
	}
}

func TestComposeHeadersStoreError(t *testing.T) {
	c := NewComposer(&fakeSessions{err: errors.New("decode session: bad json")}, nil)

	_, err := c.ComposeHeaders(context.Background(), "/x")
	if KindOf(err) != KindSession {
		t.Fatalf("expected session error, got %v", err)
	}
}
