package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-gateway/internal/config"
	"github.com/samvad-hq/samvad-gateway/internal/domain"
	"github.com/samvad-hq/samvad-gateway/pkg/notifiers"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:          "gateway-test",
		LogLevel:         "debug",
		RequestTimeout:   2 * time.Second,
		SessionStoreType: "bbolt",
		SessionBoltPath:  filepath.Join(t.TempDir(), "session.db"),
		SessionKey:       "user",
	}
}

func TestGatewayInvalidatesSessionAndNotifies(t *testing.T) {
	var hookCalls atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt notifiers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err == nil && evt.Type == notifiers.EventSessionInvalidated {
			hookCalls.Add(1)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"error":{"code":401}}`))
	}))
	defer api.Close()

	dir := t.TempDir()
	notifiersFile := filepath.Join(dir, "notifiers.yaml")
	content := "notifiers:\n  - id: hook\n    type: http\n    http:\n      url: " + hook.URL + "\n"
	if err := os.WriteFile(notifiersFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write notifiers file: %v", err)
	}

	cfg := testConfig(t)
	cfg.NotifiersFile = notifiersFile

	gw, err := NewGateway(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	defer gw.Close()

	if err := gw.Sessions().Save(context.Background(), domain.NewSession("tok")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	payload, err := gw.Service().MakeGetRequest(context.Background(), api.URL+"/profile")
	if err != nil || payload != nil {
		t.Fatalf("expected nil, nil; got %#v %v", payload, err)
	}

	s, err := gw.Sessions().Current(context.Background())
	if err != nil || s == nil || s.IsValidSession {
		t.Fatalf("expected invalidated session, got %#v err=%v", s, err)
	}
	if hookCalls.Load() != 1 {
		t.Fatalf("expected 1 webhook call, got %d", hookCalls.Load())
	}
}

func TestGatewayHonorsRoutesFile(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer api.Close()

	routesFile := filepath.Join(t.TempDir(), "routes.yaml")
	content := "routes:\n  - id: login\n    pattern: " + api.URL + "/auth/\n    match: prefix\n"
	if err := os.WriteFile(routesFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}

	cfg := testConfig(t)
	cfg.SessionStoreType = "memory"
	cfg.RoutesFile = routesFile

	gw, err := NewGateway(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	defer gw.Close()
	_ = gw.Sessions().Save(context.Background(), domain.NewSession("tok"))

	if _, err := gw.Service().MakePostRequest(context.Background(), api.URL+"/auth/login", map[string]string{"u": "x"}); err != nil {
		t.Fatalf("MakePostRequest: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("exempt route sent Authorization %q", gotAuth)
	}
}

func TestNewGatewayRejectsBadConfig(t *testing.T) {
	if _, err := NewGateway(context.Background(), nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg := testConfig(t)
	cfg.SessionStoreType = "redis"
	if _, err := NewGateway(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error for unsupported store")
	}

	cfg = testConfig(t)
	cfg.RoutesFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewGateway(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error for missing routes file")
	}
}
