package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.SessionKey != "user" {
		t.Fatalf("expected session key user, got %q", cfg.SessionKey)
	}
	if cfg.SessionStoreType != "bbolt" {
		t.Fatalf("expected bbolt store, got %q", cfg.SessionStoreType)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "2500")
	t.Setenv("SESSION_STORE_TYPE", "Memory")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout)
	}
	if cfg.SessionStoreType != "memory" {
		t.Fatalf("unexpected store type: %q", cfg.SessionStoreType)
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--session_key=profile", "--routes_file=/tmp/routes.yaml"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionKey != "profile" {
		t.Fatalf("expected flag session key, got %q", cfg.SessionKey)
	}
	if cfg.RoutesFile != "/tmp/routes.yaml" {
		t.Fatalf("expected routes file from flag, got %q", cfg.RoutesFile)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "0")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
