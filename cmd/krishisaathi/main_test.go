package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigPrefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("debug: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Debug {
		t.Error("cwd config not used")
	}
	if resolved != filepath.Join(dir, "config.yaml") {
		t.Errorf("resolved=%q", resolved)
	}
}

func TestLoadConfigUsesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port=%d", cfg.Server.Port)
	}
	if resolved != path {
		t.Errorf("resolved=%q", resolved)
	}
}

func TestChatViaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat" {
			t.Errorf("path=%q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"hello","tier":"fallback","language":"en","query_time_ms":2}`))
	}))
	defer srv.Close()

	resp, err := chatViaHTTP(srv.URL, "hi", "en")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "hello" || resp.Tier != "fallback" {
		t.Errorf("resp=%+v", resp)
	}
}

func TestChatViaHTTPServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := chatViaHTTP(srv.URL, "hi", "en"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
