package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BaseURL != "https://www.oddspark.com" {
		t.Errorf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.Venues["02"] != "川口" {
		t.Errorf("venue table broken: %v", cfg.Venues)
	}
	if _, ok := cfg.Venues["01"]; ok {
		t.Error("place code 01 is unassigned and must not be mapped")
	}
	if cfg.Timeout() != 20*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout())
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("unexpected retry budget %d", cfg.MaxRetries)
	}
	if len(cfg.Categories) == 0 {
		t.Error("category vocabulary must not be empty")
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "base_url: http://localhost:8080\ndata_dir: /tmp/autorace-test\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("file override not applied: %q", cfg.BaseURL)
	}
	if cfg.DataDir != "/tmp/autorace-test" {
		t.Errorf("file override not applied: %q", cfg.DataDir)
	}
	// Keys absent from the file keep their defaults.
	if cfg.MaxRetries != 3 {
		t.Errorf("default lost: MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.Venues["03"] != "伊勢崎" {
		t.Errorf("default venue table lost: %v", cfg.Venues)
	}
}

func TestLoadLayersEnvOverFile(t *testing.T) {
	t.Setenv("AUTORACE_USER_AGENT", "test-agent/1.0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserAgent != "test-agent/1.0" {
		t.Errorf("env override not applied: %q", cfg.UserAgent)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for explicit missing config file")
	}
}
