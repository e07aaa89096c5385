package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JoplinURL != "http://localhost:41184" {
		t.Errorf("JoplinURL = %q", cfg.JoplinURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DebounceSeconds != 5 {
		t.Errorf("DebounceSeconds = %d, want 5", cfg.DebounceSeconds)
	}
	if cfg.PollSeconds != 10 {
		t.Errorf("PollSeconds = %d, want 10", cfg.PollSeconds)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
joplin_url: http://127.0.0.1:41185
port: "9090"
debounce_seconds: 2
mirror_dir: /tmp/reviews
schedule: "@daily"
ai_provider: moonshot
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JoplinURL != "http://127.0.0.1:41185" {
		t.Errorf("JoplinURL = %q", cfg.JoplinURL)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DebounceSeconds != 2 {
		t.Errorf("DebounceSeconds = %d", cfg.DebounceSeconds)
	}
	if cfg.MirrorDir != "/tmp/reviews" {
		t.Errorf("MirrorDir = %q", cfg.MirrorDir)
	}
	if cfg.Schedule != "@daily" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	// Untouched keys keep their defaults.
	if cfg.DBPath != "review-pilot.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []string{
		"joplin_url: \"\"\n",
		"debounce_seconds: -1\n",
		"poll_seconds: 0\n",
	}
	for _, content := range tests {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("expected validation error for %q", content)
		}
	}
}
