package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Default log level mismatch: got %s, want info", cfg.LogLevel)
	}
	if cfg.Javah != "javah" {
		t.Errorf("Default javah binary mismatch: got %s, want javah", cfg.Javah)
	}
	if cfg.JniHeadersDir != "" {
		t.Errorf("JNI headers dir should default to empty, got %s", cfg.JniHeadersDir)
	}
	if cfg.WatchDebounceMillis != 500 {
		t.Errorf("Default watch debounce mismatch: got %d, want 500", cfg.WatchDebounceMillis)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	configContent := `
log_level: debug
javah: /opt/jdk/bin/javah
watch_debounce_millis: 250
`
	if _, err := tmpfile.Write([]byte(configContent)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Log level mismatch: got %s, want debug", cfg.LogLevel)
	}
	if cfg.Javah != "/opt/jdk/bin/javah" {
		t.Errorf("Javah mismatch: got %s", cfg.Javah)
	}
	if cfg.WatchDebounceMillis != 250 {
		t.Errorf("Watch debounce mismatch: got %d, want 250", cfg.WatchDebounceMillis)
	}
}
