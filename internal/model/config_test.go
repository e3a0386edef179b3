package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Remote.BaseURL != "" {
		t.Errorf("expected empty base URL, got %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.PollIntervalSec != 120 {
		t.Errorf("expected default poll interval 120, got %d",
			cfg.Remote.PollIntervalSec)
	}
	if cfg.Display.Theme != "default" {
		t.Errorf("expected default theme, got %q", cfg.Display.Theme)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &AppConfig{
		Remote: RemoteConfig{
			BaseURL:         "https://jobs.example.com/api",
			PollIntervalSec: 60,
		},
		Display: DisplayConfig{Theme: "default"},
	}

	if err := SaveConfig(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Remote.BaseURL != in.Remote.BaseURL {
		t.Errorf("base URL: expected %q, got %q",
			in.Remote.BaseURL, out.Remote.BaseURL)
	}
	if out.Remote.PollIntervalSec != 60 {
		t.Errorf("poll interval: expected 60, got %d",
			out.Remote.PollIntervalSec)
	}
}

func TestLoadConfigClampsInvalidInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := SaveConfig(path, &AppConfig{
		Remote: RemoteConfig{
			BaseURL:         "https://jobs.example.com/api",
			PollIntervalSec: -5,
		},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Remote.PollIntervalSec != 120 {
		t.Errorf("expected interval clamped to 120, got %d",
			out.Remote.PollIntervalSec)
	}
}
