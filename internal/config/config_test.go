package config

import (
	"os"
	"path/filepath"
	"testing"

	lerrors "github.com/hpungsan/lapse/internal/errors"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Options.WeekStart != "monday" {
		t.Fatalf("WeekStart = %q, want %q", cfg.Options.WeekStart, "monday")
	}
	if cfg.Options.DayStartHour != 0 {
		t.Fatalf("DayStartHour = %d, want 0", cfg.Options.DayStartHour)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFile)

	body := `
options:
  day_start_hour: 5
  report_current: true
default_tags:
  apollo: [deep, focus]
backend:
  url: https://example.com/api
  token: sekret
`
	if err := os.WriteFile(configPath, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Options.DayStartHour != 5 {
		t.Errorf("DayStartHour = %d, want 5", cfg.Options.DayStartHour)
	}
	if !cfg.Options.ReportCurrent {
		t.Error("ReportCurrent = false, want true")
	}
	if got := cfg.ProjectDefaultTags("apollo"); len(got) != 2 || got[0] != "deep" {
		t.Errorf("ProjectDefaultTags(apollo) = %v, want [deep focus]", got)
	}
	if got := cfg.ProjectDefaultTags("gemini"); got != nil {
		t.Errorf("ProjectDefaultTags(gemini) = %v, want nil", got)
	}
	if !cfg.HasBackend() {
		t.Error("HasBackend = false, want true")
	}
}

func TestLoad_EmptyFileIsDefault(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFile), nil, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Options.WeekStart != "monday" {
		t.Errorf("WeekStart = %q, want default", cfg.Options.WeekStart)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("options: ["), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(tmpDir)
	if !lerrors.Is(err, lerrors.ErrMalformedData) {
		t.Fatalf("Load() error = %v, want MALFORMED_DATA", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Backend.URL = "https://example.com/api"
	cfg.Backend.Token = "sekret"

	if err := Save(tmpDir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Backend.URL != cfg.Backend.URL || loaded.Backend.Token != cfg.Backend.Token {
		t.Errorf("Backend = %+v, want %+v", loaded.Backend, cfg.Backend)
	}
}

func TestHasBackend(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HasBackend() {
		t.Error("HasBackend = true for empty backend, want false")
	}
	cfg.Backend.URL = "https://example.com"
	if cfg.HasBackend() {
		t.Error("HasBackend = true without token, want false")
	}
}
