package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detection.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	content := `
detection:
  multipliers:
    2: 10
    5: 12
    24: 15
    168: 20
    720: 25
  baseline_window: 3
  recency_window_hours: 4

source:
  timeout: 20
  max_entries: 10
`
	loader := NewLoader(writeConfig(t, content))
	config, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	if config.Detection.Multipliers[24] != 15 {
		t.Errorf("Expected multiplier 15 for 24h offset, got %v", config.Detection.Multipliers[24])
	}
	if config.Detection.BaselineWindow != 3 {
		t.Errorf("Expected baseline window 3, got %d", config.Detection.BaselineWindow)
	}
	if config.Detection.GetRecencyWindow() != 4*time.Hour {
		t.Errorf("Expected 4h recency window, got %v", config.Detection.GetRecencyWindow())
	}
	if config.Source.GetTimeout() != 20*time.Second {
		t.Errorf("Expected 20s timeout, got %v", config.Source.GetTimeout())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nonexistent.yml"))
	config, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	for _, offset := range CheckOffsets {
		if config.Detection.Multipliers[offset] != 20 {
			t.Errorf("Expected default multiplier 20 for %dh offset, got %v", offset, config.Detection.Multipliers[offset])
		}
	}
	if config.Detection.BaselineWindow != 5 {
		t.Errorf("Expected default baseline window 5, got %d", config.Detection.BaselineWindow)
	}
	if config.Detection.RecencyWindowHours != 2 {
		t.Errorf("Expected default recency window 2h, got %d", config.Detection.RecencyWindowHours)
	}
}

func TestLoadMissingMultiplier(t *testing.T) {
	content := `
detection:
  multipliers:
    2: 20
    5: 20
    24: 20
    168: 20
`
	loader := NewLoader(writeConfig(t, content))
	if _, err := loader.Load(); err == nil {
		t.Error("Expected error when an offset lacks a multiplier")
	}
}

func TestLoadUnknownOffset(t *testing.T) {
	content := `
detection:
  multipliers:
    2: 20
    5: 20
    24: 20
    168: 20
    720: 20
    9999: 20
`
	loader := NewLoader(writeConfig(t, content))
	if _, err := loader.Load(); err == nil {
		t.Error("Expected error for a multiplier keyed by an unknown offset")
	}
}

func TestLoadNonPositiveMultiplier(t *testing.T) {
	content := `
detection:
  multipliers:
    2: 0
    5: 20
    24: 20
    168: 20
    720: 20
`
	loader := NewLoader(writeConfig(t, content))
	if _, err := loader.Load(); err == nil {
		t.Error("Expected error for a non-positive multiplier")
	}
}

func TestCheckOffsets(t *testing.T) {
	expected := []int{2, 5, 24, 168, 720}
	if len(CheckOffsets) != len(expected) {
		t.Fatalf("Expected %d offsets, got %d", len(expected), len(CheckOffsets))
	}
	for i, offset := range expected {
		if CheckOffsets[i] != offset {
			t.Errorf("Expected offset %d at position %d, got %d", offset, i, CheckOffsets[i])
		}
	}

	if Horizon() != 720*time.Hour {
		t.Errorf("Expected 720h horizon, got %v", Horizon())
	}
}
