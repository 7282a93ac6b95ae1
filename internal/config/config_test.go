package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default thresholds should validate: %v", err)
	}
}

func TestLoad_Overlay(t *testing.T) {
	yamlContent := `grading:
  page_load_sec:
    good: 2
    fair: 4
    poor: 8
timing:
  very_slow_ms: 2000
`

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "thresholds.yaml")

	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg, err := Load(filePath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Grading.PageLoadSec.Good != 2 || cfg.Grading.PageLoadSec.Poor != 8 {
		t.Errorf("expected overridden page load bands, got %+v", cfg.Grading.PageLoadSec)
	}
	if cfg.Timing.VerySlowMs != 2000 {
		t.Errorf("expected very_slow_ms 2000, got %f", cfg.Timing.VerySlowMs)
	}

	// Untouched sections keep their defaults.
	if cfg.Grading.DOMReadySec.Good != 3 {
		t.Errorf("expected default DOM ready bands, got %+v", cfg.Grading.DOMReadySec)
	}
	if cfg.Savings.CompressionRatio != 0.7 {
		t.Errorf("expected default compression ratio, got %f", cfg.Savings.CompressionRatio)
	}
}

func TestLoad_InvalidBands(t *testing.T) {
	yamlContent := `grading:
  page_load_sec:
    good: 5
    fair: 3
    poor: 10
`

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "thresholds.yaml")

	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := Load(filePath); err == nil {
		t.Fatal("expected validation error for non-increasing bands")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "thresholds.yaml")

	if err := os.WriteFile(filePath, []byte("grading: [not a map"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := Load(filePath); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
