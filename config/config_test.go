// Copyright © 2026 Texelrender contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Tests for the JSON configuration store.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TEXELRENDER_CONFIG_DIR", dir)
	return dir
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	withTempConfigDir(t)
	if err := Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	cfg := Get()
	if got := cfg.GetString("render", "color_level", ""); got != "auto" {
		t.Errorf("color_level default = %q, want auto", got)
	}
	if got := cfg.GetInt("render", "target_fps", 0); got != 60 {
		t.Errorf("target_fps default = %d, want 60", got)
	}
	if !cfg.GetBool("render", "alt_screen", false) {
		t.Error("alt_screen default should be true")
	}
	if cfg.GetBool("trace", "enabled", true) {
		t.Error("trace should default off")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := withTempConfigDir(t)
	data := `{"render": {"color_level": "256", "target_fps": 30}, "trace": {"enabled": true, "db_path": "/tmp/t.db"}}`
	if err := os.WriteFile(filepath.Join(dir, configName), []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	cfg := Get()
	if got := cfg.GetString("render", "color_level", ""); got != "256" {
		t.Errorf("color_level = %q, want 256", got)
	}
	if got := cfg.GetInt("render", "target_fps", 0); got != 30 {
		t.Errorf("target_fps = %d, want 30", got)
	}
	if !cfg.GetBool("trace", "enabled", false) {
		t.Error("trace.enabled not loaded")
	}
	// Missing keys still pick up defaults.
	if !cfg.GetBool("render", "alt_screen", false) {
		t.Error("alt_screen default not applied alongside file values")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := withTempConfigDir(t)
	if err := Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	Set(Config{"render": Section{"color_level": "truecolor"}})
	if err := Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, configName)); err != nil {
		t.Fatalf("config file missing after save: %v", err)
	}

	if err := Reload(); err != nil {
		t.Fatalf("reload after save: %v", err)
	}
	if got := Get().GetString("render", "color_level", ""); got != "truecolor" {
		t.Errorf("round-trip color_level = %q, want truecolor", got)
	}
}

func TestMalformedFileKeepsDefaults(t *testing.T) {
	dir := withTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, configName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := Reload(); err == nil {
		t.Error("reload should report the parse error")
	}
	if got := Get().GetInt("render", "target_fps", 0); got != 60 {
		t.Errorf("defaults not applied after parse error: target_fps = %d", got)
	}
}
