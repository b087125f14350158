package main

import (
	"testing"
	"time"

	"github.com/robalobadob/memorygrid/internal/playback"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Locale != "fr" || cfg.DBPath != "./data/memory.db" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if got := cfg.timings(); got != playback.DefaultTimings() {
		t.Errorf("default timings = %+v, want %+v", got, playback.DefaultTimings())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MEMORY_LOCALE", "en")
	t.Setenv("MEMORY_SEED", "42")
	t.Setenv("MEMORY_SHOW", "250ms")
	t.Setenv("MEMORY_ROUND_PAUSE", "2s")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Locale != "en" || cfg.Seed != 42 {
		t.Errorf("cfg = %+v", cfg)
	}
	tm := cfg.timings()
	if tm.Show != 250*time.Millisecond || tm.RoundPause != 2*time.Second {
		t.Errorf("timings = %+v", tm)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for name, kv := range map[string][2]string{
		"zero show":    {"MEMORY_SHOW", "0s"},
		"bad duration": {"MEMORY_GAP", "soon"},
		"bad seed":     {"MEMORY_SEED", "-1"},
		"long flash":   {"MEMORY_TAP_FLASH", "3s"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := loadConfig(); err == nil {
				t.Errorf("%s=%s accepted", kv[0], kv[1])
			}
		})
	}
}
