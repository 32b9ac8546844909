package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Timing.TickRate != 60 {
		t.Errorf("tick_rate = %v, want 60", cfg.Timing.TickRate)
	}
	if math.Abs(cfg.Derived.DT-1.0/60) > 1e-12 {
		t.Errorf("derived dt = %v, want 1/60", cfg.Derived.DT)
	}
	if cfg.Derived.TickInterval != time.Second/60 {
		t.Errorf("tick interval = %v, want %v", cfg.Derived.TickInterval, time.Second/60)
	}
	if cfg.Physics.RepulsionStrength != 3000000 {
		t.Errorf("repulsion_strength = %v, want 3000000", cfg.Physics.RepulsionStrength)
	}
	if cfg.Attraction.Range != 500 {
		t.Errorf("attraction range = %v, want 500", cfg.Attraction.Range)
	}
	if len(cfg.Population.Cells) != 3 {
		t.Errorf("expected 3 default seed cells, got %d", len(cfg.Population.Cells))
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("timing:\n  tick_rate: 120\nattraction:\n  range: 250\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Timing.TickRate != 120 {
		t.Errorf("tick_rate = %v, want 120", cfg.Timing.TickRate)
	}
	if cfg.Attraction.Range != 250 {
		t.Errorf("range = %v, want 250", cfg.Attraction.Range)
	}
	// Untouched values keep defaults
	if cfg.Attraction.Strength != 50 {
		t.Errorf("strength = %v, want default 50", cfg.Attraction.Strength)
	}
	if math.Abs(cfg.Derived.DT-1.0/120) > 1e-12 {
		t.Errorf("derived dt = %v, want 1/120", cfg.Derived.DT)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tick rate", "timing:\n  tick_rate: 0\n"},
		{"negative density", "physics:\n  density: -1\n"},
		{"zero min distance", "physics:\n  min_distance: 0\n"},
		{"bad affinity", "population:\n  cells:\n    - { x: 0, y: 0, size: 1, color: [1,0,0], affinity: [1, 0] }\n"},
		{"zero size", "population:\n  cells:\n    - { x: 0, y: 0, size: 0, color: [1,0,0] }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Attraction.Cost = 0.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if reloaded.Attraction.Cost != 0.5 {
		t.Errorf("cost = %v, want 0.5", reloaded.Attraction.Cost)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}
