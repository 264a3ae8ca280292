package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Round.SpawnCount != 10 {
		t.Errorf("spawn_count = %d, want 10", cfg.Round.SpawnCount)
	}
	if cfg.Round.Duration != 10 {
		t.Errorf("duration = %v, want 10", cfg.Round.Duration)
	}
	if cfg.Round.Selection != SelectionArchive {
		t.Errorf("selection = %q, want %q", cfg.Round.Selection, SelectionArchive)
	}
	if cfg.Mutation.SizeClamp != (Range{Min: 0.5, Max: 1.5}) {
		t.Errorf("size_clamp = %+v, want [0.5,1.5]", cfg.Mutation.SizeClamp)
	}
	if cfg.Derived.FrameDT <= 0 {
		t.Errorf("derived frame dt = %v, want > 0", cfg.Derived.FrameDT)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("round:\n  spawn_count: 3\n  duration: 5.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Round.SpawnCount != 3 || cfg.Round.Duration != 5 {
		t.Errorf("round = %+v, want spawn_count 3 duration 5", cfg.Round)
	}
	// Untouched sections keep their defaults
	if cfg.Round.Selection != SelectionArchive {
		t.Errorf("selection = %q, want default %q", cfg.Round.Selection, SelectionArchive)
	}
	if cfg.Spawn.Size.Max != 1.0 {
		t.Errorf("spawn.size.max = %v, want default 1.0", cfg.Spawn.Size.Max)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("round:\n  spawn_count: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero spawn count", func(c *Config) { c.Round.SpawnCount = 0 }},
		{"negative spawn count", func(c *Config) { c.Round.SpawnCount = -1 }},
		{"zero duration", func(c *Config) { c.Round.Duration = 0 }},
		{"unknown selection", func(c *Config) { c.Round.Selection = "tournament" }},
		{"inverted hue range", func(c *Config) { c.Spawn.Hue = Range{Min: 0.8, Max: 0.2} }},
		{"saturation above one", func(c *Config) { c.Spawn.Saturation = Range{Min: 0.5, Max: 1.2} }},
		{"non-positive spawn size", func(c *Config) { c.Spawn.Size = Range{Min: 0, Max: 1} }},
		{"inverted size clamp", func(c *Config) { c.Mutation.SizeClamp = Range{Min: 2, Max: 1} }},
		{"negative size delta", func(c *Config) { c.Mutation.SizeDelta = -0.1 }},
		{"bad hue clamp", func(c *Config) {
			c.Mutation.HueClamp = HueClampConfig{Enabled: true, Min: 0.7, Max: 0.3}
		}},
		{"empty play area", func(c *Config) { c.PlayArea.MaxX = c.PlayArea.MinX }},
		{"zero capture scale", func(c *Config) { c.Telemetry.CaptureRateScale = 0 }},
		{"negative player rate", func(c *Config) { c.Player.CaptureRate = -1 }},
		{"NaN duration", func(c *Config) { c.Round.Duration = math.NaN() }},
		{"infinite duration", func(c *Config) { c.Round.Duration = math.Inf(1) }},
		{"NaN hue min", func(c *Config) { c.Spawn.Hue.Min = math.NaN() }},
		{"infinite spawn size max", func(c *Config) { c.Spawn.Size.Max = math.Inf(1) }},
		{"NaN size delta", func(c *Config) { c.Mutation.SizeDelta = math.NaN() }},
		{"infinite hue delta", func(c *Config) { c.Mutation.HueDelta = math.Inf(1) }},
		{"NaN size clamp min", func(c *Config) { c.Mutation.SizeClamp.Min = math.NaN() }},
		{"infinite play area", func(c *Config) { c.PlayArea.MaxX = math.Inf(1) }},
		{"NaN play area", func(c *Config) { c.PlayArea.MinY = math.NaN() }},
		{"infinite capture scale", func(c *Config) { c.Telemetry.CaptureRateScale = math.Inf(1) }},
		{"NaN player bias", func(c *Config) { c.Player.SizeBias = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Round.SpawnCount = 0
	cfg.Round.Duration = -1

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() = %T, want joined error", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("got %d errors, want 2: %v", n, err)
	}
}

func TestDisabledHueClampIsNotValidated(t *testing.T) {
	cfg := Default()
	cfg.Mutation.HueClamp = HueClampConfig{Enabled: false, Min: 0.9, Max: 0.1}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Round.SpawnCount = 7

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Round.SpawnCount != 7 {
		t.Errorf("spawn_count = %d, want 7", loaded.Round.SpawnCount)
	}
}

func TestRangeClamp(t *testing.T) {
	r := Range{Min: 0.5, Max: 1.5}
	tests := []struct {
		in, want float64
	}{
		{0.1, 0.5},
		{0.5, 0.5},
		{1.0, 1.0},
		{2.0, 1.5},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlayAreaValid(t *testing.T) {
	tests := []struct {
		name string
		area PlayArea
		want bool
	}{
		{"default", PlayArea{MinX: -20, MaxX: 10, MinY: 1, MaxY: 4}, true},
		{"zero width", PlayArea{MinX: 1, MaxX: 1, MinY: 0, MaxY: 1}, false},
		{"inverted height", PlayArea{MinX: 0, MaxX: 1, MinY: 2, MaxY: 1}, false},
		{"NaN edge", PlayArea{MinX: math.NaN(), MaxX: 1, MinY: 0, MaxY: 1}, false},
		{"infinite edge", PlayArea{MinX: 0, MaxX: math.Inf(1), MinY: 0, MaxY: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.area.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadRejectsNonFiniteYAML(t *testing.T) {
	for _, value := range []string{".nan", ".inf"} {
		t.Run(value, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte("round:\n  duration: "+value+"\n"), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() = %v, want ErrInvalid", err)
			}
		})
	}
}
