package diagram

import (
	"testing"

	"github.com/treescope/treescope/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Engine != "tidy" {
		t.Errorf("default engine = %q", cfg.Engine)
	}
	if cfg.BoxWidth != 150 || cfg.BoxHeight != 60 {
		t.Errorf("default box %gx%g", cfg.BoxWidth, cfg.BoxHeight)
	}
	if cfg.ShowDigests {
		t.Error("digests should be off by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero box width", func(c *Config) { c.BoxWidth = 0 }},
		{"negative box height", func(c *Config) { c.BoxHeight = -1 }},
		{"negative radius", func(c *Config) { c.CornerRadius = -1 }},
		{"negative margin", func(c *Config) { c.MarginTop = -1 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Validate should fail", tt.name)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: expected INVALID_CONFIG, got %s", tt.name, errors.GetCode(err))
		}
	}
}

func TestInnerSize(t *testing.T) {
	cfg := DefaultConfig()

	// Vertical margins are 50+50; horizontal margins are zero.
	w, h := cfg.InnerSize(900, 900)
	if w != 900 || h != 800 {
		t.Errorf("InnerSize(900,900) = %gx%g, want 900x800", w, h)
	}

	// A region smaller than the margins collapses to zero.
	w, h = cfg.InnerSize(900, 60)
	if h != 0 {
		t.Errorf("inner height = %g, want 0", h)
	}
	if w != 900 {
		t.Errorf("inner width = %g, want 900", w)
	}
}
