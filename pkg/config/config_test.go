package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.Door.MaxAngle != 110 || cfg.Door.Step != 10 || cfg.Door.StepDelay != 10*time.Millisecond {
		t.Errorf("Unexpected door defaults: %+v", cfg.Door)
	}
	if cfg.Timing.TauntBlink.Count != 12 || cfg.Timing.ShutdownBlink.Count != 22 {
		t.Errorf("Unexpected blink counts: %+v / %+v", cfg.Timing.TauntBlink, cfg.Timing.ShutdownBlink)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if cfg.Variant != VariantBarGraph {
		t.Errorf("Expected default variant, got %q", cfg.Variant)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trap.yaml")
	yml := "variant: strobe\ntiming:\n  capturehold: 2s\n  debounce: 50ms\n"
	if err := ioutil.WriteFile(path, []byte(yml), 0666); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Variant != VariantStrobe {
		t.Errorf("Variant not overridden: %q", cfg.Variant)
	}
	if cfg.Timing.CaptureHold != 2*time.Second {
		t.Errorf("Capture hold not overridden: %v", cfg.Timing.CaptureHold)
	}
	if cfg.Timing.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce not overridden: %v", cfg.Timing.Debounce)
	}
	// Untouched fields keep their defaults.
	if cfg.Timing.IdleHold != 600*time.Millisecond {
		t.Errorf("Idle hold should keep its default, got %v", cfg.Timing.IdleHold)
	}
}

func TestLoadRejectsBadVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trap.yaml")
	if err := ioutil.WriteFile(path, []byte("variant: disco\n"), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected an error for an unknown variant")
	}
}

func TestValidateDoor(t *testing.T) {
	cfg := Default()
	cfg.Door.Step = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Zero door step should be rejected")
	}
	cfg = Default()
	cfg.Door.Step = 120
	if err := cfg.Validate(); err == nil {
		t.Error("Door step larger than the sweep should be rejected")
	}
}

func TestWriteInUseRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in-use.yaml")
	cfg := Default()
	cfg.Variant = VariantRing
	if err := cfg.WriteInUse(path); err != nil {
		t.Fatalf("WriteInUse failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected file to exist: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Reloading written config failed: %v", err)
	}
	if loaded.Variant != VariantRing {
		t.Errorf("Variant lost on round trip: %q", loaded.Variant)
	}
	if loaded.Timing.ShutdownBlink != cfg.Timing.ShutdownBlink {
		t.Errorf("Shutdown blink lost on round trip: %+v", loaded.Timing.ShutdownBlink)
	}
}
