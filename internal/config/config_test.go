package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	os.Unsetenv("VOICEDETECT_HOST")
	os.Unsetenv("VOICEDETECT_PORT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr = %q, want 0.0.0.0:8000", cfg.Addr())
	}
	if cfg.ReadTimeout() != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.ReadTimeout())
	}
	if cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("MaxBodyBytes = %d, want 10MiB", cfg.MaxBodyBytes)
	}
	if cfg.Detector.CoefficientCount != 13 {
		t.Errorf("CoefficientCount = %d, want 13", cfg.Detector.CoefficientCount)
	}
	if cfg.Detector.PitchVarThreshold != 500 {
		t.Errorf("PitchVarThreshold = %v, want 500", cfg.Detector.PitchVarThreshold)
	}
	if cfg.Limits.MaxDurationMS != 60000 {
		t.Errorf("MaxDurationMS = %d, want 60000", cfg.Limits.MaxDurationMS)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	os.Unsetenv("VOICEDETECT_HOST")
	os.Unsetenv("VOICEDETECT_PORT")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
host: 127.0.0.1
port: 9090
detector:
  coefficient_count: 20
limits:
  min_peak: 0.01
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr = %q, want 127.0.0.1:9090", cfg.Addr())
	}
	if cfg.Detector.CoefficientCount != 20 {
		t.Errorf("CoefficientCount = %d, want 20", cfg.Detector.CoefficientCount)
	}
	if cfg.Limits.MinPeak != 0.01 {
		t.Errorf("MinPeak = %v, want 0.01", cfg.Limits.MinPeak)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Detector.PitchWeight != 0.7 {
		t.Errorf("PitchWeight = %v, want default 0.7", cfg.Detector.PitchWeight)
	}
	if cfg.ReadTimeout() != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want default 15s", cfg.ReadTimeout())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("host: 127.0.0.1\nport: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("VOICEDETECT_HOST", "10.0.0.5")
	t.Setenv("VOICEDETECT_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != "10.0.0.5:7070" {
		t.Errorf("Addr = %q, want 10.0.0.5:7070", cfg.Addr())
	}
}

func TestEnvIgnoresUnparsablePort(t *testing.T) {
	os.Unsetenv("VOICEDETECT_HOST")
	t.Setenv("VOICEDETECT_PORT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default 8000", cfg.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("host: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	os.Unsetenv("VOICEDETECT_HOST")
	os.Unsetenv("VOICEDETECT_PORT")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: -5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative port")
	}
}

func TestSectionConversions(t *testing.T) {
	cfg := Default()

	fc := cfg.Detector.FeatureConfig()
	if fc.CoefficientCount != 13 {
		t.Errorf("feature coefficient count = %d, want 13", fc.CoefficientCount)
	}

	dc := cfg.Detector.DecisionConfig()
	if dc.PitchVarThreshold != 500 || dc.MFCCVarThreshold != 50 {
		t.Errorf("decision thresholds = %v/%v, want 500/50", dc.PitchVarThreshold, dc.MFCCVarThreshold)
	}
	if dc.PitchWeight != 0.7 || dc.MFCCWeight != 0.3 {
		t.Errorf("decision weights = %v/%v, want 0.7/0.3", dc.PitchWeight, dc.MFCCWeight)
	}

	wl := cfg.Limits.Waveform()
	if wl.MinDuration != 100*time.Millisecond {
		t.Errorf("MinDuration = %v, want 100ms", wl.MinDuration)
	}
	if wl.MaxDuration != time.Minute {
		t.Errorf("MaxDuration = %v, want 1m", wl.MaxDuration)
	}
	if wl.MinPeak != 1e-3 {
		t.Errorf("MinPeak = %v, want 1e-3", wl.MinPeak)
	}
}
