// Package config loads service configuration with a fixed precedence:
// built-in defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/adhith25/ai-voice-detector/voice/decision"
	"github.com/adhith25/ai-voice-detector/voice/feature"
	"github.com/adhith25/ai-voice-detector/waveform"
)

// Config is the full service configuration. Durations are carried as
// milliseconds so the YAML stays plain integers.
type Config struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	ReadTimeoutMS     int    `yaml:"read_timeout_ms"`
	WriteTimeoutMS    int    `yaml:"write_timeout_ms"`
	ShutdownTimeoutMS int    `yaml:"shutdown_timeout_ms"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes"`

	Detector Detector `yaml:"detector"`
	Limits   Limits   `yaml:"limits"`
}

// Detector carries the analysis calibration values.
type Detector struct {
	CoefficientCount  int     `yaml:"coefficient_count"`
	PitchVarThreshold float64 `yaml:"pitch_var_threshold"`
	MFCCVarThreshold  float64 `yaml:"mfcc_var_threshold"`
	PitchWeight       float64 `yaml:"pitch_weight"`
	MFCCWeight        float64 `yaml:"mfcc_weight"`
}

// Limits bounds the clips the service accepts.
type Limits struct {
	MinDurationMS int     `yaml:"min_duration_ms"`
	MaxDurationMS int     `yaml:"max_duration_ms"`
	MinPeak       float64 `yaml:"min_peak"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:              "0.0.0.0",
		Port:              8000,
		ReadTimeoutMS:     15000,
		WriteTimeoutMS:    30000,
		ShutdownTimeoutMS: 10000,
		MaxBodyBytes:      10 << 20,
		Detector: Detector{
			CoefficientCount:  13,
			PitchVarThreshold: decision.DefaultPitchVarThreshold,
			MFCCVarThreshold:  decision.DefaultMFCCVarThreshold,
			PitchWeight:       decision.DefaultPitchWeight,
			MFCCWeight:        decision.DefaultMFCCWeight,
		},
		Limits: Limits{
			MinDurationMS: 100,
			MaxDurationMS: 60000,
			MinPeak:       1e-3,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides, in that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Host = envStr("VOICEDETECT_HOST", cfg.Host)
	cfg.Port = envInt("VOICEDETECT_PORT", cfg.Port)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the host:port the server binds.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeout returns the HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// FeatureConfig maps the detector section onto the extractor configuration.
func (d Detector) FeatureConfig() feature.Config {
	return feature.Config{CoefficientCount: d.CoefficientCount}
}

// DecisionConfig maps the detector section onto the engine configuration.
func (d Detector) DecisionConfig() decision.Config {
	return decision.Config{
		PitchVarThreshold: d.PitchVarThreshold,
		MFCCVarThreshold:  d.MFCCVarThreshold,
		PitchWeight:       d.PitchWeight,
		MFCCWeight:        d.MFCCWeight,
	}
}

// Waveform maps the limits section onto clip validation bounds.
func (l Limits) Waveform() waveform.Limits {
	return waveform.Limits{
		MinDuration: time.Duration(l.MinDurationMS) * time.Millisecond,
		MaxDuration: time.Duration(l.MaxDurationMS) * time.Millisecond,
		MinPeak:     l.MinPeak,
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config port must be in [1, 65535]: %d", c.Port)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("config max body bytes must be positive: %d", c.MaxBodyBytes)
	}
	if c.ReadTimeoutMS < 0 || c.WriteTimeoutMS < 0 || c.ShutdownTimeoutMS < 0 {
		return fmt.Errorf("config timeouts must not be negative: %d, %d, %d", c.ReadTimeoutMS, c.WriteTimeoutMS, c.ShutdownTimeoutMS)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
