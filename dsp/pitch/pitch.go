package pitch

import (
	"fmt"
	"math"
)

const (
	defaultFrameLength = 2048
	defaultHopLength   = 512

	// DefaultMinFrequency is the lower edge of the candidate band in Hz (C2).
	DefaultMinFrequency = 65.41
	// DefaultMaxFrequency is the upper edge of the candidate band in Hz (C7).
	DefaultMaxFrequency = 2093.0
	// DefaultThreshold is the voicing threshold on the normalized difference.
	DefaultThreshold = 0.1
)

// Config holds pitch tracking parameters.
type Config struct {
	SampleRate   float64
	FrameLength  int // samples per frame; the integration window is half of it
	HopLength    int // samples between consecutive frame centers
	MinFrequency float64
	MaxFrequency float64
	Threshold    float64
}

// Estimate is the pitch reading of one frame. Frequency is meaningful only
// when Voiced is set.
type Estimate struct {
	Frequency float64
	Voiced    bool
}

// Tracker runs YIN pitch detection over centered frames of a signal.
//
// A Tracker may be reused across signals but is not safe for concurrent use.
type Tracker struct {
	cfg    Config
	minLag int
	maxLag int
	frame  []float64
	diff   []float64
}

// New creates a tracker for the given configuration. Zero fields take
// defaults: frame length 2048, hop length 512, band C2 to C7, threshold 0.1.
func New(cfg Config) (*Tracker, error) {
	cfg = normalizeConfig(cfg)

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("pitch sample rate must be > 0: %f", cfg.SampleRate)
	}

	if cfg.FrameLength < 2 {
		return nil, fmt.Errorf("pitch frame length must be >= 2: %d", cfg.FrameLength)
	}

	if cfg.HopLength > cfg.FrameLength {
		return nil, fmt.Errorf("pitch hop length must be in [1, %d]: %d", cfg.FrameLength, cfg.HopLength)
	}

	if cfg.MinFrequency <= 0 || cfg.MinFrequency >= cfg.MaxFrequency {
		return nil, fmt.Errorf("pitch band must satisfy 0 < min < max: %f, %f",
			cfg.MinFrequency, cfg.MaxFrequency)
	}

	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("pitch threshold must be in (0, 1]: %f", cfg.Threshold)
	}

	window := cfg.FrameLength / 2

	minLag := int(math.Floor(cfg.SampleRate / cfg.MaxFrequency))
	if minLag < 1 {
		minLag = 1
	}

	maxLag := int(math.Ceil(cfg.SampleRate / cfg.MinFrequency))
	if maxLag > window-1 {
		maxLag = window - 1
	}

	return &Tracker{
		cfg:    cfg,
		minLag: minLag,
		maxLag: maxLag,
		frame:  make([]float64, cfg.FrameLength),
		diff:   make([]float64, maxLag+1),
	}, nil
}

// NumFrames returns the number of frames produced for a signal of n samples.
func (t *Tracker) NumFrames(n int) int {
	if n <= 0 {
		return 0
	}

	return 1 + n/t.cfg.HopLength
}

// Track returns one pitch estimate per frame. An empty signal yields nil.
// A band too narrow for the sample rate yields an all-unvoiced track.
func (t *Tracker) Track(samples []float64) []Estimate {
	frames := t.NumFrames(len(samples))
	if frames == 0 {
		return nil
	}

	out := make([]Estimate, frames)
	if t.minLag > t.maxLag {
		return out
	}

	for f := range out {
		t.gather(samples, f)
		out[f] = t.estimate()
	}

	return out
}

// gather fills the frame buffer for the given frame index. Samples outside
// the signal read as zero.
func (t *Tracker) gather(samples []float64, frame int) {
	start := frame*t.cfg.HopLength - t.cfg.FrameLength/2

	for j := range t.frame {
		idx := start + j

		s := 0.0
		if idx >= 0 && idx < len(samples) {
			s = samples[idx]
		}

		t.frame[j] = s
	}
}

func (t *Tracker) estimate() Estimate {
	window := t.cfg.FrameLength / 2
	d := t.diff

	for tau := 1; tau <= t.maxLag; tau++ {
		sum := 0.0
		for j := 0; j < window; j++ {
			delta := t.frame[j] - t.frame[j+tau]
			sum += delta * delta
		}

		d[tau] = sum
	}

	// Cumulative mean normalization, in place. A zero-energy prefix keeps
	// the normalized value at 1, so silence never produces a trough.
	d[0] = 1
	running := 0.0
	for tau := 1; tau <= t.maxLag; tau++ {
		running += d[tau]
		if running > 0 {
			d[tau] = d[tau] * float64(tau) / running
		} else {
			d[tau] = 1
		}
	}

	// First trough under the threshold, descended to its local minimum.
	tau := -1
	for s := t.minLag; s <= t.maxLag; s++ {
		if d[s] < t.cfg.Threshold {
			for s+1 <= t.maxLag && d[s+1] < d[s] {
				s++
			}

			tau = s

			break
		}
	}

	if tau < 0 {
		return Estimate{}
	}

	lag := float64(tau)
	if tau > 1 && tau < t.maxLag {
		s0, s1, s2 := d[tau-1], d[tau], d[tau+1]

		denom := s0 + s2 - 2*s1
		if denom != 0 {
			adj := (s0 - s2) / (2 * denom)
			if adj > -1 && adj < 1 {
				lag += adj
			}
		}
	}

	return Estimate{Frequency: t.cfg.SampleRate / lag, Voiced: true}
}

func normalizeConfig(cfg Config) Config {
	if cfg.FrameLength == 0 {
		cfg.FrameLength = defaultFrameLength
	}

	if cfg.HopLength <= 0 {
		cfg.HopLength = defaultHopLength
	}

	if cfg.MinFrequency == 0 {
		cfg.MinFrequency = DefaultMinFrequency
	}

	if cfg.MaxFrequency == 0 {
		cfg.MaxFrequency = DefaultMaxFrequency
	}

	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}

	return cfg
}
