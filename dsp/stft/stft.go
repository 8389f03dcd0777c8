package stft

import (
	"fmt"
	"sync"

	"github.com/adhith25/ai-voice-detector/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultFrameLength is the analysis frame length used when
	// Config.FrameLength is zero.
	DefaultFrameLength = 2048
	// DefaultHopLength is the hop between frame centers used when
	// Config.HopLength is zero.
	DefaultHopLength = 512
)

// Config holds short-time analysis parameters.
type Config struct {
	FrameLength int         // samples per frame, must be a power of two
	HopLength   int         // samples between consecutive frame centers
	WindowType  window.Type // analysis window; the zero value is Hann
}

// Analyzer slices signals into centered, windowed frames and transforms
// them to the frequency domain.
//
// An Analyzer may be reused across signals but is not safe for concurrent
// use.
type Analyzer struct {
	cfg    Config
	coeffs []float64
	plan   *algofft.Plan[complex128]

	in   []complex128
	spec []complex128
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// New creates an analyzer for the given configuration. Zero fields take
// defaults: frame length 2048, hop length 512, Hann window.
func New(cfg Config) (*Analyzer, error) {
	cfg = normalizeConfig(cfg)

	if !isPowerOfTwo(cfg.FrameLength) {
		return nil, fmt.Errorf("stft frame length must be a power of two: %d", cfg.FrameLength)
	}

	if cfg.HopLength > cfg.FrameLength {
		return nil, fmt.Errorf("stft hop length must be in [1, %d]: %d", cfg.FrameLength, cfg.HopLength)
	}

	coeffs := window.Generate(cfg.WindowType, cfg.FrameLength, window.WithPeriodic())
	if len(coeffs) != cfg.FrameLength {
		return nil, fmt.Errorf("stft window size mismatch: %d", cfg.FrameLength)
	}

	plan, err := algofft.NewPlan64(cfg.FrameLength)
	if err != nil {
		return nil, fmt.Errorf("stft fft plan: %w", err)
	}

	return &Analyzer{
		cfg:    cfg,
		coeffs: coeffs,
		plan:   plan,
		in:     make([]complex128, cfg.FrameLength),
		spec:   make([]complex128, cfg.FrameLength),
	}, nil
}

// FrameLength returns the analysis frame length in samples.
func (a *Analyzer) FrameLength() int { return a.cfg.FrameLength }

// HopLength returns the hop between frame centers in samples.
func (a *Analyzer) HopLength() int { return a.cfg.HopLength }

// Bins returns the number of one-sided spectrum bins per frame.
func (a *Analyzer) Bins() int { return a.cfg.FrameLength/2 + 1 }

// NumFrames returns the number of frames produced for a signal of n samples.
func (a *Analyzer) NumFrames(n int) int {
	if n <= 0 {
		return 0
	}

	return 1 + n/a.cfg.HopLength
}

// Magnitudes returns the one-sided magnitude spectrum of every frame.
//
// The result has NumFrames rows of Bins values each. An empty signal yields
// no frames and no error.
func (a *Analyzer) Magnitudes(samples []float64) ([][]float64, error) {
	return a.spectra(samples, func(dst, re, im []float64) {
		vecmath.Magnitude(dst, re, im)
	})
}

// Powers returns the one-sided power spectrum of every frame.
//
// The result has NumFrames rows of Bins values each. An empty signal yields
// no frames and no error.
func (a *Analyzer) Powers(samples []float64) ([][]float64, error) {
	return a.spectra(samples, func(dst, re, im []float64) {
		vecmath.Power(dst, re, im)
	})
}

func (a *Analyzer) spectra(samples []float64, kernel func(dst, re, im []float64)) ([][]float64, error) {
	frames := a.NumFrames(len(samples))
	if frames == 0 {
		return nil, nil
	}

	bins := a.Bins()
	out := make([][]float64, frames)

	re, im, buf := getScratch(bins)
	defer putScratch(buf)

	for f := range out {
		a.frameInto(samples, f)

		err := a.plan.Forward(a.spec, a.in)
		if err != nil {
			return nil, fmt.Errorf("stft frame %d: %w", f, err)
		}

		for k := 0; k < bins; k++ {
			re[k] = real(a.spec[k])
			im[k] = imag(a.spec[k])
		}

		row := make([]float64, bins)
		kernel(row, re, im)
		out[f] = row
	}

	return out, nil
}

// frameInto fills the windowed input buffer for the given frame index.
// Samples outside the signal read as zero.
func (a *Analyzer) frameInto(samples []float64, frame int) {
	start := frame*a.cfg.HopLength - a.cfg.FrameLength/2

	for j := range a.in {
		idx := start + j

		s := 0.0
		if idx >= 0 && idx < len(samples) {
			s = samples[idx]
		}

		a.in[j] = complex(s*a.coeffs[j], 0)
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.FrameLength <= 0 {
		cfg.FrameLength = DefaultFrameLength
	}

	if cfg.HopLength <= 0 {
		cfg.HopLength = DefaultHopLength
	}

	return cfg
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
