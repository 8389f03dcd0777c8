// Package feature reduces a mono waveform to the fixed acoustic
// fingerprint consumed by the decision engine: mel-cepstral coefficient
// statistics, pitch variance over voiced frames, mean spectral flatness,
// and frame-energy variance.
//
// Extraction is deterministic: the same samples, sample rate, and
// configuration always produce a bit-identical Vector.
package feature

import (
	"github.com/adhith25/ai-voice-detector/dsp/mel"
	"github.com/adhith25/ai-voice-detector/dsp/pitch"
	"github.com/adhith25/ai-voice-detector/dsp/stft"
	"github.com/adhith25/ai-voice-detector/stats"
)

// Config holds feature extraction parameters. Zero values are filled with
// the package defaults.
type Config struct {
	CoefficientCount  int     // cepstral coefficients per frame
	FrameLength       int     // analysis frame in samples, must be a power of two
	HopLength         int     // samples between consecutive frame centers
	MelBands          int     // triangular filters in the mel filterbank
	PitchMinFrequency float64 // lower edge of the pitch search band in Hz
	PitchMaxFrequency float64 // upper edge of the pitch search band in Hz
}

// Vector is the acoustic fingerprint of one waveform. It is created once
// per clip and never mutated afterwards.
type Vector struct {
	MFCCMean             []float64 `json:"mfcc_mean"`
	MFCCVar              []float64 `json:"mfcc_var"`
	PitchVar             float64   `json:"pitch_var"`
	SpectralFlatnessMean float64   `json:"spectral_flatness_mean"`
	RMSVar               float64   `json:"rms_var"`
}

// Extractor computes feature vectors with a fixed configuration.
//
// An Extractor holds no analysis state; every Extract call builds its own
// machinery, so a single Extractor is safe for concurrent use.
type Extractor struct {
	cfg Config
}

// NewExtractor returns an extractor for the given configuration.
func NewExtractor(cfg Config) (*Extractor, error) {
	cfg = normalizeConfig(cfg)

	if cfg.CoefficientCount < 1 || cfg.CoefficientCount > cfg.MelBands {
		return nil, extractionErrorf("coefficient count must be in [1, %d]: %d", cfg.MelBands, cfg.CoefficientCount)
	}
	if cfg.FrameLength < 1 || cfg.FrameLength&(cfg.FrameLength-1) != 0 {
		return nil, extractionErrorf("frame length must be a power of two: %d", cfg.FrameLength)
	}
	if cfg.HopLength < 1 || cfg.HopLength > cfg.FrameLength {
		return nil, extractionErrorf("hop length must be in [1, %d]: %d", cfg.FrameLength, cfg.HopLength)
	}
	if cfg.PitchMinFrequency <= 0 || cfg.PitchMinFrequency >= cfg.PitchMaxFrequency {
		return nil, extractionErrorf("pitch band must satisfy 0 < min < max: %f, %f", cfg.PitchMinFrequency, cfg.PitchMaxFrequency)
	}

	return &Extractor{cfg: cfg}, nil
}

// Option adjusts the configuration used by the one-shot Extract.
type Option func(*Config)

// WithCoefficientCount sets the number of cepstral coefficients kept per
// frame.
func WithCoefficientCount(n int) Option {
	return func(cfg *Config) { cfg.CoefficientCount = n }
}

// Extract is a one-shot extraction with the default configuration.
func Extract(samples []float64, sampleRate int, opts ...Option) (Vector, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	e, err := NewExtractor(cfg)
	if err != nil {
		return Vector{}, err
	}

	return e.Extract(samples, sampleRate)
}

// Extract reduces samples at the given rate to a feature vector.
//
// It fails only when the numeric transform cannot be computed: an empty
// waveform, a non-positive sample rate, or a configuration the filterbank
// cannot satisfy at that rate. Degenerate-but-nonempty signals such as
// pure silence produce a valid Vector.
func (e *Extractor) Extract(samples []float64, sampleRate int) (Vector, error) {
	if len(samples) == 0 {
		return Vector{}, extractionErrorf("empty waveform")
	}
	if sampleRate <= 0 {
		return Vector{}, extractionErrorf("sample rate must be positive: %d", sampleRate)
	}

	cfg := e.cfg

	analyzer, err := stft.New(stft.Config{
		FrameLength: cfg.FrameLength,
		HopLength:   cfg.HopLength,
	})
	if err != nil {
		return Vector{}, extractionErrorf("spectrogram: %v", err)
	}

	powers, err := analyzer.Powers(samples)
	if err != nil {
		return Vector{}, extractionErrorf("spectrogram: %v", err)
	}

	cepstrum, err := mel.New(mel.Config{
		SampleRate:   float64(sampleRate),
		FFTLength:    cfg.FrameLength,
		Bands:        cfg.MelBands,
		Coefficients: cfg.CoefficientCount,
	})
	if err != nil {
		return Vector{}, extractionErrorf("filterbank: %v", err)
	}

	coefficients, err := cepstrum.Coefficients(powers)
	if err != nil {
		return Vector{}, extractionErrorf("cepstrum: %v", err)
	}

	mean, variance := aggregateCoefficients(coefficients, cfg.CoefficientCount)

	tracker, err := pitch.New(pitch.Config{
		SampleRate:   float64(sampleRate),
		FrameLength:  cfg.FrameLength,
		HopLength:    cfg.HopLength,
		MinFrequency: cfg.PitchMinFrequency,
		MaxFrequency: cfg.PitchMaxFrequency,
	})
	if err != nil {
		return Vector{}, extractionErrorf("pitch tracker: %v", err)
	}

	// Unvoiced frames are excluded from the statistic, not counted as
	// zero. No voiced frames at all is an explicit zero, never an error.
	pitchVar := 0.0
	if voiced := voicedFrequencies(tracker.Track(samples)); len(voiced) > 0 {
		pitchVar = stats.Variance(voiced)
	}

	flatness := make([]float64, len(powers))
	for i, frame := range powers {
		flatness[i] = stats.Flatness(frame)
	}

	return Vector{
		MFCCMean:             mean,
		MFCCVar:              variance,
		PitchVar:             pitchVar,
		SpectralFlatnessMean: stats.Mean(flatness),
		RMSVar:               stats.Variance(frameRMS(samples, cfg.FrameLength, cfg.HopLength)),
	}, nil
}

// aggregateCoefficients folds per-frame cepstra into per-coefficient mean
// and population variance.
func aggregateCoefficients(frames [][]float64, count int) (mean, variance []float64) {
	mean = make([]float64, count)
	variance = make([]float64, count)

	column := make([]float64, len(frames))
	for k := range count {
		for i, frame := range frames {
			column[i] = frame[k]
		}
		mean[k], variance[k] = stats.MeanVariance(column)
	}

	return mean, variance
}

// voicedFrequencies collects the frequencies of voiced frames.
func voicedFrequencies(estimates []pitch.Estimate) []float64 {
	out := make([]float64, 0, len(estimates))
	for _, est := range estimates {
		if est.Voiced {
			out = append(out, est.Frequency)
		}
	}
	return out
}

// frameRMS computes per-frame RMS over the same centered framing the
// spectrogram uses, without a window.
func frameRMS(samples []float64, frameLength, hopLength int) []float64 {
	numFrames := 1 + len(samples)/hopLength
	half := frameLength / 2
	frame := make([]float64, frameLength)

	out := make([]float64, numFrames)
	for f := range out {
		start := f*hopLength - half
		for i := range frame {
			j := start + i
			if j >= 0 && j < len(samples) {
				frame[i] = samples[j]
			} else {
				frame[i] = 0
			}
		}
		out[f] = stats.RMS(frame)
	}

	return out
}

func normalizeConfig(cfg Config) Config {
	if cfg.CoefficientCount == 0 {
		cfg.CoefficientCount = mel.DefaultCoefficients
	}
	if cfg.FrameLength == 0 {
		cfg.FrameLength = stft.DefaultFrameLength
	}
	if cfg.HopLength == 0 {
		cfg.HopLength = stft.DefaultHopLength
	}
	if cfg.MelBands == 0 {
		cfg.MelBands = mel.DefaultBands
	}
	if cfg.PitchMinFrequency == 0 {
		cfg.PitchMinFrequency = pitch.DefaultMinFrequency
	}
	if cfg.PitchMaxFrequency == 0 {
		cfg.PitchMaxFrequency = pitch.DefaultMaxFrequency
	}
	return cfg
}
