// Package mel maps one-sided power spectra onto the mel scale and derives
// cepstral coefficients from the log filterbank energies.
package mel

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/adhith25/ai-voice-detector/dsp/core"
)

const (
	// DefaultBands is the filterbank size used when Config.Bands is zero.
	DefaultBands = 128
	// DefaultCoefficients is the cepstrum length used when
	// Config.Coefficients is zero.
	DefaultCoefficients = 13

	logFloor = 1e-10
)

// Config holds mel filterbank and cepstrum parameters.
type Config struct {
	SampleRate   float64
	FFTLength    int     // FFT size that produced the input spectra
	Bands        int     // number of triangular filters
	Coefficients int     // cepstral coefficients kept per frame
	MinFrequency float64 // lower filterbank edge in Hz
	MaxFrequency float64 // upper filterbank edge in Hz, 0 means Nyquist
}

// filter is one triangular filter stored over its nonzero bin range.
type filter struct {
	start   int
	weights []float64
}

// Cepstrum computes log mel energies and cepstral coefficients from
// one-sided power spectra.
//
// A Cepstrum may be reused across signals but is not safe for concurrent
// use.
type Cepstrum struct {
	cfg     Config
	filters []filter
	dct     [][]float64 // dct[k] is the k-th orthonormal DCT-II basis row
	energy  []float64
}

// New creates a cepstrum stage for the given configuration. Zero Bands and
// Coefficients take the defaults; a zero MaxFrequency means Nyquist.
func New(cfg Config) (*Cepstrum, error) {
	cfg = normalizeConfig(cfg)

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("mel sample rate must be > 0: %f", cfg.SampleRate)
	}

	if cfg.FFTLength <= 0 {
		return nil, fmt.Errorf("mel fft length must be > 0: %d", cfg.FFTLength)
	}

	if cfg.Bands < 1 {
		return nil, fmt.Errorf("mel band count must be > 0: %d", cfg.Bands)
	}

	if cfg.Coefficients < 1 || cfg.Coefficients > cfg.Bands {
		return nil, fmt.Errorf("mel coefficient count must be in [1, %d]: %d", cfg.Bands, cfg.Coefficients)
	}

	nyquist := cfg.SampleRate / 2
	if cfg.MaxFrequency <= 0 || cfg.MaxFrequency > nyquist {
		cfg.MaxFrequency = nyquist
	}

	if cfg.MinFrequency < 0 || cfg.MinFrequency >= cfg.MaxFrequency {
		return nil, fmt.Errorf("mel band edges must satisfy 0 <= min < max: %f, %f",
			cfg.MinFrequency, cfg.MaxFrequency)
	}

	filters, err := buildFilters(cfg)
	if err != nil {
		return nil, err
	}

	return &Cepstrum{
		cfg:     cfg,
		filters: filters,
		dct:     buildDCT(cfg.Coefficients, cfg.Bands),
		energy:  make([]float64, cfg.Bands),
	}, nil
}

// Energies returns the log-compressed filterbank energies of one power
// spectrum frame in dB. The frame must hold FFTLength/2+1 bins. Energies of
// a silent frame sit exactly on the compression floor.
func (c *Cepstrum) Energies(power []float64) ([]float64, error) {
	out := make([]float64, c.cfg.Bands)
	if err := c.energiesInto(out, power); err != nil {
		return nil, err
	}
	return out, nil
}

// Coefficients returns the cepstral coefficients of every power spectrum
// frame. Each row of powers yields one row of Config.Coefficients values;
// no frames yield nil and no error.
func (c *Cepstrum) Coefficients(powers [][]float64) ([][]float64, error) {
	if len(powers) == 0 {
		return nil, nil
	}

	out := make([][]float64, len(powers))
	for i, frame := range powers {
		if err := c.energiesInto(c.energy, frame); err != nil {
			return nil, err
		}

		row := make([]float64, len(c.dct))
		for k, basis := range c.dct {
			row[k] = vecmath.DotProduct(c.energy, basis)
		}

		out[i] = row
	}

	return out, nil
}

func (c *Cepstrum) energiesInto(dst, power []float64) error {
	bins := c.cfg.FFTLength/2 + 1
	if len(power) != bins {
		return fmt.Errorf("mel frame must hold %d bins: %d", bins, len(power))
	}

	for m, f := range c.filters {
		e := vecmath.DotProduct(power[f.start:f.start+len(f.weights)], f.weights)
		if e < logFloor {
			e = logFloor
		}

		dst[m] = core.LinearPowerToDB(e)
	}

	return nil
}

// buildFilters lays out triangular filters between Bands+2 mel-spaced bin
// edges. Colliding edges are pushed apart so every filter keeps at least one
// bin of width.
func buildFilters(cfg Config) ([]filter, error) {
	bins := cfg.FFTLength/2 + 1
	edges := make([]int, cfg.Bands+2)

	lowMel := hzToMel(cfg.MinFrequency)
	highMel := hzToMel(cfg.MaxFrequency)
	step := (highMel - lowMel) / float64(cfg.Bands+1)

	for i := range edges {
		hz := melToHz(lowMel + float64(i)*step)

		bin := int(math.Round(hz * float64(cfg.FFTLength) / cfg.SampleRate))
		if bin >= bins {
			bin = bins - 1
		}

		edges[i] = bin
	}

	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			edges[i] = edges[i-1] + 1
		}
	}

	if edges[len(edges)-1] >= bins {
		return nil, fmt.Errorf("mel band count must fit %d spectrum bins: %d", bins, cfg.Bands)
	}

	filters := make([]filter, cfg.Bands)
	for m := range filters {
		left, center, right := edges[m], edges[m+1], edges[m+2]

		weights := make([]float64, right-left+1)
		for k := left; k < center; k++ {
			weights[k-left] = float64(k-left) / float64(center-left)
		}
		for k := center; k <= right; k++ {
			weights[k-left] = float64(right-k) / float64(right-center)
		}

		filters[m] = filter{start: left, weights: weights}
	}

	return filters, nil
}

// buildDCT precomputes the orthonormal DCT-II basis over the band count.
func buildDCT(coefficients, bands int) [][]float64 {
	table := make([][]float64, coefficients)

	scale0 := math.Sqrt(1 / float64(bands))
	scale := math.Sqrt(2 / float64(bands))

	for k := range table {
		s := scale
		if k == 0 {
			s = scale0
		}

		row := make([]float64, bands)
		for m := range row {
			row[m] = s * math.Cos(math.Pi*float64(k)*(2*float64(m)+1)/(2*float64(bands)))
		}

		table[k] = row
	}

	return table
}

// hzToMel converts frequency in Hz to mel scale.
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts mel scale frequency back to Hz.
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

func normalizeConfig(cfg Config) Config {
	if cfg.Bands == 0 {
		cfg.Bands = DefaultBands
	}

	if cfg.Coefficients == 0 {
		cfg.Coefficients = DefaultCoefficients
	}

	return cfg
}
