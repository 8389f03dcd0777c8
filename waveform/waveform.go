// Package waveform decodes compressed audio into mono float64 clips and
// validates them against duration and energy bounds before analysis.
package waveform

import (
	"errors"
	"time"

	"github.com/adhith25/ai-voice-detector/stats"
)

// Validation sentinels. Decode failures additionally wrap the codec error.
var (
	ErrEmpty             = errors.New("waveform is empty")
	ErrTooShort          = errors.New("audio is too short")
	ErrTooLong           = errors.New("audio is too long")
	ErrSilent            = errors.New("audio is too silent")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Clip is a decoded mono waveform at its native sample rate. Samples are
// normalized to approximately [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length. A clip without a positive sample rate
// has no duration.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Peak returns the largest absolute sample value.
func (c Clip) Peak() float64 {
	return stats.Peak(c.Samples)
}

// Limits bounds the clips accepted for analysis. Zero-valued fields
// disable their check.
type Limits struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	MinPeak     float64
}

// DefaultLimits returns the bounds the detection service enforces.
func DefaultLimits() Limits {
	return Limits{
		MinDuration: 100 * time.Millisecond,
		MaxDuration: 60 * time.Second,
		MinPeak:     1e-3,
	}
}

// Validate checks a clip against the limits. The checks run in a fixed
// order: emptiness, minimum duration, maximum duration, peak amplitude.
func Validate(c Clip, l Limits) error {
	if len(c.Samples) == 0 || c.SampleRate <= 0 {
		return ErrEmpty
	}

	d := c.Duration()
	if l.MinDuration > 0 && d < l.MinDuration {
		return ErrTooShort
	}
	if l.MaxDuration > 0 && d > l.MaxDuration {
		return ErrTooLong
	}
	if l.MinPeak > 0 && c.Peak() < l.MinPeak {
		return ErrSilent
	}

	return nil
}
