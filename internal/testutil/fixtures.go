package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/adhith25/ai-voice-detector/dsp/signal"
)

// The fixtures delegate to [signal.Generator] so the tests analyze the same
// waveform recipes the demo generator produces. Generation fails only on
// invalid arguments, which in a fixture is a bug in the test itself.

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return mustGenerate(signal.NewGenerator(sampleRate).Sine(freqHz, amplitude, length))
}

// DeterministicVibrato generates a sine whose frequency swings around
// carrierHz by deviationHz at rateHz. The phase is integrated per sample,
// so the waveform stays continuous for any modulation depth.
func DeterministicVibrato(carrierHz, deviationHz, rateHz, sampleRate, amplitude float64, length int) []float64 {
	return mustGenerate(signal.NewGenerator(sampleRate).Vibrato(carrierHz, deviationHz, rateHz, amplitude, length))
}

// DeterministicNoise generates white noise with a fixed seed for
// reproducibility. Noise is rate-independent, so no sample rate is taken.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	return mustGenerate(signal.NewGenerator(1, signal.WithSeed(seed)).WhiteNoise(amplitude, length))
}

// Silence returns length zero-valued samples.
func Silence(length int) []float64 {
	return mustGenerate(signal.NewGenerator(1).Silence(length))
}

func mustGenerate(data []float64, err error) []float64 {
	if err != nil {
		panic(err)
	}
	return data
}

// WriteWAV renders the channels as a 16-bit PCM WAV file under t.TempDir
// and returns its path. Channels must share the same length; samples are
// clipped to [-1, 1].
func WriteWAV(t *testing.T, sampleRate int, channels ...[]float64) string {
	t.Helper()

	if len(channels) == 0 {
		t.Fatal("WriteWAV requires at least one channel")
	}
	n := len(channels[0])
	for i, ch := range channels {
		if len(ch) != n {
			t.Fatalf("channel %d length mismatch: got %d, want %d", i, len(ch), n)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	data := make([]int, 0, n*len(channels))
	for i := 0; i < n; i++ {
		for _, ch := range channels {
			v := ch[i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			data = append(data, int(math.Round(v*32767)))
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, len(channels), 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}
