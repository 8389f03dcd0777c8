package testutil

import (
	"math"
	"os"
	"testing"

	"github.com/go-audio/wav"

	"github.com/adhith25/ai-voice-detector/dsp/signal"
)

func TestFixturesMatchGenerator(t *testing.T) {
	gen := signal.NewGenerator(22050, signal.WithSeed(42))

	sine, err := gen.Sine(440, 0.5, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	RequireSliceNearlyEqual(t, DeterministicSine(440, 22050, 0.5, 512), sine, 0)

	vib, err := gen.Vibrato(220, 12, 5, 0.8, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	RequireSliceNearlyEqual(t, DeterministicVibrato(220, 12, 5, 22050, 0.8, 512), vib, 0)

	noise, err := gen.WhiteNoise(1.0, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	RequireSliceNearlyEqual(t, DeterministicNoise(42, 1.0, 512), noise, 0)
}

func TestDeterministicSine(t *testing.T) {
	sine := DeterministicSine(440, 44100, 0.5, 1000)
	if len(sine) != 1000 {
		t.Fatalf("length: got %d, want 1000", len(sine))
	}
	if sine[0] != 0 {
		t.Fatalf("first sample: got %v, want 0", sine[0])
	}
	for i, v := range sine {
		if math.Abs(v) > 0.5 {
			t.Fatalf("index %d: sample %v exceeds amplitude", i, v)
		}
	}
}

func TestDeterministicVibratoZeroDeviation(t *testing.T) {
	plain := DeterministicSine(220, 22050, 0.8, 2048)
	vib := DeterministicVibrato(220, 0, 5, 22050, 0.8, 2048)
	RequireSliceNearlyEqual(t, vib, plain, 1e-9)
}

func TestDeterministicVibratoBounded(t *testing.T) {
	vib := DeterministicVibrato(220, 20, 5, 22050, 1.0, 22050)
	RequireFinite(t, vib)
	for i, v := range vib {
		if math.Abs(v) > 1.0 {
			t.Fatalf("index %d: sample %v exceeds amplitude", i, v)
		}
	}
}

func TestDeterministicNoiseSeed(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 512)
	b := DeterministicNoise(42, 1.0, 512)
	c := DeterministicNoise(7, 1.0, 512)

	diff, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff != 0 {
		t.Fatalf("same seed should reproduce exactly, max diff %v", diff)
	}

	diff, err = MaxAbsDiff(a, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff == 0 {
		t.Fatal("different seeds should produce different noise")
	}
}

func TestSilence(t *testing.T) {
	s := Silence(256)
	if len(s) != 256 {
		t.Fatalf("length: got %d, want 256", len(s))
	}
	for i, v := range s {
		if v != 0 {
			t.Fatalf("index %d: got %v, want 0", i, v)
		}
	}
}

func TestWriteWAVMono(t *testing.T) {
	sine := DeterministicSine(440, 22050, 0.5, 4410)
	path := WriteWAV(t, 22050, sine)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("fixture is not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if buf.Format.SampleRate != 22050 {
		t.Fatalf("sample rate: got %d, want 22050", buf.Format.SampleRate)
	}
	if buf.Format.NumChannels != 1 {
		t.Fatalf("channels: got %d, want 1", buf.Format.NumChannels)
	}
	if len(buf.Data) != len(sine) {
		t.Fatalf("samples: got %d, want %d", len(buf.Data), len(sine))
	}
	for _, i := range []int{0, 100, 4409} {
		want := int(math.Round(sine[i] * 32767))
		if buf.Data[i] != want {
			t.Fatalf("sample %d: got %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestWriteWAVStereoInterleaves(t *testing.T) {
	left := DeterministicSine(440, 8000, 0.5, 800)
	right := DeterministicSine(660, 8000, 0.5, 800)
	path := WriteWAV(t, 8000, left, right)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if buf.Format.NumChannels != 2 {
		t.Fatalf("channels: got %d, want 2", buf.Format.NumChannels)
	}
	if len(buf.Data) != 1600 {
		t.Fatalf("samples: got %d, want 1600", len(buf.Data))
	}
	if got, want := buf.Data[2], int(math.Round(left[1]*32767)); got != want {
		t.Fatalf("left[1]: got %d, want %d", got, want)
	}
	if got, want := buf.Data[3], int(math.Round(right[1]*32767)); got != want {
		t.Fatalf("right[1]: got %d, want %d", got, want)
	}
}
