package pitch

import (
	"math"
	"testing"
)

func generateSine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func generateVibrato(carrier, deviation, rate, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	phase := 0.0
	for i := range out {
		inst := carrier + deviation*math.Sin(2*math.Pi*rate*float64(i)/sampleRate)
		out[i] = math.Sin(phase)
		phase += 2 * math.Pi * inst / sampleRate
	}
	return out
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	tr, err := New(Config{SampleRate: 22050})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tr
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero sample rate", Config{}},
		{"tiny frame", Config{SampleRate: 22050, FrameLength: 1}},
		{"hop larger than frame", Config{SampleRate: 22050, FrameLength: 2048, HopLength: 4096}},
		{"inverted band", Config{SampleRate: 22050, MinFrequency: 500, MaxFrequency: 100}},
		{"threshold above one", Config{SampleRate: 22050, Threshold: 1.5}},
		{"negative threshold", Config{SampleRate: 22050, Threshold: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Errorf("New(%+v) expected error, got nil", tt.cfg)
			}
		})
	}
}

func TestNumFrames(t *testing.T) {
	tr := newTestTracker(t)

	tests := []struct {
		samples int
		want    int
	}{
		{0, 0},
		{1, 1},
		{512, 2},
		{22050, 44},
	}

	for _, tt := range tests {
		if got := tr.NumFrames(tt.samples); got != tt.want {
			t.Errorf("NumFrames(%d) = %d, want %d", tt.samples, got, tt.want)
		}
	}
}

func TestTrackSine(t *testing.T) {
	const (
		sampleRate = 22050.0
		freq       = 440.0
	)

	tr := newTestTracker(t)
	track := tr.Track(generateSine(freq, sampleRate, int(sampleRate)))

	if len(track) != 44 {
		t.Fatalf("got %d frames, want 44", len(track))
	}

	// Interior frames see a full window of signal and must lock onto the
	// fundamental. Edge frames overlap the zero padding and may drop out.
	for f := 2; f <= 41; f++ {
		est := track[f]
		if !est.Voiced {
			t.Fatalf("frame %d unvoiced, want voiced", f)
		}
		if math.Abs(est.Frequency-freq) > 1.0 {
			t.Errorf("frame %d frequency = %g, want %g within 1 Hz", f, est.Frequency, freq)
		}
	}
}

func TestTrackSilence(t *testing.T) {
	tr := newTestTracker(t)
	track := tr.Track(make([]float64, 22050))

	if len(track) != 44 {
		t.Fatalf("got %d frames, want 44", len(track))
	}

	for f, est := range track {
		if est.Voiced || est.Frequency != 0 {
			t.Fatalf("frame %d = %+v, want unvoiced zero", f, est)
		}
	}
}

func TestTrackEmpty(t *testing.T) {
	tr := newTestTracker(t)

	if track := tr.Track(nil); track != nil {
		t.Errorf("expected nil track for empty input, got %d frames", len(track))
	}
}

func TestTrackVibratoVaries(t *testing.T) {
	const sampleRate = 22050.0

	tr := newTestTracker(t)
	track := tr.Track(generateVibrato(220, 10, 3, sampleRate, int(sampleRate)))

	var freqs []float64
	for _, est := range track {
		if est.Voiced {
			if est.Frequency < 205 || est.Frequency > 235 {
				t.Fatalf("voiced frequency %g outside modulation range", est.Frequency)
			}
			freqs = append(freqs, est.Frequency)
		}
	}

	if len(freqs) < 30 {
		t.Fatalf("only %d voiced frames, want most of 44", len(freqs))
	}

	mean := 0.0
	for _, f := range freqs {
		mean += f
	}
	mean /= float64(len(freqs))

	variance := 0.0
	for _, f := range freqs {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(freqs))

	if variance < 5 {
		t.Errorf("voiced frequency variance = %g, want > 5 for a vibrato tone", variance)
	}
}

func TestTrackOutOfBandUnvoiced(t *testing.T) {
	const sampleRate = 22050.0

	tr := newTestTracker(t)

	// 30 Hz sits below the C2 band edge; its period exceeds the lag range.
	track := tr.Track(generateSine(30, sampleRate, int(sampleRate)))

	for f, est := range track {
		if est.Voiced {
			t.Fatalf("frame %d voiced at %g Hz, want unvoiced for sub-band tone", f, est.Frequency)
		}
	}
}

func TestTrackDegenerateBand(t *testing.T) {
	tr, err := New(Config{SampleRate: 22050, MinFrequency: 20, MaxFrequency: 21})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	track := tr.Track(generateSine(440, 22050, 22050))

	if len(track) != 44 {
		t.Fatalf("got %d frames, want 44", len(track))
	}

	for f, est := range track {
		if est.Voiced {
			t.Fatalf("frame %d voiced, want all-unvoiced for a band the rate cannot carry", f)
		}
	}
}

func TestTrackDeterministic(t *testing.T) {
	tr := newTestTracker(t)
	sig := generateVibrato(196, 8, 5, 22050, 22050)

	first := tr.Track(sig)
	second := tr.Track(sig)

	for f := range first {
		if first[f] != second[f] {
			t.Fatalf("frame %d differs between runs: %+v vs %+v", f, first[f], second[f])
		}
	}
}
