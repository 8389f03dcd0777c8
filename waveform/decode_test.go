package waveform_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/adhith25/ai-voice-detector/internal/testutil"
	"github.com/adhith25/ai-voice-detector/waveform"
)

func TestDecodeFileWAV(t *testing.T) {
	sine := testutil.DeterministicSine(440, 22050, 0.5, 11025)
	path := testutil.WriteWAV(t, 22050, sine)

	clip, err := waveform.DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.SampleRate != 22050 {
		t.Fatalf("sample rate: got %d, want 22050", clip.SampleRate)
	}
	if len(clip.Samples) != len(sine) {
		t.Fatalf("samples: got %d, want %d", len(clip.Samples), len(sine))
	}

	// 16-bit quantization keeps decoded samples within a fraction of a
	// percent of the rendered signal.
	testutil.RequireSliceNearlyEqual(t, clip.Samples, sine, 1e-3)
}

func TestDecodeWAVStereoAveragesToMono(t *testing.T) {
	left := testutil.DeterministicSine(440, 8000, 0.5, 1600)
	right := testutil.Silence(1600)
	path := testutil.WriteWAV(t, 8000, left, right)

	clip, err := waveform.DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clip.Samples) != 1600 {
		t.Fatalf("samples: got %d, want 1600", len(clip.Samples))
	}

	half := make([]float64, len(left))
	for i, v := range left {
		half[i] = v / 2
	}
	testutil.RequireSliceNearlyEqual(t, clip.Samples, half, 1e-3)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := waveform.Decode(bytes.NewReader([]byte("this is not audio")))
	if !errors.Is(err, waveform.ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}

	_, err = waveform.Decode(bytes.NewReader(nil))
	if !errors.Is(err, waveform.ErrUnsupportedFormat) {
		t.Fatalf("empty input: got %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeCorruptWAV(t *testing.T) {
	data := append([]byte("RIFF\x10\x00\x00\x00WAVE"), []byte("not a fmt chunk")...)

	_, err := waveform.Decode(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected error for corrupt wav data")
	}
}

func TestDecodeCorruptMP3(t *testing.T) {
	// A frame sync followed by garbage, and an ID3 tag with no frames.
	for _, data := range [][]byte{
		append([]byte{0xFF, 0xFB, 0x90, 0x00}, bytes.Repeat([]byte{0xAB}, 64)...),
		append([]byte("ID3"), bytes.Repeat([]byte{0x00}, 32)...),
	} {
		if _, err := waveform.Decode(bytes.NewReader(data)); err == nil {
			t.Fatalf("expected error for corrupt mp3 data %v", data[:4])
		}
	}
}

func TestDecodeFileMissing(t *testing.T) {
	if _, err := waveform.DecodeFile("testdata/does-not-exist.wav"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
