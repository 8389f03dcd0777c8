package waveform

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Decode reads a complete WAV or MP3 stream and returns a mono clip at the
// stream's native sample rate. Multi-channel audio is averaged to mono;
// integer PCM is normalized by its bit depth.
func Decode(r io.Reader) (Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Clip{}, fmt.Errorf("read audio: %w", err)
	}

	switch {
	case isWAV(data):
		return decodeWAV(data)
	case isMP3(data):
		return decodeMP3(data)
	default:
		return Clip{}, ErrUnsupportedFormat
	}
}

// DecodeFile decodes the audio file at path.
func DecodeFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// isMP3 accepts an ID3v2 tag or an MPEG frame sync; the decoder itself
// rejects streams that only look like MP3.
func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func decodeWAV(data []byte) (Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("decode wav: %w", ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("decode wav: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bits := buf.SourceBitDepth
	if bits == 0 {
		bits = int(dec.BitDepth)
	}
	if bits < 1 || bits > 32 {
		return Clip{}, fmt.Errorf("decode wav: unsupported bit depth: %d", bits)
	}

	scale := float64(int64(1) << (bits - 1))
	offset := 0.0
	if bits == 8 {
		offset = -128 // 8-bit WAV PCM is unsigned
	}
	frames := len(buf.Data) / channels

	samples := make([]float64, frames)
	for i := range samples {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) + offset
		}
		samples[i] = sum / float64(channels) / scale
	}

	return Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// decodeMP3 reads the whole stream through go-mp3, which always emits
// 16-bit little-endian stereo frames.
func decodeMP3(data []byte) (Clip, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Clip{}, fmt.Errorf("decode mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return Clip{}, fmt.Errorf("decode mp3: %w", err)
	}

	samples := make([]float64, 0, len(pcm)/4)
	for i := 0; i+3 < len(pcm); i += 4 {
		left := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		right := int16(uint16(pcm[i+2]) | uint16(pcm[i+3])<<8)
		samples = append(samples, (float64(left)+float64(right))/2/32768)
	}

	return Clip{Samples: samples, SampleRate: dec.SampleRate()}, nil
}
