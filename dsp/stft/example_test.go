package stft_test

import (
	"fmt"
	"math"

	"github.com/adhith25/ai-voice-detector/dsp/stft"
)

func ExampleAnalyzer_NumFrames() {
	a, err := stft.New(stft.Config{})
	if err != nil {
		panic(err)
	}

	fmt.Println(a.NumFrames(22050))
	fmt.Println(a.NumFrames(512))
	// Output:
	// 44
	// 2
}

func ExampleAnalyzer_Powers() {
	a, err := stft.New(stft.Config{})
	if err != nil {
		panic(err)
	}

	// One second of a sine placed exactly on bin 40.
	const sampleRate = 22050.0
	freq := 40 * sampleRate / 2048

	sig := make([]float64, 22050)
	for i := range sig {
		sig[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	powers, err := a.Powers(sig)
	if err != nil {
		panic(err)
	}

	row := powers[len(powers)/2]

	best := 0
	for k, v := range row {
		if v > row[best] {
			best = k
		}
	}

	fmt.Printf("peak bin: %d\n", best)
	// Output:
	// peak bin: 40
}
