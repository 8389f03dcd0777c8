// Command voicedetect classifies audio recordings as human or synthetic
// speech from the command line.
//
// Usage:
//
//	voicedetect [flags] file.wav [file.mp3 ...]
//
// Each file is decoded, validated, and analyzed; the verdict is printed
// as a styled report, or as the service JSON with -json.
//
// Examples:
//
//	voicedetect recording.wav
//	voicedetect -json clip.mp3
//	voicedetect -coeffs 20 -quiet *.wav
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/adhith25/ai-voice-detector/voice/decision"
	"github.com/adhith25/ai-voice-detector/voice/feature"
	"github.com/adhith25/ai-voice-detector/waveform"
)

var (
	humanStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E7D32"))

	syntheticStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C62828"))

	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C62828"))
)

func main() {
	var (
		asJSON = flag.Bool("json", false, "emit the verdict as JSON")
		coeffs = flag.Int("coeffs", 0, "cepstral coefficient count (default 13)")
		quiet  = flag.Bool("quiet", false, "print the label only")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	engine, err := decision.NewEngine(decision.Config{})
	if err != nil {
		fatal(err)
	}
	extractor, err := feature.NewExtractor(feature.Config{CoefficientCount: *coeffs})
	if err != nil {
		fatal(err)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := analyze(path, extractor, engine, *asJSON, *quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorStyle.Render("error:"), path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: voicedetect [flags] file.wav [file.mp3 ...]\n\n")
	fmt.Fprintf(os.Stderr, "Classifies recordings as human or AI-generated speech.\n\nFlags:\n")
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("error:"), err)
	os.Exit(1)
}

func analyze(path string, extractor *feature.Extractor, engine *decision.Engine, asJSON, quiet bool) error {
	clip, err := waveform.DecodeFile(path)
	if err != nil {
		return err
	}
	if err := waveform.Validate(clip, waveform.DefaultLimits()); err != nil {
		return err
	}

	features, err := extractor.Extract(clip.Samples, clip.SampleRate)
	if err != nil {
		return err
	}
	result := engine.Classify(features)

	switch {
	case quiet:
		fmt.Println(string(result.Classification))
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	default:
		report(path, clip, features, result)
	}
	return nil
}

// report prints a human-readable verdict for one file.
func report(path string, clip waveform.Clip, features feature.Vector, result decision.Result) {
	labelStyle := humanStyle
	if result.Classification == decision.LabelAIGenerated {
		labelStyle = syntheticStyle
	}

	fmt.Printf("%s  %s  (confidence %.2f)\n",
		fileStyle.Render(path),
		labelStyle.Render(string(result.Classification)),
		result.Confidence)

	fmt.Printf("  %s %.1fs @ %d Hz\n", keyStyle.Render("clip:"), clip.Duration().Seconds(), clip.SampleRate)
	fmt.Printf("  %s pitch %.4f, mfcc %.4f, human probability %.4f\n",
		keyStyle.Render("scores:"),
		result.Details.PitchScore, result.Details.MFCCScore, result.Details.HumanProbability)
	fmt.Printf("  %s pitch var %.2f, flatness %.4f, rms var %.6f\n",
		keyStyle.Render("features:"),
		features.PitchVar, features.SpectralFlatnessMean, features.RMSVar)

	for _, reason := range result.Explanation {
		fmt.Printf("  - %s\n", reason)
	}
	fmt.Println()
}
