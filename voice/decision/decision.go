// Package decision turns an acoustic feature vector into a human-versus-
// synthetic classification with a confidence score and an explanation.
//
// The rule is a fixed weighted blend of two saturating scores. It is total:
// any feature vector classifies, and degenerate fields fall back to safe
// defaults instead of failing.
package decision

import (
	"fmt"
	"math"

	"github.com/adhith25/ai-voice-detector/stats"
	"github.com/adhith25/ai-voice-detector/voice/feature"
)

// Label names one side of the classification.
type Label string

// Classification labels.
const (
	LabelHuman       Label = "HUMAN"
	LabelAIGenerated Label = "AI_GENERATED"
)

// Default calibration constants. They are tuned against the extractor's
// default analysis parameters, not universally meaningful quantities.
const (
	DefaultPitchVarThreshold = 500.0
	DefaultMFCCVarThreshold  = 50.0
	DefaultPitchWeight       = 0.7
	DefaultMFCCWeight        = 0.3
)

// Config holds the calibration constants of the decision rule. Zero values
// are filled with the package defaults.
type Config struct {
	PitchVarThreshold float64 // pitch variance saturation point
	MFCCVarThreshold  float64 // mean cepstral variance saturation point
	PitchWeight       float64
	MFCCWeight        float64
}

// Details exposes the diagnostic scores behind a classification, each
// rounded to 4 decimal places.
type Details struct {
	HumanProbability float64 `json:"human_probability"`
	PitchScore       float64 `json:"pitch_score"`
	MFCCScore        float64 `json:"mfcc_score"`
}

// Result is the outcome of classifying one feature vector.
type Result struct {
	Classification Label    `json:"classification"`
	Confidence     float64  `json:"confidence"`
	Explanation    []string `json:"explanation"`
	Details        Details  `json:"details"`
}

// Engine scores feature vectors against a fixed configuration.
//
// An Engine is stateless and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine for the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	cfg = normalizeConfig(cfg)

	if cfg.PitchVarThreshold <= 0 || cfg.MFCCVarThreshold <= 0 {
		return nil, fmt.Errorf("decision thresholds must be positive: %f, %f", cfg.PitchVarThreshold, cfg.MFCCVarThreshold)
	}
	if cfg.PitchWeight < 0 || cfg.MFCCWeight < 0 {
		return nil, fmt.Errorf("decision weights must not be negative: %f, %f", cfg.PitchWeight, cfg.MFCCWeight)
	}

	return &Engine{cfg: cfg}, nil
}

var defaultEngine = &Engine{cfg: normalizeConfig(Config{})}

// Classify is a one-shot classification with the default configuration.
func Classify(v feature.Vector) Result {
	return defaultEngine.Classify(v)
}

// Classify scores a feature vector. A nil MFCCVar contributes an average
// variance of zero; a tie at probability 0.5 resolves to HUMAN.
func (e *Engine) Classify(v feature.Vector) Result {
	pitchScore := math.Tanh(v.PitchVar / e.cfg.PitchVarThreshold)
	mfccScore := math.Tanh(stats.Mean(v.MFCCVar) / e.cfg.MFCCVarThreshold)

	p := e.cfg.PitchWeight*pitchScore + e.cfg.MFCCWeight*mfccScore

	label := LabelAIGenerated
	confidence := 1 - p
	if p >= 0.5 {
		label = LabelHuman
		confidence = p
	}

	return Result{
		Classification: label,
		Confidence:     round4(confidence),
		Explanation:    explain(label, pitchScore, mfccScore),
		Details: Details{
			HumanProbability: round4(p),
			PitchScore:       round4(pitchScore),
			MFCCScore:        round4(mfccScore),
		},
	}
}

// explain lists the reasons supporting the chosen label. Reasons never mix
// across labels; when none fires, a generic statement keeps the list
// non-empty.
func explain(label Label, pitchScore, mfccScore float64) []string {
	var reasons []string

	if label == LabelHuman {
		if pitchScore > 0.5 {
			reasons = append(reasons, "High pitch variability suggests natural intonation.")
		}
		if mfccScore > 0.5 {
			reasons = append(reasons, "Spectral dynamics indicate natural coarticulation.")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "Overall acoustic features lean towards human patterns.")
		}
		return reasons
	}

	if pitchScore <= 0.5 {
		reasons = append(reasons, "Low pitch variability suggests monotonic/robotic speech.")
	}
	if mfccScore <= 0.5 {
		reasons = append(reasons, "Low spectral variance indicates lack of natural acoustic richness.")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Overall acoustic features lean towards synthetic patterns.")
	}
	return reasons
}

// round4 rounds to the 4 decimal places reported to callers.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func normalizeConfig(cfg Config) Config {
	if cfg.PitchVarThreshold == 0 {
		cfg.PitchVarThreshold = DefaultPitchVarThreshold
	}
	if cfg.MFCCVarThreshold == 0 {
		cfg.MFCCVarThreshold = DefaultMFCCVarThreshold
	}
	if cfg.PitchWeight == 0 {
		cfg.PitchWeight = DefaultPitchWeight
	}
	if cfg.MFCCWeight == 0 {
		cfg.MFCCWeight = DefaultMFCCWeight
	}
	return cfg
}
