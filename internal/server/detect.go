package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/adhith25/ai-voice-detector/internal/metrics"
	"github.com/adhith25/ai-voice-detector/waveform"
)

// supportedLanguages is the request-validation allow-list. The language
// field gates requests only; it does not influence the analysis.
var supportedLanguages = []string{"Tamil", "English", "Hindi", "Malayalam", "Telugu"}

// detectRequest is the POST /detect-voice request body.
type detectRequest struct {
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language,omitempty"`
}

// handleDetect runs the full detection pipeline: decode, validate,
// extract, classify. Client mistakes are 400 with a detail message;
// analysis failures are 500.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Language != "" && !languageSupported(req.Language) {
		writeDetail(w, http.StatusBadRequest,
			fmt.Sprintf("Language '%s' is not supported. Supported languages: %s",
				req.Language, strings.Join(supportedLanguages, ", ")))
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid base64 string")
		return
	}

	clip, err := waveform.Decode(bytes.NewReader(raw))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid audio format. Please ensure input is a valid MP3.")
		return
	}

	if err := waveform.Validate(clip, s.limits); err != nil {
		writeDetail(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	features, err := s.extractor.Extract(clip.Samples, clip.SampleRate)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Feature extraction failed: %v", err))
		return
	}

	result := s.engine.Classify(features)
	metrics.RecordDetection(string(result.Classification), clip.Duration().Seconds())

	writeJSON(w, http.StatusOK, result)
}

func languageSupported(lang string) bool {
	for _, l := range supportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// validationDetail maps a waveform validation sentinel to the API detail
// message.
func validationDetail(err error) string {
	switch {
	case errors.Is(err, waveform.ErrTooShort):
		return "Audio is too short (min 0.1s)"
	case errors.Is(err, waveform.ErrTooLong):
		return "Audio is too long (max 60s)"
	case errors.Is(err, waveform.ErrSilent):
		return "Audio is too silent"
	default:
		return "Could not process audio file."
	}
}
