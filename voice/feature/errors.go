package feature

import (
	"errors"
	"fmt"
)

// ErrNotComputable is the sentinel wrapped by every ExtractionError. It
// marks inputs whose numeric transform genuinely cannot be computed, as
// opposed to boring-but-valid signals such as silence.
var ErrNotComputable = errors.New("feature not computable")

// ExtractionError reports why a waveform could not be reduced to a Vector.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "feature extraction: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return ErrNotComputable }

func extractionErrorf(format string, args ...any) error {
	return &ExtractionError{Reason: fmt.Sprintf(format, args...)}
}
