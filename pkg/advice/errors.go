package advice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/privscore/privscore/pkg/inference"
)

var (
	// ErrNotConfigured means no transport is usable; no network call is made
	ErrNotConfigured = errors.New("advice transport not configured")
	// ErrExtractionInsufficient means a reply arrived but held no usable text
	ErrExtractionInsufficient = errors.New("generated text unusable")
	// ErrNoCandidates is reported by a cascade with an empty candidate list
	ErrNoCandidates = errors.New("no candidates to try")
)

// TransportError is a failed call to one model
type TransportError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(model string, err error) *TransportError {
	te := &TransportError{Model: model, Err: err}
	var se *inference.StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
	}
	return te
}

// CascadeError collects the failure of every candidate
type CascadeError struct {
	Errors []error
}

func (e *CascadeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all %d candidates failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *CascadeError) Unwrap() []error {
	return e.Errors
}
