// Package apperr defines the distinct failure outcomes surfaced to callers
// of the prediction pipeline.
package apperr

import (
	"errors"
)

var (
	// ErrNoResult is returned by export and copy operations when no
	// prediction has been retained.
	ErrNoResult = errors.New("no predictions yet")

	// ErrBusy is returned when a prediction is requested while another is
	// still in flight.
	ErrBusy = errors.New("prediction already in progress")
)

// InputInvalidError reports malformed user-supplied data.
type InputInvalidError struct {
	Reason string
	Err    error
}

func (e *InputInvalidError) Error() string {
	if e.Err != nil {
		return "invalid input: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid input: " + e.Reason
}

func (e *InputInvalidError) Unwrap() error {
	return e.Err
}

// NewInputInvalid returns an InputInvalidError with the given reason.
func NewInputInvalid(reason string, err error) *InputInvalidError {
	return &InputInvalidError{Reason: reason, Err: err}
}

// InferenceUnavailableError reports that the score source could not produce
// a result.
type InferenceUnavailableError struct {
	Err error
}

func (e *InferenceUnavailableError) Error() string {
	return "inference unavailable: " + e.Err.Error()
}

func (e *InferenceUnavailableError) Unwrap() error {
	return e.Err
}

// NewInferenceUnavailable wraps err as an InferenceUnavailableError.
func NewInferenceUnavailable(err error) *InferenceUnavailableError {
	return &InferenceUnavailableError{Err: err}
}

// ExportFailureError reports a serialization, file write or clipboard failure.
type ExportFailureError struct {
	Target string // file path or "clipboard"
	Err    error
}

func (e *ExportFailureError) Error() string {
	return "export to " + e.Target + " failed: " + e.Err.Error()
}

func (e *ExportFailureError) Unwrap() error {
	return e.Err
}

// NewExportFailure wraps err as an ExportFailureError for target.
func NewExportFailure(target string, err error) *ExportFailureError {
	return &ExportFailureError{Target: target, Err: err}
}

// IsInputInvalid returns true if an InputInvalidError is in err's chain.
func IsInputInvalid(err error) bool {
	var e *InputInvalidError
	return errors.As(err, &e)
}

// IsInferenceUnavailable returns true if an InferenceUnavailableError is in
// err's chain.
func IsInferenceUnavailable(err error) bool {
	var e *InferenceUnavailableError
	return errors.As(err, &e)
}

// IsExportFailure returns true if an ExportFailureError is in err's chain.
func IsExportFailure(err error) bool {
	var e *ExportFailureError
	return errors.As(err, &e)
}
