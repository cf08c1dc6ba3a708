package types

import "errors"

// Severity distinguishes the three outcomes of processing a single event:
// a benign skip (marked processed, never retried), a retryable upstream
// failure (cycle aborts, cursor untouched) and a fatal domain error.
type Severity int

const (
	SeveritySkip Severity = iota
	SeverityRetry
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeveritySkip:
		return "skip"
	case SeverityRetry:
		return "retry"
	case SeverityFatal:
		return "fatal"
	}
	return "unknown"
}

// ProcessingError carries the outcome classification alongside the cause.
type ProcessingError struct {
	Severity Severity
	Reason   string
	Err      error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func NewSkip(reason string) *ProcessingError {
	return &ProcessingError{Severity: SeveritySkip, Reason: reason}
}

func NewRetryable(reason string, err error) *ProcessingError {
	return &ProcessingError{Severity: SeverityRetry, Reason: reason, Err: err}
}

func NewFatal(reason string, err error) *ProcessingError {
	return &ProcessingError{Severity: SeverityFatal, Reason: reason, Err: err}
}

// IsSkip reports whether err is a benign skip outcome.
func IsSkip(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe) && pe.Severity == SeveritySkip
}

// IsRetryable reports whether err should abort the cycle and be retried on
// the next schedule tick.
func IsRetryable(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe) && pe.Severity == SeverityRetry
}
