package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyURL is recorded for a source without a URL.
var ErrEmptyURL = errors.New("empty url")

// AttemptError describes why one source failed.
type AttemptError struct {
	// Source is the source that was tried.
	Source Source

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Err is the underlying transport, timeout or write error. It is nil
	// when the failure is a non-2xx status.
	Err error
}

func (e *AttemptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s): HTTP %d", e.Source.Name, e.Source.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s): %v", e.Source.Name, e.Source.URL, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// FetchError is returned when every source failed.
type FetchError struct {
	Attempts []*AttemptError
}

func (e *FetchError) Error() string {
	if len(e.Attempts) == 0 {
		return "artifact fetch failed: no sources"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return "artifact fetch failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes each attempt to errors.Is and errors.As.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a
	}
	return errs
}
