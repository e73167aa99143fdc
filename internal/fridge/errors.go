package fridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput marks a submission attempted without any image data.
	ErrNoInput = errors.New("no images supplied")

	// ErrSubmissionRejected marks a genuine backend failure, one the
	// recovery policy could not reinterpret as a soft success.
	ErrSubmissionRejected = errors.New("submission rejected")
)

// StatusError reports a non-success HTTP response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned http %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned http %d: %s", e.StatusCode, e.Message)
}
