package reconcile

import (
	"errors"

	"fridgectl/internal/fridge"
)

var (
	// ErrNoInput marks a submission attempted without any image data.
	// Raised by the submission client; aliased here so callers can match
	// the whole taxonomy through this package.
	ErrNoInput = fridge.ErrNoInput

	// ErrSubmissionRejected marks a genuine backend failure.
	ErrSubmissionRejected = fridge.ErrSubmissionRejected

	// ErrSubmissionInProgress means the re-entrancy guard tripped: at most
	// one submission may be outstanding.
	ErrSubmissionInProgress = errors.New("a submission is already in progress")

	// ErrCommitFailed marks a failed confirm, reject, or manual-add call.
	ErrCommitFailed = errors.New("commit failed")
)
