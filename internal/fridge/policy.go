package fridge

import "strings"

// failureOutcome is the recovery policy's reading of a failed upload.
type failureOutcome int

const (
	// outcomeRejected means the failure is genuine.
	outcomeRejected failureOutcome = iota
	// outcomeAppliedDespiteError means the backend very likely committed
	// the change before reporting failure.
	outcomeAppliedDespiteError
	// outcomeNewImageLearned means no existing item matched and the
	// backend stored the image for future recognition.
	outcomeNewImageLearned
)

// classifyUploadFailure decides whether a failed upload was actually a soft
// success. The backend reports HTTP failure for some mutating paths, so the
// error text is the only signal available. Keep this rule in one place: if
// the backend ever grows a structured status, only this function changes.
func classifyUploadFailure(message string) failureOutcome {
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "updated") {
		return outcomeAppliedDespiteError
	}
	if strings.Contains(lowered, "similarity") || strings.Contains(lowered, "threshold") {
		return outcomeNewImageLearned
	}
	return outcomeRejected
}
