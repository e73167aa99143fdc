// Package notify grades outcome messages for display and owns the
// currently shown notification. Classification is the single place that
// decides severity; the upload recovery policy produces strings that are
// success in effect but phrased like warnings, and this keeps that call
// out of the network and state-machine code.
package notify

import "strings"

// Severity is the display grade of a notification.
type Severity int

const (
	// SeverityCleared means no notification should be shown.
	SeverityCleared Severity = iota
	// SeveritySuccess marks a confirmed good outcome.
	SeveritySuccess
	// SeverityError marks everything else.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityCleared:
		return "cleared"
	case SeveritySuccess:
		return "success"
	default:
		return "error"
	}
}

// Outcome is a classified, user-facing message.
type Outcome struct {
	Message  string
	Severity Severity
}

// successMarkers are the glyphs the outcome producers use to tag
// successful results.
var successMarkers = []string{"✅", "🔄", "🔍"}

// Classify grades a message. It is a pure function: the same input always
// yields the same outcome. An empty message clears the current
// notification.
func Classify(message string) Outcome {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Outcome{Severity: SeverityCleared}
	}
	for _, marker := range successMarkers {
		if strings.Contains(trimmed, marker) {
			return Outcome{Message: trimmed, Severity: SeveritySuccess}
		}
	}
	return Outcome{Message: trimmed, Severity: SeverityError}
}
