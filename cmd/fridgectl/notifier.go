package main

import (
	"fmt"
	"io"

	"fridgectl/internal/notify"
)

// consoleNotifier prints engine outcome messages as they are published and
// forwards them to the dispatcher so auto-dismiss bookkeeping matches what
// an embedding UI would see.
type consoleNotifier struct {
	out        io.Writer
	dispatcher *notify.Dispatcher
}

func (n *consoleNotifier) Publish(message string) notify.Outcome {
	outcome := n.dispatcher.Publish(message)
	switch outcome.Severity {
	case notify.SeverityCleared:
	case notify.SeveritySuccess:
		fmt.Fprintln(n.out, outcome.Message)
	default:
		fmt.Fprintln(n.out, "Error:", outcome.Message)
	}
	return outcome
}
