package notify

import (
	"log/slog"
	"sync"
	"time"

	"fridgectl/internal/logging"
)

// DefaultDismissAfter matches the interval the upstream UI used before a
// notification faded out.
const DefaultDismissAfter = 3500 * time.Millisecond

// Dispatcher owns the displayed notification. Publishing replaces the
// current outcome and restarts the dismissal clock; the previous timer is
// cancelled so a stale dismissal can never clear a newer message.
type Dispatcher struct {
	mu      sync.Mutex
	current Outcome
	timer   *time.Timer
	gen     uint64

	dismissAfter time.Duration
	logger       *slog.Logger
}

// NewDispatcher builds a dispatcher. A non-positive dismissAfter disables
// auto-dismissal.
func NewDispatcher(dismissAfter time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		dismissAfter: dismissAfter,
		logger:       logging.NewComponentLogger(logger, "notify"),
	}
}

// Publish classifies the message and makes it the displayed outcome. An
// empty message clears instead. The classified outcome is returned so
// callers can render it immediately.
func (d *Dispatcher) Publish(message string) Outcome {
	outcome := Classify(message)
	if outcome.Severity == SeverityCleared {
		d.Clear()
		return outcome
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimerLocked()
	d.current = outcome
	d.gen++
	if d.dismissAfter > 0 {
		gen := d.gen
		d.timer = time.AfterFunc(d.dismissAfter, func() {
			d.dismiss(gen)
		})
	}
	d.logger.Debug("notification published",
		logging.String("severity", outcome.Severity.String()),
		logging.String("message", outcome.Message))
	return outcome
}

// Clear removes the displayed outcome and cancels any pending dismissal.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopTimerLocked()
	d.current = Outcome{Severity: SeverityCleared}
	d.gen++
}

// Current returns the displayed outcome, if any.
func (d *Dispatcher) Current() (Outcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current.Severity == SeverityCleared {
		return Outcome{}, false
	}
	return d.current, true
}

// dismiss applies a timer expiry only when no Publish or Clear happened
// since the timer was armed.
func (d *Dispatcher) dismiss(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return
	}
	d.current = Outcome{Severity: SeverityCleared}
	d.timer = nil
}

func (d *Dispatcher) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
