// Package reconcile implements the inventory reconciliation state machine.
// It consumes a normalized submission result, decides whether the user must
// confirm anything, and drives the confirm / reject-as-new / manual-add
// commit paths. The engine owns the pending-update set; the UI only reads
// it and forwards decisions.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fridgectl/internal/fridge"
	"fridgectl/internal/logging"
	"fridgectl/internal/mirror"
	"fridgectl/internal/notify"
)

// State is the engine's position in the reconciliation cycle.
type State int

const (
	// StateIdle means no submission in flight and no pending updates.
	StateIdle State = iota
	// StateSubmitting means exactly one submission is in flight.
	StateSubmitting
	// StateAwaitingConfirmation means the pending set is non-empty.
	StateAwaitingConfirmation
	// StateResolved is the transient state while the post-submission
	// mirror refresh runs.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Backend is the slice of the fridge client the engine drives.
type Backend interface {
	mirror.Lister
	SubmitImages(ctx context.Context, takeIn, takeOut []byte, storeNewImages bool) (*fridge.ReconciliationResult, error)
	ConfirmUpdates(ctx context.Context, updates []fridge.QuantityUpdate) (fridge.ConfirmResult, error)
	CreateItem(ctx context.Context, item fridge.NewItem) (fridge.InventoryItem, error)
	RejectUpdate(ctx context.Context, req fridge.RejectRequest) error
}

// MirrorStore is the slice of the mirror the engine needs.
type MirrorStore interface {
	ApplyOptimistic(ctx context.Context, item mirror.Item) (int64, error)
	ReconcileAfterCommit(ctx context.Context, lister mirror.Lister) error
	FindByName(ctx context.Context, name string) (*mirror.Item, error)
}

// Notifier receives classified outcome messages.
type Notifier interface {
	Publish(message string) notify.Outcome
}

// Engine is the reconciliation state machine. mu guards state, the pending
// set, and the generation counter; opMu serializes resolving round-trips
// so two resolutions never race on the pending set.
type Engine struct {
	backend  Backend
	store    MirrorStore
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	pending    map[string]PendingUpdate
	generation uint64

	opMu sync.Mutex

	manualMu       sync.Mutex
	manualInFlight map[string]struct{}
}

// Option customizes the engine.
type Option func(*Engine)

// WithNotifier routes outcome messages to a notification dispatcher.
func WithNotifier(notifier Notifier) Option {
	return func(e *Engine) {
		e.notifier = notifier
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logging.NewComponentLogger(logger, "reconcile")
		}
	}
}

// NewEngine constructs an idle engine.
func NewEngine(backend Backend, store MirrorStore, opts ...Option) *Engine {
	engine := &Engine{
		backend:        backend,
		store:          store,
		logger:         logging.NewNop(),
		pending:        map[string]PendingUpdate{},
		manualInFlight: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// State reports the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending returns a read-only snapshot of the pending set, ordered by name.
func (e *Engine) Pending() []PendingUpdate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedPending(e.pending)
}

// Submit uploads an image pair and classifies the outcome. No-input and
// in-progress conditions are rejected synchronously before any network
// access. A result without pending updates resolves immediately with one
// mirror refresh; otherwise the engine parks in awaiting-confirmation.
func (e *Engine) Submit(ctx context.Context, takeIn, takeOut []byte, storeNewImages bool) (*fridge.ReconciliationResult, error) {
	if len(takeIn) == 0 && len(takeOut) == 0 {
		return nil, ErrNoInput
	}

	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	e.state = StateSubmitting
	e.mu.Unlock()

	result, err := e.backend.SubmitImages(ctx, takeIn, takeOut, storeNewImages)
	if err != nil {
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		e.publish(err.Error())
		return nil, err
	}

	if result.HasPending() {
		e.mu.Lock()
		e.pending = buildPending(result.Pending)
		e.generation++
		e.state = StateAwaitingConfirmation
		e.mu.Unlock()
		e.logger.Info("submission needs confirmation",
			logging.Int("pending", len(result.Pending)))
		e.publishNotes(result.SummaryNotes())
		return result, nil
	}

	e.mu.Lock()
	e.state = StateResolved
	e.mu.Unlock()

	refreshErr := e.store.ReconcileAfterCommit(ctx, e.backend)

	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()

	if refreshErr != nil {
		e.logger.Warn("mirror refresh after submission failed", logging.Error(refreshErr))
	}
	e.publishNotes(result.SummaryNotes())
	return result, nil
}

// Confirm commits the proposed quantity for one pending entry. On success
// the entry is removed and the mirror refreshed; on failure the entry
// stays so the user can retry.
func (e *Engine) Confirm(ctx context.Context, name string) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	return e.confirmOne(ctx, name, true)
}

func (e *Engine) confirmOne(ctx context.Context, name string, refresh bool) error {
	key := fridge.FoldName(name)

	e.mu.Lock()
	entry, ok := e.pending[key]
	generation := e.generation
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending update for %q", name)
	}

	item, err := e.store.FindByName(ctx, entry.Name)
	if err != nil {
		return e.commitFailure(fmt.Errorf("%w: resolve item %q: %w", ErrCommitFailed, entry.Name, err))
	}
	if item == nil || item.ServerID == 0 {
		return e.commitFailure(fmt.Errorf("%w: %q has no server identifier in the mirror; refresh and retry", ErrCommitFailed, entry.Name))
	}

	result, err := e.backend.ConfirmUpdates(ctx, []fridge.QuantityUpdate{
		{ItemID: int(item.ServerID), NewQuantity: entry.NewQuantity},
	})
	if e.resultIsStale(generation, key) {
		e.logger.Debug("discarding stale confirm result", logging.String("name", entry.Name))
		return nil
	}
	if err != nil {
		return e.commitFailure(fmt.Errorf("%w: confirm %q: %w", ErrCommitFailed, entry.Name, err))
	}
	if len(result.Errors) > 0 {
		return e.commitFailure(fmt.Errorf("%w: confirm %q: %s", ErrCommitFailed, entry.Name, joinItemErrors(result.Errors)))
	}

	e.removePending(key)
	if refresh {
		e.refreshAfterResolve(ctx)
		e.publish("✅ Updated: " + entry.Name)
	}
	return nil
}

// RejectAsNew treats one pending entry as a brand-new item. The entry is
// removed regardless of the outcome: the user's decision is final, and a
// failed create is reported rather than retried. The create-item path is
// primary; when it reports a conflict the revert binding is used so the
// prior quantity is restored server-side.
func (e *Engine) RejectAsNew(ctx context.Context, name string) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	key := fridge.FoldName(name)

	e.mu.Lock()
	entry, ok := e.pending[key]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending update for %q", name)
	}

	e.removePending(key)

	_, err := e.backend.CreateItem(ctx, fridge.NewItem{
		Name:      entry.Name,
		Quantity:  entry.NewQuantity,
		ImageData: entry.ImageData,
	})
	var statusErr *fridge.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == 409 {
		err = e.backend.RejectUpdate(ctx, fridge.RejectRequest{
			ItemName:         entry.Name,
			OriginalQuantity: entry.OldQuantity,
			ImageData:        entry.ImageData,
		})
	}

	e.refreshAfterResolve(ctx)
	if err != nil {
		return e.commitFailure(fmt.Errorf("%w: add %q as new item: %w", ErrCommitFailed, entry.Name, err))
	}
	e.publish("✅ Added: " + entry.Name)
	return nil
}

// ConfirmAll sequentially confirms every pending entry. Partial failures
// are collected, not aborting the batch; one refresh runs at the end.
func (e *Engine) ConfirmAll(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	snapshot := e.Pending()
	if len(snapshot) == 0 {
		return nil
	}

	var errs []error
	confirmed := 0
	for _, entry := range snapshot {
		if err := e.confirmOne(ctx, entry.Name, false); err != nil {
			errs = append(errs, err)
			continue
		}
		confirmed++
	}

	e.refreshAfterResolve(ctx)
	if len(errs) > 0 {
		err := errors.Join(errs...)
		e.publish("⚠️ Some issues occurred: " + err.Error())
		return err
	}
	if confirmed > 0 {
		e.publish(fmt.Sprintf("✅ Updated: %d item(s)", confirmed))
	}
	return nil
}

// Cancel discards the whole pending set without committing anything and
// returns the engine to idle. In-flight resolving calls become stale and
// their results are dropped.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAwaitingConfirmation {
		return
	}
	e.pending = map[string]PendingUpdate{}
	e.generation++
	e.state = StateIdle
	e.logger.Info("pending updates cancelled")
}

// AddManually creates an item directly, outside the image flow. A guard
// keyed by folded name prevents duplicate creation from repeated submit
// events. The mirror shows an optimistic row until the post-commit refresh
// supersedes it.
func (e *Engine) AddManually(ctx context.Context, name string, quantity fridge.Quantity, imageData string) (fridge.InventoryItem, error) {
	var created fridge.InventoryItem
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return created, fmt.Errorf("%w: item name required", ErrCommitFailed)
	}

	key := fridge.FoldName(trimmed)
	e.manualMu.Lock()
	if _, busy := e.manualInFlight[key]; busy {
		e.manualMu.Unlock()
		return created, ErrSubmissionInProgress
	}
	e.manualInFlight[key] = struct{}{}
	e.manualMu.Unlock()
	defer func() {
		e.manualMu.Lock()
		delete(e.manualInFlight, key)
		e.manualMu.Unlock()
	}()

	if _, err := e.store.ApplyOptimistic(ctx, mirror.Item{
		Name:      trimmed,
		Quantity:  quantity.String(),
		ImageData: imageData,
	}); err != nil {
		e.logger.Warn("optimistic insert failed", logging.Error(err))
	}

	item, err := e.backend.CreateItem(ctx, fridge.NewItem{
		Name:      trimmed,
		Quantity:  quantity,
		ImageData: imageData,
	})

	// Refresh either way: on success it swaps the optimistic row for the
	// authoritative one, on failure it clears the phantom row.
	if refreshErr := e.store.ReconcileAfterCommit(ctx, e.backend); refreshErr != nil {
		e.logger.Warn("mirror refresh after manual add failed", logging.Error(refreshErr))
	}

	if err != nil {
		return created, e.commitFailure(fmt.Errorf("%w: create %q: %w", ErrCommitFailed, trimmed, err))
	}
	e.publish("✅ Added: " + trimmed)
	return item, nil
}

// resultIsStale reports whether a resolving call's result should be
// dropped because the pending entry is gone or the set was cancelled.
func (e *Engine) resultIsStale(generation uint64, key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if generation != e.generation {
		return true
	}
	_, ok := e.pending[key]
	return !ok
}

func (e *Engine) removePending(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, key)
	if len(e.pending) == 0 && e.state == StateAwaitingConfirmation {
		e.state = StateIdle
	}
}

func (e *Engine) refreshAfterResolve(ctx context.Context) {
	if err := e.store.ReconcileAfterCommit(ctx, e.backend); err != nil {
		e.logger.Warn("mirror refresh after resolve failed", logging.Error(err))
	}
}

func (e *Engine) commitFailure(err error) error {
	e.publish(err.Error())
	return err
}

func (e *Engine) publish(message string) {
	if e.notifier == nil || message == "" {
		return
	}
	e.notifier.Publish(message)
}

func (e *Engine) publishNotes(notes []string) {
	if len(notes) == 0 {
		return
	}
	e.publish(strings.Join(notes, "\n"))
}

func joinItemErrors(errs []fridge.ItemError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
